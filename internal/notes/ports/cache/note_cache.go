// Package cache определяет интерфейс кэша заметок.
package cache

import (
	"context"

	"notecloud/internal/notes/domain/entities"
)

// NoteCache определяет интерфейс для кэширования заметок по идентификатору.
// Промах кэша возвращает nil-заметку без ошибки.
type NoteCache interface {
	Get(ctx context.Context, id string) (*entities.Note, error)
	Set(ctx context.Context, note *entities.Note) error
	Invalidate(ctx context.Context, id string) error
	Close() error
}
