// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"

	"notecloud/internal/notes/domain/entities"
)

// NotePatch описывает частичное обновление заметки. Nil-поле означает
// "оставить без изменений", что отличается от нулевого значения.
type NotePatch struct {
	Title      *string
	Content    *string
	Tags       *[]string
	IsFavorite *bool
	IsTrashed  *bool
}

// IsEmpty сообщает, что ни одно поле не задано.
func (p *NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil &&
		p.IsFavorite == nil && p.IsTrashed == nil
}

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
// Методы, принимающие id, возвращают nil-заметку или false, если записи нет.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, id string) (*entities.Note, error)
	List(ctx context.Context, trashed bool) ([]*entities.Note, error)
	Update(ctx context.Context, id string, patch *NotePatch) (*entities.Note, error)
	SetTrashed(ctx context.Context, id string, trashed bool) (*entities.Note, error)
	Purge(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]*entities.Note, error)
}
