// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"notecloud/internal/notes/app/dto"
	"notecloud/internal/notes/domain/entities"
	"notecloud/internal/notes/ports/cache"
	"notecloud/internal/notes/ports/repositories"
	"notecloud/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound     = errors.New("note not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrStore        = errors.New("store operation failed")
	ErrUpstream     = errors.New("upstream ai call failed")
)

// Типы результата удаления.
const (
	DeleteTypeSoft = "soft"
	DeleteTypeHard = "hard"
)

// Сообщения результата удаления.
const (
	MsgMovedToTrash       = "Note moved to trash"
	MsgPermanentlyDeleted = "Note permanently deleted"
)

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	noteRepo  repositories.NoteRepository
	noteCache cache.NoteCache
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository, noteCache cache.NoteCache) *NoteUseCase {
	return &NoteUseCase{
		noteRepo:  noteRepo,
		noteCache: noteCache,
	}
}

// ListActive возвращает все активные заметки, новые первыми.
func (uc *NoteUseCase) ListActive(ctx context.Context) ([]*entities.Note, error) {
	notes, err := uc.noteRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return notes, nil
}

// ListTrashed возвращает все заметки в корзине, новые первыми.
func (uc *NoteUseCase) ListTrashed(ctx context.Context) ([]*entities.Note, error) {
	notes, err := uc.noteRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return notes, nil
}

// CreateNote создает новую активную заметку с значениями по умолчанию
// для незаданных полей.
func (uc *NoteUseCase) CreateNote(ctx context.Context, req *dto.CreateNoteRequest) (*entities.Note, error) {
	note := entities.NewNote(req.Title, req.Content, req.Tags, req.IsFavorite)

	created, err := uc.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	return created, nil
}

// GetNote возвращает заметку по ID, читая сквозь кэш.
func (uc *NoteUseCase) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	if cached, err := uc.noteCache.Get(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	uc.cacheNote(ctx, note)
	return note, nil
}

// UpdateNote применяет частичное обновление: заданные поля перезаписываются,
// незаданные остаются без изменений. Обновление атомарно на уровне хранилища.
// Явный isTrashed=false служит путем восстановления из корзины.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, id string, req *dto.UpdateNoteRequest) (*entities.Note, error) {
	patch := &repositories.NotePatch{
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		IsFavorite: req.IsFavorite,
		IsTrashed:  req.IsTrashed,
	}

	note, err := uc.noteRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	uc.invalidateNote(ctx, id)
	return note, nil
}

// DeleteNote реализует двухфазное удаление: активная заметка перемещается
// в корзину, заметка из корзины удаляется безвозвратно.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, id string) (*dto.DeleteResult, error) {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	// Инвалидация после записи: между инвалидацией и записью параллельный
	// GetNote успел бы снова закэшировать состояние до удаления.
	if !note.IsTrashed {
		if _, err := uc.noteRepo.SetTrashed(ctx, id, true); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStore, err)
		}
		uc.invalidateNote(ctx, id)
		return &dto.DeleteResult{Message: MsgMovedToTrash, Type: DeleteTypeSoft}, nil
	}

	if _, err := uc.noteRepo.Purge(ctx, id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	uc.invalidateNote(ctx, id)
	return &dto.DeleteResult{Message: MsgPermanentlyDeleted, Type: DeleteTypeHard}, nil
}

// TrashNote перемещает заметку в корзину. Повторное перемещение - no-op.
func (uc *NoteUseCase) TrashNote(ctx context.Context, id string) (*entities.Note, error) {
	return uc.setTrashed(ctx, id, true)
}

// RestoreNote возвращает заметку из корзины. Восстановление активной - no-op.
func (uc *NoteUseCase) RestoreNote(ctx context.Context, id string) (*entities.Note, error) {
	return uc.setTrashed(ctx, id, false)
}

// PurgeNote безвозвратно удаляет заметку независимо от ее состояния.
func (uc *NoteUseCase) PurgeNote(ctx context.Context, id string) error {
	found, err := uc.noteRepo.Purge(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if !found {
		return ErrNotFound
	}

	uc.invalidateNote(ctx, id)
	return nil
}

// SearchNotes ищет активные заметки по литеральной подстроке в заголовке
// или содержимом без учета регистра. Пустой запрос дает пустой результат,
// не все активные заметки.
func (uc *NoteUseCase) SearchNotes(ctx context.Context, query string) ([]*entities.Note, error) {
	if strings.TrimSpace(query) == "" {
		return []*entities.Note{}, nil
	}

	notes, err := uc.noteRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return notes, nil
}

func (uc *NoteUseCase) setTrashed(ctx context.Context, id string, trashed bool) (*entities.Note, error) {
	note, err := uc.noteRepo.SetTrashed(ctx, id, trashed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	uc.invalidateNote(ctx, id)
	return note, nil
}

// Кэш вспомогательный: его отказы логируются адаптером и не влияют на ответ.
func (uc *NoteUseCase) cacheNote(ctx context.Context, note *entities.Note) {
	if err := uc.noteCache.Set(ctx, note); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to cache note", zap.String("noteID", note.ID), zap.Error(err))
	}
}

func (uc *NoteUseCase) invalidateNote(ctx context.Context, id string) {
	if err := uc.noteCache.Invalidate(ctx, id); err != nil {
		logger.Log(ctx).Warn(ctx, "failed to invalidate cached note", zap.String("noteID", id), zap.Error(err))
	}
}
