package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notecloud/internal/notes/app"
	"notecloud/internal/notes/app/dto"
	"notecloud/internal/notes/domain/entities"
	"notecloud/internal/notes/ports/repositories"
)

const noteID = "b9b1f3a0-8f3d-4a56-9d7a-0c3f6f1f1111"

func activeNote() *entities.Note {
	return &entities.Note{
		ID:        noteID,
		Title:     "title",
		Content:   "content",
		Tags:      []string{"go"},
		CreatedAt: time.Now(),
	}
}

func trashedNote() *entities.Note {
	note := activeNote()
	note.IsTrashed = true
	return note
}

func TestNoteUseCase_GetNote(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		noteCache.On("Get", ctx, noteID).Return(activeNote(), nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		note, err := uc.GetNote(ctx, noteID)

		require.NoError(t, err)
		assert.Equal(t, noteID, note.ID)
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("cache miss falls back to the repository and caches", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		noteCache.On("Get", ctx, noteID).Return(nil, nil)
		repo.On("GetByID", ctx, noteID).Return(activeNote(), nil)
		noteCache.On("Set", ctx, mock.AnythingOfType("*entities.Note")).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		note, err := uc.GetNote(ctx, noteID)

		require.NoError(t, err)
		assert.Equal(t, noteID, note.ID)
		noteCache.AssertCalled(t, "Set", ctx, mock.AnythingOfType("*entities.Note"))
	})

	t.Run("missing note yields ErrNotFound", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		noteCache.On("Get", ctx, noteID).Return(nil, nil)
		repo.On("GetByID", ctx, noteID).Return(nil, nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.GetNote(ctx, noteID)

		require.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("cache failure does not break the read", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		noteCache.On("Get", ctx, noteID).Return(nil, errors.New("redis down"))
		repo.On("GetByID", ctx, noteID).Return(activeNote(), nil)
		noteCache.On("Set", ctx, mock.Anything).Return(errors.New("redis down"))

		uc := app.NewNoteUseCase(repo, noteCache)
		note, err := uc.GetNote(ctx, noteID)

		require.NoError(t, err)
		assert.Equal(t, noteID, note.ID)
	})
}

func TestNoteUseCase_CreateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults are applied", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("Create", ctx, mock.MatchedBy(func(n *entities.Note) bool {
			return n.Title == "" && n.Content == "" && n.Tags != nil &&
				len(n.Tags) == 0 && !n.IsFavorite && !n.IsTrashed
		})).Return(activeNote(), nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		note, err := uc.CreateNote(ctx, &dto.CreateNoteRequest{})

		require.NoError(t, err)
		assert.Equal(t, noteID, note.ID)
	})

	t.Run("store rejection maps to ErrStore", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("bad shape"))

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.CreateNote(ctx, &dto.CreateNoteRequest{Title: "x"})

		require.ErrorIs(t, err, app.ErrStore)
	})
}

func TestNoteUseCase_UpdateNote(t *testing.T) {
	ctx := context.Background()
	boolPtr := func(b bool) *bool { return &b }

	t.Run("patch fields are forwarded and cache invalidated", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("Update", ctx, noteID, mock.MatchedBy(func(p *repositories.NotePatch) bool {
			return p.IsFavorite != nil && *p.IsFavorite &&
				p.Title == nil && p.Content == nil && p.Tags == nil && p.IsTrashed == nil
		})).Return(activeNote(), nil)
		noteCache.On("Invalidate", ctx, noteID).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.UpdateNote(ctx, noteID, &dto.UpdateNoteRequest{IsFavorite: boolPtr(true)})

		require.NoError(t, err)
		noteCache.AssertCalled(t, "Invalidate", ctx, noteID)
	})

	t.Run("missing note yields ErrNotFound", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("Update", ctx, noteID, mock.Anything).Return(nil, nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.UpdateNote(ctx, noteID, &dto.UpdateNoteRequest{IsTrashed: boolPtr(false)})

		require.ErrorIs(t, err, app.ErrNotFound)
	})
}

func TestNoteUseCase_DeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("active note is moved to trash", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("GetByID", ctx, noteID).Return(activeNote(), nil)
		repo.On("SetTrashed", ctx, noteID, true).Return(trashedNote(), nil)
		noteCache.On("Invalidate", ctx, noteID).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		result, err := uc.DeleteNote(ctx, noteID)

		require.NoError(t, err)
		assert.Equal(t, app.DeleteTypeSoft, result.Type)
		assert.Equal(t, app.MsgMovedToTrash, result.Message)
		repo.AssertNotCalled(t, "Purge")
	})

	t.Run("trashed note is purged", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("GetByID", ctx, noteID).Return(trashedNote(), nil)
		repo.On("Purge", ctx, noteID).Return(true, nil)
		noteCache.On("Invalidate", ctx, noteID).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		result, err := uc.DeleteNote(ctx, noteID)

		require.NoError(t, err)
		assert.Equal(t, app.DeleteTypeHard, result.Type)
		assert.Equal(t, app.MsgPermanentlyDeleted, result.Message)
		repo.AssertNotCalled(t, "SetTrashed")
	})

	t.Run("missing note yields ErrNotFound", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("GetByID", ctx, noteID).Return(nil, nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.DeleteNote(ctx, noteID)

		require.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("cache is invalidated only after the write lands", func(t *testing.T) {
		// Инвалидация до записи оставляет окно, в котором параллельное чтение
		// снова кэширует заметку с isTrashed=false на весь TTL.
		var calls []string

		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("GetByID", ctx, noteID).Return(activeNote(), nil)
		repo.On("SetTrashed", ctx, noteID, true).Run(func(mock.Arguments) {
			calls = append(calls, "SetTrashed")
		}).Return(trashedNote(), nil)
		noteCache.On("Invalidate", ctx, noteID).Run(func(mock.Arguments) {
			calls = append(calls, "Invalidate")
		}).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.DeleteNote(ctx, noteID)

		require.NoError(t, err)
		assert.Equal(t, []string{"SetTrashed", "Invalidate"}, calls)
	})

	t.Run("purge branch also invalidates after the write", func(t *testing.T) {
		var calls []string

		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("GetByID", ctx, noteID).Return(trashedNote(), nil)
		repo.On("Purge", ctx, noteID).Run(func(mock.Arguments) {
			calls = append(calls, "Purge")
		}).Return(true, nil)
		noteCache.On("Invalidate", ctx, noteID).Run(func(mock.Arguments) {
			calls = append(calls, "Invalidate")
		}).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.DeleteNote(ctx, noteID)

		require.NoError(t, err)
		assert.Equal(t, []string{"Purge", "Invalidate"}, calls)
	})
}

func TestNoteUseCase_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("trash moves note to the trashed set", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("SetTrashed", ctx, noteID, true).Return(trashedNote(), nil)
		noteCache.On("Invalidate", ctx, noteID).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		note, err := uc.TrashNote(ctx, noteID)

		require.NoError(t, err)
		assert.True(t, note.IsTrashed)
	})

	t.Run("restore moves note back to the active set", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("SetTrashed", ctx, noteID, false).Return(activeNote(), nil)
		noteCache.On("Invalidate", ctx, noteID).Return(nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		note, err := uc.RestoreNote(ctx, noteID)

		require.NoError(t, err)
		assert.False(t, note.IsTrashed)
	})

	t.Run("purge of a missing note yields ErrNotFound", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("Purge", ctx, noteID).Return(false, nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		err := uc.PurgeNote(ctx, noteID)

		require.ErrorIs(t, err, app.ErrNotFound)
	})
}

func TestNoteUseCase_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("active and trashed lists use the trashed discriminator", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("List", ctx, false).Return([]*entities.Note{activeNote()}, nil)
		repo.On("List", ctx, true).Return([]*entities.Note{trashedNote()}, nil)

		uc := app.NewNoteUseCase(repo, noteCache)

		active, err := uc.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.False(t, active[0].IsTrashed)

		trashed, err := uc.ListTrashed(ctx)
		require.NoError(t, err)
		require.Len(t, trashed, 1)
		assert.True(t, trashed[0].IsTrashed)
	})

	t.Run("store failure maps to ErrStore", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("List", ctx, false).Return(nil, errors.New("connection refused"))

		uc := app.NewNoteUseCase(repo, noteCache)
		_, err := uc.ListActive(ctx)

		require.ErrorIs(t, err, app.ErrStore)
	})
}

func TestNoteUseCase_SearchNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("matching notes are returned", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("Search", ctx, "hello").Return([]*entities.Note{activeNote()}, nil)

		uc := app.NewNoteUseCase(repo, noteCache)
		notes, err := uc.SearchNotes(ctx, "hello")

		require.NoError(t, err)
		require.Len(t, notes, 1)
	})

	t.Run("blank query yields an empty result without touching the store", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)

		uc := app.NewNoteUseCase(repo, noteCache)

		for _, query := range []string{"", "   ", "\t\n"} {
			notes, err := uc.SearchNotes(ctx, query)

			require.NoError(t, err)
			assert.NotNil(t, notes)
			assert.Empty(t, notes)
		}
		repo.AssertNotCalled(t, "Search")
	})
}
