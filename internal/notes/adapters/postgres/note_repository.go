// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notecloud/internal/notes/domain/entities"
	"notecloud/internal/notes/ports/repositories"
	"notecloud/pkg/logger"
)

// PgxPoolInterface абстрагирует пул соединений pgx для подмены в тестах.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

const noteColumns = "id, title, content, tags, is_favorite, is_trashed, created_at"

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новую заметку и возвращает ее с идентификатором
// и временем создания, назначенными базой данных.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("title", note.Title))

	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	var created entities.Note
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notes (title, content, tags, is_favorite, is_trashed)
         VALUES ($1, $2, $3, $4, FALSE)
         RETURNING `+noteColumns,
		note.Title, note.Content, tags, note.IsFavorite,
	).Scan(&created.ID, &created.Title, &created.Content, &created.Tags,
		&created.IsFavorite, &created.IsTrashed, &created.CreatedAt)

	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return &created, nil
}

// GetByID получает заметку по ID. Для отсутствующей записи возвращает (nil, nil).
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))

	if !isValidID(id) {
		log.Debug(ctx, "malformed note id", zap.String("noteID", id))
		return nil, nil
	}

	var note entities.Note
	err := r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1`,
		id,
	).Scan(&note.ID, &note.Title, &note.Content, &note.Tags,
		&note.IsFavorite, &note.IsTrashed, &note.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", id))
			return nil, nil
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &note, nil
}

// List получает активные или удаленные в корзину заметки,
// отсортированные по времени создания по убыванию.
func (r *NoteRepository) List(ctx context.Context, trashed bool) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes", zap.Bool("trashed", trashed))

	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE is_trashed = $1 ORDER BY created_at DESC`,
		trashed,
	)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(ctx, rows)
}

// Update применяет частичное обновление одним атомарным UPDATE.
// Незаданные поля не попадают в SET и остаются без изменений.
// Для отсутствующей записи возвращает (nil, nil).
func (r *NoteRepository) Update(ctx context.Context, id string, patch *repositories.NotePatch) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", id))

	if !isValidID(id) {
		return nil, nil
	}

	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	setParts := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		appendSet("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Content != nil {
		appendSet("content", *patch.Content)
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		appendSet("tags", tags)
	}
	if patch.IsFavorite != nil {
		appendSet("is_favorite", *patch.IsFavorite)
	}
	if patch.IsTrashed != nil {
		appendSet("is_trashed", *patch.IsTrashed)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE notes SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setParts, ", "), len(args), noteColumns,
	)

	var note entities.Note
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&note.ID, &note.Title, &note.Content, &note.Tags,
			&note.IsFavorite, &note.IsTrashed, &note.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", id))
			return nil, nil
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return &note, nil
}

// SetTrashed переключает флаг корзины у заметки.
// Для отсутствующей записи возвращает (nil, nil).
func (r *NoteRepository) SetTrashed(ctx context.Context, id string, trashed bool) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.SetTrashed"))
	log.Debug(ctx, "setting trashed flag", zap.String("noteID", id), zap.Bool("trashed", trashed))

	if !isValidID(id) {
		return nil, nil
	}

	var note entities.Note
	err := r.pool.QueryRow(ctx,
		`UPDATE notes SET is_trashed = $1 WHERE id = $2 RETURNING `+noteColumns,
		trashed, id,
	).Scan(&note.ID, &note.Title, &note.Content, &note.Tags,
		&note.IsFavorite, &note.IsTrashed, &note.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Error(ctx, "failed to set trashed flag", zap.Error(err))
		return nil, fmt.Errorf("failed to set trashed flag: %w", err)
	}

	return &note, nil
}

// Purge безвозвратно удаляет заметку. Возвращает false, если записи не было.
func (r *NoteRepository) Purge(ctx context.Context, id string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Purge"))
	log.Debug(ctx, "purging note", zap.String("noteID", id))

	if !isValidID(id) {
		return false, nil
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "failed to purge note", zap.Error(err))
		return false, fmt.Errorf("failed to purge note: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Search ищет активные заметки, заголовок или содержимое которых содержит
// запрос как литеральную подстроку без учета регистра. Спецсимволы LIKE
// экранируются, пользовательский ввод никогда не исполняется как шаблон.
func (r *NoteRepository) Search(ctx context.Context, query string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Search"))
	log.Debug(ctx, "searching notes")

	pattern := "%" + escapeLikePattern(query) + "%"

	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes
         WHERE is_trashed = FALSE AND (title ILIKE $1 OR content ILIKE $1)`,
		pattern,
	)
	if err != nil {
		log.Error(ctx, "failed to search notes", zap.Error(err))
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(ctx, rows)
}

func scanNotes(ctx context.Context, rows pgx.Rows) ([]*entities.Note, error) {
	log := logger.Log(ctx)

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		var note entities.Note
		err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.Tags,
			&note.IsFavorite, &note.IsTrashed, &note.CreatedAt)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// isValidID проверяет, что идентификатор имеет форму UUID.
// Искаженный id трактуется как отсутствующая запись, а не как ошибка хранилища.
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(query string) string {
	return likeEscaper.Replace(query)
}
