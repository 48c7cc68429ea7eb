// Package http содержит HTTP-обработчики для управления заметками.
package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notecloud/internal/notes/adapters/http/middleware"
	"notecloud/internal/notes/app"
	"notecloud/internal/notes/app/dto"
	"notecloud/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerListActive  = "handling list active notes request"
	LogHandlerListTrashed = "handling list trashed notes request"
	LogHandlerCreateNote  = "handling create note request"
	LogHandlerGetNote     = "handling get note request"
	LogHandlerUpdateNote  = "handling update note request"
	LogHandlerDeleteNote  = "handling delete note request"
	LogHandlerTrashNote   = "handling trash note request"
	LogHandlerRestoreNote = "handling restore note request"
	LogHandlerPurgeNote   = "handling purge note request"
	LogHandlerSearchNotes = "handling search notes request"
	LogHandlerSummarize   = "handling summarize video request"

	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgNoteNotFound       = "Note not found"
	ErrMsgNoVideoFile        = "No video file uploaded"
	ErrMsgSummarizeFailed    = "Failed to process video with Groq AI"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notes     *app.NoteUseCase
	summaries *app.SummaryUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notes *app.NoteUseCase, summaries *app.SummaryUseCase) *Handler {
	return &Handler{
		notes:     notes,
		summaries: summaries,
	}
}

// ListActive обрабатывает запрос на получение всех активных заметок.
func (h *Handler) ListActive(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListActive"))
	log.Debug(reqCtx, LogHandlerListActive)

	notes, err := h.notes.ListActive(reqCtx)
	if err != nil {
		log.Error(reqCtx, "failed to list active notes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListTrashed обрабатывает запрос на получение заметок из корзины.
func (h *Handler) ListTrashed(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListTrashed"))
	log.Debug(reqCtx, LogHandlerListTrashed)

	notes, err := h.notes.ListTrashed(reqCtx)
	if err != nil {
		log.Error(reqCtx, "failed to list trashed notes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(reqCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, err := h.notes.CreateNote(reqCtx, &req)
	if err != nil {
		log.Error(reqCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
// Отсутствующий идентификатор - всегда 404, не пустой успешный ответ.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(reqCtx, LogHandlerGetNote)

	noteID := ctx.Params("id")
	if noteID == "" {
		log.Error(reqCtx, ErrMsgInvalidNoteID)
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	note, err := h.notes.GetNote(reqCtx, noteID)
	if err != nil {
		log.Error(reqCtx, "failed to get note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на частичное обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(reqCtx, LogHandlerUpdateNote)

	noteID := ctx.Params("id")
	if noteID == "" {
		log.Error(reqCtx, ErrMsgInvalidNoteID)
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	note, err := h.notes.UpdateNote(reqCtx, noteID, &req)
	if err != nil {
		log.Error(reqCtx, "failed to update note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает двухфазное удаление: первое перемещает заметку
// в корзину, повторное удаляет безвозвратно.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(reqCtx, LogHandlerDeleteNote)

	noteID := ctx.Params("id")
	if noteID == "" {
		log.Error(reqCtx, ErrMsgInvalidNoteID)
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	result, err := h.notes.DeleteNote(reqCtx, noteID)
	if err != nil {
		log.Error(reqCtx, "failed to delete note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(result); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// TrashNote обрабатывает явное перемещение заметки в корзину.
func (h *Handler) TrashNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.TrashNote"))
	log.Debug(reqCtx, LogHandlerTrashNote)

	note, err := h.notes.TrashNote(reqCtx, ctx.Params("id"))
	if err != nil {
		log.Error(reqCtx, "failed to trash note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// RestoreNote обрабатывает явное восстановление заметки из корзины.
func (h *Handler) RestoreNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.RestoreNote"))
	log.Debug(reqCtx, LogHandlerRestoreNote)

	note, err := h.notes.RestoreNote(reqCtx, ctx.Params("id"))
	if err != nil {
		log.Error(reqCtx, "failed to restore note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// PurgeNote обрабатывает явное безвозвратное удаление заметки.
func (h *Handler) PurgeNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.PurgeNote"))
	log.Debug(reqCtx, LogHandlerPurgeNote)

	if err := h.notes.PurgeNote(reqCtx, ctx.Params("id")); err != nil {
		log.Error(reqCtx, "failed to purge note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.DeleteResult{
		Message: app.MsgPermanentlyDeleted,
		Type:    app.DeleteTypeHard,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// SearchNotes обрабатывает поиск по активным заметкам.
func (h *Handler) SearchNotes(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.SearchNotes"))
	log.Debug(reqCtx, LogHandlerSearchNotes)

	var req dto.SearchRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Error(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	notes, err := h.notes.SearchNotes(reqCtx, req.Query)
	if err != nil {
		log.Error(reqCtx, "failed to search notes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// SummarizeVideo обрабатывает загрузку видео и возвращает его краткое
// содержание, сгенерированное AI-конвейером.
func (h *Handler) SummarizeVideo(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.SummarizeVideo"))
	log.Debug(reqCtx, LogHandlerSummarize)

	file, err := ctx.FormFile("video")
	if err != nil {
		log.Error(reqCtx, ErrMsgNoVideoFile, zap.Error(err))
		return badRequest(ctx, ErrMsgNoVideoFile)
	}

	summary, err := h.summaries.SummarizeVideo(reqCtx, file)
	if err != nil {
		log.Error(reqCtx, "failed to summarize video", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.SummaryResponse{Summary: summary}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func badRequest(ctx fiber.Ctx, msg string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	}); err != nil {
		return fmt.Errorf("failed to send bad request response: %w", err)
	}
	return nil
}

// handleError сопоставляет ошибки бизнес-логики с HTTP-статусами:
// не найдено - 404, ошибка ввода или хранилища - 400,
// отказ внешней AI-системы - 500 с деталями, прочее - 500.
func handleError(ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, app.ErrNotFound):
		if err := ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrMsgNoteNotFound,
		}); err != nil {
			return fmt.Errorf("error sending 404 response: %w", err)
		}
		return nil

	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrStore):
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error: " + err.Error(),
		}); err != nil {
			return fmt.Errorf("error sending 400 response: %w", err)
		}
		return nil

	case errors.Is(err, app.ErrUpstream):
		if err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   ErrMsgSummarizeFailed,
			"details": err.Error(),
		}); err != nil {
			return fmt.Errorf("error sending 500 response: %w", err)
		}
		return nil
	}

	if err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	}); err != nil {
		return fmt.Errorf("error sending 500 response: %w", err)
	}
	return nil
}
