package http

import (
	"github.com/gofiber/fiber/v3"

	"notecloud/internal/notes/adapters/http/middleware"
	"notecloud/internal/notes/app"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(fiberApp *fiber.App, clientURL string, notes *app.NoteUseCase, summaries *app.SummaryUseCase) {
	handler := NewHandler(notes, summaries)

	// Middleware для всех запросов.
	fiberApp.Use(middleware.NewRequestIDMiddleware())
	fiberApp.Use(middleware.NewLoggerMiddleware())
	fiberApp.Use(middleware.NewRecoveryMiddleware())
	fiberApp.Use(middleware.NewCORSMiddleware(clientURL))

	fiberApp.Get("/", func(c fiber.Ctx) error {
		return c.SendString("NoteCloud API is running")
	})

	// Маршруты заметок.
	notesRoutes := fiberApp.Group("/api/notes")
	notesRoutes.Get("/", handler.ListActive)
	notesRoutes.Get("/trash", handler.ListTrashed)
	notesRoutes.Post("/", handler.CreateNote)
	notesRoutes.Post("/search", handler.SearchNotes)
	notesRoutes.Post("/summarize-video", handler.SummarizeVideo)
	notesRoutes.Get("/:id", handler.GetNote)
	notesRoutes.Put("/:id", handler.UpdateNote)
	notesRoutes.Delete("/:id", handler.DeleteNote)

	// Явные операции жизненного цикла вместо перегруженного DELETE.
	notesRoutes.Post("/:id/trash", handler.TrashNote)
	notesRoutes.Post("/:id/restore", handler.RestoreNote)
	notesRoutes.Post("/:id/purge", handler.PurgeNote)

	// Обработчик для несуществующих маршрутов.
	fiberApp.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
