// Package services defines service interfaces for the notes service.
package services

import "context"

// AIService определяет интерфейс внешней AI-системы для конвейера
// суммаризации видео: распознавание звуковой дорожки и генерация текста.
type AIService interface {
	// Transcribe распознает звуковую дорожку файла и возвращает текст.
	Transcribe(ctx context.Context, filePath string) (string, error)
	// Summarize генерирует краткое содержание по расшифровке.
	Summarize(ctx context.Context, transcript string) (string, error)
}
