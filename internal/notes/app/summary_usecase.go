package app

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notecloud/internal/notes/ports/services"
	"notecloud/pkg/logger"
)

// Константы конвейера суммаризации.
const (
	uploadFieldName  = "video"
	defaultExtension = ".webm"

	summaryHeader   = "**AI Video Summary**"
	fallbackSummary = "No summary generated."
)

// SummaryUseCase реализует конвейер "загрузка - расшифровка - суммаризация".
type SummaryUseCase struct {
	ai        services.AIService
	uploadDir string
	sem       chan struct{}
}

// NewSummaryUseCase создает новый экземпляр SummaryUseCase.
// maxConcurrent ограничивает число одновременных AI-конвейеров.
func NewSummaryUseCase(ai services.AIService, uploadDir string, maxConcurrent int) *SummaryUseCase {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &SummaryUseCase{
		ai:        ai,
		uploadDir: uploadDir,
		sem:       make(chan struct{}, maxConcurrent),
	}
}

// SummarizeVideo сохраняет загруженный файл во временное расположение,
// расшифровывает его звуковую дорожку и генерирует краткое содержание.
// Временный файл удаляется на всех путях; ошибки удаления только логируются.
func (uc *SummaryUseCase) SummarizeVideo(ctx context.Context, file *multipart.FileHeader) (string, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "SummaryUseCase.SummarizeVideo"))

	if file == nil {
		return "", fmt.Errorf("%w: no video file uploaded", ErrInvalidInput)
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("waiting for summary slot: %w", err)
	}

	select {
	case uc.sem <- struct{}{}:
		defer func() { <-uc.sem }()
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for summary slot: %w", ctx.Err())
	}

	path, err := uc.stageUpload(file)
	if err != nil {
		return "", err
	}
	defer uc.removeUpload(ctx, path)

	log.Info(ctx, "transcribing video", zap.String("path", path))

	transcript, err := uc.ai.Transcribe(ctx, path)
	if err != nil {
		log.Error(ctx, "transcription failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	log.Info(ctx, "transcription successful, summarizing")

	summaryText, err := uc.ai.Summarize(ctx, transcript)
	if err != nil {
		log.Error(ctx, "summarization failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if strings.TrimSpace(summaryText) == "" {
		summaryText = fallbackSummary
	}

	return fmt.Sprintf("\n\n%s:\n%s\n", summaryHeader, summaryText), nil
}

// stageUpload сохраняет загрузку под устойчивым к коллизиям именем
// вида video-<timestamp>-<random><ext>, сохраняя расширение оригинала.
func (uc *SummaryUseCase) stageUpload(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(uc.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = defaultExtension
	}

	name := fmt.Sprintf("%s-%d-%s%s", uploadFieldName, time.Now().UnixMilli(), uuid.NewString(), ext)
	path := filepath.Join(uc.uploadDir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, nil
}

func (uc *SummaryUseCase) removeUpload(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Log(ctx).Error(ctx, "failed to delete temp file",
			zap.String("path", path), zap.Error(err))
	}
}
