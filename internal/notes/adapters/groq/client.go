// Package groq реализует клиент Groq API для распознавания речи и
// генерации текста через OpenAI-совместимые эндпоинты.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"notecloud/internal/notes/ports/services"
	"notecloud/pkg/logger"
)

// Модели и эндпоинты Groq API.
const (
	DefaultAPIURL = "https://api.groq.com/openai/v1"

	transcriptionPath   = "/audio/transcriptions"
	chatCompletionsPath = "/chat/completions"

	transcribeModel = "whisper-large-v3"
	summaryModel    = "llama-3.3-70b-versatile"
)

const summarySystemPrompt = "You are a helpful assistant that summarizes video transcripts " +
	"into concise, bulleted notes using Markdown."

// ErrMissingAPIKey возвращается, когда ключ API не настроен.
// Отсутствие ключа проявляется только в момент вызова, не при старте.
var ErrMissingAPIKey = errors.New("groq api key is not configured")

// Client вызывает Groq API по HTTP.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создает новый клиент Groq.
func NewClient(apiKey, apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		apiKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ services.AIService = (*Client)(nil)

// Transcribe распознает звуковую дорожку файла моделью whisper,
// запрашивая ответ в виде простого текста.
func (c *Client) Transcribe(ctx context.Context, filePath string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "groq.Transcribe"))

	if err := c.ensureAPIKey(); err != nil {
		return "", err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to copy media data: %w", err)
	}
	if err := writer.WriteField("model", transcribeModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("failed to write response_format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+transcriptionPath, body)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	log.Debug(ctx, "sending transcription request", zap.String("model", transcribeModel))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(ctx, "transcription request failed", zap.Error(err))
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.decodeAPIError(resp)
	}

	// response_format=text, тело ответа - сама расшифровка.
	transcript, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %w", err)
	}

	return strings.TrimSpace(string(transcript)), nil
}

// Summarize генерирует краткое содержание расшифровки через chat completions.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "groq.Summarize"))

	if err := c.ensureAPIKey(); err != nil {
		return "", err
	}

	payload := map[string]any{
		"model": summaryModel,
		"messages": []map[string]string{
			{"role": "system", "content": summarySystemPrompt},
			{
				"role": "user",
				"content": "Please provide a concise summary of this video transcript " +
					"about Javascript or the recorded topic:\n\n" + transcript,
			},
		},
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return "", fmt.Errorf("failed to encode summary payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+chatCompletionsPath, buf)
	if err != nil {
		return "", fmt.Errorf("failed to create summary request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug(ctx, "sending summary request", zap.String("model", summaryModel))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(ctx, "summary request failed", zap.Error(err))
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.decodeAPIError(resp)
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", nil
	}

	return response.Choices[0].Message.Content, nil
}

func (c *Client) ensureAPIKey() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Client) decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	body, _ := io.ReadAll(resp.Body)

	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("groq api error: status %d type %s message %s",
			resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}

	return fmt.Errorf("groq api error: status %d body %s", resp.StatusCode, string(body))
}
