package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notecloud/internal/notes/adapters/groq"
)

func writeMediaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.webm")
	require.NoError(t, os.WriteFile(path, []byte("fake media bytes"), 0o600))
	return path
}

func TestClient_Transcribe(t *testing.T) {
	ctx := context.Background()

	t.Run("returns plain text transcript", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/audio/transcriptions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "whisper-large-v3", r.FormValue("model"))
			assert.Equal(t, "text", r.FormValue("response_format"))

			_, _, err := r.FormFile("file")
			require.NoError(t, err)

			_, _ = w.Write([]byte("  hello transcript \n"))
		}))
		defer server.Close()

		client := groq.NewClient("test-key", server.URL, time.Second)
		transcript, err := client.Transcribe(ctx, writeMediaFile(t))

		require.NoError(t, err)
		assert.Equal(t, "hello transcript", transcript)
	})

	t.Run("decodes api error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "invalid api key", "type": "auth_error"},
			})
		}))
		defer server.Close()

		client := groq.NewClient("bad-key", server.URL, time.Second)
		_, err := client.Transcribe(ctx, writeMediaFile(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("missing api key fails before any request", func(t *testing.T) {
		client := groq.NewClient("", "http://127.0.0.1:0", time.Second)
		_, err := client.Transcribe(ctx, writeMediaFile(t))

		require.ErrorIs(t, err, groq.ErrMissingAPIKey)
	})
}

func TestClient_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns generated content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)

			var payload struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "llama-3.3-70b-versatile", payload.Model)
			require.Len(t, payload.Messages, 2)
			assert.Equal(t, "system", payload.Messages[0].Role)
			assert.Contains(t, payload.Messages[1].Content, "the transcript body")

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "- point one\n- point two"}},
				},
			})
		}))
		defer server.Close()

		client := groq.NewClient("test-key", server.URL, time.Second)
		summary, err := client.Summarize(ctx, "the transcript body")

		require.NoError(t, err)
		assert.Equal(t, "- point one\n- point two", summary)
	})

	t.Run("empty choices yield empty summary without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		client := groq.NewClient("test-key", server.URL, time.Second)
		summary, err := client.Summarize(ctx, "whatever")

		require.NoError(t, err)
		assert.Empty(t, summary)
	})

	t.Run("api error is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("rate limited"))
		}))
		defer server.Close()

		client := groq.NewClient("test-key", server.URL, time.Second)
		_, err := client.Summarize(ctx, "whatever")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}
