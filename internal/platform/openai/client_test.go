package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, url string, retries int) Client {
	t.Helper()
	c, err := NewClient(logger.NewNop(), Config{APIKey: "sk-test", BaseURL: url, Model: "test-model", MaxRetries: retries, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func chatBody(content string) string {
	raw, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"content": content}}},
	})
	return string(raw)
}

func TestGenerateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "json_schema", req.ResponseFormat["type"])
		require.Len(t, req.Messages, 2)

		_, _ = w.Write([]byte(chatBody("```json\n{\"question\":\"Q?\"}\n```")))
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL, 0).GenerateJSON(context.Background(), "sys", "user", "mcq", map[string]any{"type": "object"})
	require.NoError(t, err)
	assert.Equal(t, "Q?", out["question"])
}

func TestGenerateJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody("not json at all")))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 0).GenerateJSON(context.Background(), "sys", "user", "mcq", map[string]any{})
	require.ErrorIs(t, err, ErrMalformedOutput)
}

func TestGenerateJSONRetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(chatBody(`{"ok":true}`)))
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL, 1).GenerateJSON(context.Background(), "sys", "user", "mcq", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateJSONNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 0).GenerateJSON(context.Background(), "sys", "user", "mcq", map[string]any{})
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(logger.NewNop(), Config{})
	require.Error(t, err)
}
