package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerateSuccess(t *testing.T) {
	var gotAuth string
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-Id", "req_oa_1")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": "summary text"}}},
			"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, 2*time.Second)
	resp, err := c.Generate(context.Background(), GenerateRequest{Model: "gpt-4o-mini", Messages: []Message{{Role: "user", Content: "hi"}}, MaxTokens: 32})
	require.NoError(t, err)
	assert.Equal(t, "summary text", resp.Text())
	assert.Equal(t, 13, resp.Usage.TotalTokens)
	assert.Equal(t, "req_oa_1", resp.RequestID)
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

func TestOpenAIGenerateAuthError(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "invalid api key", "type": "invalid_request_error", "code": "invalid_api_key"}})
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-bad", srv.URL, 2*time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "gpt-4o-mini", Messages: []Message{{Role: "user", Content: "hi"}}})
	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestOpenAIMissingKey(t *testing.T) {
	c := NewOpenAIClient("", "", time.Second)
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, ErrSummaryUnavailable)
}
