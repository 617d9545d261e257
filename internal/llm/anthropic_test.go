package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recon-agent/internal/common"
)

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	_, err := newAnthropicClient(Config{})
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestAnthropicClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Refund Delay"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 3}
		}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", Model: "claude-test", Endpoint: server.URL})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), PatternPrompt("refund arrived after five days"))
	require.NoError(t, err)
	assert.Equal(t, "Refund Delay", reply)
}

func TestAnthropicClientServerErrorIsRetryable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, common.IsRetryable(err))
	assert.Equal(t, int32(1), calls.Load(), "the SDK must not retry on its own")
}
