package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recon-agent/internal/common"
)

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := newGeminiClient(Config{})
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestGeminiClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Unresolved"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(Config{APIKey: "test-key", Model: "gemini-test", Endpoint: server.URL})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), StatusPrompt("awaiting bank"))
	require.NoError(t, err)
	assert.Equal(t, "Unresolved", reply)
}
