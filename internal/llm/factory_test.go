package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recon-agent/internal/common"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantType any
	}{
		{name: "default is ollama", config: Config{}, wantType: &ollamaClient{}},
		{name: "ollama", config: Config{Provider: "Ollama"}, wantType: &ollamaClient{}},
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}, wantType: &openAIClient{}},
		{name: "anthropic", config: Config{Provider: "anthropic", APIKey: "k"}, wantType: &anthropicClient{}},
		{name: "gemini", config: Config{Provider: "gemini", APIKey: "k"}, wantType: &geminiClient{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, client)
		})
	}
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "carrier-pigeon"})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestOllamaDefaults(t *testing.T) {
	client, err := newOllamaClient(Config{})
	require.NoError(t, err)

	ollama, ok := client.(*ollamaClient)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", ollama.endpoint)
	assert.Equal(t, "llama3.1:8b", ollama.model)
}
