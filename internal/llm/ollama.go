package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOllamaModel    = "llama3.1:8b"
)

// ollamaClient talks to a local Ollama server through its chat endpoint.
type ollamaClient struct {
	httpClient *http.Client
	options    map[string]any
	endpoint   string
	model      string
}

func newOllamaClient(cfg Config) (Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}

	options := map[string]any{}
	if cfg.Temperature > 0 {
		options["temperature"] = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		options["num_predict"] = cfg.MaxTokens
	}

	return &ollamaClient{
		endpoint:   endpoint,
		model:      model,
		options:    options,
		httpClient: newHTTPClient(cfg.timeout()),
	}, nil
}

// Complete sends the prompt as a single user message with streaming disabled.
func (c *ollamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	request := ollamaChatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}
	if len(c.options) > 0 {
		request.Options = c.options
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError("Ollama", resp.StatusCode, respBody)
	}

	var response ollamaChatResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Error != "" {
		return "", fmt.Errorf("ollama error: %s", response.Error)
	}

	return response.Message.Content, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Options  map[string]any `json:"options,omitempty"`
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
}

type ollamaChatResponse struct {
	Model   string      `json:"model"`
	Error   string      `json:"error,omitempty"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}
