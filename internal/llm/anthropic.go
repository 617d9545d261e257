package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Veraticus/recon-agent/internal/common"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicClient implements Client on the Anthropic messages API.
type anthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 256
	}

	// Retries are driven by the classifier so they honour llm.max_attempts.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(newHTTPClient(cfg.timeout())),
	}
	if endpoint := strings.TrimRight(cfg.Endpoint, "/"); endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint+"/"))
	}

	return &anthropicClient{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete returns the first text block of the reply.
func (c *anthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", anthropicError(err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: no text content in Anthropic response", common.ErrEmptyResponse)
}

func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return transportError(err)
	}
	wrapped := fmt.Errorf("Anthropic API error (status %d): %w", apiErr.StatusCode, err)
	switch {
	case apiErr.StatusCode == 429:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, wrapped)
	case apiErr.StatusCode >= 500:
		return &common.RetryableError{Err: wrapped, Retryable: true}
	default:
		return wrapped
	}
}
