package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Veraticus/recon-agent/internal/common"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiClient implements Client on the Gemini API.
type geminiClient struct {
	client *genai.Client
	config *genai.GenerateContentConfig
	model  string
}

func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newHTTPClient(cfg.timeout()),
	}
	if endpoint := strings.TrimRight(cfg.Endpoint, "/"); endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint + "/"}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	generate := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		generate.Temperature = genai.Ptr(float32(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		generate.MaxOutputTokens = int32(cfg.MaxTokens)
	}

	return &geminiClient{client: client, model: model, config: generate}, nil
}

// Complete returns the concatenated text parts of the first candidate.
func (c *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", statusError("Gemini", apiErr.Code, []byte(apiErr.Message))
		}
		return "", transportError(err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in Gemini response", common.ErrEmptyResponse)
	}
	return resp.Text(), nil
}
