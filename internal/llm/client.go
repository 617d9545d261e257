package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/recon-agent/internal/common"
)

// Supported providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Client sends a single prompt to a language model and returns its raw text reply.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds provider and classifier settings.
type Config struct {
	Provider    string
	Model       string
	Endpoint    string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
	RateLimit   int
	CacheTTL    time.Duration
	Temperature float64
	MaxTokens   int
}

func (cfg Config) timeout() time.Duration {
	if cfg.Timeout <= 0 {
		return 60 * time.Second
	}
	return cfg.Timeout
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// transportError marks a failed round trip as retryable.
func transportError(err error) error {
	return &common.RetryableError{
		Err:       fmt.Errorf("request failed: %w", err),
		Retryable: true,
	}
}

// statusError turns a non-200 reply into an error, flagging the ones worth retrying.
func statusError(provider string, code int, body []byte) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, code, strings.TrimSpace(string(body)))
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return err
	}
}
