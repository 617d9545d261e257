package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/resolution"
)

var _ resolution.Classifier = (*Classifier)(nil)

// Classifier answers the four case questions by prompting a Client.
type Classifier struct {
	client    Client
	cache     *responseCache
	limiter   *rateLimiter
	logger    *slog.Logger
	retryOpts common.RetryOptions
}

// NewClassifier wraps client with the retry, rate limit and cache settings from cfg.
func NewClassifier(client Client, cfg Config, logger *slog.Logger) *Classifier {
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &Classifier{
		client:  client,
		cache:   newResponseCache(cfg.CacheTTL),
		limiter: newRateLimiter(cfg.RateLimit),
		logger:  common.LoggerOrDefault(logger),
		retryOpts: common.RetryOptions{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: retryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// ClassifyStatus asks whether the comments describe a resolved issue.
func (c *Classifier) ClassifyStatus(ctx context.Context, comments string) (string, error) {
	return c.complete(ctx, "classify-status", StatusPrompt(comments))
}

// Summarize produces a short summary of an open issue.
func (c *Classifier) Summarize(ctx context.Context, comments string) (string, error) {
	return c.complete(ctx, "summarize", SummaryPrompt(comments))
}

// SuggestNextSteps proposes follow-up actions for an open issue.
func (c *Classifier) SuggestNextSteps(ctx context.Context, comments string) (string, error) {
	return c.complete(ctx, "suggest-next-steps", NextStepsPrompt(comments))
}

// IdentifyPattern names the resolution pattern of a closed case.
func (c *Classifier) IdentifyPattern(ctx context.Context, comments string) (string, error) {
	return c.complete(ctx, "identify-pattern", PatternPrompt(comments))
}

// Close releases the background goroutines of the cache and rate limiter.
func (c *Classifier) Close() {
	c.cache.Close()
	c.limiter.Close()
}

func (c *Classifier) complete(ctx context.Context, capability, prompt string) (string, error) {
	if reply, ok := c.cache.get(prompt); ok {
		c.logger.Debug("cache hit", "capability", capability)
		return reply, nil
	}

	var reply string
	err := common.WithRetry(ctx, func() error {
		if err := c.limiter.wait(ctx); err != nil {
			return err
		}
		out, err := c.client.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		reply = strings.TrimSpace(out)
		return nil
	}, c.retryOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", common.ErrClassificationFailed, capability, err)
	}

	c.cache.set(prompt, reply)
	c.logger.Debug("model replied", "capability", capability, "reply_length", len(reply))
	return reply, nil
}
