package llm

import (
	"context"
	"errors"
	"sync"
)

// scriptedClient replies from a queue of results and records every prompt.
type scriptedClient struct {
	results []scriptedResult
	prompts []string
	mu      sync.Mutex
}

type scriptedResult struct {
	err   error
	reply string
}

func (c *scriptedClient) Complete(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	if len(c.results) == 0 {
		return "", errors.New("no scripted result")
	}
	next := c.results[0]
	if len(c.results) > 1 {
		c.results = c.results[1:]
	}
	return next.reply, next.err
}

func (c *scriptedClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}
