package llm

import (
	"sync"
	"time"
)

// cacheEntry is one cached completion.
type cacheEntry struct {
	expiry time.Time
	reply  string
}

// responseCache keeps completions keyed by prompt so identical comments are answered once.
type responseCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	now     func() time.Time
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// newResponseCache returns nil when ttl is not positive, which disables caching.
func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		return nil
	}

	cache := &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go cache.cleanup(sweepInterval(ttl))
	return cache
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}

func (c *responseCache) get(prompt string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[prompt]
	if !ok || c.now().After(entry.expiry) {
		return "", false
	}
	return entry.reply, true
}

func (c *responseCache) set(prompt, reply string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[prompt] = cacheEntry{reply: reply, expiry: c.now().Add(c.ttl)}
}

func (c *responseCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *responseCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, key)
		}
	}
}

func (c *responseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *responseCache) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stopCh) })
}
