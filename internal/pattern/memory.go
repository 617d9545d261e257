package pattern

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and dry runs.
type MemoryStore struct {
	log     []string
	commits int
	mu      sync.Mutex
}

// NewMemoryStore creates a store whose log starts with the given entries.
func NewMemoryStore(initial ...string) *MemoryStore {
	return &MemoryStore{log: append([]string(nil), initial...)}
}

// Load returns the current log as a set.
func (m *MemoryStore) Load(_ context.Context) (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return NewSet(m.log...), nil
}

// Commit appends fresh candidates. Entries appended by earlier commits count as known.
func (m *MemoryStore) Commit(_ context.Context, known Set, candidates []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := Fresh(candidates, known, NewSet(m.log...))
	if len(fresh) == 0 {
		return nil, nil
	}
	m.log = append(m.log, fresh...)
	m.commits++
	return fresh, nil
}

// Entries returns a copy of the log in append order.
func (m *MemoryStore) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.log...)
}

// Commits returns how many commits actually wrote entries.
func (m *MemoryStore) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}
