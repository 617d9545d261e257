// Package pattern keeps the cumulative log of known resolution patterns.
package pattern

import "context"

// Store persists the set of resolution patterns seen across runs.
type Store interface {
	// Load returns the known patterns. A missing, empty, or unreadable log yields an empty set.
	Load(ctx context.Context) (Set, error)
	// Commit appends the candidates that are neither already known nor already appended by
	// this store, in discovery order, and returns what was appended.
	Commit(ctx context.Context, known Set, candidates []string) ([]string, error)
}
