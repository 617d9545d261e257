package pattern

import "strings"

// Set is an unordered collection of unique pattern strings.
type Set map[string]struct{}

// NewSet builds a set from patterns, collapsing duplicates.
func NewSet(patterns ...string) Set {
	s := make(Set, len(patterns))
	for _, p := range patterns {
		s[p] = struct{}{}
	}
	return s
}

// Normalize folds a pattern onto one line with single spaces, the form the log stores.
func Normalize(p string) string {
	return strings.Join(strings.Fields(p), " ")
}

// Contains reports exact membership.
func (s Set) Contains(p string) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of patterns in the set.
func (s Set) Len() int {
	return len(s)
}

// Fresh normalizes candidates and filters them down to the first occurrence of each
// non-empty pattern that is in none of the exclude sets, preserving order.
func Fresh(candidates []string, exclude ...Set) []string {
	seen := make(Set, len(candidates))
	var out []string
	for _, c := range candidates {
		c = Normalize(c)
		if c == "" || seen.Contains(c) {
			continue
		}
		seen[c] = struct{}{}

		excluded := false
		for _, s := range exclude {
			if s.Contains(c) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, c)
		}
	}
	return out
}
