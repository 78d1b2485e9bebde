// Package suggest finds candidate command names for input that matched no
// workflow exactly: literal prefix matches first, spelling corrections second.
package suggest

import (
	"sort"
	"strings"
)

// Corrector proposes names similar to typed. It may return zero, one or many
// names; callers treat the heuristic as opaque.
type Corrector interface {
	Correct(typed string, names []string) []string
}

// CorrectorFunc adapts a function to Corrector.
type CorrectorFunc func(typed string, names []string) []string

// Correct calls f.
func (f CorrectorFunc) Correct(typed string, names []string) []string {
	return f(typed, names)
}

// ByPrefix returns the names that start with typed, sorted and deduplicated.
// An empty typed string matches nothing.
func ByPrefix(typed string, names []string) []string {
	if typed == "" {
		return nil
	}

	seen := make(map[string]bool)
	var matches []string
	for _, name := range names {
		if strings.HasPrefix(name, typed) && !seen[name] {
			seen[name] = true
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// BySpelling returns c's corrections for typed, sorted and deduplicated.
// A nil corrector yields no candidates.
func BySpelling(c Corrector, typed string, names []string) []string {
	if c == nil || typed == "" {
		return nil
	}

	seen := make(map[string]bool)
	var matches []string
	for _, name := range c.Correct(typed, names) {
		if !seen[name] {
			seen[name] = true
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}
