// Package search defines the external search provider contract consumed
// by both resolution flows, plus the production Google Custom Search
// implementation.
package search

import "context"

// Result is a single web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Provider executes a free-text web search and returns ordered results.
// Queries may use provider syntax such as site: restriction and phrase
// quoting. A failed search returns an error the caller must treat as
// source-unavailable, never as an empty result set.
type Provider interface {
	Search(ctx context.Context, query string, n int) ([]Result, error)
}
