// Package sources implements the reference-site extractors that propose
// author-name candidates for a book title. Each extractor is a swappable
// strategy: it runs one site-restricted search, fetches the top matching
// page, and pulls candidates out of the page text with structural
// patterns. Extraction itself is pure; only Lookup touches the network.
package sources

import (
	"context"

	"github.com/jonathan/author-site-resolver/internal/fetch"
)

// Source tags identify which reference site contributed a candidate.
const (
	SourceWikipedia   = "wikipedia"
	SourceOpenLibrary = "openlibrary"
	SourceGoodreads   = "goodreads"
)

// Candidate is a raw author-name proposal tagged with its source.
// Sanitization and validation happen later, in the consensus resolver.
type Candidate struct {
	Name   string
	Source string
}

// Extraction is the outcome of one source lookup.
type Extraction struct {
	Candidates []Candidate
	// PubYear is the first-publication year, when the source exposes one
	// (only the Open Library extractor does).
	PubYear *int
	// BioURL is a biography page usable for life-date extraction, when
	// the source surfaces one (only the Wikipedia extractor does).
	BioURL string
}

// Extractor is one reference-site strategy.
type Extractor interface {
	// Source returns the extractor's source tag.
	Source() string
	// Lookup searches the reference site for the book and extracts
	// candidates. A search outage returns an error; page fetch problems
	// degrade to fewer candidates instead.
	Lookup(ctx context.Context, bookTitle string) (*Extraction, error)
}

// PageFetcher fetches a page for an extractor. Injected so tests can
// supply canned pages.
type PageFetcher func(ctx context.Context, url string) (*fetch.Result, error)

// DefaultPageFetcher fetches with the package fetch defaults and the
// reference-page content selectors.
func DefaultPageFetcher(opts *fetch.Options) PageFetcher {
	return func(ctx context.Context, url string) (*fetch.Result, error) {
		result, err := fetch.URL(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		if text, textErr := fetch.ExtractMainText(result.HTML, fetch.ReferencePageSelectors()); textErr == nil && text != "" {
			result.Text = text
		}
		return result, nil
	}
}
