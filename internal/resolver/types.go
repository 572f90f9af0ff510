// Package resolver orchestrates the two resolution flows: book title to
// author to website, and bare author name to website. All state is
// request-scoped; given identical upstream responses the flows are
// deterministic and idempotent.
package resolver

import (
	"time"

	"github.com/jonathan/author-site-resolver/internal/sources"
)

// ReasonSearchDisabled marks responses produced without a configured
// search provider or with search explicitly turned off.
const ReasonSearchDisabled = "search_disabled"

// ReasonNoConfidentAuthor marks book-flow responses where no validated
// author candidate survived consensus.
const ReasonNoConfidentAuthor = "no_confident_author"

// Config holds the resolver's operational knobs.
type Config struct {
	// Concurrency is the shared in-flight limit for a request's
	// network fan-out.
	Concurrency int64
	// FetchTimeout bounds each individual page fetch.
	FetchTimeout time.Duration
	// StrictHosts switches domain rosters to suffix-anchored matching.
	StrictHosts bool
	// BrowserFallback renders thin pages in a headless browser during
	// HTML enrichment.
	BrowserFallback bool
	Verbose         bool
}

// DefaultConfig returns the standard resolver configuration.
func DefaultConfig() Config {
	return Config{
		Concurrency:  4,
		FetchTimeout: 6 * time.Second,
	}
}

// BookOptions is the book-flow request.
type BookOptions struct {
	BookTitle             string
	IncludeSearch         bool
	AllowEstateSites      bool
	ExcludePublisherSites bool
	Debug                 bool
}

// BookResult is the book-flow outcome. Optional string fields are empty
// when absent; the server layer maps them to omitted JSON fields.
type BookResult struct {
	BookTitle        string
	InferredAuthor   string
	AuthorConfidence float64
	AuthorSources    []string
	PubYear          *int
	LifeDates        *sources.LifeDates
	AuthorViable     bool
	ViabilityReason  string
	AuthorURL        string
	SiteTitle        string
	CanonicalURL     string
	Confidence       float64
	Source           string
	Diag             map[string]any
}

// NameOptions is the name-flow request.
type NameOptions struct {
	AuthorName           string
	BookTitle            string
	MinSiteConfidence    float64
	DisableDomainFilters bool
	IncludeSearch        bool
	SkipEnrichment       bool
	Debug                bool
}

// DefaultMinSiteConfidence is the acceptance threshold for the name
// flow when the caller does not supply one.
const DefaultMinSiteConfidence = 0.55

// NameResult is the name-flow outcome. When no candidate clears the
// threshold, Found is false and Confidence carries the best score
// observed, for diagnostics.
type NameResult struct {
	AuthorName   string
	Found        bool
	AuthorURL    string
	SiteTitle    string
	CanonicalURL string
	Confidence   float64
	Source       string
	Diag         map[string]any
}
