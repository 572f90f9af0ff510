package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/author-site-resolver/internal/generic"
)

const (
	nameResultsPerQuery = 8
	// enrichTopN bounds how many leading candidates get live HTML
	// signal extraction.
	enrichTopN = 3
)

// ResolveName runs the bare-name flow: pooled multi-phrasing search,
// additive scoring, optional HTML enrichment of the leaders, and a
// confidence threshold. A below-threshold best hit is reported with
// Found false and its score kept for diagnostics.
func (r *Resolver) ResolveName(ctx context.Context, opts NameOptions) (*NameResult, error) {
	opts.AuthorName = strings.TrimSpace(opts.AuthorName)
	opts.BookTitle = strings.TrimSpace(opts.BookTitle)
	if opts.AuthorName == "" {
		return nil, fmt.Errorf("author name is required")
	}
	if opts.MinSiteConfidence <= 0 {
		opts.MinSiteConfidence = DefaultMinSiteConfidence
	}

	result := &NameResult{AuthorName: opts.AuthorName, Source: "web"}

	if !opts.IncludeSearch || !r.SearchEnabled() {
		if opts.Debug {
			result.Diag = map[string]any{"reason": ReasonSearchDisabled}
		}
		return result, nil
	}

	sem := r.newSemaphore()

	queries := nameQueries(opts.AuthorName, opts.BookTitle)
	lists := r.searchGroup(ctx, sem, queries, nameResultsPerQuery)

	pooled := generic.PoolResults(lists...)
	scoreOpts := generic.ScoreOptions{DisableHostFilters: opts.DisableDomainFilters}

	var hits []generic.Hit
	for _, res := range pooled {
		if hit, ok := generic.ScoreResult(res, opts.AuthorName, opts.BookTitle, scoreOpts); ok {
			hits = append(hits, hit)
		}
	}

	if !opts.SkipEnrichment && len(hits) > 0 {
		hits = r.enrichLeaders(ctx, sem, hits, opts.AuthorName, opts.BookTitle)
	}

	best := generic.Best(hits)
	if best == nil {
		return result, nil
	}

	result.Confidence = best.Confidence
	if opts.Debug {
		result.Diag = map[string]any{
			"queries":      queries,
			"pooled_count": len(pooled),
			"scored_count": len(hits),
			"best_reasons": best.Reasons,
		}
	}
	if best.Confidence < opts.MinSiteConfidence {
		return result, nil
	}

	result.Found = true
	result.AuthorURL = best.URL
	result.SiteTitle = best.Title
	result.CanonicalURL = best.URL
	return result, nil
}

// enrichLeaders live-fetches homepage signals for the top-scored hits.
// Ordering among equal scores follows pooled discovery order, so the
// sort must be stable.
func (r *Resolver) enrichLeaders(ctx context.Context, sem *semaphore.Weighted, hits []generic.Hit, authorName, bookTitle string) []generic.Hit {
	byScore := make([]int, len(hits))
	for i := range byScore {
		byScore[i] = i
	}
	sort.SliceStable(byScore, func(a, b int) bool {
		return hits[byScore[a]].Confidence > hits[byScore[b]].Confidence
	})

	enricher := generic.NewEnricher(r.pageFetcher(), sem, r.cfg.Verbose)
	for rank, idx := range byScore {
		if rank >= enrichTopN {
			break
		}
		hits[idx] = enricher.Enrich(ctx, hits[idx], authorName, bookTitle)
	}
	return hits
}

// nameQueries are the fixed phrasings for a bare-name lookup; a known
// book title adds a fourth, stronger query.
func nameQueries(authorName, bookTitle string) []string {
	queries := []string{
		fmt.Sprintf("%q official website", authorName),
		fmt.Sprintf("%s author website", authorName),
		fmt.Sprintf("%s writer official site", authorName),
	}
	if bookTitle != "" {
		queries = append(queries, fmt.Sprintf("%s %q", authorName, bookTitle))
	}
	return queries
}
