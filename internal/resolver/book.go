package resolver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/author-site-resolver/internal/consensus"
	"github.com/jonathan/author-site-resolver/internal/sources"
	"github.com/jonathan/author-site-resolver/internal/viability"
	"github.com/jonathan/author-site-resolver/internal/website"
)

const websiteResultsPerQuery = 8

// ResolveBook runs the full book-title flow: infer the author by
// three-source consensus, gate on viability, then rank website
// candidates. Absence of an author or a site is reported in the result,
// not as an error; errors are reserved for invalid input.
func (r *Resolver) ResolveBook(ctx context.Context, opts BookOptions) (*BookResult, error) {
	opts.BookTitle = strings.TrimSpace(opts.BookTitle)
	if opts.BookTitle == "" {
		return nil, fmt.Errorf("book title is required")
	}

	result := &BookResult{BookTitle: opts.BookTitle, Source: "web"}

	if !opts.IncludeSearch || !r.SearchEnabled() {
		result.ViabilityReason = ReasonSearchDisabled
		return result, nil
	}

	sem := r.newSemaphore()

	extractions := r.extractAll(ctx, sem, opts.BookTitle)

	var candidates []sources.Candidate
	var pubYear *int
	var bioURL string
	for _, ext := range extractions {
		if ext == nil {
			continue
		}
		candidates = append(candidates, ext.Candidates...)
		if pubYear == nil && ext.PubYear != nil {
			pubYear = ext.PubYear
		}
		if bioURL == "" && ext.BioURL != "" {
			bioURL = ext.BioURL
		}
	}
	result.PubYear = pubYear

	pick := consensus.Resolve(candidates, opts.BookTitle)
	if pick == nil {
		result.ViabilityReason = ReasonNoConfidentAuthor
		if opts.Debug {
			result.Diag = map[string]any{
				"raw_candidates": len(candidates),
			}
		}
		return result, nil
	}
	result.InferredAuthor = pick.Name
	result.AuthorConfidence = pick.Confidence
	result.AuthorSources = pick.Sources

	lifeDates := r.lookupLifeDates(ctx, pick.Name, bioURL)
	result.LifeDates = lifeDates

	verdict := viability.Evaluate(lifeDates.BirthYear, lifeDates.DeathYear, pubYear, opts.AllowEstateSites, time.Now())
	result.AuthorViable = verdict.Viable
	result.ViabilityReason = verdict.Reason
	if !verdict.Viable {
		if r.cfg.Verbose {
			log.Printf("[RESOLVER] Author %q not viable: %s", pick.Name, verdict.Reason)
		}
		return result, nil
	}

	queries := websiteQueries(pick.Name, opts.BookTitle)
	lists := r.searchGroup(ctx, sem, queries, websiteResultsPerQuery)

	filtered := website.FilterCandidates(flatten(lists), website.FilterOptions{
		ExcludePublishers: opts.ExcludePublisherSites,
		StrictHosts:       r.cfg.StrictHosts,
	})

	allowPublisher := !opts.ExcludePublisherSites
	site := website.Rank(filtered, pick.Name, opts.BookTitle, allowPublisher, r.cfg.StrictHosts)
	if site != nil {
		result.AuthorURL = site.URL
		result.SiteTitle = site.SiteTitle
		result.CanonicalURL = site.URL
		result.Confidence = site.Confidence
	}

	if opts.Debug {
		result.Diag = map[string]any{
			"raw_candidates":  len(candidates),
			"website_queries": queries,
			"site_candidates": len(filtered),
		}
		if site != nil {
			result.Diag["site_reason"] = site.Reason
		}
	}
	return result, nil
}

// extractAll runs every reference-site extractor concurrently under the
// request semaphore. A failed extractor logs and contributes nothing;
// the remaining sources still feed consensus.
func (r *Resolver) extractAll(ctx context.Context, sem *semaphore.Weighted, bookTitle string) []*sources.Extraction {
	extractors := []sources.Extractor{
		sources.NewWikipediaExtractor(r.provider, r.fetchPage),
		sources.NewOpenLibraryExtractor(r.provider, r.fetchPage),
		sources.NewGoodreadsExtractor(r.provider, r.fetchPage),
	}

	extractions := make([]*sources.Extraction, len(extractors))
	var wg sync.WaitGroup
	for i, ex := range extractors {
		wg.Add(1)
		go func(i int, ex sources.Extractor) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			extraction, err := ex.Lookup(ctx, bookTitle)
			if err != nil {
				log.Printf("[RESOLVER] %s lookup failed: %v", ex.Source(), err)
				return
			}
			extractions[i] = extraction
		}(i, ex)
	}
	wg.Wait()
	return extractions
}

// lookupLifeDates never fails the flow; a search outage just leaves the
// dates unknown and viability falls through to the publication year.
func (r *Resolver) lookupLifeDates(ctx context.Context, authorName, bioURL string) *sources.LifeDates {
	extractor := sources.NewLifeDateExtractor(r.provider, r.fetchPage)
	dates, err := extractor.Lookup(ctx, authorName, bioURL)
	if err != nil {
		log.Printf("[RESOLVER] Life-date lookup failed for %q: %v", authorName, err)
		return &sources.LifeDates{}
	}
	return dates
}

// websiteQueries are the three fixed phrasings used to surface an
// author's own site.
func websiteQueries(authorName, bookTitle string) []string {
	return []string{
		fmt.Sprintf("%s official website", authorName),
		fmt.Sprintf("%s author website", authorName),
		fmt.Sprintf("%s %q", authorName, bookTitle),
	}
}
