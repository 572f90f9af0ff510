package resolver

import (
	"context"
	"log"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/author-site-resolver/internal/fetch"
	"github.com/jonathan/author-site-resolver/internal/search"
	"github.com/jonathan/author-site-resolver/internal/sources"
)

// Resolver runs the resolution flows against one search provider. A nil
// provider is valid and makes every flow report search as disabled.
type Resolver struct {
	provider  search.Provider
	cfg       Config
	fetchPage sources.PageFetcher
}

// New creates a resolver. Zero-valued config fields fall back to the
// defaults from DefaultConfig.
func New(provider search.Provider, cfg Config) *Resolver {
	defaults := DefaultConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}

	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.FetchTimeout

	return &Resolver{
		provider:  provider,
		cfg:       cfg,
		fetchPage: sources.DefaultPageFetcher(opts),
	}
}

// SearchEnabled reports whether the resolver can reach a search
// provider at all.
func (r *Resolver) SearchEnabled() bool {
	return r.provider != nil
}

// newSemaphore returns the per-request fan-out limiter.
func (r *Resolver) newSemaphore() *semaphore.Weighted {
	return semaphore.NewWeighted(r.cfg.Concurrency)
}

// pageFetcher returns the fetcher used for HTML enrichment, with the
// optional headless-browser retry for script-rendered pages.
func (r *Resolver) pageFetcher() func(ctx context.Context, url string) (*fetch.Result, error) {
	return func(ctx context.Context, url string) (*fetch.Result, error) {
		result, err := r.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		if r.cfg.BrowserFallback && fetch.ShouldUseBrowser(result.Text) {
			html, browserErr := fetch.WithBrowser(ctx, url, fetch.BrowserTimeout, r.cfg.Verbose)
			if browserErr != nil {
				log.Printf("[RESOLVER] Browser fallback failed for %s: %v", url, browserErr)
				return result, nil
			}
			result.HTML = html
			if text, textErr := fetch.ExtractMainText(html, nil); textErr == nil && text != "" {
				result.Text = text
			}
		}
		return result, nil
	}
}

// searchGroup runs one query list concurrently under the request
// semaphore and returns per-query result lists in query order. Failed
// queries log and yield empty lists; the flow continues with whatever
// the remaining queries produced.
func (r *Resolver) searchGroup(ctx context.Context, sem *semaphore.Weighted, queries []string, perQuery int) [][]search.Result {
	lists := make([][]search.Result, len(queries))
	done := make(chan struct{}, len(queries))

	for i, query := range queries {
		go func(i int, query string) {
			defer func() { done <- struct{}{} }()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			results, err := r.provider.Search(ctx, query, perQuery)
			if err != nil {
				log.Printf("[RESOLVER] Search failed for %q: %v", query, err)
				return
			}
			lists[i] = results
		}(i, query)
	}
	for range queries {
		<-done
	}
	return lists
}

// flatten concatenates per-query result lists, preserving query order
// ahead of per-query rank order.
func flatten(lists [][]search.Result) []search.Result {
	var all []search.Result
	for _, list := range lists {
		all = append(all, list...)
	}
	return all
}
