package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxResultsPerCall is the Custom Search API per-request cap.
const maxResultsPerCall = 10

// GoogleProvider implements Provider against the Google Custom Search
// JSON API.
type GoogleProvider struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleProvider creates a search provider backed by a Custom Search
// engine identified by cx.
func NewGoogleProvider(ctx context.Context, apiKey, cx string) (*GoogleProvider, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleProvider{
		svc: svc,
		cx:  cx,
	}, nil
}

// Search runs a query and returns up to n results in provider order.
func (p *GoogleProvider) Search(ctx context.Context, query string, n int) ([]Result, error) {
	if n <= 0 || n > maxResultsPerCall {
		n = maxResultsPerCall
	}

	resp, err := p.svc.Cse.List().Cx(p.cx).Q(query).Num(int64(n)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed for %q: %w", query, err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}

	return results, nil
}
