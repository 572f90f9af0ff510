package sources

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jonathan/author-site-resolver/internal/search"
	"github.com/jonathan/author-site-resolver/internal/textutil"
)

// goodreadsBylinePatterns match the community catalog's "Title by
// Author | Goodreads" headings and review snippets.
var goodreadsBylinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\bby)\s+(` + namePattern + `)\s*(?:\||—|-|·|$)`),
	regexp.MustCompile(`(?i:\bby)\s+(` + namePattern + `)`),
	regexp.MustCompile(`(?i:book by)\s+(` + namePattern + `)`),
}

// GoodreadsExtractor reads the community catalog's byline for a book.
type GoodreadsExtractor struct {
	provider  search.Provider
	fetchPage PageFetcher
}

// NewGoodreadsExtractor creates the Goodreads source strategy.
func NewGoodreadsExtractor(provider search.Provider, fetchPage PageFetcher) *GoodreadsExtractor {
	return &GoodreadsExtractor{provider: provider, fetchPage: fetchPage}
}

// Source returns the extractor's source tag.
func (e *GoodreadsExtractor) Source() string { return SourceGoodreads }

// Lookup searches Goodreads for the book and extracts author candidates.
func (e *GoodreadsExtractor) Lookup(ctx context.Context, bookTitle string) (*Extraction, error) {
	query := fmt.Sprintf(`site:goodreads.com %q`, bookTitle)
	results, err := e.provider.Search(ctx, query, 5)
	if err != nil {
		return nil, fmt.Errorf("goodreads lookup: %w", err)
	}

	extraction := &Extraction{}
	titleTokens := textutil.TokenSet(bookTitle)

	var topPageURL string
	for _, res := range results {
		for _, name := range ExtractGoodreadsAuthors(res.Title + ". " + res.Snippet) {
			extraction.Candidates = append(extraction.Candidates, Candidate{Name: name, Source: SourceGoodreads})
		}
		if topPageURL == "" && textutil.Jaccard(textutil.TokenSet(res.Title), titleTokens) > 0 {
			topPageURL = res.URL
		}
	}

	if topPageURL != "" && e.fetchPage != nil {
		if page, fetchErr := e.fetchPage(ctx, topPageURL); fetchErr == nil {
			for _, name := range ExtractGoodreadsAuthors(page.Text) {
				extraction.Candidates = append(extraction.Candidates, Candidate{Name: name, Source: SourceGoodreads})
			}
		}
	}

	return extraction, nil
}

// ExtractGoodreadsAuthors pulls raw author-name candidates out of
// Goodreads page or snippet text.
func ExtractGoodreadsAuthors(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, pattern := range goodreadsBylinePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, 4) {
			name := match[1]
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
