package sources

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jonathan/author-site-resolver/internal/search"
	"github.com/jonathan/author-site-resolver/internal/textutil"
)

// namePattern matches a 2-4 word capitalized name, allowing lowercase
// connector particles after the first word. Shared by all extractors.
const namePattern = `[\p{Lu}][\p{L}'’.-]*(?:\s+(?:de|van|von|di|da|la|le|del|der|den|dos|du|el|al|bin|ibn|ter|ten|[\p{Lu}][\p{L}'’.-]*)){1,3}`

// wikipediaBylinePatterns are the lead-sentence shapes Wikipedia uses to
// attribute a book to its author.
var wikipediaBylinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:novel|memoir|book|autobiography|biography|collection|trilogy)\s+(?i:written\s+)?(?i:by)\s+(` + namePattern + `)`),
	regexp.MustCompile(`(?i:written\s+by)\s+(?:[\p{Ll}]+\s+)?(` + namePattern + `)`),
	regexp.MustCompile(`(?i:by)\s+(?:[\p{Ll}]+\s+){0,2}(?i:author)\s+(` + namePattern + `)`),
	regexp.MustCompile(`(?i:author)\s+(` + namePattern + `)`),
}

// WikipediaExtractor finds a book's Wikipedia page and reads its byline.
type WikipediaExtractor struct {
	provider  search.Provider
	fetchPage PageFetcher
}

// NewWikipediaExtractor creates the Wikipedia source strategy.
func NewWikipediaExtractor(provider search.Provider, fetchPage PageFetcher) *WikipediaExtractor {
	return &WikipediaExtractor{provider: provider, fetchPage: fetchPage}
}

// Source returns the extractor's source tag.
func (e *WikipediaExtractor) Source() string { return SourceWikipedia }

// Lookup searches Wikipedia for the book and extracts author candidates
// from result text and the top matching page.
func (e *WikipediaExtractor) Lookup(ctx context.Context, bookTitle string) (*Extraction, error) {
	query := fmt.Sprintf(`site:en.wikipedia.org %q book`, bookTitle)
	results, err := e.provider.Search(ctx, query, 5)
	if err != nil {
		return nil, fmt.Errorf("wikipedia lookup: %w", err)
	}

	extraction := &Extraction{}
	titleTokens := textutil.TokenSet(bookTitle)

	var topPageURL string
	for _, res := range results {
		for _, name := range ExtractWikipediaAuthors(res.Title + ". " + res.Snippet) {
			extraction.Candidates = append(extraction.Candidates, Candidate{Name: name, Source: SourceWikipedia})
		}
		if topPageURL == "" && textutil.Jaccard(textutil.TokenSet(res.Title), titleTokens) > 0 {
			topPageURL = res.URL
		}
	}

	if topPageURL != "" && e.fetchPage != nil {
		if page, fetchErr := e.fetchPage(ctx, topPageURL); fetchErr == nil {
			for _, name := range ExtractWikipediaAuthors(page.Text) {
				extraction.Candidates = append(extraction.Candidates, Candidate{Name: name, Source: SourceWikipedia})
			}
		}
	}

	// A book search often surfaces the author's own article; remember it
	// as the biography page for life-date extraction.
	extraction.BioURL = findBiographyURL(results, extraction.Candidates)

	return extraction, nil
}

// ExtractWikipediaAuthors pulls raw author-name candidates out of
// Wikipedia page or snippet text.
func ExtractWikipediaAuthors(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, pattern := range wikipediaBylinePatterns {
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

// findBiographyURL returns the first result whose title fully contains
// one of the candidate names.
func findBiographyURL(results []search.Result, candidates []Candidate) string {
	for _, res := range results {
		resTokens := textutil.TokenSet(res.Title)
		for _, cand := range candidates {
			if textutil.Contains(resTokens, textutil.TokenSet(cand.Name)) {
				return res.URL
			}
		}
	}
	return ""
}
