package sources

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jonathan/author-site-resolver/internal/search"
	"github.com/jonathan/author-site-resolver/internal/textutil"
)

// openLibraryBylinePatterns match the "Title by Author" shapes Open
// Library uses in page headings and search snippets.
var openLibraryBylinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\bby)\s+(` + namePattern + `)`),
	regexp.MustCompile(`(?i:author:?)\s+(` + namePattern + `)`),
}

// firstPublishedPattern extracts Open Library's first-publication year.
var firstPublishedPattern = regexp.MustCompile(`(?i:first published)(?i:\s+in)?\s+(\d{4})`)

// publishYearFallbackPattern catches bare "(1957)" publication markers.
var publishYearFallbackPattern = regexp.MustCompile(`\((1[5-9]\d{2}|20\d{2})\)`)

// OpenLibraryExtractor reads the reference catalog's byline and
// first-publication year for a book.
type OpenLibraryExtractor struct {
	provider  search.Provider
	fetchPage PageFetcher
}

// NewOpenLibraryExtractor creates the Open Library source strategy.
func NewOpenLibraryExtractor(provider search.Provider, fetchPage PageFetcher) *OpenLibraryExtractor {
	return &OpenLibraryExtractor{provider: provider, fetchPage: fetchPage}
}

// Source returns the extractor's source tag.
func (e *OpenLibraryExtractor) Source() string { return SourceOpenLibrary }

// Lookup searches Open Library for the book and extracts candidates and
// a first-publication year.
func (e *OpenLibraryExtractor) Lookup(ctx context.Context, bookTitle string) (*Extraction, error) {
	query := fmt.Sprintf(`site:openlibrary.org %q`, bookTitle)
	results, err := e.provider.Search(ctx, query, 5)
	if err != nil {
		return nil, fmt.Errorf("openlibrary lookup: %w", err)
	}

	extraction := &Extraction{}
	titleTokens := textutil.TokenSet(bookTitle)

	var topPageURL string
	for _, res := range results {
		text := res.Title + ". " + res.Snippet
		for _, name := range ExtractOpenLibraryAuthors(text) {
			extraction.Candidates = append(extraction.Candidates, Candidate{Name: name, Source: SourceOpenLibrary})
		}
		if extraction.PubYear == nil {
			extraction.PubYear = ExtractFirstPublicationYear(text)
		}
		if topPageURL == "" && textutil.Jaccard(textutil.TokenSet(res.Title), titleTokens) > 0 {
			topPageURL = res.URL
		}
	}

	if topPageURL != "" && e.fetchPage != nil {
		if page, fetchErr := e.fetchPage(ctx, topPageURL); fetchErr == nil {
			for _, name := range ExtractOpenLibraryAuthors(page.Text) {
				extraction.Candidates = append(extraction.Candidates, Candidate{Name: name, Source: SourceOpenLibrary})
			}
			if extraction.PubYear == nil {
				extraction.PubYear = ExtractFirstPublicationYear(page.Text)
			}
		}
	}

	return extraction, nil
}

// ExtractOpenLibraryAuthors pulls raw author-name candidates out of Open
// Library page or snippet text.
func ExtractOpenLibraryAuthors(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, pattern := range openLibraryBylinePatterns {
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

// ExtractFirstPublicationYear returns the first plausible publication
// year found in the text, or nil.
func ExtractFirstPublicationYear(text string) *int {
	if match := firstPublishedPattern.FindStringSubmatch(text); match != nil {
		if year := plausibleYear(match[1]); year != nil {
			return year
		}
	}
	if match := publishYearFallbackPattern.FindStringSubmatch(text); match != nil {
		return plausibleYear(match[1])
	}
	return nil
}

// plausibleYear parses a year string and bounds it to the printing era.
func plausibleYear(s string) *int {
	year, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	if year < 1500 || year > time.Now().Year()+1 {
		return nil
	}
	return &year
}
