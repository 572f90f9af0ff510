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

// LifeDates holds what a biography page says about an author's lifespan.
// Missing fields stay nil; that is a normal outcome, not an error.
type LifeDates struct {
	BirthYear    *int
	DeathYear    *int
	BiographyURL string
}

var (
	// "(1926–2016)" or "(1926-2016)" lifespan markers.
	lifespanPattern = regexp.MustCompile(`\(\s*(1[0-9]\d{2}|20\d{2})\s*[–—-]\s*(1[0-9]\d{2}|20\d{2})\s*\)`)
	// "born June 4, 1986", "born 1986", "(born 1986)".
	bornPattern = regexp.MustCompile(`(?i:born)\s+(?:[\p{Lu}][\p{Ll}]+\s+\d{1,2},?\s+)?(\d{4})`)
	// "died March 2, 2001", "died 2001".
	diedPattern = regexp.MustCompile(`(?i:died)\s+(?:[\p{Lu}][\p{Ll}]+\s+\d{1,2},?\s+)?(\d{4})`)
)

// LifeDateExtractor finds an author's biography page and reads the
// birth and death years out of it.
type LifeDateExtractor struct {
	provider  search.Provider
	fetchPage PageFetcher
}

// NewLifeDateExtractor creates a life-date extractor.
func NewLifeDateExtractor(provider search.Provider, fetchPage PageFetcher) *LifeDateExtractor {
	return &LifeDateExtractor{provider: provider, fetchPage: fetchPage}
}

// Lookup resolves an author's life dates. bioURL, when non-empty, is
// fetched directly; otherwise a biography search is issued first. Page
// problems degrade to nil fields; only a search outage is an error.
func (e *LifeDateExtractor) Lookup(ctx context.Context, authorName, bioURL string) (*LifeDates, error) {
	dates := &LifeDates{}

	if bioURL == "" {
		query := fmt.Sprintf(`site:en.wikipedia.org %q`, authorName)
		results, err := e.provider.Search(ctx, query, 5)
		if err != nil {
			return nil, fmt.Errorf("biography lookup: %w", err)
		}

		nameTokens := textutil.TokenSet(authorName)
		for _, res := range results {
			if textutil.Contains(textutil.TokenSet(res.Title), nameTokens) {
				bioURL = res.URL
				break
			}
			// Snippets often carry the lifespan even when no result
			// title matches cleanly.
			if dates.BirthYear == nil && dates.DeathYear == nil {
				dates.BirthYear, dates.DeathYear = ExtractLifeDates(res.Snippet)
			}
		}
	}

	if bioURL != "" {
		dates.BiographyURL = bioURL
		if e.fetchPage != nil {
			if page, fetchErr := e.fetchPage(ctx, bioURL); fetchErr == nil {
				birth, death := ExtractLifeDates(page.Text)
				if birth != nil || death != nil {
					dates.BirthYear, dates.DeathYear = birth, death
				}
			}
		}
	}

	return dates, nil
}

// ExtractLifeDates pulls birth and death years out of biography text.
// A parenthesized lifespan wins over standalone born/died mentions.
func ExtractLifeDates(text string) (birthYear, deathYear *int) {
	if match := lifespanPattern.FindStringSubmatch(text); match != nil {
		birth := parseLifeYear(match[1])
		death := parseLifeYear(match[2])
		if birth != nil && death != nil && *death >= *birth {
			return birth, death
		}
	}

	if match := bornPattern.FindStringSubmatch(text); match != nil {
		birthYear = parseLifeYear(match[1])
	}
	if match := diedPattern.FindStringSubmatch(text); match != nil {
		deathYear = parseLifeYear(match[1])
	}
	if birthYear != nil && deathYear != nil && *deathYear < *birthYear {
		deathYear = nil
	}

	return birthYear, deathYear
}

// parseLifeYear parses a year string, rejecting values outside the
// plausible biographical range.
func parseLifeYear(s string) *int {
	year, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	if year < 1000 || year > time.Now().Year() {
		return nil
	}
	return &year
}
