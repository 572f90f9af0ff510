package website

import (
	"net/url"
	"strings"

	"github.com/jonathan/author-site-resolver/internal/textutil"
)

// Acceptance-tier reason tags, in the order the tiers are tried.
const (
	ReasonVanityOfficialOrBooksHint = "vanity_official_or_books_hint"
	ReasonVanityHost                = "vanity_host"
	ReasonExplicitOfficialMarker    = "explicit_official_marker"
	ReasonPublisherAuthorProfile    = "publisher_author_profile"
)

// tierConfidence maps an acceptance reason to the confidence reported
// for the pick. A lookup table, not a computed score.
var tierConfidence = map[string]float64{
	ReasonVanityOfficialOrBooksHint: 0.90,
	ReasonVanityHost:                0.88,
	ReasonExplicitOfficialMarker:    0.85,
	ReasonPublisherAuthorProfile:    0.75,
}

// Token-overlap thresholds for the publisher-profile tier.
const (
	publisherAuthorJaccard = 0.3
	publisherBookJaccard   = 0.2
)

// officialMarkers are phrases that explicitly claim a site is the
// author's own.
var officialMarkers = []string{
	"official site",
	"official website",
	"official web site",
	"author website",
	"official home page",
	"official homepage",
}

// booksHints suggest the page is about the author's body of work.
var booksHints = []string{
	"books",
	"works",
	"bibliography",
	"novels",
	"publications",
}

// Pick is the accepted website with its tier reason and confidence.
type Pick struct {
	// URL is the site origin (scheme://host).
	URL        string
	SiteTitle  string
	Reason     string
	Confidence float64
}

// Rank tries the four acceptance tiers in order over the filtered
// candidates; the first candidate matching the current tier wins, and
// later tiers are never consulted. Returns nil when no tier accepts
// anything, which callers surface as "no site found", not an error.
func Rank(candidates []Candidate, authorName, bookTitle string, allowPublisher, strictHosts bool) *Pick {
	authorTokens := textutil.TokenSet(authorName)
	bookTokens := textutil.TokenSet(bookTitle)

	// Tier a: vanity host with an explicit official or books hint.
	for _, cand := range candidates {
		if IsVanityHost(cand.Host, authorName) && (hasOfficialMarker(cand.text()) || hasBooksHint(cand.text())) {
			return accept(cand, ReasonVanityOfficialOrBooksHint)
		}
	}

	// Tier b: vanity host alone.
	for _, cand := range candidates {
		if IsVanityHost(cand.Host, authorName) {
			return accept(cand, ReasonVanityHost)
		}
	}

	// Tier c: explicit official marker on a non-vanity host.
	for _, cand := range candidates {
		if hasOfficialMarker(cand.text()) {
			return accept(cand, ReasonExplicitOfficialMarker)
		}
	}

	// Tier d: publisher-hosted author profile, only as a fallback.
	if allowPublisher {
		for _, cand := range candidates {
			if !IsPublisherHost(cand.Host, strictHosts) {
				continue
			}
			textTokens := textutil.TokenSet(cand.text())
			authorMatch := textutil.Contains(textTokens, authorTokens) ||
				textutil.Jaccard(textTokens, authorTokens) >= publisherAuthorJaccard
			if !authorMatch {
				continue
			}
			if textutil.Jaccard(textTokens, bookTokens) >= publisherBookJaccard || hasBooksHint(cand.text()) {
				return accept(cand, ReasonPublisherAuthorProfile)
			}
		}
	}

	return nil
}

// text returns the candidate's searchable text surface.
func (c Candidate) text() string {
	return c.Title + " " + c.Snippet
}

// accept builds a Pick from a candidate, reducing the URL to its origin.
func accept(cand Candidate, reason string) *Pick {
	return &Pick{
		URL:        originOf(cand.URL, cand.Host),
		SiteTitle:  cand.Title,
		Reason:     reason,
		Confidence: tierConfidence[reason],
	}
}

// IsVanityHost reports whether the compacted host contains the
// compacted author name ("tara-westover.com" for "Tara Westover").
func IsVanityHost(host, authorName string) bool {
	compactAuthor := textutil.Compact(authorName)
	if compactAuthor == "" {
		return false
	}
	compactHost := textutil.Compact(strings.TrimPrefix(strings.ToLower(host), "www."))
	return strings.Contains(compactHost, compactAuthor)
}

func hasOfficialMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range officialMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasBooksHint(text string) bool {
	tokens := textutil.TokenSet(text)
	for _, hint := range booksHints {
		if tokens[hint] {
			return true
		}
	}
	return false
}

// originOf reduces a URL to scheme://host form.
func originOf(rawURL, host string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return "https://" + host
	}
	return parsed.Scheme + "://" + parsed.Host
}
