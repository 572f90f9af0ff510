package website

import (
	"net/url"
	"strings"

	"github.com/jonathan/author-site-resolver/internal/search"
)

// Candidate is a search hit that survived category filtering. Order is
// first-seen order from the pooled queries, not a relevance sort.
type Candidate struct {
	Title   string
	URL     string
	Host    string
	Snippet string
}

// FilterOptions controls category exclusion behavior.
type FilterOptions struct {
	// ExcludePublishers drops publisher-roster hosts entirely. When
	// false, publisher hits survive filtering and may win the
	// publisher-profile acceptance tier.
	ExcludePublishers bool
	// StrictHosts switches roster matching from substring containment
	// to registrable-domain anchoring.
	StrictHosts bool
}

// FilterCandidates drops non-http(s) URLs and excluded host categories,
// then deduplicates by registrable domain, keeping first-seen order.
func FilterCandidates(hits []search.Result, opts FilterOptions) []Candidate {
	var kept []Candidate
	seenDomains := make(map[string]bool)

	for _, hit := range hits {
		parsed, err := url.Parse(hit.URL)
		if err != nil || parsed.Host == "" {
			continue
		}
		scheme := strings.ToLower(parsed.Scheme)
		if scheme != "http" && scheme != "https" {
			continue
		}

		host := strings.ToLower(parsed.Hostname())
		if excludedCategory(host, opts) {
			continue
		}

		domain := RegistrableDomain(host)
		if seenDomains[domain] {
			continue
		}
		seenDomains[domain] = true

		kept = append(kept, Candidate{
			Title:   hit.Title,
			URL:     hit.URL,
			Host:    host,
			Snippet: hit.Snippet,
		})
	}

	return kept
}

// excludedCategory applies the rosters in fixed priority order; the
// first category that matches decides.
func excludedCategory(host string, opts FilterOptions) bool {
	if hostMatchesAny(host, referenceHosts, opts.StrictHosts) {
		return true
	}
	if hostMatchesAny(host, retailSocialHosts, opts.StrictHosts) {
		return true
	}
	if opts.ExcludePublishers && hostMatchesAny(host, publisherHosts, opts.StrictHosts) {
		return true
	}
	return false
}
