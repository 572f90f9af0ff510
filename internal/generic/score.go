package generic

import (
	"net/url"
	"strings"

	"github.com/jonathan/author-site-resolver/internal/search"
	"github.com/jonathan/author-site-resolver/internal/textutil"
)

// Signal deltas for search-result scoring. Confidence only ever
// increases after the one-time blocklist penalty.
const (
	authorMatchBonus     = 0.35
	bookMatchBonus       = 0.15
	blockedHostPenalty   = -1.0
	vanityDomainBonus    = 0.25
	independentHostBonus = 0.05
)

// Jaccard thresholds for text overlap signals.
const (
	authorJaccardThreshold = 0.35
	bookJaccardThreshold   = 0.25
)

// Reason tags applied by the scoring rules.
const (
	ReasonAuthorInText    = "author_in_text"
	ReasonBookInText      = "book_in_text"
	ReasonBlockedHost     = "blocked_host"
	ReasonVanityDomain    = "vanity_domain"
	ReasonIndependentHost = "independent_host"
	ReasonPlatformHost    = "platform_host"
)

// Hit is a scored website candidate. Reasons records every rule that
// fired, in application order.
type Hit struct {
	Title      string
	URL        string
	Host       string
	Snippet    string
	Confidence float64
	Reasons    []string
}

// blocked reports whether the blocklist penalty fired on this hit.
func (h Hit) blocked() bool {
	for _, reason := range h.Reasons {
		if reason == ReasonBlockedHost {
			return true
		}
	}
	return false
}

// ScoreOptions controls the scoring rules.
type ScoreOptions struct {
	// DisableHostFilters skips the blocklist penalty. Exposed for the
	// unsafe_disable_domain_filters request flag.
	DisableHostFilters bool
}

// applySignal returns a copy of the hit with the delta applied, the
// result capped at 1.0, and the reason recorded. The running score may
// go negative so the blocklist penalty outweighs every later bonus; the
// caller clamps the floor once, after all signals. Hits are never
// mutated in place.
func applySignal(h Hit, delta float64, reason string) Hit {
	score := h.Confidence + delta
	if score > 1.0 {
		score = 1.0
	}

	reasons := make([]string, len(h.Reasons), len(h.Reasons)+1)
	copy(reasons, h.Reasons)

	h.Confidence = score
	h.Reasons = append(reasons, reason)
	return h
}

// tag records a neutral reason without touching the score.
func tag(h Hit, reason string) Hit {
	return applySignal(h, 0, reason)
}

// ScoreResult turns a search result into a scored hit. The second
// return value is false when the URL cannot be used at all.
func ScoreResult(res search.Result, authorName, bookTitle string, opts ScoreOptions) (Hit, bool) {
	parsed, err := url.Parse(res.URL)
	if err != nil || parsed.Host == "" {
		return Hit{}, false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return Hit{}, false
	}

	hit := Hit{
		Title:   res.Title,
		URL:     res.URL,
		Host:    strings.ToLower(parsed.Hostname()),
		Snippet: res.Snippet,
	}

	// The blocklist penalty is the only negative signal, and it is
	// applied before any positive one.
	if !opts.DisableHostFilters && IsBlockedHost(hit.Host) {
		hit = applySignal(hit, blockedHostPenalty, ReasonBlockedHost)
	}

	textTokens := textutil.TokenSet(res.Title + " " + res.Snippet)
	authorTokens := textutil.TokenSet(authorName)
	if textutil.Contains(textTokens, authorTokens) || textutil.Jaccard(textTokens, authorTokens) >= authorJaccardThreshold {
		hit = applySignal(hit, authorMatchBonus, ReasonAuthorInText)
	}

	if bookTitle != "" {
		bookTokens := textutil.TokenSet(bookTitle)
		if textutil.Contains(textTokens, bookTokens) || textutil.Jaccard(textTokens, bookTokens) >= bookJaccardThreshold {
			hit = applySignal(hit, bookMatchBonus, ReasonBookInText)
		}
	}

	if isVanityHost(hit.Host, authorName) {
		hit = applySignal(hit, vanityDomainBonus, ReasonVanityDomain)
	}

	if IsPlatformHost(hit.Host) {
		hit = tag(hit, ReasonPlatformHost)
	} else {
		hit = applySignal(hit, independentHostBonus, ReasonIndependentHost)
	}

	// The blocklist penalty exceeds the sum of every positive signal,
	// so a blocked host always lands at zero here.
	if hit.Confidence < 0 {
		hit.Confidence = 0
	}

	return hit, true
}

// PoolResults merges result lists from multiple query phrasings,
// deduplicating by URL and keeping first-seen order.
func PoolResults(lists ...[]search.Result) []search.Result {
	var pooled []search.Result
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, res := range list {
			if res.URL == "" || seen[res.URL] {
				continue
			}
			seen[res.URL] = true
			pooled = append(pooled, res)
		}
	}
	return pooled
}

// Best returns the highest-confidence hit, first-seen order breaking
// ties. Nil for an empty slice.
func Best(hits []Hit) *Hit {
	if len(hits) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(hits); i++ {
		if hits[i].Confidence > hits[best].Confidence {
			best = i
		}
	}
	return &hits[best]
}

// isVanityHost mirrors the book-flow vanity check: the compacted host
// contains the compacted author name.
func isVanityHost(host, authorName string) bool {
	compactAuthor := textutil.Compact(authorName)
	if compactAuthor == "" {
		return false
	}
	compactHost := textutil.Compact(strings.TrimPrefix(host, "www."))
	return strings.Contains(compactHost, compactAuthor)
}
