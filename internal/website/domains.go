// Package website filters and ranks website candidates for a resolved
// author. Filtering removes whole host categories before any scoring;
// ranking applies an ordered, first-match-wins acceptance policy.
package website

import "strings"

// Host category rosters. Categories are applied as hard excludes in
// REFERENCE, RETAIL/SOCIAL, PUBLISHER priority order; a hit matching any
// excluded category is never scored. Entries are matched by substring
// against the hostname (see Open Questions in DESIGN.md), or by
// registrable-domain suffix in strict mode.
var referenceHosts = []string{
	"wikipedia.",
	"wikimedia.",
	"wikidata.",
	"goodreads.",
	"openlibrary.",
	"librarything.",
	"britannica.",
	"imdb.",
	"fandom.",
	"archive.org",
	"worldcat.",
	"jstor.",
	"loc.gov",
}

var retailSocialHosts = []string{
	"amazon.",
	"audible.",
	"barnesandnoble.",
	"bookshop.org",
	"booksamillion.",
	"abebooks.",
	"thriftbooks.",
	"ebay.",
	"facebook.",
	"instagram.",
	"twitter.",
	"x.com",
	"tiktok.",
	"youtube.",
	"linkedin.",
	"pinterest.",
	"reddit.",
	"threads.net",
	"spotify.",
	"apple.com",
}

var publisherHosts = []string{
	"penguinrandomhouse.",
	"penguin.",
	"randomhouse.",
	"harpercollins.",
	"simonandschuster.",
	"macmillan.",
	"hachette",
	"scholastic.",
	"bloomsbury.",
	"faber.",
	"panmacmillan.",
	"hmhbooks.",
	"groveatlantic.",
}

// hostMatchesAny reports whether host matches any roster entry. The
// default mode is substring containment; strict mode only accepts the
// entry as the host's registrable domain or a suffix of it.
func hostMatchesAny(host string, roster []string, strict bool) bool {
	h := strings.ToLower(host)
	for _, entry := range roster {
		if strict {
			if matchesStrict(h, entry) {
				return true
			}
			continue
		}
		if strings.Contains(h, entry) {
			return true
		}
	}
	return false
}

// matchesStrict anchors an entry to the registrable domain. Entries
// carrying a full domain ("x.com", "archive.org") must match the host
// or a parent suffix; bare labels ("audible.") must equal the host's
// registrable-domain label exactly.
func matchesStrict(host, entry string) bool {
	name := strings.TrimSuffix(entry, ".")
	if strings.Contains(name, ".") {
		return host == name || strings.HasSuffix(host, "."+name)
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	return labels[len(labels)-2] == name
}

// RegistrableDomain returns the last two labels of a host, the unit
// candidates are deduplicated by.
func RegistrableDomain(host string) string {
	labels := strings.Split(strings.ToLower(host), ".")
	if len(labels) <= 2 {
		return strings.ToLower(host)
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

// IsPublisherHost reports whether a host sits on the publisher roster.
func IsPublisherHost(host string, strict bool) bool {
	return hostMatchesAny(host, publisherHosts, strict)
}
