// Package generic scores website candidates for a bare author name,
// without the book-flow consensus pipeline. Scoring is additive and
// clamped; each rule application is pure and tagged, so a hit's
// confidence can be replayed rule by rule.
package generic

import "strings"

// blockedHosts is the name-flow blocklist. It overlaps the book-flow
// rosters but is deliberately kept separate and looser (bare substrings,
// no category tiers); see Open Questions in DESIGN.md.
var blockedHosts = []string{
	"wikipedia",
	"wikimedia",
	"goodreads",
	"openlibrary",
	"librarything",
	"britannica",
	"imdb",
	"fandom",
	"amazon",
	"audible",
	"barnesandnoble",
	"bookshop",
	"abebooks",
	"ebay",
	"facebook",
	"instagram",
	"twitter",
	"x.com",
	"tiktok",
	"youtube",
	"linkedin",
	"pinterest",
	"reddit",
	"threads.net",
	"archive.org",
}

// platformHosts are blogging and site-builder platforms. A platform
// host is not penalized, but it also does not earn the independent-host
// bonus, since anyone can register one.
var platformHosts = []string{
	"wordpress.com",
	"blogspot.",
	"medium.com",
	"substack.com",
	"wixsite.com",
	"wix.com",
	"weebly.com",
	"squarespace.com",
	"tumblr.com",
	"carrd.co",
	"github.io",
	"notion.site",
}

// IsBlockedHost reports whether the host matches the name-flow
// blocklist by substring.
func IsBlockedHost(host string) bool {
	h := strings.ToLower(host)
	for _, entry := range blockedHosts {
		if strings.Contains(h, entry) {
			return true
		}
	}
	return false
}

// IsPlatformHost reports whether the host belongs to a known blogging
// or site-builder platform.
func IsPlatformHost(host string) bool {
	h := strings.ToLower(host)
	for _, entry := range platformHosts {
		if strings.Contains(h, entry) {
			return true
		}
	}
	return false
}
