package authorname

import (
	"strings"
	"unicode"

	"github.com/jonathan/author-site-resolver/internal/textutil"
)

// Token count bounds for a plausible person name.
const (
	minNameTokens = 2
	maxNameTokens = 4
)

// connectorWords are lowercase particles allowed mid-name without
// capitalization ("Ludwig van Beethoven", "Gabriel García de la Concha").
var connectorWords = map[string]bool{
	"de": true, "van": true, "von": true, "di": true, "da": true,
	"la": true, "le": true, "del": true, "der": true, "den": true,
	"dos": true, "du": true, "el": true, "al": true, "bin": true,
	"ibn": true, "ter": true, "ten": true, "mac": true, "st": true,
}

// nameStopWords are tokens that mark a fragment as book or site
// furniture rather than a person name.
var nameStopWords = map[string]bool{
	"series": true, "press": true, "nation": true, "book": true,
	"books": true, "novel": true, "novels": true, "edition": true,
	"editions": true, "volume": true, "trilogy": true, "saga": true,
	"wikipedia": true, "goodreads": true, "openlibrary": true,
	"library": true, "review": true, "reviews": true, "summary": true,
	"guide": true, "study": true, "publishing": true, "publisher": true,
	"publishers": true, "official": true, "website": true, "amazon": true,
	"audiobook": true, "paperback": true, "hardcover": true, "free": true,
	"download": true, "read": true, "online": true, "bestselling": true,
	"bestseller": true, "anonymous": true, "various": true, "unknown": true,
}

// LooksLikePerson reports whether a sanitized string is a plausible
// human name in the context of the given book title. Every rule must
// pass; there is no partial credit.
func LooksLikePerson(name, bookTitle string) bool {
	tokens := strings.Fields(name)
	if len(tokens) < minNameTokens || len(tokens) > maxNameTokens {
		return false
	}

	titleTokens := textutil.TokenSet(bookTitle)

	capitalized := 0
	for _, token := range tokens {
		lower := strings.ToLower(token)
		if nameStopWords[lower] {
			return false
		}
		// A name sharing a token with its own book title is almost
		// always the title leaking through the byline pattern.
		if titleTokens[textutil.Compact(token)] {
			return false
		}
		if connectorWords[token] {
			continue
		}
		if !isCapitalizedWord(token) {
			return false
		}
		capitalized++
	}

	// Connectors alone never form a name; a given name and a surname
	// are the minimum.
	return capitalized >= 2
}

// isCapitalizedWord accepts Unicode words starting with an uppercase
// letter, with apostrophes and hyphens allowed after the first rune.
func isCapitalizedWord(token string) bool {
	runes := []rune(token)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsLetter(r) || r == '\'' || r == '’' || r == '-' {
			continue
		}
		return false
	}
	return true
}
