// Package authorname cleans and validates author-name candidates pulled
// out of reference pages before they reach the consensus resolver.
package authorname

import (
	"regexp"
	"strings"
)

var parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)

// descriptorWords are nationality, occupation, and title words that
// reference pages routinely glue onto a name ("American novelist Jane
// Doe", "Dr. John Smith"). Matched whole-word, case-insensitive.
var descriptorWords = map[string]bool{
	// Nationalities commonly seen in lead sentences.
	"american": true, "british": true, "english": true, "scottish": true,
	"irish": true, "welsh": true, "canadian": true, "australian": true,
	"french": true, "german": true, "italian": true, "spanish": true,
	"russian": true, "japanese": true, "chinese": true, "indian": true,
	"nigerian": true, "israeli": true, "swedish": true, "norwegian": true,
	"dutch": true, "mexican": true, "brazilian": true, "korean": true,

	// Occupations and honorifics.
	"novelist": true, "author": true, "writer": true, "journalist": true,
	"historian": true, "essayist": true, "poet": true, "playwright": true,
	"screenwriter": true, "biographer": true, "memoirist": true,
	"professor": true, "academic": true, "scholar": true, "critic": true,
	"editor": true, "illustrator": true, "dr": true, "sir": true,
	"dame": true, "prof": true, "mr": true, "mrs": true, "ms": true,
}

// strayPunctuation covers characters that survive page extraction but
// never belong inside a name. Apostrophes and hyphens stay.
var strayPunctuation = regexp.MustCompile(`[",;:!?\[\]{}<>|/\\*_=+~#$%^&@.]`)

// Sanitize strips parenthetical asides, descriptor words, and stray
// punctuation from a raw extracted name fragment and collapses the
// remaining whitespace.
func Sanitize(raw string) string {
	cleaned := parentheticalPattern.ReplaceAllString(raw, " ")
	cleaned = strayPunctuation.ReplaceAllString(cleaned, " ")

	var kept []string
	for _, word := range strings.Fields(cleaned) {
		if descriptorWords[strings.ToLower(word)] {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " ")
}
