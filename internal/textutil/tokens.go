// Package textutil provides tokenization and token-set overlap helpers.
// This package centralizes the text comparison logic used by the name
// validators, the consensus resolver, and both website scorers.
package textutil

import (
	"strings"
	"unicode"
)

// minTokenLength is the shortest token kept by Tokens. Single-letter
// fragments ("a", initials left over after punctuation stripping) carry
// no comparison signal and only inflate Jaccard denominators.
const minTokenLength = 2

// Tokens normalizes text into an ordered list of unique lowercase tokens.
// Letters and digits form tokens; apostrophes and hyphens are folded out
// so "O'Brien" and "obrien" tokenize identically.
func Tokens(text string) []string {
	var tokens []string
	seen := make(map[string]bool)

	var current strings.Builder
	flush := func() {
		token := current.String()
		current.Reset()
		if len([]rune(token)) < minTokenLength {
			return
		}
		if !seen[token] {
			seen[token] = true
			tokens = append(tokens, token)
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(unicode.ToLower(r))
		case r == '\'' || r == '’' || r == '-':
			// Fold out, keep the token continuous.
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// TokenSet returns the tokens of text as a set.
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range Tokens(text) {
		set[token] = true
	}
	return set
}

// Contains reports whether every token in needles is present in haystack.
// An empty needles set is never considered contained.
func Contains(haystack, needles map[string]bool) bool {
	if len(needles) == 0 {
		return false
	}
	for token := range needles {
		if !haystack[token] {
			return false
		}
	}
	return true
}

// Jaccard computes the Jaccard overlap |a∩b| / |a∪b| of two token sets.
// Two empty sets have zero overlap.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// Compact strips text down to lowercase letters and digits. Used for
// vanity-domain matching, where "Jane O'Doe" must match "janeodoe.com".
func Compact(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}
