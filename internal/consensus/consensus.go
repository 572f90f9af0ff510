// Package consensus merges author-name candidates from independent
// reference sources into a single best-supported pick.
package consensus

import (
	"github.com/jonathan/author-site-resolver/internal/authorname"
	"github.com/jonathan/author-site-resolver/internal/sources"
)

// Confidence values are a fixed lookup on the set of agreeing sources,
// never a blend. Wikipedia plus the reference catalog is the strongest
// agreement; any single source is the floor.
const (
	confidenceWikiOpenLibrary  = 0.95
	confidenceWikiGoodreads    = 0.90
	confidenceCatalogAgreement = 0.85
	confidenceSingleSource     = 0.80
)

// Pick is the resolved author name with its consensus confidence and
// the ordered list of sources that agreed on it.
type Pick struct {
	Name       string
	Confidence float64
	Sources    []string
}

// nameGroup accumulates source agreement for one cleaned name.
type nameGroup struct {
	name    string
	sources map[string]bool
}

// Resolve sanitizes and validates every candidate, groups the survivors
// by exact cleaned text, scores each group by which sources agree, and
// returns the best-supported name. Ties go to the group that reached
// the winning confidence first in discovery order. Returns nil when no
// candidate validates; callers treat that as "author unknown".
func Resolve(candidates []sources.Candidate, bookTitle string) *Pick {
	var groups []*nameGroup
	byName := make(map[string]*nameGroup)

	for _, cand := range candidates {
		cleaned := authorname.Sanitize(cand.Name)
		if !authorname.LooksLikePerson(cleaned, bookTitle) {
			continue
		}

		group, ok := byName[cleaned]
		if !ok {
			group = &nameGroup{name: cleaned, sources: make(map[string]bool)}
			byName[cleaned] = group
			groups = append(groups, group)
		}
		group.sources[cand.Source] = true
	}

	if len(groups) == 0 {
		return nil
	}

	best := groups[0]
	bestConfidence := confidenceFor(best.sources)
	for _, group := range groups[1:] {
		if c := confidenceFor(group.sources); c > bestConfidence {
			best = group
			bestConfidence = c
		}
	}

	return &Pick{
		Name:       best.name,
		Confidence: bestConfidence,
		Sources:    orderedSources(best.sources),
	}
}

// confidenceFor maps a source set to its fixed confidence tier.
func confidenceFor(set map[string]bool) float64 {
	switch {
	case set[sources.SourceWikipedia] && set[sources.SourceOpenLibrary]:
		return confidenceWikiOpenLibrary
	case set[sources.SourceWikipedia] && set[sources.SourceGoodreads]:
		return confidenceWikiGoodreads
	case set[sources.SourceOpenLibrary] && set[sources.SourceGoodreads]:
		return confidenceCatalogAgreement
	default:
		return confidenceSingleSource
	}
}

// orderedSources lists a source set in the fixed wikipedia, openlibrary,
// goodreads order.
func orderedSources(set map[string]bool) []string {
	var ordered []string
	for _, source := range []string{sources.SourceWikipedia, sources.SourceOpenLibrary, sources.SourceGoodreads} {
		if set[source] {
			ordered = append(ordered, source)
		}
	}
	return ordered
}
