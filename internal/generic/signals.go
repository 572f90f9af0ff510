package generic

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/author-site-resolver/internal/fetch"
	"github.com/jonathan/author-site-resolver/internal/textutil"
)

// Enrichment bonuses from live-fetched homepage signals.
const (
	titleMatchBonus      = 0.15
	officialWordingBonus = 0.20
	copyrightMatchBonus  = 0.15
	personMarkupBonus    = 0.10
	bookMentionBonus     = 0.10
)

// Reason tags applied by enrichment.
const (
	ReasonHomepageTitleMatch = "homepage_title_match"
	ReasonOfficialWording    = "official_wording"
	ReasonCopyrightMatch     = "copyright_name_match"
	ReasonPersonMarkup       = "person_markup"
	ReasonBookMentionOnSite  = "book_mention_on_site"
)

// PageSignals is what a fetched page says about site ownership.
type PageSignals struct {
	PageTitle       string
	TitleMatch      bool
	OfficialWording bool
	CopyrightMatch  bool
	PersonMarkup    bool
	BookMention     bool
}

// merge ORs another page's signals into this one.
func (s *PageSignals) merge(other PageSignals) {
	if s.PageTitle == "" {
		s.PageTitle = other.PageTitle
	}
	s.TitleMatch = s.TitleMatch || other.TitleMatch
	s.OfficialWording = s.OfficialWording || other.OfficialWording
	s.CopyrightMatch = s.CopyrightMatch || other.CopyrightMatch
	s.PersonMarkup = s.PersonMarkup || other.PersonMarkup
	s.BookMention = s.BookMention || other.BookMention
}

// Enricher fetches candidate homepages and folds ownership signals into
// hit confidence. Fetches share the request's semaphore so enrichment
// never exceeds the request's fan-out budget.
type Enricher struct {
	fetchPage func(ctx context.Context, url string) (*fetch.Result, error)
	sem       *semaphore.Weighted
	verbose   bool
}

// NewEnricher builds an enricher around a page fetcher and the shared
// in-flight semaphore.
func NewEnricher(fetchPage func(ctx context.Context, url string) (*fetch.Result, error), sem *semaphore.Weighted, verbose bool) *Enricher {
	return &Enricher{fetchPage: fetchPage, sem: sem, verbose: verbose}
}

// Enrich fetches the hit's origin and its /about page, extracts signals
// from both, and applies each earned bonus once. Fetch failures leave
// the hit unchanged; enrichment never lowers a score.
func (e *Enricher) Enrich(ctx context.Context, hit Hit, authorName, bookTitle string) Hit {
	// A blocklisted host stays at zero; page signals cannot buy it back.
	if hit.blocked() {
		return hit
	}

	origin := originURL(hit.URL)
	if origin == "" {
		return hit
	}

	var signals PageSignals
	for _, pageURL := range []string{origin, origin + "/about"} {
		page := e.fetchOne(ctx, pageURL)
		if page == nil {
			continue
		}
		signals.merge(ExtractPageSignals(page.HTML, authorName, bookTitle))
	}

	if signals.TitleMatch {
		hit = applySignal(hit, titleMatchBonus, ReasonHomepageTitleMatch)
	}
	if signals.OfficialWording {
		hit = applySignal(hit, officialWordingBonus, ReasonOfficialWording)
	}
	if signals.CopyrightMatch {
		hit = applySignal(hit, copyrightMatchBonus, ReasonCopyrightMatch)
	}
	if signals.PersonMarkup {
		hit = applySignal(hit, personMarkupBonus, ReasonPersonMarkup)
	}
	if signals.BookMention {
		hit = applySignal(hit, bookMentionBonus, ReasonBookMentionOnSite)
	}

	return hit
}

// fetchOne acquires the semaphore, fetches, and treats every failure as
// no signal.
func (e *Enricher) fetchOne(ctx context.Context, pageURL string) *fetch.Result {
	if e.fetchPage == nil {
		return nil
	}
	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return nil
		}
		defer e.sem.Release(1)
	}

	page, err := e.fetchPage(ctx, pageURL)
	if err != nil {
		if e.verbose {
			log.Printf("[ENRICH] %s: %v", pageURL, err)
		}
		return nil
	}
	return page
}

// ExtractPageSignals parses a page and reports the ownership signals it
// carries for the given author and book.
func ExtractPageSignals(html, authorName, bookTitle string) PageSignals {
	var signals PageSignals

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return signals
	}

	authorTokens := textutil.TokenSet(authorName)

	signals.PageTitle = fetch.PageTitle(html)
	if signals.PageTitle != "" {
		titleTokens := textutil.TokenSet(signals.PageTitle)
		signals.TitleMatch = textutil.Contains(titleTokens, authorTokens)
	}

	bodyText := doc.Find("body").Text()
	bodyLower := strings.ToLower(bodyText)

	signals.OfficialWording = strings.Contains(bodyLower, "official website") ||
		strings.Contains(bodyLower, "official site") ||
		strings.Contains(strings.ToLower(signals.PageTitle), "official")

	signals.CopyrightMatch = copyrightMatchesAuthor(bodyText, authorTokens)
	signals.PersonMarkup = hasPersonMarkup(doc)

	if bookTitle != "" {
		bookTokens := textutil.TokenSet(bookTitle)
		bodyTokens := textutil.TokenSet(bodyText)
		signals.BookMention = textutil.Contains(bodyTokens, bookTokens)
	}

	return signals
}

// copyrightMatchesAuthor looks for a copyright line naming the author.
func copyrightMatchesAuthor(bodyText string, authorTokens map[string]bool) bool {
	for _, line := range strings.Split(bodyText, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "©") && !strings.Contains(lower, "copyright") {
			continue
		}
		if textutil.Contains(textutil.TokenSet(line), authorTokens) {
			return true
		}
	}
	return false
}

// hasPersonMarkup detects schema.org Person structured data, either as
// microdata or inside a JSON-LD block.
func hasPersonMarkup(doc *goquery.Document) bool {
	if doc.Find(`[itemtype*="schema.org/Person"]`).Length() > 0 {
		return true
	}

	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), `"Person"`) {
			found = true
			return false
		}
		return true
	})
	return found
}

// originURL reduces a URL to scheme://host form.
func originURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
