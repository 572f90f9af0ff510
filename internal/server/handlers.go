package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/author-site-resolver/internal/cache"
	"github.com/jonathan/author-site-resolver/internal/resolver"
)

var validate = validator.New()

// BookResolveRequest is the POST /resolve/book payload. Boolean options
// are pointers so an omitted field can take its documented default.
type BookResolveRequest struct {
	BookTitle             string `json:"book_title" validate:"required,min=1,max=512"`
	IncludeSearch         *bool  `json:"include_search"`
	AllowEstateSites      bool   `json:"allow_estate_sites"`
	ExcludePublisherSites *bool  `json:"exclude_publisher_sites"`
	Debug                 bool   `json:"debug"`
}

// NameResolveRequest is the POST /resolve/author payload.
type NameResolveRequest struct {
	AuthorName           string  `json:"author_name" validate:"required,min=1,max=256"`
	BookTitle            string  `json:"book_title" validate:"max=512"`
	MinSiteConfidence    float64 `json:"min_site_confidence" validate:"gte=0,lte=1"`
	DisableDomainFilters bool    `json:"unsafe_disable_domain_filters"`
	IncludeSearch        *bool   `json:"include_search"`
	Debug                bool    `json:"debug"`
}

// LifeDatesResponse mirrors the extracted life dates in the response.
type LifeDatesResponse struct {
	BirthYear    *int   `json:"birth_year"`
	DeathYear    *int   `json:"death_year"`
	BiographyURL string `json:"biography_url,omitempty"`
}

// BookResolveResponse is the POST /resolve/book response body.
type BookResolveResponse struct {
	RequestID        string             `json:"request_id"`
	BookTitle        string             `json:"book_title"`
	InferredAuthor   string             `json:"inferred_author,omitempty"`
	AuthorConfidence float64            `json:"author_confidence"`
	AuthorSources    []string           `json:"author_sources,omitempty"`
	PubYear          *int               `json:"pub_year,omitempty"`
	AuthorLifeDates  *LifeDatesResponse `json:"life_dates,omitempty"`
	AuthorViable     bool               `json:"author_viable"`
	ViabilityReason  string             `json:"viability_reason,omitempty"`
	AuthorURL        string             `json:"author_url,omitempty"`
	SiteTitle        string             `json:"site_title,omitempty"`
	CanonicalURL     string             `json:"canonical_url,omitempty"`
	Confidence       float64            `json:"confidence"`
	Source           string             `json:"source"`
	Diag             map[string]any     `json:"_diag,omitempty"`
}

// NameResolveResponse is the POST /resolve/author response body.
type NameResolveResponse struct {
	RequestID    string         `json:"request_id"`
	AuthorName   string         `json:"author_name"`
	Found        bool           `json:"found"`
	AuthorURL    string         `json:"author_url,omitempty"`
	SiteTitle    string         `json:"site_title,omitempty"`
	CanonicalURL string         `json:"canonical_url,omitempty"`
	Confidence   float64        `json:"confidence"`
	Source       string         `json:"source"`
	Diag         map[string]any `json:"_diag,omitempty"`
}

// boolOrDefault resolves an optional request boolean.
func boolOrDefault(value *bool, def bool) bool {
	if value == nil {
		return def
	}
	return *value
}

// handleResolveBook runs the book-title resolution flow.
func (s *Server) handleResolveBook(w http.ResponseWriter, r *http.Request) {
	var req BookResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Trim before validation so a whitespace-only title is rejected
	// without any network activity.
	req.BookTitle = strings.TrimSpace(req.BookTitle)
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := uuid.New().String()
	opts := resolver.BookOptions{
		BookTitle:             req.BookTitle,
		IncludeSearch:         boolOrDefault(req.IncludeSearch, true),
		AllowEstateSites:      req.AllowEstateSites,
		ExcludePublisherSites: boolOrDefault(req.ExcludePublisherSites, true),
		Debug:                 req.Debug,
	}

	cacheKey := cache.Key("book", req.BookTitle,
		flag(opts.IncludeSearch), flag(opts.AllowEstateSites), flag(opts.ExcludePublisherSites))
	if !req.Debug {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if response, ok := cached.(*BookResolveResponse); ok {
				log.Printf("[SERVER] Cache hit for book %q", req.BookTitle)
				s.jsonResponse(w, http.StatusOK, response)
				return
			}
		}
	}

	result, err := s.resolver.ResolveBook(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	response := &BookResolveResponse{
		RequestID:        requestID,
		BookTitle:        result.BookTitle,
		InferredAuthor:   result.InferredAuthor,
		AuthorConfidence: result.AuthorConfidence,
		AuthorSources:    result.AuthorSources,
		PubYear:          result.PubYear,
		AuthorViable:     result.AuthorViable,
		ViabilityReason:  result.ViabilityReason,
		AuthorURL:        result.AuthorURL,
		SiteTitle:        result.SiteTitle,
		CanonicalURL:     result.CanonicalURL,
		Confidence:       result.Confidence,
		Source:           result.Source,
		Diag:             result.Diag,
	}
	if result.LifeDates != nil && (result.LifeDates.BirthYear != nil || result.LifeDates.DeathYear != nil) {
		response.AuthorLifeDates = &LifeDatesResponse{
			BirthYear:    result.LifeDates.BirthYear,
			DeathYear:    result.LifeDates.DeathYear,
			BiographyURL: result.LifeDates.BiographyURL,
		}
	}

	if !req.Debug {
		s.cache.Set(cacheKey, response)
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// handleResolveAuthor runs the bare-name resolution flow.
func (s *Server) handleResolveAuthor(w http.ResponseWriter, r *http.Request) {
	var req NameResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.BookTitle = strings.TrimSpace(req.BookTitle)
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := uuid.New().String()
	opts := resolver.NameOptions{
		AuthorName:           req.AuthorName,
		BookTitle:            req.BookTitle,
		MinSiteConfidence:    req.MinSiteConfidence,
		DisableDomainFilters: req.DisableDomainFilters,
		IncludeSearch:        boolOrDefault(req.IncludeSearch, true),
		Debug:                req.Debug,
	}

	cacheKey := cache.Key("author", req.AuthorName, req.BookTitle,
		fmt.Sprintf("%.2f", opts.MinSiteConfidence),
		flag(opts.IncludeSearch), flag(opts.DisableDomainFilters))
	if !req.Debug {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if response, ok := cached.(*NameResolveResponse); ok {
				log.Printf("[SERVER] Cache hit for author %q", req.AuthorName)
				s.jsonResponse(w, http.StatusOK, response)
				return
			}
		}
	}

	result, err := s.resolver.ResolveName(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	response := &NameResolveResponse{
		RequestID:    requestID,
		AuthorName:   result.AuthorName,
		Found:        result.Found,
		AuthorURL:    result.AuthorURL,
		SiteTitle:    result.SiteTitle,
		CanonicalURL: result.CanonicalURL,
		Confidence:   result.Confidence,
		Source:       result.Source,
		Diag:         result.Diag,
	}

	if !req.Debug {
		s.cache.Set(cacheKey, response)
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// flag renders a boolean for cache key composition.
func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
