package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/author-site-resolver/internal/cache"
	"github.com/jonathan/author-site-resolver/internal/config"
	"github.com/jonathan/author-site-resolver/internal/resolver"
	"github.com/jonathan/author-site-resolver/internal/server/ratelimit"
)

// stubResolver returns canned flow results and records the options it
// received.
type stubResolver struct {
	bookResult *resolver.BookResult
	nameResult *resolver.NameResult
	bookOpts   []resolver.BookOptions
	nameOpts   []resolver.NameOptions
}

func (s *stubResolver) ResolveBook(_ context.Context, opts resolver.BookOptions) (*resolver.BookResult, error) {
	s.bookOpts = append(s.bookOpts, opts)
	return s.bookResult, nil
}

func (s *stubResolver) ResolveName(_ context.Context, opts resolver.NameOptions) (*resolver.NameResult, error) {
	s.nameOpts = append(s.nameOpts, opts)
	return s.nameResult, nil
}

func (s *stubResolver) SearchEnabled() bool { return true }

func newTestServer(t *testing.T, stub *stubResolver, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{
			Port:              config.DefaultPort,
			FetchTimeout:      config.DefaultFetchTimeout,
			SearchConcurrency: config.DefaultSearchConcurrency,
			CacheTTL:          config.DefaultCacheTTL,
		}
	}
	s := &Server{
		cfg:         cfg,
		resolver:    stub,
		cache:       cache.New(time.Minute),
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func intPtr(n int) *int { return &n }

func educatedBookResult() *resolver.BookResult {
	return &resolver.BookResult{
		BookTitle:        "Educated",
		InferredAuthor:   "Tara Westover",
		AuthorConfidence: 0.95,
		AuthorSources:    []string{"wikipedia", "openlibrary", "goodreads"},
		PubYear:          intPtr(2018),
		AuthorViable:     true,
		ViabilityReason:  "likely_living_author",
		AuthorURL:        "https://tarawestover.com",
		SiteTitle:        "Tara Westover",
		CanonicalURL:     "https://tarawestover.com",
		Confidence:       0.90,
		Source:           "web",
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleResolveBook(t *testing.T) {
	stub := &stubResolver{bookResult: educatedBookResult()}
	s := newTestServer(t, stub, nil)

	rec := postJSON(t, http.HandlerFunc(s.handleResolveBook), "/resolve/book",
		map[string]any{"book_title": "Educated"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BookResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "Tara Westover", resp.InferredAuthor)
	assert.InDelta(t, 0.95, resp.AuthorConfidence, 1e-9)
	assert.Equal(t, "https://tarawestover.com", resp.AuthorURL)
	assert.Equal(t, "web", resp.Source)

	// Boolean defaults applied to omitted fields.
	require.Len(t, stub.bookOpts, 1)
	assert.True(t, stub.bookOpts[0].IncludeSearch)
	assert.True(t, stub.bookOpts[0].ExcludePublisherSites)
	assert.False(t, stub.bookOpts[0].AllowEstateSites)
}

func TestHandleResolveBook_Cached(t *testing.T) {
	stub := &stubResolver{bookResult: educatedBookResult()}
	s := newTestServer(t, stub, nil)

	payload := map[string]any{"book_title": "Educated"}
	first := postJSON(t, http.HandlerFunc(s.handleResolveBook), "/resolve/book", payload)
	second := postJSON(t, http.HandlerFunc(s.handleResolveBook), "/resolve/book", payload)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	// Second request served from cache; the resolver ran once.
	assert.Len(t, stub.bookOpts, 1)

	// Different options miss the cache.
	postJSON(t, http.HandlerFunc(s.handleResolveBook), "/resolve/book",
		map[string]any{"book_title": "Educated", "allow_estate_sites": true})
	assert.Len(t, stub.bookOpts, 2)
}

func TestHandleResolveBook_DebugBypassesCache(t *testing.T) {
	stub := &stubResolver{bookResult: educatedBookResult()}
	s := newTestServer(t, stub, nil)

	payload := map[string]any{"book_title": "Educated", "debug": true}
	postJSON(t, http.HandlerFunc(s.handleResolveBook), "/resolve/book", payload)
	postJSON(t, http.HandlerFunc(s.handleResolveBook), "/resolve/book", payload)
	assert.Len(t, stub.bookOpts, 2)
}

func TestHandleResolveBook_BadRequests(t *testing.T) {
	stub := &stubResolver{}
	s := newTestServer(t, stub, nil)
	handler := http.HandlerFunc(s.handleResolveBook)

	rec := postJSON(t, handler, "/resolve/book", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A whitespace-only title must be rejected before the resolver runs.
	rec = postJSON(t, handler, "/resolve/book", map[string]any{"book_title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.bookOpts)

	req := httptest.NewRequest("POST", "/resolve/book", bytes.NewReader([]byte("{not json")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResolveAuthor(t *testing.T) {
	stub := &stubResolver{nameResult: &resolver.NameResult{
		AuthorName:   "Tara Westover",
		Found:        true,
		AuthorURL:    "https://tarawestover.com/",
		SiteTitle:    "Tara Westover",
		CanonicalURL: "https://tarawestover.com/",
		Confidence:   0.65,
		Source:       "web",
	}}
	s := newTestServer(t, stub, nil)

	rec := postJSON(t, http.HandlerFunc(s.handleResolveAuthor), "/resolve/author",
		map[string]any{"author_name": "Tara Westover", "min_site_confidence": 0.6})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NameResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, "https://tarawestover.com/", resp.AuthorURL)

	require.Len(t, stub.nameOpts, 1)
	assert.InDelta(t, 0.6, stub.nameOpts[0].MinSiteConfidence, 1e-9)
	assert.True(t, stub.nameOpts[0].IncludeSearch)
}

func TestHandleResolveAuthor_InvalidConfidence(t *testing.T) {
	s := newTestServer(t, &stubResolver{}, nil)

	rec := postJSON(t, http.HandlerFunc(s.handleResolveAuthor), "/resolve/author",
		map[string]any{"author_name": "Tara Westover", "min_site_confidence": 1.5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResolveAuthor_WhitespaceName(t *testing.T) {
	stub := &stubResolver{}
	s := newTestServer(t, stub, nil)

	rec := postJSON(t, http.HandlerFunc(s.handleResolveAuthor), "/resolve/author",
		map[string]any{"author_name": " \t "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.nameOpts)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &stubResolver{}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["search_configured"])
}

func TestRoutes_AuthRequired(t *testing.T) {
	stub := &stubResolver{bookResult: educatedBookResult()}
	cfg := &config.Config{
		Port:              config.DefaultPort,
		FetchTimeout:      config.DefaultFetchTimeout,
		SearchConcurrency: config.DefaultSearchConcurrency,
		CacheTTL:          config.DefaultCacheTTL,
		ServiceSecret:     "service-secret",
	}
	s := newTestServer(t, stub, cfg)
	handler := s.routes()

	body := []byte(`{"book_title":"Educated"}`)

	req := httptest.NewRequest("POST", "/resolve/book", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("POST", "/resolve/book", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer service-secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open.
	req = httptest.NewRequest("GET", "/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleProxyResolve(t *testing.T) {
	var seenAuth, seenBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"book_title":"Educated"}`))
	}))
	defer upstream.Close()

	cfg := &config.Config{
		Port:              config.DefaultPort,
		FetchTimeout:      config.DefaultFetchTimeout,
		SearchConcurrency: config.DefaultSearchConcurrency,
		CacheTTL:          config.DefaultCacheTTL,
		ServiceSecret:     "service-secret",
		UpstreamURL:       upstream.URL,
	}
	s := newTestServer(t, &stubResolver{}, cfg)

	rec := postJSON(t, http.HandlerFunc(s.handleProxyResolve), "/proxy/resolve",
		map[string]any{"book_title": "Educated"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer service-secret", seenAuth)
	assert.JSONEq(t, `{"book_title":"Educated"}`, seenBody)
	assert.JSONEq(t, `{"book_title":"Educated"}`, rec.Body.String())
}

func TestHandleProxyResolve_NoUpstream(t *testing.T) {
	s := newTestServer(t, &stubResolver{}, nil)

	rec := postJSON(t, http.HandlerFunc(s.handleProxyResolve), "/proxy/resolve",
		map[string]any{"book_title": "Educated"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
