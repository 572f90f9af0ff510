// Package server provides the HTTP REST API for the author website
// resolver.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/author-site-resolver/internal/cache"
	"github.com/jonathan/author-site-resolver/internal/config"
	"github.com/jonathan/author-site-resolver/internal/resolver"
	"github.com/jonathan/author-site-resolver/internal/search"
	"github.com/jonathan/author-site-resolver/internal/server/middleware"
	"github.com/jonathan/author-site-resolver/internal/server/ratelimit"
)

// Resolver is the slice of the resolution engine the handlers need.
// Narrowed to an interface so tests can substitute canned flows.
type Resolver interface {
	ResolveBook(ctx context.Context, opts resolver.BookOptions) (*resolver.BookResult, error)
	ResolveName(ctx context.Context, opts resolver.NameOptions) (*resolver.NameResult, error)
	SearchEnabled() bool
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	resolver    Resolver
	cache       *cache.Store
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService // nil unless JWT_SECRET is set
}

// New creates a server instance. A missing search configuration is not
// an error; the resolution endpoints report search as disabled instead.
func New(cfg *config.Config) (*Server, error) {
	var provider search.Provider
	if cfg.SearchConfigured() {
		p, err := search.NewGoogleProvider(context.Background(), cfg.SearchAPIKey, cfg.SearchCX)
		if err != nil {
			return nil, fmt.Errorf("failed to create search provider: %w", err)
		}
		provider = p
	} else {
		log.Printf("[SERVER] Search credentials not configured; resolution will report search_disabled")
	}

	res := resolver.New(provider, resolver.Config{
		Concurrency:     cfg.SearchConcurrency,
		FetchTimeout:    cfg.FetchTimeout,
		StrictHosts:     cfg.StrictHostMatch,
		BrowserFallback: cfg.BrowserFallback,
		Verbose:         cfg.Verbose,
	})

	s := &Server{
		cfg:      cfg,
		resolver: res,
		cache:    cache.New(cfg.CacheTTL),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	if os.Getenv("JWT_SECRET") != "" {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // resolution fans out to several fetches
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with the middleware chain applied.
func (s *Server) routes() http.Handler {
	var validator middleware.TokenValidator
	if s.jwtService != nil {
		validator = s.jwtService.AsTokenValidator()
	}
	auth := middleware.AuthMiddleware(s.cfg.ServiceSecret, validator)

	mux := http.NewServeMux()
	mux.Handle("POST /resolve/book", auth(http.HandlerFunc(s.handleResolveBook)))
	mux.Handle("POST /resolve/author", auth(http.HandlerFunc(s.handleResolveAuthor)))
	mux.Handle("POST /proxy/resolve", http.HandlerFunc(s.handleProxyResolve))
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"search_configured": s.resolver.SearchEnabled(),
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID returns the caller's IP for rate limiting.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
