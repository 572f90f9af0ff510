// Package config provides configuration loading and validation for the
// resolver service and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort              = 8080
	DefaultFetchTimeout      = 6 * time.Second
	DefaultSearchConcurrency = 4
	DefaultCacheTTL          = 24 * time.Hour
)

// Config holds the service configuration. Search credentials are
// optional; without them resolution endpoints respond with a
// search-disabled payload instead of failing.
type Config struct {
	Port int

	// Google Programmable Search credentials.
	SearchAPIKey string
	SearchCX     string

	// ServiceSecret is the shared bearer secret accepted by the API and
	// injected by the proxy endpoint. Empty disables authentication.
	ServiceSecret string

	// UpstreamURL is the resolver the proxy endpoint forwards to.
	UpstreamURL string

	FetchTimeout      time.Duration
	SearchConcurrency int64
	StrictHostMatch   bool
	CacheTTL          time.Duration
	BrowserFallback   bool
	Verbose           bool
}

// FromEnv builds a Config from environment variables, applying defaults
// for anything unset. Malformed numeric values are errors rather than
// silent fallbacks.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              DefaultPort,
		SearchAPIKey:      os.Getenv("GOOGLE_SEARCH_API_KEY"),
		SearchCX:          os.Getenv("GOOGLE_SEARCH_CX"),
		ServiceSecret:     os.Getenv("SERVICE_SECRET"),
		UpstreamURL:       os.Getenv("UPSTREAM_RESOLVER_URL"),
		FetchTimeout:      DefaultFetchTimeout,
		SearchConcurrency: DefaultSearchConcurrency,
		CacheTTL:          DefaultCacheTTL,
		StrictHostMatch:   boolEnv("STRICT_HOST_MATCH"),
		BrowserFallback:   boolEnv("ALLOW_BROWSER_FALLBACK"),
		Verbose:           boolEnv("VERBOSE"),
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if raw := os.Getenv("FETCH_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS: %v", err)
		}
		cfg.FetchTimeout = time.Duration(seconds) * time.Second
	}

	if raw := os.Getenv("SEARCH_CONCURRENCY"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SEARCH_CONCURRENCY: %v", err)
		}
		cfg.SearchConcurrency = n
	}

	if raw := os.Getenv("CACHE_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL_HOURS: %v", err)
		}
		cfg.CacheTTL = time.Duration(hours) * time.Hour
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port must be in 1-65535, got %d", c.Port)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config error: fetch timeout must be positive")
	}
	if c.SearchConcurrency < 1 {
		return fmt.Errorf("config error: search concurrency must be at least 1")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config error: cache TTL must be positive")
	}
	if (c.SearchAPIKey == "") != (c.SearchCX == "") {
		return fmt.Errorf("config error: GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX must be set together")
	}
	return nil
}

// SearchConfigured reports whether both search credentials are present.
func (c *Config) SearchConfigured() bool {
	return c.SearchAPIKey != "" && c.SearchCX != ""
}

// boolEnv treats "1", "true" and "yes" (any case) as true.
func boolEnv(name string) bool {
	switch raw := os.Getenv(name); raw {
	case "1", "true", "TRUE", "True", "yes", "YES":
		return true
	default:
		return false
	}
}
