// Package cache provides the in-process TTL cache consulted by the HTTP
// handlers. The deterministic pipeline itself never touches it; handlers
// key entries by canonicalized request parameters so repeated lookups
// skip the upstream search entirely.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a resolution is served from cache.
const DefaultTTL = 24 * time.Hour

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = 10 * time.Minute

// Store is a TTL cache of resolution responses.
type Store struct {
	c *gocache.Cache
}

// New creates a store with the given TTL. A non-positive TTL uses the
// default.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{c: gocache.New(ttl, cleanupInterval)}
}

// Get returns the cached value for key, if present and unexpired.
func (s *Store) Get(key string) (any, bool) {
	return s.c.Get(key)
}

// Set stores a value under key with the store's default TTL.
func (s *Store) Set(key string, value any) {
	s.c.SetDefault(key, value)
}

// Key canonicalizes request parameters into a cache key. Parts are
// lowercased and trimmed so trivially different requests share entries.
func Key(parts ...string) string {
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(part)))
	}
	return strings.Join(normalized, "|")
}
