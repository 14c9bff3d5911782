// Package cache provides the bounded TTL cache for answered queries.
package cache

import (
	"crypto/md5" //nolint:gosec // keys only, not security sensitive
	"encoding/hex"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store defines the cache surface the router depends on. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Clear()
	Stats() Stats
}

// Stats reports cache effectiveness.
type Stats struct {
	Entries int     `json:"entries"`
	MaxSize int     `json:"max_size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

const (
	defaultMaxSize = 100
	defaultExpiry  = 300 * time.Second
)

// QueryCache wraps a TTL store with a size bound. When full, the oldest
// entry is evicted first.
type QueryCache struct {
	mu      sync.Mutex
	store   *gocache.Cache
	order   []string
	maxSize int
	hits    int64
	misses  int64
}

// New creates a cache with the given bound and TTL; non-positive values
// fall back to the defaults.
func New(maxSize int, expiry time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	return &QueryCache{
		store:   gocache.New(expiry, expiry),
		maxSize: maxSize,
	}
}

// Key derives the cache key from the normalized query text and the filter
// fingerprint, so textually different queries with identical meaning and
// filters share an entry only when their text also matches.
func Key(query, fingerprint string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(query)) + "|" + fingerprint)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for key, if present and fresh.
func (c *QueryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store.Get(key)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores a value, evicting the oldest entry when the bound is hit.
func (c *QueryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store.Get(key); !exists {
		for c.liveCountLocked() >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			c.store.Delete(oldest)
		}
		c.order = append(c.order, key)
	}
	c.store.SetDefault(key, value)
}

// liveCountLocked drops expired keys from the order list and returns the
// number of live entries.
func (c *QueryCache) liveCountLocked() int {
	live := c.order[:0]
	for _, k := range c.order {
		if _, ok := c.store.Get(k); ok {
			live = append(live, k)
		}
	}
	c.order = live
	return len(live)
}

// Clear drops every entry and resets the counters.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
	c.order = nil
	c.hits = 0
	c.misses = 0
}

// Stats returns a snapshot of cache effectiveness.
func (c *QueryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Entries: c.liveCountLocked(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
