// Package resultcache memoizes encoded responses with thundering herd prevention.
//
// Entries live in memory only. Identical concurrent requests share a single
// computation through sfcache's GetSet.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

// Stats tracks cache hit/miss statistics.
type Stats struct {
	Hits   int64
	Misses int64
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache wraps sfcache for response caching. A nil *Cache is valid and never caches.
type Cache struct {
	tiered *sfcache.TieredCache[string, []byte]
	logger *slog.Logger
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an in-memory Cache whose entries expire after ttl.
// A non-positive ttl returns a nil Cache, which disables caching.
func New(ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if ttl <= 0 {
		return nil, nil //nolint:nilnil // nil cache means disabled
	}
	if logger == nil {
		logger = slog.Default()
	}
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte](), sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cache{tiered: tc, logger: logger, ttl: ttl}, nil
}

// TTL returns the default TTL for cache entries.
func (c *Cache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// GetSet returns the cached value for key, computing it with fn on a miss.
// Errors from fn are returned and never cached.
func (c *Cache) GetSet(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return fn(ctx)
	}

	var computed bool
	data, err := c.tiered.GetSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		computed = true
		c.misses.Add(1)
		return fn(ctx)
	}, c.ttl)

	if !computed {
		c.hits.Add(1)
		c.logger.Debug("cache hit", "key", key)
	}
	return data, err
}

// Stats returns the current cache statistics.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Key converts arbitrary request bytes into a cache key using a SHA256 hash.
func Key(namespace string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(namespace)) //nolint:errcheck // hash writes never fail
	h.Write([]byte{0})         //nolint:errcheck // hash writes never fail
	h.Write(data)              //nolint:errcheck // hash writes never fail
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
