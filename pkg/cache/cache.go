// Package cache stores rendered diagrams so that identical snapshots skip
// Graphviz.
//
// Rendering through Graphviz dominates the cost of an observed pass. A pass
// pipeline re-run on an unchanged graph produces byte-identical DOT text, so
// rendered output is keyed by a hash of the DOT source and the image format:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.RenderKey(dot, "svg")
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
//
// Three implementations are provided: [FileCache] for the CLI, [MemoryCache]
// for a single process and [NullCache] to disable caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// DefaultTTL is how long rendered diagrams are kept.
const DefaultTTL = 7 * 24 * time.Hour

// RenderKey returns the cache key for DOT source rendered in format.
// Keys have the form "render:<format>:<sha256 of dot>".
func RenderKey(dot, format string) string {
	return "render:" + format + ":" + digest(dot)
}

// digest returns the hex SHA-256 of s.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
