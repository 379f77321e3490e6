// Package cache stores computed layouts and rendered artifacts.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// server, and [NullCache] to disable caching. Keys come from a [Keyer] and
// are derived from a content hash of the input tree plus every option that
// changes the output, so equal inputs share entries and stale entries are
// never read.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero keeps the entry until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
	SourceTTL   = time.Hour
)
