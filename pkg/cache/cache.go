// Package cache stores analysis results keyed by page content and options.
//
// Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys are produced by a [Keyer] so that every component derives the same
// key from the same inputs. [ScopedKeyer] prefixes keys to isolate tenants
// or environments sharing one Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value and true on a hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLResult bounds how long an analysis result is reused. Results are
	// a pure function of page and options, so this only limits disk use.
	TTLResult = 30 * 24 * time.Hour

	// TTLLatest bounds the page -> latest result pointer.
	TTLLatest = 7 * 24 * time.Hour
)
