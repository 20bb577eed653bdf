// Package cache stores rendered course artifacts.
//
// Rendering a course through Graphviz is the slowest operation the CLI and
// API perform, and identical snapshots render identically, so results are
// cached by a hash of the snapshot and the render options.
//
// Implementations:
//   - [FileCache]: one file per entry under a cache directory
//   - [NullCache]: never stores anything, used when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
