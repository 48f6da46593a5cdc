// Package cache provides the layout result cache.
//
// Computing a layout for a visible node/edge set is the engine's slowest
// operation, and drill navigation revisits the same sets constantly (drill
// in, drill up, jump back). The cache keys layout results by a content hash
// of the exact node specs, edge specs and direction handed to the engine, so
// a revisited view skips the engine call entirely.
//
// Three backends are provided:
//   - MemoryCache: LRU, per-process, the default for interactive sessions
//   - FileCache: persistent across runs, for CLI usage
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// TTL values for cached layout results.
const (
	// TTLLayout bounds how long a computed layout stays valid. Snapshots are
	// immutable per session, so this mostly bounds file-cache growth.
	TTLLayout = 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
