// Package cache provides a small result cache for combine runs.
//
// Composing a large grid is dominated by decode and resample time, and the
// CLI is typically re-run with identical inputs while tweaking one flag.
// The cache stores the encoded result of a run keyed by a fingerprint of
// the source files plus every option that affects pixels, so an unchanged
// invocation replays from disk.
//
// Two implementations exist: FileCache (XDG cache directory, used by the
// CLI) and NullCache (caching disabled, used by tests and --no-cache).
package cache

import (
	"context"
	"time"
)

// TTL values for cached entries.
const (
	// TTLCompose bounds how long a composed result is trusted. Source file
	// fingerprints already invalidate on content change; the TTL guards
	// against unbounded growth of the cache directory.
	TTLCompose = 7 * 24 * time.Hour
)

// Cache is the storage interface for combine results.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ComposeKeyOpts captures every option that changes the composed pixels.
// Any field change produces a different cache key.
type ComposeKeyOpts struct {
	Rows       int
	Cols       int
	Resize     bool
	Fill       bool
	Background [3]int
	CellWidth  int
	CellHeight int
}

// Keyer generates cache keys.
type Keyer interface {
	// ComposeKey generates a key for a composed canvas from the source
	// fingerprint and the pixel-affecting options.
	ComposeKey(sourcesHash string, opts ComposeKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ComposeKey generates a key for a composed canvas.
func (k *DefaultKeyer) ComposeKey(sourcesHash string, opts ComposeKeyOpts) string {
	return hashKey("compose", sourcesHash, opts)
}
