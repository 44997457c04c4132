// Package cache provides pluggable result caching for resolution runs.
//
// A resolved layout is a pure function of the input layout and the tuning
// config, so runs are cached under a key derived from both hashes. Three
// backends are provided: a file cache for CLI usage, a Redis cache for
// shared environments, and a null cache for tests and --no-cache runs.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached artifact classes.
const (
	// ResolveTTL bounds how long a resolved layout stays cached.
	ResolveTTL = 7 * 24 * time.Hour

	// ReportTTL bounds how long a run report stays cached. Reports are
	// cheaper to regenerate than layouts, so they expire sooner.
	ReportTTL = 24 * time.Hour
)

// Cache is the storage interface for resolution results.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration; a
	// negative TTL writes an entry that is expired on arrival, so the
	// next Get misses.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for resolution artifacts. The layout hash
// covers the input layout bytes; the config hash covers the tuning, so a
// changed tuning never serves a stale result.
type Keyer interface {
	// ResolveKey generates a key for a resolved layout.
	ResolveKey(layoutHash, configHash string) string

	// ReportKey generates a key for a run report.
	ReportKey(layoutHash, configHash string) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ResolveKey generates a key for a resolved layout.
func (k *DefaultKeyer) ResolveKey(layoutHash, configHash string) string {
	return hashKey("resolve", layoutHash, configHash)
}

// ReportKey generates a key for a run report.
func (k *DefaultKeyer) ReportKey(layoutHash, configHash string) string {
	return hashKey("report", layoutHash, configHash)
}
