// Package cache provides the caller-side memoization used by the mosaic
// pipeline.
//
// The Voronoi generator is pure and deterministic, so its output can be
// cached by the inputs that determine it. Two kinds of entries exist:
//
//   - layout: the generated cells for a month geometry (day count, year,
//     month, canvas size, step range). Completion state is not part of the
//     key, so toggling a day never invalidates a layout.
//   - artifact: a rendered SVG, PNG or JSON document for a layout plus the
//     completion state and theme.
//
// Backends: [FileCache] for the CLI, [RedisCache] for shared deployments
// and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	LayoutTTL   = 30 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
