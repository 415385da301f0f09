// Package cache provides byte-level caching for solved frames and rendered
// artifacts.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: document store with a TTL index
//
// [Open] selects a backend from an [Options] value, which is how the CLI and
// the HTTP server build their cache from configuration.
//
// # Keys
//
// Keys are produced by a [Keyer] so that every consumer agrees on the key
// layout. Frame keys hash the scene content together with the solve inputs
// (window, scroll offsets); artifact keys hash the frame together with the
// render options:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.FrameKey(sceneHash, cache.FrameKeyOpts{Width: 800, Height: 600})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the cached value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Default expirations per entry type.
const (
	// TTLFrame is how long solved frames are kept. Frames are a pure
	// function of the scene and window, so they only age out to bound size.
	TTLFrame = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeFrame    = "frame"
	KeyTypeArtifact = "artifact"
)
