// Package cache stores computed ordering results and rendered artifacts.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// servers sharing results across instances, and [NullCache] when caching is
// disabled. Keys come from a [Keyer] so that the same inputs always map to
// the same entry.
//
// [Flight] is independent of the backends: concurrent callers asking for the
// same key share a single computation. It keeps no results of its own.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. A zero ttl in Set
// means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs. Ordering results depend only on the manifest content, so they
// live long; rendered artifacts are cheap to rebuild.
const (
	TTLOrder    = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
