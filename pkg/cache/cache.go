// Package cache provides byte caches for computed layouts.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as JSON files for the CLI
//   - [RedisCache] shares entries between server instances
//
// Keys are built by a [Keyer] so that callers never concatenate key strings
// by hand. [ScopedKeyer] prefixes every key, which lets several editors
// share one Redis database without colliding.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
