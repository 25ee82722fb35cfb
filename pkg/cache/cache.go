// Package cache stores computed layouts between requests.
//
// Backends share the byte-oriented [Cache] interface so callers can swap a
// local [FileCache] for a shared [RedisCache] or [MongoCache] without
// touching the code that builds keys and encodes values. Keys come from a
// [Keyer] so every entry point hashes the same request to the same key.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values. Layouts are pure functions of their inputs,
// so entries only expire to bound storage.
const (
	TTLLayout  = 24 * time.Hour
	TTLSession = time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// NullCache never stores anything. It backs --no-cache and the "none"
// backend, so every Get is a miss.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
