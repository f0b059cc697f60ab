// Package cache provides the key-value cache backend used by the property
// cache service. Values are stored as JSON; every entry carries a TTL.
package cache

import (
	"context"
	"time"
)

// Backend is the narrow contract the service needs from a cache store.
type Backend interface {
	// Get retrieves the value under key into dest. The boolean reports a
	// cache hit; an absent or expired key is (false, nil), not an error.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL, replacing any previous
	// entry wholesale.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// Keys enumerates keys matching a glob-like pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// TTL reports the remaining lifetime of key. The boolean is false when
	// the key is absent or has no expiration.
	TTL(ctx context.Context, key string) (time.Duration, bool, error)
}
