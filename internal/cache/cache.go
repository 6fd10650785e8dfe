package cache

import (
	"context"
	"time"
)

// Cache stores encoded responses by key. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every entry owned by the cache.
	Clear(ctx context.Context) error
}
