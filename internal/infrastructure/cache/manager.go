// Package cache provides generic caches used to keep catalog lookups off the
// database.
package cache

import (
	"context"
	"time"
)

// Manager stores values of type V under keys of type K.
type Manager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
