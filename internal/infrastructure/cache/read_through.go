package cache

import (
	"context"
	"time"
)

// LoadFunc produces the value for input when the cache has none.
type LoadFunc[V any, I any] func(ctx context.Context, input I) (V, error)

// ReadThrough serves values from a Manager and falls back to load on a miss,
// storing what load returns. Errors from load are never cached, so a lookup
// that fails (including a deliberate "absent" error) is retried next time.
type ReadThrough[K comparable, V any, I any] struct {
	cache    Manager[K, V]
	load     LoadFunc[V, I]
	disabled bool
}

// NewReadThrough wraps cache with load. With disabled set every call goes
// straight to load and nothing is stored.
func NewReadThrough[K comparable, V any, I any](cache Manager[K, V], load LoadFunc[V, I], disabled bool) *ReadThrough[K, V, I] {
	return &ReadThrough[K, V, I]{cache: cache, load: load, disabled: disabled}
}

// Get returns the cached value for key, loading and storing it with ttl on a
// miss. A hit leaves the entry's expiry untouched.
func (r *ReadThrough[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, func() (V, bool) {
		return r.cache.Get(ctx, key)
	})
}

// GetWithRefresh is Get, except that a hit also pushes the entry's expiry out
// to ttl from now.
func (r *ReadThrough[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, func() (V, bool) {
		return r.cache.GetWithRefresh(ctx, key, ttl)
	})
}

func (r *ReadThrough[K, V, I]) get(ctx context.Context, key K, input I, ttl time.Duration, lookup func() (V, bool)) (V, error) {
	if r.disabled {
		return r.load(ctx, input)
	}
	if v, ok := lookup(); ok {
		return v, nil
	}

	v, err := r.load(ctx, input)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, ttl)
	return v, nil
}

// Invalidate drops every cached value.
func (r *ReadThrough[K, V, I]) Invalidate(ctx context.Context) error {
	return r.cache.Flush(ctx)
}
