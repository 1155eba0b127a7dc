package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/metrics"
)

// Store is the TTL key-value surface the query layer runs on. Implementations
// must treat an expired entry as absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Cache pairs a store with cache-effectiveness metrics.
type Cache struct {
	store   Store
	metrics *metrics.ClientMetrics
}

func New(store Store, m *metrics.ClientMetrics) *Cache {
	return &Cache{store: store, metrics: m}
}

// Invalidate evicts the exact keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) error {
	if c == nil || c.store == nil || len(keys) == 0 {
		return nil
	}
	raw := make([]string, 0, len(keys))
	for _, key := range keys {
		raw = append(raw, key.String())
	}
	return c.store.Delete(ctx, raw...)
}

// InvalidatePrefix evicts every entry under the key's subtree.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix Key) error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.DeletePrefix(ctx, prefix.String())
}

// Fetch serves the cached value when fresh, otherwise calls load and stores
// the result under key with the given TTL. Store failures degrade to a
// straight load; a broken cache never fails a read.
func Fetch[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if c != nil && c.store != nil {
		if raw, ok, err := c.store.Get(ctx, key.String()); err == nil && ok {
			var cached T
			if err := json.Unmarshal(raw, &cached); err == nil {
				c.metrics.IncCacheHit(key.Resource())
				return cached, nil
			}
		}
	}

	c.noteMiss(key)
	value, err := load(ctx)
	if err != nil {
		return zero, err
	}
	putIgnoreErr(ctx, c, key, ttl, value)
	return value, nil
}

// Put overwrites the entry under key, used by mutations patching detail
// records with the server's returned state.
func Put[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, value T) error {
	if c == nil || c.store == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key.String(), raw, ttl)
}

// Peek returns the cached value without falling through to any loader.
func Peek[T any](ctx context.Context, c *Cache, key Key) (T, bool) {
	var zero T
	if c == nil || c.store == nil {
		return zero, false
	}
	raw, ok, err := c.store.Get(ctx, key.String())
	if err != nil || !ok {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false
	}
	return value, true
}

func (c *Cache) noteMiss(key Key) {
	if c == nil {
		return
	}
	c.metrics.IncCacheMiss(key.Resource())
}

func putIgnoreErr[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, value T) {
	_ = Put(ctx, c, key, ttl, value)
}
