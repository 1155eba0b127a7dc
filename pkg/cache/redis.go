package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	"github.com/redis/go-redis/v9"
)

const redisNamespace = "portfolio"

type redisCmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
	Scan(context.Context, uint64, string, int64) *redis.ScanCmd
}

// RedisStore implements Store on a shared Redis instance so several
// processes can see the same cached view.
type RedisStore struct {
	store redisCmdable
	raw   *redis.Client
}

// NewRedisStore bootstraps a Redis-backed store and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.store == nil {
		return nil, false, errors.New("redis store not initialized")
	}
	value, err := r.store.Get(ctx, namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	return r.store.Set(ctx, namespaced(key), value, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	if len(keys) == 0 {
		return nil
	}
	namespacedKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		namespacedKeys = append(namespacedKeys, namespaced(key))
	}
	return r.store.Del(ctx, namespacedKeys...).Err()
}

// DeletePrefix scans for the subtree under prefix and removes it. The scan
// pattern is wider than the subtree (prefix* also matches sibling keys that
// merely share the leading characters), so matches are re-checked before
// deletion.
func (r *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	if r.store == nil {
		return errors.New("redis store not initialized")
	}
	target := namespaced(prefix)
	var cursor uint64
	for {
		keys, next, err := r.store.Scan(ctx, cursor, target+"*", 100).Result()
		if err != nil {
			return err
		}
		matched := keys[:0]
		for _, key := range keys {
			if key == target || strings.HasPrefix(key, target+keySeparator) {
				matched = append(matched, key)
			}
		}
		if len(matched) > 0 {
			if err := r.store.Del(ctx, matched...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close shuts down the underlying client if available.
func (r *RedisStore) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

func namespaced(key string) string {
	return redisNamespace + keySeparator + key
}
