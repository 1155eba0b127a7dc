package cache

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedis()
	store := &RedisStore{store: mock}

	if err := store.Set(ctx, "artwork:detail:1", []byte(`{"id":"1"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := store.Get(ctx, "artwork:detail:1")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if string(value) != `{"id":"1"}` {
		t.Fatalf("unexpected value %s", value)
	}
	if _, ok := mock.data["portfolio:artwork:detail:1"]; !ok {
		t.Fatalf("keys should carry the portfolio namespace, got %v", mockKeys(mock))
	}

	if err := store.Delete(ctx, "artwork:detail:1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "artwork:detail:1"); ok {
		t.Fatalf("entry should be gone after delete")
	}
}

func TestRedisStoreMissIsNotAnError(t *testing.T) {
	store := &RedisStore{store: newMockRedis()}
	_, ok, err := store.Get(context.Background(), "artwork:detail:404")
	if err != nil {
		t.Fatalf("miss should not error: %v", err)
	}
	if ok {
		t.Fatalf("miss should report absent")
	}
}

func TestRedisStoreDeletePrefixSparesSiblings(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedis()
	store := &RedisStore{store: mock}

	seed := map[string]string{
		"artwork:list:all":    "a",
		"artwork:list:page=2": "b",
		"artwork:listing":     "sibling",
		"artwork:detail:1":    "c",
	}
	for key, value := range seed {
		if err := store.Set(ctx, key, []byte(value), 0); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := store.DeletePrefix(ctx, "artwork:list"); err != nil {
		t.Fatalf("delete prefix failed: %v", err)
	}

	remaining := mockKeys(mock)
	want := []string{"portfolio:artwork:detail:1", "portfolio:artwork:listing"}
	if len(remaining) != len(want) {
		t.Fatalf("unexpected survivors %v", remaining)
	}
	for i, key := range want {
		if remaining[i] != key {
			t.Fatalf("expected %v got %v", want, remaining)
		}
	}
}

type mockRedis struct {
	data map[string]string
}

func newMockRedis() *mockRedis {
	return &mockRedis{data: make(map[string]string)}
}

func mockKeys(m *mockRedis) []string {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockRedis) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return redis.NewScanCmdResult(keys, 0, nil)
}
