package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type artworkRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestFetchServesCachedValueWithinTTL(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), nil)
	key := NewKey("artwork").Op("detail").ID("1")

	calls := 0
	load := func(context.Context) (artworkRecord, error) {
		calls++
		return artworkRecord{ID: "1", Title: "Dusk"}, nil
	}

	first, err := Fetch(ctx, c, key, time.Minute, load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Fetch(ctx, c, key, time.Minute, load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single load within the TTL, got %d", calls)
	}
	if first != second {
		t.Fatalf("cached value diverged: %+v vs %+v", first, second)
	}
}

func TestFetchExpiresEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	c := New(store, nil)
	key := NewKey("artwork").Op("list").Params(nil)

	calls := 0
	load := func(context.Context) ([]artworkRecord, error) {
		calls++
		return []artworkRecord{{ID: "1"}}, nil
	}

	if _, err := Fetch(ctx, c, key, 30*time.Second, load); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now = now.Add(31 * time.Second)
	if _, err := Fetch(ctx, c, key, 30*time.Second, load); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", calls)
	}
}

func TestFetchLoadErrorLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, nil)
	key := NewKey("artwork").Op("detail").ID("9")

	boom := errors.New("boom")
	if _, err := Fetch(ctx, c, key, time.Minute, func(context.Context) (artworkRecord, error) {
		return artworkRecord{}, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected load error to propagate, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("failed load must not populate the cache")
	}
}

func TestPutAndPeek(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), nil)
	key := NewKey("auth").Op("me")

	if _, ok := Peek[artworkRecord](ctx, c, key); ok {
		t.Fatalf("peek on empty cache should miss")
	}
	if err := Put(ctx, c, key, time.Minute, artworkRecord{ID: "u1", Title: "admin"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, ok := Peek[artworkRecord](ctx, c, key)
	if !ok || got.ID != "u1" {
		t.Fatalf("peek should return the stored value, got %+v ok=%v", got, ok)
	}
}

func TestInvalidatePrefixSparesSiblings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, nil)

	mustPut := func(key Key, value string) {
		t.Helper()
		if err := Put(ctx, c, key, 0, value); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	listKey := NewKey("artwork").Op("list").Params(map[string]string{"page": "1"})
	detailKey := NewKey("artwork").Op("detail").ID("1")
	inquiryKey := NewKey("inquiry").Op("list").Params(nil)
	mustPut(listKey, "list")
	mustPut(detailKey, "detail")
	mustPut(inquiryKey, "inquiries")

	if err := c.InvalidatePrefix(ctx, NewKey("artwork").Op("list")); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if _, ok := Peek[string](ctx, c, listKey); ok {
		t.Fatalf("list entry should be evicted")
	}
	if _, ok := Peek[string](ctx, c, detailKey); !ok {
		t.Fatalf("detail entry must survive a list invalidation")
	}
	if _, ok := Peek[string](ctx, c, inquiryKey); !ok {
		t.Fatalf("other resources must survive")
	}
}

func TestInvalidateExactKeys(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), nil)
	key := NewKey("artwork").Op("detail").ID("7")
	if err := Put(ctx, c, key, 0, "x"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := c.Invalidate(ctx, key); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if _, ok := Peek[string](ctx, c, key); ok {
		t.Fatalf("entry should be gone")
	}
}
