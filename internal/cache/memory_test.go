package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache() *MemoryCache {
	return NewMemoryCache(MemoryOptions{DefaultTTL: time.Minute})
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value1" {
		t.Errorf("Get = %q, want %q", got, "value1")
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := newTestCache()
	defer c.Close()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "ephemeral", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "ephemeral"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after expiry = %v, want ErrCacheMiss", err)
	}
	has, err := c.Has(ctx, "ephemeral")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if has {
		t.Error("Has reported expired key as present")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", []byte("v"), 0)
	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after delete = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "listings:p1", []byte("a"), 0)
	_ = c.Set(ctx, "listings:p2", []byte("b"), 0)
	_ = c.Set(ctx, "event:jazz-night", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "listings:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	if _, err := c.Get(ctx, "listings:p1"); !errors.Is(err, ErrCacheMiss) {
		t.Error("prefixed key survived DeleteByPrefix")
	}
	if _, err := c.Get(ctx, "event:jazz-night"); err != nil {
		t.Errorf("unrelated key was removed: %v", err)
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", []byte("abc"), 0)
	got, _ := c.Get(ctx, "key1")
	got[0] = 'z'

	again, _ := c.Get(ctx, "key1")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c := newTestCache()
	_ = c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close = %v, want ErrCacheClosed", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key1", []byte("value"), 0)
	_, _ = c.Get(ctx, "key1")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Errorf("Stats = %+v, want 1 hit, 1 miss, 1 set", stats)
	}
	if stats.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", stats.HitRate)
	}
}
