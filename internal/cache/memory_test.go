package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryBackendExpiry(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	if err := mem.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := mem.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("get = %q, %v", got, err)
	}

	now = now.Add(time.Minute)
	if _, err := mem.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
	if mem.Len() != 0 {
		t.Fatalf("expired entry not dropped")
	}
}

func TestMemoryBackendOverwrite(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_ = mem.Set(ctx, "k", []byte("first"), time.Minute)
	_ = mem.Set(ctx, "k", []byte("second"), time.Minute)

	got, err := mem.Get(ctx, "k")
	if err != nil || string(got) != "second" {
		t.Fatalf("get = %q, %v; want last writer", got, err)
	}
}

func TestMemoryBackendSweepsExpiredOnSet(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		if err := mem.Set(ctx, key, []byte(key), time.Second); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if mem.Len() != 3 {
		t.Fatalf("Len = %d, want 3", mem.Len())
	}

	now = now.Add(2 * memorySweepInterval)
	if err := mem.Set(ctx, "fresh", []byte("v"), time.Hour); err != nil {
		t.Fatalf("set fresh: %v", err)
	}
	if mem.Len() != 1 {
		t.Fatalf("Len = %d after sweep, want 1", mem.Len())
	}
}

func TestMemoryBackendBoundedSize(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryWithLimit(3)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	_ = mem.Set(ctx, "short", []byte("1"), time.Minute)
	_ = mem.Set(ctx, "long", []byte("2"), time.Hour)
	_ = mem.Set(ctx, "medium", []byte("3"), 30*time.Minute)
	_ = mem.Set(ctx, "new", []byte("4"), time.Hour)

	if mem.Len() != 3 {
		t.Fatalf("Len = %d, want cap of 3", mem.Len())
	}
	if _, err := mem.Get(ctx, "short"); !errors.Is(err, ErrMiss) {
		t.Fatalf("entry closest to expiry should be evicted, got %v", err)
	}
	for _, key := range []string{"long", "medium", "new"} {
		if _, err := mem.Get(ctx, key); err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
	}

	_ = mem.Set(ctx, "long", []byte("updated"), time.Hour)
	if mem.Len() != 3 {
		t.Fatalf("overwrite should not evict, Len = %d", mem.Len())
	}
}

func TestNewMemoryWithLimitDefault(t *testing.T) {
	if got := NewMemoryWithLimit(0).maxEntries; got != DefaultMemoryEntries {
		t.Fatalf("maxEntries = %d, want %d", got, DefaultMemoryEntries)
	}
}
