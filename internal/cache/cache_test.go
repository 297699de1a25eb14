package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("https://example.com/feed")
	b := CacheKey("https://example.com/feed")
	c := CacheKey("https://example.com/other")

	if a != b {
		t.Error("same URL must produce the same key")
	}
	if a == c {
		t.Error("different URLs must produce different keys")
	}
	if !strings.HasPrefix(a, "episcan:v1:") {
		t.Errorf("key missing version prefix: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("body"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val, found := c.Get("k"); !found || string(val) != "body" {
		t.Errorf("expected hit with body, got %q found=%v", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("deleted key must miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("k", []byte("body"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expired entry must miss")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	key := CacheKey("https://example.com/feed")
	if err := c.Set(key, []byte("feed body"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second instance over the same directory sees the entry.
	c2 := NewDiskCache(dir, time.Minute)
	if val, found := c2.Get(key); !found || string(val) != "feed body" {
		t.Errorf("expected persisted hit, got %q found=%v", val, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	_ = c.Set("k", []byte("body"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expired entry must miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed only the disk layer, as if a previous process wrote it.
	seed := NewDiskCache(dir, time.Minute)
	_ = seed.Set("k", []byte("body"), 0)

	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if val, found := c.Get("k"); !found || string(val) != "body" {
		t.Fatalf("expected disk hit, got %q found=%v", val, found)
	}

	// After promotion the memory layer answers even if disk is gone.
	_ = seed.Clear()
	if _, found := c.Get("k"); !found {
		t.Error("promoted entry must be served from memory")
	}
}

func TestLayeredCache_WriteThrough(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	_ = c.Set("k", []byte("body"), 0)

	disk := NewDiskCache(dir, time.Minute)
	if _, found := disk.Get("k"); !found {
		t.Error("set must write through to disk")
	}
}
