package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("https://example.com/feed") {
			t.Errorf("request %d within burst must be allowed", i)
		}
	}
	if l.Allow("https://example.com/feed") {
		t.Error("request beyond burst must be denied")
	}
}

func TestLimiter_PerHostIsolation(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://a.example.com/feed") {
		t.Error("first request to host a must pass")
	}
	if l.Allow("https://a.example.com/other") {
		t.Error("second request to host a must be limited")
	}
	if !l.Allow("https://b.example.com/feed") {
		t.Error("host b has its own budget")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("https://example.com/") // drain the burst

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "https://example.com/"); err == nil {
		t.Error("expected context deadline error while rate limited")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(1000, 10)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "https://example.com/", 30*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("crawl delay not honored, elapsed %v", elapsed)
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	l := NewLimiter(1, 1)

	if l.Allow("://not a url") {
		t.Error("unparseable URL must be denied")
	}
}

func TestLimiter_ZeroRateDefaults(t *testing.T) {
	l := NewLimiter(0, 0)

	// An unconfigured rate must never deadlock.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Wait(ctx, "https://example.com/"); err != nil {
		t.Errorf("default rate must allow the first request: %v", err)
	}
}
