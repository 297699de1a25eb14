package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestCanFetch_DisallowedPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\nCrawl-delay: 2\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker("episcan-test", 5*time.Second)

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/private/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("disallowed path must be blocked")
	}
	if delay != 2*time.Second {
		t.Errorf("expected crawl delay 2s, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(context.Background(), server.URL+"/public/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("path outside the disallow rule must pass")
	}
}

func TestCanFetch_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker("episcan-test", 5*time.Second)

	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("missing robots.txt must allow everything")
	}
}

func TestCanFetch_UnreachableHostAllows(t *testing.T) {
	checker := NewRobotsChecker("episcan-test", 100*time.Millisecond)

	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("unreachable robots.txt must default to allow")
	}
}

func TestCanFetch_CachesPerHost(t *testing.T) {
	var robotsFetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsFetches.Add(1)
			fmt.Fprint(w, "User-agent: *\nAllow: /\n")
		}
	}))
	defer server.Close()

	checker := NewRobotsChecker("episcan-test", 5*time.Second)

	for i := 0; i < 3; i++ {
		if _, _, err := checker.CanFetch(context.Background(), fmt.Sprintf("%s/page/%d", server.URL, i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if robotsFetches.Load() != 1 {
		t.Errorf("robots.txt must be fetched once per host, got %d", robotsFetches.Load())
	}

	checker.Clear()
	if _, _, err := checker.CanFetch(context.Background(), server.URL+"/again"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if robotsFetches.Load() != 2 {
		t.Errorf("cleared cache must refetch, got %d", robotsFetches.Load())
	}
}
