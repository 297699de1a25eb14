package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/outbreakwatch/episcan/internal/model"
)

// fakeAdapter implements Adapter with scripted per-attempt behavior.
type fakeAdapter struct {
	name     string
	language string
	articles []model.NormalizedArticle
	errs     []error // one per attempt; exhausted list means success
	calls    int32
}

func (f *fakeAdapter) Name() string     { return f.name }
func (f *fakeAdapter) Language() string { return f.language }

func (f *fakeAdapter) Fetch(ctx context.Context) ([]model.NormalizedArticle, error) {
	attempt := int(atomic.AddInt32(&f.calls, 1)) - 1
	if attempt < len(f.errs) && f.errs[attempt] != nil {
		return nil, f.errs[attempt]
	}
	return f.articles, nil
}

func testOrchestrator(attempts int) *Orchestrator {
	return NewOrchestrator(attempts, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := sleepFunc
	sleepFunc = func(time.Duration) {}
	t.Cleanup(func() { sleepFunc = orig })
}

func TestFetchAll_FailureIsolation(t *testing.T) {
	noSleep(t)

	good := &fakeAdapter{
		name:     "who-don",
		articles: []model.NormalizedArticle{{Title: "a"}, {Title: "b"}},
	}
	bad := &fakeAdapter{
		name: "search-en",
		errs: []error{errors.New("503"), errors.New("503"), errors.New("503")},
	}

	results := testOrchestrator(3).FetchAll(context.Background(), []Adapter{good, bad})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Sorted by source name: search-en, who-don.
	if results[0].Source != "search-en" || results[0].Err == nil {
		t.Errorf("expected failed search-en first, got %+v", results[0])
	}
	if results[1].Source != "who-don" || results[1].Err != nil {
		t.Errorf("expected healthy who-don, got %+v", results[1])
	}

	union := Union(results)
	if len(union) != 2 {
		t.Errorf("union must contain only the healthy source's articles, got %d", len(union))
	}
}

func TestFetchAll_RetrySucceedsEventually(t *testing.T) {
	noSleep(t)

	flaky := &fakeAdapter{
		name:     "ecdc",
		articles: []model.NormalizedArticle{{Title: "a"}},
		errs:     []error{errors.New("timeout"), nil},
	}

	results := testOrchestrator(3).FetchAll(context.Background(), []Adapter{flaky})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Err != nil {
		t.Errorf("expected eventual success, got %v", r.Err)
	}
	if r.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", r.Attempts)
	}
	if len(r.Articles) != 1 {
		t.Errorf("expected 1 article, got %d", len(r.Articles))
	}
}

func TestFetchAll_AttemptsExhausted(t *testing.T) {
	noSleep(t)

	down := &fakeAdapter{
		name: "promed",
		errs: []error{errors.New("down"), errors.New("down")},
	}

	results := testOrchestrator(2).FetchAll(context.Background(), []Adapter{down})

	if results[0].Err == nil {
		t.Error("expected final attempt's error to surface")
	}
	if results[0].Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", results[0].Attempts)
	}
}

func TestFetchAll_CanceledContextStopsRetries(t *testing.T) {
	noSleep(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	down := &fakeAdapter{
		name: "cdc",
		errs: []error{context.Canceled, context.Canceled, context.Canceled},
	}

	results := testOrchestrator(3).FetchAll(ctx, []Adapter{down})

	if got := atomic.LoadInt32(&down.calls); got != 1 {
		t.Errorf("canceled run must not retry, got %d attempts", got)
	}
	if results[0].Err == nil {
		t.Error("expected cancellation error to surface")
	}
}

func TestFetchAll_Empty(t *testing.T) {
	if results := testOrchestrator(1).FetchAll(context.Background(), nil); results != nil {
		t.Errorf("expected nil for no adapters, got %v", results)
	}
}

func TestOutcome(t *testing.T) {
	r := SourceResult{
		Source:   "who-don",
		Language: "en",
		Articles: []model.NormalizedArticle{{Title: "a"}},
		Attempts: 1,
		Err:      errors.New("boom"),
	}

	out := r.Outcome()
	if out.Source != "who-don" || out.Articles != 1 || out.Error != "boom" {
		t.Errorf("unexpected outcome: %+v", out)
	}
}
