package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/outbreakwatch/episcan/internal/model"
	"github.com/outbreakwatch/episcan/internal/worker"
)

// sleepFunc is the delay between retry attempts (injectable for tests).
var sleepFunc = time.Sleep

// Adapter is the minimal source contract the orchestrator needs.
// internal/feed provides the concrete implementations.
type Adapter interface {
	Name() string
	Language() string
	Fetch(ctx context.Context) ([]model.NormalizedArticle, error)
}

// SourceResult is the explicit per-source outcome of one run. A failed
// source carries its error here instead of aborting the run.
type SourceResult struct {
	Source   string
	Language string
	Articles []model.NormalizedArticle
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// GetError implements worker.Result.
func (r *SourceResult) GetError() error {
	return r.Err
}

// Outcome converts the result to its summary form.
func (r *SourceResult) Outcome() model.SourceOutcome {
	out := model.SourceOutcome{
		Source:   r.Source,
		Language: r.Language,
		Articles: len(r.Articles),
		Attempts: r.Attempts,
		Elapsed:  r.Elapsed,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

// Orchestrator runs all source adapters concurrently with bounded
// retries, isolating each source's failures from the others.
type Orchestrator struct {
	attempts      int
	sourceTimeout time.Duration
	log           *slog.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(attempts int, sourceTimeout time.Duration, log *slog.Logger) *Orchestrator {
	if attempts <= 0 {
		attempts = 1
	}
	return &Orchestrator{
		attempts:      attempts,
		sourceTimeout: sourceTimeout,
		log:           log,
	}
}

// FetchAll runs every adapter on its own worker and collects per-source
// results, sorted by source name for stable summaries.
func (o *Orchestrator) FetchAll(ctx context.Context, adapters []Adapter) []SourceResult {
	if len(adapters) == 0 {
		return nil
	}

	// One worker per source: all sources, all languages, every run.
	pool := worker.NewPool(len(adapters))
	pool.Start()

	for _, a := range adapters {
		pool.Submit(&sourceJob{adapter: a, orch: o, ctx: ctx})
	}

	raw := pool.Wait()

	results := make([]SourceResult, 0, len(raw))
	for _, r := range raw {
		sr := r.(*SourceResult)
		if sr.Err != nil {
			o.log.Warn("source failed", "source", sr.Source, "attempts", sr.Attempts, "error", sr.Err)
		} else {
			o.log.Debug("source fetched", "source", sr.Source, "articles", len(sr.Articles), "elapsed", sr.Elapsed)
		}
		results = append(results, *sr)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Source < results[j].Source })

	return results
}

// Union flattens successful results into one article collection.
func Union(results []SourceResult) []model.NormalizedArticle {
	var all []model.NormalizedArticle
	for _, r := range results {
		if r.Err == nil {
			all = append(all, r.Articles...)
		}
	}
	return all
}

type sourceJob struct {
	adapter Adapter
	orch    *Orchestrator
	ctx     context.Context
}

// Execute fetches one source with retry and exponential backoff.
func (j *sourceJob) Execute(_ context.Context) worker.Result {
	start := time.Now()
	result := &SourceResult{
		Source:   j.adapter.Name(),
		Language: j.adapter.Language(),
	}

	for attempt := 0; attempt < j.orch.attempts; attempt++ {
		result.Attempts = attempt + 1

		fetchCtx := j.ctx
		var cancel context.CancelFunc
		if j.orch.sourceTimeout > 0 {
			fetchCtx, cancel = context.WithTimeout(j.ctx, j.orch.sourceTimeout)
		}

		articles, err := j.adapter.Fetch(fetchCtx)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			result.Articles = articles
			result.Err = nil
			break
		}

		result.Err = err

		// The run is over; no point retrying any source.
		if errors.Is(err, context.Canceled) || j.ctx.Err() != nil {
			break
		}

		if attempt < j.orch.attempts-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}

	result.Elapsed = time.Since(start)
	return result
}
