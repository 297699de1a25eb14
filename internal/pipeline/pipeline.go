// Package pipeline wires the ingestion stages into one run: fetch,
// dedupe, filter, normalize, batch, match, store, trigger.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/outbreakwatch/episcan/internal/cache"
	"github.com/outbreakwatch/episcan/internal/classify"
	"github.com/outbreakwatch/episcan/internal/dedup"
	"github.com/outbreakwatch/episcan/internal/feed"
	"github.com/outbreakwatch/episcan/internal/fetch"
	"github.com/outbreakwatch/episcan/internal/filter"
	"github.com/outbreakwatch/episcan/internal/model"
	"github.com/outbreakwatch/episcan/internal/normalize"
	"github.com/outbreakwatch/episcan/internal/notify"
	"github.com/outbreakwatch/episcan/internal/refdata"
	"github.com/outbreakwatch/episcan/internal/store"
)

// Pipeline holds one run's components. Construction performs the
// systemic configuration checks: a missing classifier or store
// credential fails before any fetching happens.
type Pipeline struct {
	cfg      *model.Config
	registry *feed.Registry
	orch     *fetch.Orchestrator
	dedup    *dedup.Deduplicator
	filter   *filter.Filter
	norm     *normalize.Normalizer
	matcher  *classify.Matcher
	store    store.Store
	writer   *store.Writer
	refs     *refdata.Loader
	trigger  *notify.Trigger
	log      *slog.Logger
	dryRun   bool
}

// New builds a pipeline from configuration.
func New(cfg *model.Config, log *slog.Logger, dryRun bool) (*Pipeline, error) {
	provider, err := classify.NewProvider(classify.ConfigFromModel(cfg.Classify))
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	st, err := store.NewRESTStore(cfg.Store, cfg.HTTP)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(home, ".episcan", "cache")
		}
		responseCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	client := fetch.NewClient(cfg.HTTP, responseCache)

	return &Pipeline{
		cfg:      cfg,
		registry: feed.BuildRegistry(cfg.Sources, cfg.Dedup.PriorityOverrides, client),
		orch:     fetch.NewOrchestrator(cfg.Concurrency.RetryAttempts, cfg.Concurrency.SourceTimeout, log),
		dedup:    dedup.New(cfg.Dedup, log),
		filter:   filter.New(cfg.Filter, log),
		norm:     normalize.New(cfg.Classify.TextBudget),
		matcher:  classify.NewMatcher(provider, log),
		store:    st,
		writer:   store.NewWriter(st, log),
		refs:     refdata.NewLoader(st, 15*time.Minute),
		trigger:  notify.NewTrigger(cfg.Notify.URL, cfg.Notify.Timeout, log),
		log:      log,
		dryRun:   dryRun,
	}, nil
}

// Registry exposes the configured adapters, for the sources command.
func (p *Pipeline) Registry() *feed.Registry {
	return p.registry
}

// Run executes one ingestion run. Individual source, batch, and write
// failures degrade the summary; only systemic failures return an error.
func (p *Pipeline) Run(ctx context.Context) (*model.RunSummary, error) {
	summary := &model.RunSummary{
		StartedAt: time.Now().UTC(),
		DryRun:    p.dryRun,
	}

	// Reference data loads once per run; the store being unreachable
	// here fails the run before any classification spend.
	refs, err := p.refs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}

	results := p.orch.FetchAll(ctx, p.registry.Sources())
	for _, r := range results {
		summary.Sources = append(summary.Sources, r.Outcome())
	}

	union := fetch.Union(results)
	summary.Fetched = len(union)
	p.log.Info("fetched", "articles", len(union), "sources", len(results))

	known, err := p.knownURLs(ctx, union)
	if err != nil {
		return nil, fmt.Errorf("known articles: %w", err)
	}

	kept, stats := p.dedup.Dedupe(union, known)
	summary.Deduplicated = len(kept)
	summary.DroppedExact = stats.DroppedExact
	summary.DroppedSimilar = stats.DroppedSimilar
	p.log.Info("deduplicated", "kept", len(kept), "exact", stats.DroppedExact, "similar", stats.DroppedSimilar)

	filtered, fellBack := p.filter.Apply(kept)
	summary.Filtered = len(filtered)
	summary.FilterFellBack = fellBack

	filtered = p.norm.All(filtered)

	batches := classify.Plan(filtered, p.cfg.Classify.MaxArticles, p.cfg.Classify.BatchSize)
	summary.Batched = classify.Size(batches)
	summary.Batches = len(batches)

	candidates, batchResults := p.matcher.MatchAll(ctx, batches, refs)
	summary.Matched = len(candidates)
	for _, br := range batchResults {
		if br.Err != nil {
			summary.BatchErrors = append(summary.BatchErrors, fmt.Sprintf("batch %d: %v", br.Index, br.Err))
		}
	}
	p.log.Info("matched", "candidates", len(candidates), "batches", len(batches), "failed_batches", len(summary.BatchErrors))

	if !p.dryRun {
		matches := store.GroupMatches(classify.Articles(batches), candidates)
		summary.Write = p.writer.Write(ctx, matches, refs)
		p.log.Info("stored",
			"created", summary.Write.Created,
			"duplicate", summary.Write.SkippedDuplicate,
			"no_location", summary.Write.SkippedNoLocation,
			"no_source", summary.Write.SkippedNoSource,
			"errors", summary.Write.Errors)

		if summary.Write.Created > 0 {
			p.trigger.Fire(summary.Write.Created)
			summary.Triggered = true
		}
	}

	summary.FinishedAt = time.Now().UTC()
	return summary, nil
}

// Close flushes the fire-and-forget trigger.
func (p *Pipeline) Close() {
	p.trigger.Close()
}

// knownURLs asks the store which of the run's URLs already exist.
func (p *Pipeline) knownURLs(ctx context.Context, articles []model.NormalizedArticle) (dedup.KnownSet, error) {
	if len(articles) == 0 {
		return dedup.KnownSet{}, nil
	}

	urls := make([]string, len(articles))
	for i, article := range articles {
		urls[i] = dedup.CanonicalURL(article.URL)
	}

	known, err := p.store.KnownArticleURLs(ctx, urls)
	if err != nil {
		return nil, err
	}

	return dedup.NewKnownSet(known), nil
}
