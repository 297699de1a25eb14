// Package dedup removes exact and near-duplicate articles, both within
// the current run and against previously ingested content.
package dedup

import (
	"log/slog"
	"sort"

	"github.com/outbreakwatch/episcan/internal/model"
)

// KnownSet holds canonical URLs of previously stored articles.
type KnownSet map[string]struct{}

// NewKnownSet canonicalizes a list of stored URLs.
func NewKnownSet(urls []string) KnownSet {
	set := make(KnownSet, len(urls))
	for _, u := range urls {
		set[CanonicalURL(u)] = struct{}{}
	}
	return set
}

// Stats counts what the deduplicator dropped and why.
type Stats struct {
	DroppedExact   int
	DroppedSimilar int
}

// Deduplicator applies the exact-key matcher to every article and the
// fuzzy-title matcher only to lower-priority sources. Authoritative
// articles are never dropped by similarity, only by exact key.
type Deduplicator struct {
	fuzzy      *FuzzyTitleMatcher
	classifier *Classifier
	log        *slog.Logger
}

// New creates a deduplicator from the dedup config section.
func New(cfg model.DedupConfig, log *slog.Logger) *Deduplicator {
	return &Deduplicator{
		fuzzy:      NewFuzzyTitleMatcher(cfg.TitleSimilarity),
		classifier: NewClassifier(cfg.PriorityOverrides),
		log:        log,
	}
}

// Dedupe returns the articles not already known, highest-priority
// version of each story first.
func (d *Deduplicator) Dedupe(articles []model.NormalizedArticle, known KnownSet) ([]model.NormalizedArticle, Stats) {
	var stats Stats

	candidates := make([]model.NormalizedArticle, len(articles))
	copy(candidates, articles)
	for i := range candidates {
		candidates[i].Priority = d.classifier.Classify(candidates[i])
	}

	// Accept in priority order so similarity comparisons only ever run
	// against an already-accepted, higher-or-equal-priority article.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})

	seen := make(map[string]struct{}, len(candidates))
	var accepted []model.NormalizedArticle

	for _, article := range candidates {
		key := CanonicalURL(article.URL)

		if _, dup := seen[key]; dup {
			stats.DroppedExact++
			continue
		}
		if _, stored := known[key]; stored {
			stats.DroppedExact++
			continue
		}

		if !article.Priority.Authoritative() && d.similarToAccepted(article, accepted) {
			stats.DroppedSimilar++
			d.log.Debug("dropped near-duplicate", "source", article.Source, "title", article.Title)
			continue
		}

		seen[key] = struct{}{}
		accepted = append(accepted, article)
	}

	return accepted, stats
}

// similarToAccepted checks the candidate's title against every accepted
// article from a strictly higher-priority source.
func (d *Deduplicator) similarToAccepted(candidate model.NormalizedArticle, accepted []model.NormalizedArticle) bool {
	for _, other := range accepted {
		if other.Priority >= candidate.Priority {
			continue
		}
		if d.fuzzy.Similar(candidate.Title, other.Title) {
			return true
		}
	}
	return false
}
