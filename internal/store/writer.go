package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/outbreakwatch/episcan/internal/model"
)

// Match groups one article with the signal candidates the classifier
// returned for it.
type Match struct {
	Article    model.NormalizedArticle
	Candidates []model.SignalCandidate
}

// GroupMatches joins candidates back to their articles by pipeline-local
// ID. Candidates referencing unknown IDs are dropped; articles without
// candidates produce no match.
func GroupMatches(articles []model.NormalizedArticle, candidates []model.SignalCandidate) []Match {
	byID := make(map[int]int, len(articles)) // article ID -> index in matches
	var matches []Match

	lookup := make(map[int]model.NormalizedArticle, len(articles))
	for _, article := range articles {
		lookup[article.ID] = article
	}

	for _, candidate := range candidates {
		article, ok := lookup[candidate.ArticleID]
		if !ok {
			continue
		}

		idx, exists := byID[candidate.ArticleID]
		if !exists {
			matches = append(matches, Match{Article: article})
			idx = len(matches) - 1
			byID[candidate.ArticleID] = idx
		}
		matches[idx].Candidates = append(matches[idx].Candidates, candidate)
	}

	return matches
}

// Writer persists matches idempotently: upsert the article, then insert
// each signal once per (article, disease, country). Every insert attempt
// resolves to exactly one outcome; a rejected write is logged and
// counted without stopping the run.
type Writer struct {
	store Store
	log   *slog.Logger
}

// NewWriter creates a writer.
func NewWriter(store Store, log *slog.Logger) *Writer {
	return &Writer{store: store, log: log}
}

// Write persists all matches and returns the aggregate outcome counts.
func (w *Writer) Write(ctx context.Context, matches []Match, refs *model.ReferenceSet) model.WriteResult {
	var result model.WriteResult

	for _, match := range matches {
		if match.Article.Source == "" {
			// No registered source label; nothing to attribute the
			// signals to.
			result.SkippedNoSource += len(match.Candidates)
			continue
		}

		articleID, err := w.store.UpsertArticle(ctx, match.Article)
		if err != nil {
			w.log.Warn("article upsert rejected", "url", match.Article.URL, "error", err)
			result.Errors += len(match.Candidates)
			continue
		}
		result.ArticlesUpserted++

		for _, candidate := range match.Candidates {
			outcome, err := w.writeSignal(ctx, articleID, candidate, refs)
			if err != nil {
				w.log.Warn("signal write rejected", "article", articleID, "error", err)
				result.Errors++
				continue
			}
			result.Count(outcome)
		}
	}

	return result
}

// writeSignal attempts one signal insert and classifies the outcome.
func (w *Writer) writeSignal(ctx context.Context, articleID string, candidate model.SignalCandidate, refs *model.ReferenceSet) (model.StoreOutcome, error) {
	country, ok := resolveCountry(candidate, refs)
	if !ok {
		return model.OutcomeSkippedNoLocation, nil
	}

	signal := model.OutbreakSignal{
		ArticleID:           articleID,
		DiseaseID:           candidate.DiseaseID,
		DetectedDiseaseName: candidate.DetectedDiseaseName,
		Country:             country,
		City:                candidate.City,
		DetectedAt:          candidate.DetectedAt,
		CaseCount:           candidate.CaseCount,
		MortalityCount:      candidate.MortalityCount,
		Severity:            candidate.Severity,
		Confidence:          candidate.Confidence,
	}

	exists, err := w.store.SignalExists(ctx, signal)
	if err != nil {
		return "", err
	}
	if exists {
		return model.OutcomeSkippedDuplicate, nil
	}

	if err := w.store.InsertSignal(ctx, signal); err != nil {
		// The uniqueness constraint also fires on overlapping runs.
		if errors.Is(err, ErrDuplicateSignal) {
			return model.OutcomeSkippedDuplicate, nil
		}
		return "", err
	}

	return model.OutcomeStored, nil
}

// resolveCountry matches the candidate's location against the country
// table. A candidate with no resolvable country has no storable
// location.
func resolveCountry(candidate model.SignalCandidate, refs *model.ReferenceSet) (string, bool) {
	if candidate.Country == "" {
		return "", false
	}
	country, ok := refs.ResolveCountry(candidate.Country)
	if !ok {
		return "", false
	}
	return country.Name, true
}
