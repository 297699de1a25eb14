package classify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/outbreakwatch/episcan/internal/model"
)

// nowFunc supplies detection timestamps (injectable for tests).
var nowFunc = time.Now

// BatchResult records one batch's classification outcome. A failed
// batch contributes zero candidates and never stops later batches.
type BatchResult struct {
	Index      int
	Articles   int
	Candidates int
	Err        error
}

// Matcher runs the classification capability over planned batches.
type Matcher struct {
	provider Provider
	log      *slog.Logger
}

// NewMatcher creates a matcher.
func NewMatcher(provider Provider, log *slog.Logger) *Matcher {
	return &Matcher{provider: provider, log: log}
}

// MatchAll processes batches strictly sequentially; the external API is
// rate- and cost-sensitive, so this is the pipeline's one intentional
// serialization point.
func (m *Matcher) MatchAll(ctx context.Context, batches []Batch, refs *model.ReferenceSet) ([]model.SignalCandidate, []BatchResult) {
	var candidates []model.SignalCandidate
	results := make([]BatchResult, 0, len(batches))

	for _, batch := range batches {
		result := BatchResult{Index: batch.Index, Articles: len(batch.Articles)}

		matched, err := m.matchBatch(ctx, batch, refs)
		if err != nil {
			result.Err = err
			m.log.Warn("batch classification failed", "batch", batch.Index, "error", err)
		} else {
			result.Candidates = len(matched)
			candidates = append(candidates, matched...)
		}

		results = append(results, result)
	}

	return candidates, results
}

// matchBatch classifies one batch and validates the response shape.
func (m *Matcher) matchBatch(ctx context.Context, batch Batch, refs *model.ReferenceSet) ([]model.SignalCandidate, error) {
	user, err := BuildUserPayload(batch, refs)
	if err != nil {
		return nil, err
	}

	response, err := m.provider.Classify(ctx, systemPrompt, user)
	if err != nil {
		return nil, err
	}

	matches, err := parseMatches(response)
	if err != nil {
		return nil, err
	}

	inBatch := make(map[int]bool, len(batch.Articles))
	for _, article := range batch.Articles {
		inBatch[article.ID] = true
	}

	var candidates []model.SignalCandidate
	for _, match := range matches {
		if !inBatch[match.ArticleID] {
			m.log.Debug("classifier returned unknown article id", "batch", batch.Index, "article_id", match.ArticleID)
			continue
		}
		candidates = append(candidates, m.toCandidate(match, refs))
	}

	return candidates, nil
}

// toCandidate resolves one validated match against the vocabulary.
func (m *Matcher) toCandidate(match rawMatch, refs *model.ReferenceSet) model.SignalCandidate {
	candidate := model.SignalCandidate{
		ArticleID:      match.ArticleID,
		DetectedAt:     nowFunc().UTC(),
		CaseCount:      match.CaseCount,
		MortalityCount: match.MortalityCount,
		Severity:       model.ParseSeverity(match.Severity),
		Confidence:     clampConfidence(match.Confidence),
	}

	if match.Country != nil {
		candidate.Country = strings.TrimSpace(*match.Country)
	}
	if match.City != nil {
		candidate.City = strings.TrimSpace(*match.City)
	}

	disease, ok := refs.ResolveDisease(match.Disease)
	if ok && !strings.EqualFold(disease.Name, "other") {
		candidate.DiseaseID = disease.ID
		candidate.DiseaseName = disease.Name
	} else {
		// Vocabulary miss or explicit "other": keep the free-text name.
		candidate.DetectedDiseaseName = match.DetectedDiseaseName
		if candidate.DetectedDiseaseName == "" {
			candidate.DetectedDiseaseName = match.Disease
		}
	}

	return candidate
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
