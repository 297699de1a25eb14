package classify

import (
	"sort"

	"github.com/outbreakwatch/episcan/internal/model"
)

// Batch is one fixed-size group of articles sent to the classifier in
// a single request. Article IDs are batch-correlation keys only.
type Batch struct {
	Index    int
	Articles []model.NormalizedArticle
}

// Plan caps the run to the most recently published articles and splits
// them into contiguous batches. Sequential pipeline-local IDs are
// assigned here, before batching, so classifier output can be keyed
// back to its article.
func Plan(articles []model.NormalizedArticle, maxArticles, batchSize int) []Batch {
	if len(articles) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 10
	}

	sorted := make([]model.NormalizedArticle, len(articles))
	copy(sorted, articles)

	// Truncation keeps recency, never input order: newest first.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	if maxArticles > 0 && len(sorted) > maxArticles {
		sorted = sorted[:maxArticles]
	}

	for i := range sorted {
		sorted[i].ID = i + 1
	}

	var batches []Batch
	for start := 0; start < len(sorted); start += batchSize {
		end := start + batchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		batches = append(batches, Batch{
			Index:    len(batches),
			Articles: sorted[start:end],
		})
	}

	return batches
}

// Size returns the total article count across batches.
func Size(batches []Batch) int {
	total := 0
	for _, b := range batches {
		total += len(b.Articles)
	}
	return total
}

// Articles flattens batches back into one slice, IDs included.
func Articles(batches []Batch) []model.NormalizedArticle {
	var all []model.NormalizedArticle
	for _, b := range batches {
		all = append(all, b.Articles...)
	}
	return all
}
