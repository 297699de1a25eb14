package model

import "time"

// SourceOutcome records what one source adapter contributed to a run.
type SourceOutcome struct {
	Source   string        `json:"source"`
	Language string        `json:"language,omitempty"`
	Articles int           `json:"articles"`
	Attempts int           `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed_ms"`
	Error    string        `json:"error,omitempty"`
}

// RunSummary is the operator-visible result of one pipeline run.
// It is produced regardless of how many sources or batches failed, so
// partial degradation stays observable.
type RunSummary struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run,omitempty"`

	Sources []SourceOutcome `json:"sources"`

	Fetched        int  `json:"fetched"`
	Deduplicated   int  `json:"deduplicated"` // articles surviving dedup
	DroppedExact   int  `json:"dropped_exact"`
	DroppedSimilar int  `json:"dropped_similar"`
	Filtered       int  `json:"filtered"` // articles surviving relevance filter
	FilterFellBack bool `json:"filter_fell_back"`

	Batched int `json:"batched"` // articles sent for classification
	Batches int `json:"batches"`
	Matched int `json:"matched"` // signal candidates returned by the classifier

	BatchErrors []string `json:"batch_errors,omitempty"`

	Write WriteResult `json:"write"`

	Triggered bool `json:"triggered"`
}

// Duration returns the wall-clock duration of the run.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
