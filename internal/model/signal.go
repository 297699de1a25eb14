package model

import "time"

// Severity is the classifier's ordinal assessment of an outbreak mention.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity normalizes a classifier-provided severity string.
// Unknown values fall back to low rather than failing the match.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(s)
	default:
		return SeverityLow
	}
}

// SignalCandidate is one classifier match for one article, before storage.
// ArticleID refers to the pipeline-local sequence number on NormalizedArticle.
type SignalCandidate struct {
	ArticleID           int
	DiseaseID           string // resolved against the disease vocabulary; empty when unresolved
	DiseaseName         string
	DetectedDiseaseName string // free-text name, kept when the vocabulary match is "other"
	Country             string // raw location as returned by the classifier
	City                string
	DetectedAt          time.Time
	CaseCount           *int
	MortalityCount      *int
	Severity            Severity
	Confidence          float64
}

// OutbreakSignal is the persisted, disease-and-location-scoped observation.
// Uniqueness is enforced per (article, disease, country) at write time.
type OutbreakSignal struct {
	ArticleID           string    `json:"article_id"` // store-assigned article identity
	DiseaseID           string    `json:"disease_id,omitempty"`
	DetectedDiseaseName string    `json:"detected_disease_name,omitempty"`
	Country             string    `json:"country,omitempty"`
	City                string    `json:"city,omitempty"`
	DetectedAt          time.Time `json:"detected_at"`
	CaseCount           *int      `json:"case_count_mentioned,omitempty"`
	MortalityCount      *int      `json:"mortality_count_mentioned,omitempty"`
	Severity            Severity  `json:"severity_assessment"`
	Confidence          float64   `json:"confidence_score"`
}

// StoreOutcome classifies exactly one signal write attempt.
type StoreOutcome string

const (
	OutcomeStored            StoreOutcome = "stored"
	OutcomeSkippedDuplicate  StoreOutcome = "skipped_duplicate"
	OutcomeSkippedNoLocation StoreOutcome = "skipped_no_location"
	OutcomeSkippedNoSource   StoreOutcome = "skipped_no_source"
)

// WriteResult aggregates signal write outcomes for one run.
type WriteResult struct {
	ArticlesUpserted  int `json:"articles_upserted"`
	Created           int `json:"created"` // newly stored signals
	SkippedDuplicate  int `json:"skipped_duplicate"`
	SkippedNoLocation int `json:"skipped_no_location"`
	SkippedNoSource   int `json:"skipped_no_source"`
	Errors            int `json:"errors"` // rejected writes, logged and skipped
}

// Add merges another result into this one.
func (r *WriteResult) Add(other WriteResult) {
	r.ArticlesUpserted += other.ArticlesUpserted
	r.Created += other.Created
	r.SkippedDuplicate += other.SkippedDuplicate
	r.SkippedNoLocation += other.SkippedNoLocation
	r.SkippedNoSource += other.SkippedNoSource
	r.Errors += other.Errors
}

// Count increments the counter matching the given outcome.
func (r *WriteResult) Count(outcome StoreOutcome) {
	switch outcome {
	case OutcomeStored:
		r.Created++
	case OutcomeSkippedDuplicate:
		r.SkippedDuplicate++
	case OutcomeSkippedNoLocation:
		r.SkippedNoLocation++
	case OutcomeSkippedNoSource:
		r.SkippedNoSource++
	}
}
