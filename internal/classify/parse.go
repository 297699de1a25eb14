package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawMatch is one classifier match as it appears on the wire. The
// response is untrusted external input; everything here is validated
// before it becomes a SignalCandidate.
type rawMatch struct {
	ArticleID           int     `json:"article_id"`
	Disease             string  `json:"disease"`
	DetectedDiseaseName string  `json:"detected_disease_name"`
	Country             *string `json:"country"`
	City                *string `json:"city"`
	CaseCount           *int    `json:"case_count_mentioned"`
	MortalityCount      *int    `json:"mortality_count_mentioned"`
	Severity            string  `json:"severity_assessment"`
	Confidence          float64 `json:"confidence_score"`
}

// StripCodeFences removes a wrapping markdown code fence, which some
// models add despite instructions.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line (``` or ```json).
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")

	return strings.TrimSpace(trimmed)
}

// parseMatches decodes the classifier response. A response that is not
// a JSON array discards the whole batch.
func parseMatches(response string) ([]rawMatch, error) {
	cleaned := StripCodeFences(response)

	var matches []rawMatch
	if err := json.Unmarshal([]byte(cleaned), &matches); err != nil {
		return nil, fmt.Errorf("unparseable classifier response: %w", err)
	}

	return matches, nil
}
