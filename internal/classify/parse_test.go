package classify

import "testing"

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `[{"article_id":1}]`, `[{"article_id":1}]`},
		{"plain fence", "```\n[1,2]\n```", "[1,2]"},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"surrounding whitespace", "  ```json\n[]\n```  ", "[]"},
		{"single line fence", "```[]```", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMatches_ValidResponse(t *testing.T) {
	response := "```json\n" + `[
		{"article_id": 1, "disease": "cholera", "country": "Haiti", "city": null,
		 "case_count_mentioned": 120, "mortality_count_mentioned": null,
		 "severity_assessment": "high", "confidence_score": 0.92}
	]` + "\n```"

	matches, err := parseMatches(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	m := matches[0]
	if m.ArticleID != 1 || m.Disease != "cholera" {
		t.Errorf("unexpected match: %+v", m)
	}
	if m.Country == nil || *m.Country != "Haiti" {
		t.Errorf("country not decoded: %v", m.Country)
	}
	if m.City != nil {
		t.Errorf("expected nil city, got %v", *m.City)
	}
	if m.CaseCount == nil || *m.CaseCount != 120 {
		t.Errorf("case count not decoded: %v", m.CaseCount)
	}
	if m.MortalityCount != nil {
		t.Errorf("expected nil mortality count")
	}
}

func TestParseMatches_EmptyArray(t *testing.T) {
	matches, err := parseMatches("[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestParseMatches_MalformedDiscardsBatch(t *testing.T) {
	for _, response := range []string{
		"I found two outbreaks in the articles.",
		`{"article_id": 1}`,
		"```json\nnot json\n```",
	} {
		if _, err := parseMatches(response); err == nil {
			t.Errorf("expected error for %q", response)
		}
	}
}
