package dedup

import "testing"

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases host", "https://Example.COM/path", "https://example.com/path"},
		{"strips fragment", "https://example.com/path#section", "https://example.com/path"},
		{"strips utm params", "https://example.com/a?utm_source=rss&utm_medium=feed&id=7", "https://example.com/a?id=7"},
		{"strips fbclid", "https://example.com/a?fbclid=abc123", "https://example.com/a"},
		{"trims trailing slash", "https://example.com/path/", "https://example.com/path"},
		{"trims whitespace", "  https://example.com/path ", "https://example.com/path"},
		{"keeps real params", "https://example.com/search?q=cholera", "https://example.com/search?q=cholera"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalURL(tt.in); got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFuzzyTitleMatcher_Similarity(t *testing.T) {
	m := NewFuzzyTitleMatcher(0.8)

	if got := m.Similarity("Cholera outbreak in Haiti", "Cholera outbreak in Haiti"); got != 1.0 {
		t.Errorf("identical titles: got %f, want 1.0", got)
	}

	if got := m.Similarity("Cholera outbreak in Haiti", "cholera OUTBREAK in haiti!"); got != 1.0 {
		t.Errorf("case and punctuation must not matter: got %f", got)
	}

	if got := m.Similarity("Cholera outbreak in Haiti", "Stock markets rally on rate cut"); got != 0 {
		t.Errorf("unrelated titles: got %f, want 0", got)
	}

	if got := m.Similarity("", "Cholera outbreak"); got != 0 {
		t.Errorf("empty title: got %f, want 0", got)
	}
}

func TestFuzzyTitleMatcher_NonASCII(t *testing.T) {
	m := NewFuzzyTitleMatcher(0.8)

	// Accented and non-Latin words must survive normalization.
	if got := m.Similarity("Brote de cólera en Haití", "brote de cólera en haití"); got != 1.0 {
		t.Errorf("Spanish titles: got %f, want 1.0", got)
	}
}

func TestFuzzyTitleMatcher_ZeroThresholdDisables(t *testing.T) {
	m := NewFuzzyTitleMatcher(0)

	if m.Similar("same title here", "same title here") {
		t.Error("threshold 0 must disable fuzzy matching")
	}
}
