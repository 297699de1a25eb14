package dedup

import (
	"net/url"
	"strings"
	"unicode"
)

// CanonicalURL reduces a URL to its stable dedup key: lowercased
// scheme/host, no fragment, no tracking params, no trailing slash.
func CanonicalURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	query := parsed.Query()
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), "utm_") || strings.EqualFold(key, "fbclid") {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	return parsed.String()
}

// FuzzyTitleMatcher detects the same story told by two sources using
// word-overlap similarity over normalized titles.
type FuzzyTitleMatcher struct {
	threshold float64
}

// NewFuzzyTitleMatcher creates a matcher with the given Jaccard
// threshold (0 disables fuzzy matching entirely).
func NewFuzzyTitleMatcher(threshold float64) *FuzzyTitleMatcher {
	return &FuzzyTitleMatcher{threshold: threshold}
}

// Similar reports whether two titles describe the same story.
func (m *FuzzyTitleMatcher) Similar(a, b string) bool {
	if m.threshold <= 0 {
		return false
	}
	return m.Similarity(a, b) >= m.threshold
}

// Similarity returns the Jaccard index of the titles' word sets.
func (m *FuzzyTitleMatcher) Similarity(a, b string) float64 {
	setA := titleWords(a)
	setB := titleWords(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// titleWords lowercases a title and strips punctuation, returning the
// set of remaining words. Letters outside ASCII survive so non-English
// titles compare meaningfully.
func titleWords(title string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, title)

	words := make(map[string]struct{})
	for _, w := range strings.Fields(cleaned) {
		words[w] = struct{}{}
	}
	return words
}
