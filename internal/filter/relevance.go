// Package filter gates articles on outbreak relevance before they
// reach the classifier.
package filter

import (
	"log/slog"
	"strings"

	"github.com/outbreakwatch/episcan/internal/model"
)

// Filter keeps articles whose title or content contains any keyword of
// the article's language list; articles with an unknown language are
// checked against the union of all lists.
type Filter struct {
	byLanguage map[string][]string
	union      []string
	log        *slog.Logger
}

// New builds a filter from the built-in lists plus config extras.
func New(cfg model.FilterConfig, log *slog.Logger) *Filter {
	byLanguage := make(map[string][]string, len(defaultKeywords))
	for lang, words := range defaultKeywords {
		byLanguage[lang] = lowerAll(words)
	}
	for lang, words := range cfg.ExtraKeywords {
		byLanguage[lang] = append(byLanguage[lang], lowerAll(words)...)
	}

	var union []string
	for _, words := range byLanguage {
		union = append(union, words...)
	}

	return &Filter{
		byLanguage: byLanguage,
		union:      union,
		log:        log,
	}
}

// Relevant is the pure predicate over one article's text.
func (f *Filter) Relevant(article model.NormalizedArticle) bool {
	keywords, ok := f.byLanguage[article.Language]
	if !ok {
		keywords = f.union
	}

	text := strings.ToLower(article.Title + " " + article.Content)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// Apply filters the run's article set. When the keyword lists reject
// everything, the full unfiltered set is returned instead, so a run is
// never silently skipped because of unexpected phrasing.
func (f *Filter) Apply(articles []model.NormalizedArticle) (kept []model.NormalizedArticle, fellBack bool) {
	if len(articles) == 0 {
		return articles, false
	}

	for _, article := range articles {
		if f.Relevant(article) {
			kept = append(kept, article)
		}
	}

	if len(kept) == 0 {
		f.log.Warn("relevance filter matched nothing, processing full set", "articles", len(articles))
		return articles, true
	}

	return kept, false
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
