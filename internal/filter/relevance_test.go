package filter

import (
	"io"
	"log/slog"
	"testing"

	"github.com/outbreakwatch/episcan/internal/model"
)

func testFilter(cfg model.FilterConfig) *Filter {
	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRelevant_PerLanguage(t *testing.T) {
	f := testFilter(model.FilterConfig{})

	tests := []struct {
		name    string
		article model.NormalizedArticle
		want    bool
	}{
		{
			"english keyword in title",
			model.NormalizedArticle{Title: "Cholera outbreak kills dozens", Language: "en"},
			true,
		},
		{
			"english keyword in content only",
			model.NormalizedArticle{Title: "Health ministry statement", Content: "Officials confirmed an epidemic in the region", Language: "en"},
			true,
		},
		{
			"spanish keyword",
			model.NormalizedArticle{Title: "Brote de dengue en la costa", Language: "es"},
			true,
		},
		{
			"french keyword",
			model.NormalizedArticle{Title: "Nouvelle épidémie de choléra", Language: "fr"},
			true,
		},
		{
			"chinese keyword",
			model.NormalizedArticle{Title: "当地爆发登革热", Language: "zh"},
			true,
		},
		{
			"irrelevant english article",
			model.NormalizedArticle{Title: "Central bank raises interest rates", Content: "Markets reacted calmly", Language: "en"},
			false,
		},
		{
			"case insensitive",
			model.NormalizedArticle{Title: "EBOLA Cases Confirmed", Language: "en"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Relevant(tt.article); got != tt.want {
				t.Errorf("Relevant(%q) = %v, want %v", tt.article.Title, got, tt.want)
			}
		})
	}
}

func TestRelevant_UnknownLanguageUsesUnion(t *testing.T) {
	f := testFilter(model.FilterConfig{})

	// Portuguese keyword, but the source never declared a language.
	article := model.NormalizedArticle{Title: "Surto de sarampo no norte", Language: ""}
	if !f.Relevant(article) {
		t.Error("unknown language must be checked against all keyword lists")
	}
}

func TestRelevant_ExtraKeywords(t *testing.T) {
	f := testFilter(model.FilterConfig{
		ExtraKeywords: map[string][]string{"en": {"Marburg"}},
	})

	article := model.NormalizedArticle{Title: "Marburg suspected in returning traveler", Language: "en"}
	if !f.Relevant(article) {
		t.Error("config extra keywords must extend the built-in list")
	}
}

func TestApply_FallbackOnEmptyResult(t *testing.T) {
	f := testFilter(model.FilterConfig{})

	articles := []model.NormalizedArticle{
		{Title: "Quarterly earnings beat expectations", Language: "en"},
		{Title: "Local team wins championship", Language: "en"},
	}

	kept, fellBack := f.Apply(articles)

	if !fellBack {
		t.Error("expected fallback when nothing matches")
	}
	if len(kept) != len(articles) {
		t.Errorf("fallback must return the full set, got %d of %d", len(kept), len(articles))
	}
}

func TestApply_KeepsOnlyRelevant(t *testing.T) {
	f := testFilter(model.FilterConfig{})

	articles := []model.NormalizedArticle{
		{Title: "Measles outbreak in schools", Language: "en"},
		{Title: "Stock markets rally", Language: "en"},
	}

	kept, fellBack := f.Apply(articles)

	if fellBack {
		t.Error("unexpected fallback")
	}
	if len(kept) != 1 || kept[0].Title != "Measles outbreak in schools" {
		t.Errorf("expected only the outbreak article, got %v", kept)
	}
}

func TestApply_EmptyInput(t *testing.T) {
	f := testFilter(model.FilterConfig{})

	kept, fellBack := f.Apply(nil)
	if len(kept) != 0 || fellBack {
		t.Errorf("empty input: got %d articles, fellBack=%v", len(kept), fellBack)
	}
}
