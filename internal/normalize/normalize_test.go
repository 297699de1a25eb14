package normalize

import (
	"strings"
	"testing"

	"github.com/outbreakwatch/episcan/internal/model"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "no markup here", "no markup here"},
		{"tags removed", "<p>Cholera <b>outbreak</b> reported</p>", "Cholera outbreak reported"},
		{"script dropped", "<p>visible</p><script>alert(1)</script>", "visible"},
		{"style dropped", "<style>p{color:red}</style><p>text</p>", "text"},
		{"entities decoded", "cases &amp; deaths", "cases & deaths"},
		{"iframe dropped", "<iframe src=\"x\">embedded</iframe>report", "report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_PreservesOriginalText(t *testing.T) {
	n := New(1500)

	article := model.NormalizedArticle{
		Title:   "  Outbreak\n  update ",
		Content: "<p>Twelve   cases\tconfirmed</p>",
	}
	n.Normalize(&article)

	if article.OriginalText != "<p>Twelve   cases\tconfirmed</p>" {
		t.Errorf("original text lost: %q", article.OriginalText)
	}
	if article.Title != "Outbreak update" {
		t.Errorf("title not collapsed: %q", article.Title)
	}
	if article.Content != "Twelve cases confirmed" {
		t.Errorf("content not cleaned: %q", article.Content)
	}
	if article.TranslatedText != article.Content {
		t.Errorf("translated text mismatch: %q", article.TranslatedText)
	}
}

func TestNormalize_DoesNotOverwriteExistingOriginal(t *testing.T) {
	n := New(1500)

	article := model.NormalizedArticle{
		Content:      "enriched body",
		OriginalText: "raw feed snippet",
	}
	n.Normalize(&article)

	if article.OriginalText != "raw feed snippet" {
		t.Errorf("pre-set original text overwritten: %q", article.OriginalText)
	}
}

func TestNormalize_TruncatesToBudgetInRunes(t *testing.T) {
	n := New(10)

	article := model.NormalizedArticle{Content: strings.Repeat("疫", 25)}
	n.Normalize(&article)

	if got := len([]rune(article.Content)); got != 10 {
		t.Errorf("expected 10 runes, got %d", got)
	}
}

func TestNormalize_ZeroBudgetUsesDefault(t *testing.T) {
	n := New(0)

	long := strings.Repeat("a", 2000)
	article := model.NormalizedArticle{Content: long}
	n.Normalize(&article)

	if got := len(article.Content); got != 1500 {
		t.Errorf("expected default budget 1500, got %d", got)
	}
}
