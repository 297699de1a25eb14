// Package normalize strips markup and bounds article text to the
// classifier's input budget. Content is never machine-translated; the
// classifier is multilingual.
package normalize

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/outbreakwatch/episcan/internal/model"
)

// Normalizer cleans one article in place.
type Normalizer struct {
	textBudget int // max runes of cleaned content
}

// New creates a normalizer with the given text budget.
func New(textBudget int) *Normalizer {
	if textBudget <= 0 {
		textBudget = 1500
	}
	return &Normalizer{textBudget: textBudget}
}

// Normalize cleans the article's title and content, preserving the
// original text and writing the bounded cleaned value to both Content
// and TranslatedText.
func (n *Normalizer) Normalize(article *model.NormalizedArticle) {
	if article.OriginalText == "" {
		article.OriginalText = article.Content
	}

	article.Title = collapseWhitespace(StripHTML(article.Title))

	cleaned := collapseWhitespace(StripHTML(article.Content))
	cleaned = truncateRunes(cleaned, n.textBudget)

	article.Content = cleaned
	article.TranslatedText = cleaned
}

// All normalizes every article of a slice.
func (n *Normalizer) All(articles []model.NormalizedArticle) []model.NormalizedArticle {
	for i := range articles {
		n.Normalize(&articles[i])
	}
	return articles
}

// StripHTML extracts visible text from a markup fragment, skipping
// script/style/noscript/iframe subtrees. Plain text passes through
// with entities decoded.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	doc, err := xhtml.Parse(strings.NewReader(fragment))
	if err != nil {
		return html.UnescapeString(fragment)
	}

	var buf strings.Builder

	var walk func(*xhtml.Node)
	walk = func(node *xhtml.Node) {
		if node.Type == xhtml.ElementNode {
			switch node.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if node.Type == xhtml.TextNode {
			text := strings.TrimSpace(node.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
