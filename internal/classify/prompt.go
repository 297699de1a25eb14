package classify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/outbreakwatch/episcan/internal/model"
)

// systemPrompt is the fixed instruction sent with every batch.
const systemPrompt = `You are an epidemiological analyst. You receive a JSON object with a disease taxonomy and a batch of news articles in multiple languages. For each article that describes a current or recent disease outbreak, produce one match per (disease, country) pair mentioned.

Rules:
- "disease" MUST be a name from the provided taxonomy. Use "other" when no taxonomy entry fits and put the actual disease name in "detected_disease_name".
- "country" is the affected country (English name); use null when no location can be determined. "city" is optional.
- "case_count_mentioned" and "mortality_count_mentioned" are integers explicitly stated in the article, or null.
- "severity_assessment" is one of: low, medium, high, critical.
- "confidence_score" is a number between 0 and 1.
- Articles without outbreak content produce no match.

Respond ONLY with a JSON array of objects with the fields: article_id, disease, detected_disease_name, country, city, case_count_mentioned, mortality_count_mentioned, severity_assessment, confidence_score. No prose, no markdown.`

// promptArticle is one article as serialized into the user payload.
type promptArticle struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Source      string `json:"source"`
	Language    string `json:"language,omitempty"`
	PublishedAt string `json:"published_at"`
}

type promptPayload struct {
	Diseases []string        `json:"diseases"`
	Articles []promptArticle `json:"articles"`
}

// BuildUserPayload serializes one batch plus the disease taxonomy.
func BuildUserPayload(batch Batch, refs *model.ReferenceSet) (string, error) {
	payload := promptPayload{
		Diseases: refs.DiseaseNames(),
		Articles: make([]promptArticle, 0, len(batch.Articles)),
	}

	for _, article := range batch.Articles {
		payload.Articles = append(payload.Articles, promptArticle{
			ID:          article.ID,
			Title:       article.Title,
			Text:        article.TranslatedText,
			Source:      article.Source,
			Language:    article.Language,
			PublishedAt: article.PublishedAt.UTC().Format(time.RFC3339),
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal batch payload: %w", err)
	}

	return string(data), nil
}
