package dedup

import (
	"strings"

	"github.com/outbreakwatch/episcan/internal/model"
)

// Classifier resolves the priority tier for articles whose adapter
// registered no explicit tier. Explicit registration wins; config
// overrides come next; label substring heuristics are the fallback of
// last resort for drifting source labels.
type Classifier struct {
	overrides map[string]model.SourcePriority
}

// NewClassifier builds a classifier from the config override map
// (source label -> tier name).
func NewClassifier(overrides map[string]string) *Classifier {
	c := &Classifier{overrides: make(map[string]model.SourcePriority, len(overrides))}
	for label, tier := range overrides {
		if p := model.ParsePriority(tier); p != model.PriorityUnknown {
			c.overrides[strings.ToLower(label)] = p
		}
	}
	return c
}

// Classify returns the article's effective priority tier.
func (c *Classifier) Classify(article model.NormalizedArticle) model.SourcePriority {
	if article.Priority != model.PriorityUnknown {
		return article.Priority
	}

	label := strings.ToLower(article.Source)

	if p, ok := c.overrides[label]; ok {
		return p
	}

	return guessFromLabel(label)
}

// officialMarkers and wireMarkers are label fragments for sources that
// predate explicit tier registration.
var officialMarkers = []string{"who", "cdc", "ecdc", "promed", "paho", "health-authority", "moh"}

var wireMarkers = []string{"reuters", "apnews", "afp", "bbc", "media"}

func guessFromLabel(label string) model.SourcePriority {
	for _, marker := range officialMarkers {
		if strings.Contains(label, marker) {
			return model.PriorityOfficial
		}
	}
	for _, marker := range wireMarkers {
		if strings.Contains(label, marker) {
			return model.PriorityWire
		}
	}
	return model.PrioritySearch
}
