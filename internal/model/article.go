package model

import "time"

// NormalizedArticle is the unit of work flowing through the ingestion pipeline.
// Every source adapter reduces its upstream format to this shape.
type NormalizedArticle struct {
	ID             int       `json:"id"`              // pipeline-local sequence number, assigned before batching
	Title          string    `json:"title"`           // cleaned title
	Content        string    `json:"content"`         // current working text
	OriginalText   string    `json:"original_text"`   // pre-cleaning text, kept for audit
	TranslatedText string    `json:"translated_text"` // cleaned text handed to the classifier (no machine translation)
	URL            string    `json:"url"`             // stable identity key; dedup anchors on this
	PublishedAt    time.Time `json:"published_at"`
	Source         string    `json:"source"`   // adapter-assigned label
	Language       string    `json:"language"` // ISO 639-1 code, empty if unknown
	Priority       SourcePriority `json:"-"`  // assigned at adapter registration
}

// SourcePriority ranks sources for near-duplicate suppression.
// Lower values win: an official health authority beats a wire outlet,
// which beats an aggregated search feed.
type SourcePriority int

const (
	PriorityUnknown  SourcePriority = 0
	PriorityOfficial SourcePriority = 1 // WHO, CDC, ECDC, ProMED and friends
	PriorityWire     SourcePriority = 2 // major outlets and wire services
	PrioritySearch   SourcePriority = 3 // aggregated search feeds
)

func (p SourcePriority) String() string {
	switch p {
	case PriorityOfficial:
		return "official"
	case PriorityWire:
		return "wire"
	case PrioritySearch:
		return "search"
	default:
		return "unknown"
	}
}

// ParsePriority converts a config string to a SourcePriority.
func ParsePriority(s string) SourcePriority {
	switch s {
	case "official", "1":
		return PriorityOfficial
	case "wire", "2":
		return PriorityWire
	case "search", "3":
		return PrioritySearch
	default:
		return PriorityUnknown
	}
}

// Authoritative reports whether articles from this priority tier are
// protected from similarity-based suppression.
func (p SourcePriority) Authoritative() bool {
	return p == PriorityOfficial
}
