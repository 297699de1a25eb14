package feed

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/outbreakwatch/episcan/internal/fetch"
	"github.com/outbreakwatch/episcan/internal/model"
)

// Adapter fetches and normalizes one upstream feed into articles.
// A single malformed item is skipped, never fatal for the adapter.
type Adapter interface {
	Name() string
	Language() string
	Priority() model.SourcePriority
	Fetch(ctx context.Context) ([]model.NormalizedArticle, error)
}

// Registry holds the source adapters configured for a run.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make([]Adapter, 0)}
}

// Register adds an adapter.
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// All returns the registered adapters in registration order.
func (r *Registry) All() []Adapter {
	return r.adapters
}

// Sources returns the adapters as orchestrator inputs.
func (r *Registry) Sources() []fetch.Adapter {
	sources := make([]fetch.Adapter, len(r.adapters))
	for i, a := range r.adapters {
		sources[i] = a
	}
	return sources
}

// BuildRegistry constructs all adapters from configuration: one per RSS
// feed, one search adapter per language, and the media API when enabled.
func BuildRegistry(cfg model.SourcesConfig, overrides map[string]string, client *fetch.Client) *Registry {
	registry := NewRegistry()

	for _, rc := range cfg.RSS {
		registry.Register(NewRSSAdapter(rc, resolvePriority(rc.Name, rc.Priority, overrides), client))
	}

	if cfg.Search.Enabled {
		for _, adapter := range NewSearchAdapters(cfg.Search, client) {
			registry.Register(adapter)
		}
	}

	if cfg.MediaAPI.Enabled {
		registry.Register(NewMediaAPIAdapter(cfg.MediaAPI, client))
	}

	return registry
}

// resolvePriority prefers an explicit override, then the source's own
// configured tier. Sources declaring neither stay unknown and are
// classified by label heuristics at dedup time.
func resolvePriority(name, configured string, overrides map[string]string) model.SourcePriority {
	if tier, ok := overrides[name]; ok {
		if p := model.ParsePriority(tier); p != model.PriorityUnknown {
			return p
		}
	}
	return model.ParsePriority(configured)
}

// parseFeedItems converts gofeed items into normalized articles, shared
// by the RSS and search adapters. Items missing a link or title are
// skipped; missing timestamps default to now.
func parseFeedItems(feed *gofeed.Feed, maxItems int, source, language string, priority model.SourcePriority) []model.NormalizedArticle {
	var articles []model.NormalizedArticle

	for _, item := range feed.Items {
		if maxItems > 0 && len(articles) >= maxItems {
			break
		}
		if item == nil || item.Link == "" || item.Title == "" {
			continue
		}

		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed.UTC()
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		articles = append(articles, model.NormalizedArticle{
			Title:       item.Title,
			Content:     content,
			URL:         item.Link,
			PublishedAt: published,
			Source:      source,
			Language:    language,
			Priority:    priority,
		})
	}

	return articles
}
