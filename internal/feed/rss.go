package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/outbreakwatch/episcan/internal/fetch"
	"github.com/outbreakwatch/episcan/internal/model"
)

// RSSAdapter reads one authoritative RSS/Atom feed.
type RSSAdapter struct {
	name     string
	url      string
	language string
	priority model.SourcePriority
	maxItems int
	client   *fetch.Client
	parser   *gofeed.Parser
}

// NewRSSAdapter creates an adapter for one configured feed.
func NewRSSAdapter(cfg model.RSSSourceConfig, priority model.SourcePriority, client *fetch.Client) *RSSAdapter {
	return &RSSAdapter{
		name:     cfg.Name,
		url:      cfg.URL,
		language: cfg.Language,
		priority: priority,
		maxItems: cfg.MaxItems,
		client:   client,
		parser:   gofeed.NewParser(),
	}
}

// Name returns the adapter's source label.
func (a *RSSAdapter) Name() string { return a.name }

// Language returns the feed's ISO language code.
func (a *RSSAdapter) Language() string { return a.language }

// Priority returns the source's dedup priority tier.
func (a *RSSAdapter) Priority() model.SourcePriority { return a.priority }

// Fetch downloads and parses the feed.
func (a *RSSAdapter) Fetch(ctx context.Context) ([]model.NormalizedArticle, error) {
	body, err := a.client.Get(ctx, a.url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", a.name, err)
	}

	feed, err := a.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", a.name, err)
	}

	return parseFeedItems(feed, a.maxItems, a.name, a.language, a.priority), nil
}
