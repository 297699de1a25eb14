package feed

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/outbreakwatch/episcan/internal/fetch"
	"github.com/outbreakwatch/episcan/internal/model"
)

// searchRegions maps feed languages to the region parameter the search
// endpoint expects.
var searchRegions = map[string]string{
	"en": "US",
	"es": "ES",
	"fr": "FR",
	"pt": "BR",
	"zh": "CN",
	"ar": "EG",
}

// SearchFeedAdapter reads one language's slice of the multilingual
// search feed. One instance exists per configured language and all of
// them run concurrently, so every run refreshes every language.
type SearchFeedAdapter struct {
	name     string
	baseURL  string
	query    string
	language string
	maxItems int
	client   *fetch.Client
	parser   *gofeed.Parser
}

// NewSearchAdapters builds one adapter per configured language.
func NewSearchAdapters(cfg model.SearchFeedConfig, client *fetch.Client) []*SearchFeedAdapter {
	adapters := make([]*SearchFeedAdapter, 0, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		adapters = append(adapters, &SearchFeedAdapter{
			name:     "search-" + lang,
			baseURL:  cfg.BaseURL,
			query:    cfg.Query,
			language: lang,
			maxItems: cfg.MaxItems,
			client:   client,
			parser:   gofeed.NewParser(),
		})
	}
	return adapters
}

// Name returns the adapter's source label.
func (a *SearchFeedAdapter) Name() string { return a.name }

// Language returns the adapter's language code.
func (a *SearchFeedAdapter) Language() string { return a.language }

// Priority returns the search tier; search feeds always rank lowest.
func (a *SearchFeedAdapter) Priority() model.SourcePriority { return model.PrioritySearch }

// Fetch downloads and parses this language's search feed.
func (a *SearchFeedAdapter) Fetch(ctx context.Context) ([]model.NormalizedArticle, error) {
	body, err := a.client.Get(ctx, a.feedURL())
	if err != nil {
		return nil, fmt.Errorf("fetch search feed %s: %w", a.name, err)
	}

	feed, err := a.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse search feed %s: %w", a.name, err)
	}

	return parseFeedItems(feed, a.maxItems, a.name, a.language, model.PrioritySearch), nil
}

func (a *SearchFeedAdapter) feedURL() string {
	region := searchRegions[a.language]
	if region == "" {
		region = "US"
	}

	params := url.Values{}
	params.Set("q", a.query)
	params.Set("hl", a.language)
	params.Set("gl", region)
	params.Set("ceid", region+":"+a.language)

	return a.baseURL + "?" + params.Encode()
}
