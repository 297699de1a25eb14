package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/outbreakwatch/episcan/internal/fetch"
	"github.com/outbreakwatch/episcan/internal/model"
)

// MediaAPIAdapter reads a paginated media REST API and enriches items
// that expose a content URL with the full article body.
type MediaAPIAdapter struct {
	cfg       model.MediaAPIConfig
	client    *fetch.Client
	converter *md.Converter
}

// NewMediaAPIAdapter creates the media API adapter.
func NewMediaAPIAdapter(cfg model.MediaAPIConfig, client *fetch.Client) *MediaAPIAdapter {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	if cfg.EnrichWorkers <= 0 {
		cfg.EnrichWorkers = 5
	}
	return &MediaAPIAdapter{
		cfg:       cfg,
		client:    client,
		converter: md.NewConverter("", true, nil),
	}
}

// Name returns the adapter's source label.
func (a *MediaAPIAdapter) Name() string { return a.cfg.Name }

// Language returns empty; the API mixes languages and tags each item.
func (a *MediaAPIAdapter) Language() string { return "" }

// Priority returns the wire tier.
func (a *MediaAPIAdapter) Priority() model.SourcePriority { return model.PriorityWire }

// mediaItem is one entry of the API's article listing.
type mediaItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ContentURL  string `json:"contentUrl"`
	Language    string `json:"language"`
	PublishedAt string `json:"publishedAt"`
}

type mediaPage struct {
	Articles []mediaItem `json:"articles"`
}

// Fetch pages through the listing until the page cap, the item cap, or
// an empty page, then enriches items carrying a content URL. Pages are
// requested one at a time, each only after the previous one parsed.
func (a *MediaAPIAdapter) Fetch(ctx context.Context) ([]model.NormalizedArticle, error) {
	var articles []model.NormalizedArticle
	var targets []string // enrichment page per article, "" when absent

	for page := 1; page <= a.cfg.MaxPages; page++ {
		body, err := a.client.Get(ctx, a.pageURL(page))
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("fetch media page %d: %w", page, err)
			}
			// Later pages are best-effort; keep what we have.
			break
		}

		var parsed mediaPage
		if err := json.Unmarshal(body, &parsed); err != nil {
			if page == 1 {
				return nil, fmt.Errorf("parse media page %d: %w", page, err)
			}
			break
		}

		if len(parsed.Articles) == 0 {
			break
		}

		for _, item := range parsed.Articles {
			if a.cfg.MaxItems > 0 && len(articles) >= a.cfg.MaxItems {
				break
			}
			art, ok := a.normalizeItem(item)
			if !ok {
				continue
			}
			articles = append(articles, art)
			targets = append(targets, item.ContentURL)
		}

		if a.cfg.MaxItems > 0 && len(articles) >= a.cfg.MaxItems {
			break
		}
	}

	a.enrich(ctx, articles, targets)

	return articles, nil
}

// normalizeItem converts one listing entry, rejecting malformed items
// instead of failing the whole page.
func (a *MediaAPIAdapter) normalizeItem(item mediaItem) (model.NormalizedArticle, bool) {
	if item.URL == "" || item.Title == "" {
		return model.NormalizedArticle{}, false
	}

	published := time.Now().UTC()
	if item.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			published = t.UTC()
		}
	}

	return model.NormalizedArticle{
		Title:       item.Title,
		Content:     item.Description,
		URL:         item.URL,
		PublishedAt: published,
		Source:      a.cfg.Name,
		Language:    item.Language,
		Priority:    model.PriorityWire,
	}, true
}

// enrich fetches full article bodies in bounded concurrent sub-batches.
// A failed enrichment leaves the item with its listing summary.
func (a *MediaAPIAdapter) enrich(ctx context.Context, articles []model.NormalizedArticle, targets []string) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, a.cfg.EnrichWorkers)

	for i := range articles {
		if targets[i] == "" {
			continue
		}

		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			text, err := a.fetchBody(ctx, target)
			if err != nil || text == "" {
				return
			}
			articles[idx].Content = text
		}(i, targets[i])
	}

	wg.Wait()
}

// fetchBody downloads one article page and extracts its readable text.
func (a *MediaAPIAdapter) fetchBody(ctx context.Context, pageURL string) (string, error) {
	body, err := a.client.GetPage(ctx, pageURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	selection := doc.Find("article")
	if selection.Length() == 0 {
		selection = doc.Find("main")
	}
	if selection.Length() == 0 {
		selection = doc.Find("body")
	}
	if selection.Length() == 0 {
		return "", nil
	}

	text := a.converter.Convert(selection.First())

	if a.cfg.ContentMaxChars > 0 {
		runes := []rune(text)
		if len(runes) > a.cfg.ContentMaxChars {
			text = string(runes[:a.cfg.ContentMaxChars])
		}
	}

	return text, nil
}

func (a *MediaAPIAdapter) pageURL(page int) string {
	params := url.Values{}
	params.Set("q", a.cfg.Query)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(a.cfg.PageSize))
	if a.cfg.APIKey != "" {
		params.Set("apiKey", a.cfg.APIKey)
	}
	return a.cfg.BaseURL + "?" + params.Encode()
}
