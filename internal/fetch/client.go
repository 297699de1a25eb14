package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/outbreakwatch/episcan/internal/cache"
	"github.com/outbreakwatch/episcan/internal/model"
	"github.com/outbreakwatch/episcan/internal/util"
	"github.com/outbreakwatch/episcan/internal/worker"
)

// Client is the shared HTTP fetcher used by all source adapters.
// Feed endpoints go through Get; full-article page fetches during
// content enrichment go through GetPage, which additionally honors
// robots.txt and crawl delays.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache // nil disables response caching
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewClient builds a Client from the HTTP config section.
// responseCache may be nil to force fresh fetches.
func NewClient(cfg model.HTTPConfig, responseCache cache.Cache) *Client {
	proxyFunc := util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: proxyFunc,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		cache:     responseCache,
		limiter:   worker.NewLimiter(cfg.RatePerHost, cfg.RateBurst),
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
	}
}

// Get fetches a feed or API URL, consulting the response cache first.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.cache != nil {
		if body, found := c.cache.Get(cache.CacheKey(rawURL)); found {
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(cache.CacheKey(rawURL), body, 0)
	}

	return body, nil
}

// GetPage fetches a full article page for content enrichment.
// The fetch is skipped when robots.txt disallows it.
func (c *Client) GetPage(ctx context.Context, rawURL string) ([]byte, error) {
	if c.cache != nil {
		if body, found := c.cache.Get(cache.CacheKey(rawURL)); found {
			return body, nil
		}
	}

	allowed, crawlDelay, err := c.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	if err := c.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(cache.CacheKey(rawURL), body, 0)
	}

	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/html;q=0.8,*/*;q=0.7")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	limitedReader := io.LimitReader(resp.Body, c.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// SetTimeout overrides the client timeout, mainly for tests.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}
