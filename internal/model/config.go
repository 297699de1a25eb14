package model

import "time"

// Config is the full pipeline configuration.
// Hierarchy: CLI flags > EPISCAN_* env vars > ~/.episcan/config.yaml > defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Sources     SourcesConfig     `yaml:"sources"`
	Dedup       DedupConfig       `yaml:"dedup"`
	Filter      FilterConfig      `yaml:"filter"`
	Classify    ClassifyConfig    `yaml:"classify"`
	Store       StoreConfig       `yaml:"store"`
	Notify      NotifyConfig      `yaml:"notify"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls outbound HTTP behavior shared by all adapters.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	RatePerHost  float64       `yaml:"rate_per_host"` // requests/second per upstream host
	RateBurst    int           `yaml:"rate_burst"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// CacheConfig controls the layered feed-response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// RSSSourceConfig describes one authoritative RSS/Atom feed.
type RSSSourceConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Language string `yaml:"language"`
	Priority string `yaml:"priority"` // official, wire, search
	MaxItems int    `yaml:"max_items"`
}

// SearchFeedConfig describes the multilingual search feed family.
// One adapter instance is registered per language, and all of them run
// concurrently each run.
type SearchFeedConfig struct {
	Enabled   bool     `yaml:"enabled"`
	BaseURL   string   `yaml:"base_url"` // search RSS endpoint
	Query     string   `yaml:"query"`
	Languages []string `yaml:"languages"`
	MaxItems  int      `yaml:"max_items"`
}

// MediaAPIConfig describes the paginated media REST API.
type MediaAPIConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Name            string `yaml:"name"`
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"-"` // from EPISCAN_MEDIA_API_KEY
	Query           string `yaml:"query"`
	PageSize        int    `yaml:"page_size"`
	MaxPages        int    `yaml:"max_pages"`
	MaxItems        int    `yaml:"max_items"`
	EnrichWorkers   int    `yaml:"enrich_workers"`    // concurrent content sub-fetches
	ContentMaxChars int    `yaml:"content_max_chars"` // cap on enriched content length
}

// SourcesConfig aggregates all configured source adapters.
type SourcesConfig struct {
	RSS      []RSSSourceConfig `yaml:"rss"`
	Search   SearchFeedConfig  `yaml:"search"`
	MediaAPI MediaAPIConfig    `yaml:"media_api"`
}

// DedupConfig controls duplicate suppression.
type DedupConfig struct {
	TitleSimilarity   float64           `yaml:"title_similarity"`   // Jaccard threshold for fuzzy titles
	PriorityOverrides map[string]string `yaml:"priority_overrides"` // source label -> tier name
}

// FilterConfig controls the outbreak relevance gate.
// ExtraKeywords are merged into the built-in per-language lists.
type FilterConfig struct {
	ExtraKeywords map[string][]string `yaml:"extra_keywords"`
}

// ClassifyConfig controls the external classification capability.
type ClassifyConfig struct {
	Provider    string `yaml:"provider"` // "openai" (only supported provider today)
	Model       string `yaml:"model"`
	APIKey      string `yaml:"-"` // from OPENAI_API_KEY
	BaseURL     string `yaml:"base_url"`
	Timeout     int    `yaml:"timeout"` // seconds
	MaxTokens   int    `yaml:"max_tokens"`
	BatchSize   int    `yaml:"batch_size"`   // articles per classification call
	MaxArticles int    `yaml:"max_articles"` // per-run cap, most recent kept
	TextBudget  int    `yaml:"text_budget"`  // chars of article text per item
}

// StoreConfig points at the REST data layer.
type StoreConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"-"` // from EPISCAN_STORE_API_KEY
	Timeout time.Duration `yaml:"timeout"`
}

// NotifyConfig points at the downstream prediction-refresh process.
type NotifyConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ConcurrencyConfig bounds per-run parallelism.
type ConcurrencyConfig struct {
	SourceTimeout time.Duration `yaml:"source_timeout"` // per-adapter fetch budget
	RetryAttempts int           `yaml:"retry_attempts"` // per-adapter fetch attempts
}

// OutputConfig controls operator-facing output.
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose"`
	LogLevel string `yaml:"log_level"`
	JSONPath string `yaml:"json_path"` // optional run-summary JSON output
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Episcan/0.1 (+https://github.com/outbreakwatch/episcan)",
			MaxBodyBytes: 2_000_000,
			RatePerHost:  2,
			RateBurst:    5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.episcan/cache at startup
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   1 * time.Hour,
		},
		Sources: SourcesConfig{
			RSS: []RSSSourceConfig{
				{Name: "who-don", URL: "https://www.who.int/feeds/entity/csr/don/en/rss.xml", Language: "en", Priority: "official", MaxItems: 50},
				{Name: "cdc-outbreaks", URL: "https://tools.cdc.gov/api/v2/resources/media/285676.rss", Language: "en", Priority: "official", MaxItems: 50},
				{Name: "ecdc-news", URL: "https://www.ecdc.europa.eu/en/rss", Language: "en", Priority: "official", MaxItems: 50},
				{Name: "promed", URL: "https://promedmail.org/feed", Language: "en", Priority: "official", MaxItems: 50},
			},
			Search: SearchFeedConfig{
				Enabled:   true,
				BaseURL:   "https://news.google.com/rss/search",
				Query:     "disease outbreak OR epidemic",
				Languages: []string{"en", "es", "fr", "pt"},
				MaxItems:  30,
			},
			MediaAPI: MediaAPIConfig{
				Enabled:         false,
				Name:            "media-api",
				PageSize:        25,
				MaxPages:        4,
				MaxItems:        100,
				EnrichWorkers:   5,
				ContentMaxChars: 4000,
			},
		},
		Dedup: DedupConfig{
			TitleSimilarity: 0.8,
		},
		Classify: ClassifyConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     60,
			MaxTokens:   4000,
			BatchSize:   10,
			MaxArticles: 60,
			TextBudget:  1500,
		},
		Store: StoreConfig{
			Timeout: 15 * time.Second,
		},
		Notify: NotifyConfig{
			Timeout: 10 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			SourceTimeout: 45 * time.Second,
			RetryAttempts: 3,
		},
		Output: OutputConfig{
			LogLevel: "info",
		},
	}
}
