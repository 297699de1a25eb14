package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/outbreakwatch/episcan/internal/dedup"
	"github.com/outbreakwatch/episcan/internal/model"
	"github.com/outbreakwatch/episcan/internal/util"
)

// knownURLsChunk bounds how many URLs one membership query carries.
const knownURLsChunk = 50

// RESTStore talks to a PostgREST-style data layer: upsert via POST with
// merge-duplicates, membership via filtered selects.
type RESTStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRESTStore creates the client. Base URL and API key are required;
// their absence is a systemic configuration failure.
func NewRESTStore(cfg model.StoreConfig, httpCfg model.HTTPConfig) (*RESTStore, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: base URL and API key are required", ErrNotConfigured)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &RESTStore{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
	}, nil
}

// storedArticle is the wire shape of one article row.
type storedArticle struct {
	ID             string `json:"id,omitempty"`
	URL            string `json:"url"`
	Title          string `json:"title"`
	Content        string `json:"content,omitempty"`
	OriginalText   string `json:"original_text,omitempty"`
	TranslatedText string `json:"translated_text,omitempty"`
	Source         string `json:"source"`
	Language       string `json:"language,omitempty"`
	PublishedAt    string `json:"published_at"`
}

// KnownArticleURLs checks stored membership in chunks.
func (s *RESTStore) KnownArticleURLs(ctx context.Context, urls []string) ([]string, error) {
	var known []string

	for start := 0; start < len(urls); start += knownURLsChunk {
		end := start + knownURLsChunk
		if end > len(urls) {
			end = len(urls)
		}

		chunk, err := s.knownChunk(ctx, urls[start:end])
		if err != nil {
			return nil, err
		}
		known = append(known, chunk...)
	}

	return known, nil
}

func (s *RESTStore) knownChunk(ctx context.Context, urls []string) ([]string, error) {
	quoted := make([]string, len(urls))
	for i, u := range urls {
		quoted[i] = `"` + strings.ReplaceAll(u, `"`, `\"`) + `"`
	}

	params := url.Values{}
	params.Set("select", "url")
	params.Set("url", "in.("+strings.Join(quoted, ",")+")")

	var rows []struct {
		URL string `json:"url"`
	}
	if err := s.get(ctx, "/articles?"+params.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("query known articles: %w", err)
	}

	known := make([]string, len(rows))
	for i, row := range rows {
		known[i] = row.URL
	}
	return known, nil
}

// UpsertArticle writes the article keyed by URL; repeated runs merge
// into the existing row instead of duplicating it.
func (s *RESTStore) UpsertArticle(ctx context.Context, article model.NormalizedArticle) (string, error) {
	row := storedArticle{
		URL:            dedup.CanonicalURL(article.URL),
		Title:          article.Title,
		Content:        article.Content,
		OriginalText:   article.OriginalText,
		TranslatedText: article.TranslatedText,
		Source:         article.Source,
		Language:       article.Language,
		PublishedAt:    article.PublishedAt.UTC().Format(time.RFC3339),
	}

	var returned []storedArticle
	err := s.post(ctx, "/articles?on_conflict=url", row, map[string]string{
		"Prefer": "resolution=merge-duplicates,return=representation",
	}, &returned)
	if err != nil {
		return "", fmt.Errorf("upsert article %s: %w", row.URL, err)
	}

	if len(returned) == 0 || returned[0].ID == "" {
		return "", fmt.Errorf("upsert article %s: no identity returned", row.URL)
	}

	return returned[0].ID, nil
}

// SignalExists checks the (article, disease, country) uniqueness key.
func (s *RESTStore) SignalExists(ctx context.Context, signal model.OutbreakSignal) (bool, error) {
	params := url.Values{}
	params.Set("select", "article_id")
	params.Set("article_id", "eq."+signal.ArticleID)
	params.Set("limit", "1")

	if signal.DiseaseID != "" {
		params.Set("disease_id", "eq."+signal.DiseaseID)
	} else {
		params.Set("detected_disease_name", "eq."+signal.DetectedDiseaseName)
	}

	if signal.Country != "" {
		params.Set("country", "eq."+signal.Country)
	} else {
		params.Set("country", "is.null")
	}

	var rows []struct {
		ArticleID string `json:"article_id"`
	}
	if err := s.get(ctx, "/outbreak_signals?"+params.Encode(), &rows); err != nil {
		return false, fmt.Errorf("query signal: %w", err)
	}

	return len(rows) > 0, nil
}

// InsertSignal writes one signal. A uniqueness-constraint rejection
// maps to ErrDuplicateSignal so the writer can classify it.
func (s *RESTStore) InsertSignal(ctx context.Context, signal model.OutbreakSignal) error {
	err := s.post(ctx, "/outbreak_signals", signal, map[string]string{
		"Prefer": "return=minimal",
	}, nil)
	if err != nil {
		var httpErr *restError
		if errors.As(err, &httpErr) && httpErr.status == http.StatusConflict {
			return ErrDuplicateSignal
		}
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// LoadDiseases reads the disease vocabulary.
func (s *RESTStore) LoadDiseases(ctx context.Context) ([]model.Disease, error) {
	var diseases []model.Disease
	if err := s.get(ctx, "/diseases?select=id,name,aliases", &diseases); err != nil {
		return nil, fmt.Errorf("load diseases: %w", err)
	}
	return diseases, nil
}

// LoadCountries reads the country reference table.
func (s *RESTStore) LoadCountries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := s.get(ctx, "/countries?select=code,name,aliases", &countries); err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	return countries, nil
}

// restError carries the data layer's HTTP status for classification.
type restError struct {
	status int
	body   string
}

func (e *restError) Error() string {
	return fmt.Sprintf("data layer status %d: %s", e.status, e.body)
}

func (s *RESTStore) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return s.do(req, out)
}

func (s *RESTStore) post(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) error {
	payload, err := json.Marshal([]interface{}{body})
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return s.do(req, out)
}

func (s *RESTStore) do(req *http.Request, out interface{}) error {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("data layer request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &restError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
