// Package classify sends article batches to the external
// classification capability and parses the structured matches.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/outbreakwatch/episcan/internal/model"
)

// ErrNotConfigured marks the systemic failure of a run started without
// classifier credentials.
var ErrNotConfigured = errors.New("classifier not configured")

// Provider is the chat-style request/response contract of the
// classification capability.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Classify sends one system instruction plus one user payload and
	// returns the raw response text.
	Classify(ctx context.Context, system, user string) (string, error)
}

// Config holds provider configuration.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int
}

// NewProvider creates a provider from configuration.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, ErrNotConfigured

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts the config section to a provider Config.
func ConfigFromModel(cfg model.ClassifyConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}
