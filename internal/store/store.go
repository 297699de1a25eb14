// Package store persists matched articles and their outbreak signals
// through the REST data layer, with at-most-one signal per
// (article, disease, country) even across repeated runs.
package store

import (
	"context"
	"errors"

	"github.com/outbreakwatch/episcan/internal/model"
)

// ErrNotConfigured marks a run started without store credentials.
var ErrNotConfigured = errors.New("store not configured")

// ErrDuplicateSignal is returned by InsertSignal when the data layer
// rejects the write on the uniqueness constraint.
var ErrDuplicateSignal = errors.New("signal already exists")

// Store is the pipeline's surface over the REST data layer. The
// pipeline issues no destructive operations: no deletes, no in-place
// signal mutation.
type Store interface {
	// KnownArticleURLs returns the subset of urls already stored.
	KnownArticleURLs(ctx context.Context, urls []string) ([]string, error)

	// UpsertArticle writes the article keyed by its URL and returns the
	// store-assigned article identity.
	UpsertArticle(ctx context.Context, article model.NormalizedArticle) (string, error)

	// SignalExists checks the (article, disease, country) uniqueness key.
	SignalExists(ctx context.Context, signal model.OutbreakSignal) (bool, error)

	// InsertSignal writes one signal, all-or-nothing.
	InsertSignal(ctx context.Context, signal model.OutbreakSignal) error

	// LoadDiseases reads the disease vocabulary.
	LoadDiseases(ctx context.Context) ([]model.Disease, error)

	// LoadCountries reads the country reference table.
	LoadCountries(ctx context.Context) ([]model.Country, error)
}
