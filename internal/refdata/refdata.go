// Package refdata loads the disease/country reference tables. They are
// read once per run into an explicit ReferenceSet handed to the
// components that need it; there is no process-wide singleton.
package refdata

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/outbreakwatch/episcan/internal/model"
	"github.com/outbreakwatch/episcan/internal/store"
)

const cacheKey = "refdata"

// Loader reads reference tables from the store, with a short TTL cache
// so back-to-back runs skip the reads.
type Loader struct {
	store store.Store
	cache *gocache.Cache
}

// NewLoader creates a loader with the given cache TTL.
func NewLoader(s store.Store, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Loader{
		store: s,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Load returns the reference set for this run.
func (l *Loader) Load(ctx context.Context) (*model.ReferenceSet, error) {
	if cached, found := l.cache.Get(cacheKey); found {
		return cached.(*model.ReferenceSet), nil
	}

	diseases, err := l.store.LoadDiseases(ctx)
	if err != nil {
		return nil, fmt.Errorf("load diseases: %w", err)
	}

	countries, err := l.store.LoadCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}

	refs := model.NewReferenceSet(diseases, countries)
	l.cache.Set(cacheKey, refs, gocache.DefaultExpiration)

	return refs, nil
}
