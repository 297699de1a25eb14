package refdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/outbreakwatch/episcan/internal/model"
)

// fakeStore implements the store surface with call counting.
type fakeStore struct {
	diseaseLoads int
	countryLoads int
	err          error
}

func (f *fakeStore) KnownArticleURLs(ctx context.Context, urls []string) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) UpsertArticle(ctx context.Context, article model.NormalizedArticle) (string, error) {
	return "", nil
}

func (f *fakeStore) SignalExists(ctx context.Context, signal model.OutbreakSignal) (bool, error) {
	return false, nil
}

func (f *fakeStore) InsertSignal(ctx context.Context, signal model.OutbreakSignal) error {
	return nil
}

func (f *fakeStore) LoadDiseases(ctx context.Context) ([]model.Disease, error) {
	f.diseaseLoads++
	if f.err != nil {
		return nil, f.err
	}
	return []model.Disease{{ID: "d-1", Name: "cholera"}}, nil
}

func (f *fakeStore) LoadCountries(ctx context.Context) ([]model.Country, error) {
	f.countryLoads++
	if f.err != nil {
		return nil, f.err
	}
	return []model.Country{{Code: "HT", Name: "Haiti"}}, nil
}

func TestLoad_BuildsReferenceSet(t *testing.T) {
	loader := NewLoader(&fakeStore{}, time.Minute)

	refs, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := refs.ResolveDisease("CHOLERA"); !ok {
		t.Error("disease lookup must be case-insensitive")
	}
	if _, ok := refs.ResolveCountry("ht"); !ok {
		t.Error("country code lookup must work")
	}
}

func TestLoad_CachesBetweenCalls(t *testing.T) {
	fake := &fakeStore{}
	loader := NewLoader(fake, time.Minute)

	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.diseaseLoads != 1 || fake.countryLoads != 1 {
		t.Errorf("second load must hit the cache, got %d/%d store reads", fake.diseaseLoads, fake.countryLoads)
	}
}

func TestLoad_StoreFailureSurfaces(t *testing.T) {
	loader := NewLoader(&fakeStore{err: errors.New("store down")}, time.Minute)

	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("store failure must fail the load")
	}
}
