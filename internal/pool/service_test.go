// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package pool_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/discovery"
	"github.com/vishalsx/identify-objects/internal/platform/apperr"
	"github.com/vishalsx/identify-objects/internal/pool"
	"github.com/vishalsx/identify-objects/internal/search"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

// poolStore is an in-memory catalog store: canned search hits plus a
// two-page discovery fixture keyed by cursor.
type poolStore struct {
	textHits []catalog.ScoredObject

	pages       map[string][]catalog.Object
	pageHasMore map[string]bool
	total       int64
	discoverErr error

	names map[string]string
}

func (p *poolStore) VectorSearch(ctx context.Context, scope tenant.Scope, vector []float32, window int, threshold float64) ([]catalog.ScoredObject, error) {
	return nil, nil
}

func (p *poolStore) TextSearch(ctx context.Context, scope tenant.Scope, query string, window int) ([]catalog.ScoredObject, error) {
	return p.textHits, nil
}

func (p *poolStore) FuzzyCandidates(ctx context.Context, scope tenant.Scope, prefix string) ([]catalog.Object, error) {
	return nil, nil
}

func (p *poolStore) DiscoverPage(ctx context.Context, scope tenant.Scope, languages []string, lastID string, limit int) ([]catalog.Object, bool, error) {
	if p.discoverErr != nil {
		return nil, false, p.discoverErr
	}
	return p.pages[lastID], p.pageHasMore[lastID], nil
}

func (p *poolStore) CountDiscoverable(ctx context.Context, scope tenant.Scope, languages []string) (int64, error) {
	return p.total, nil
}

func (p *poolStore) ApprovedTranslationName(ctx context.Context, scope tenant.Scope, objectID bson.ObjectID, language string) (string, error) {
	name, ok := p.names[objectID.Hex()+"/"+language]
	if !ok {
		return "", catalog.ErrNotFound
	}
	return name, nil
}

func (p *poolStore) RecomputeTranslationSummary(ctx context.Context, objectID bson.ObjectID) error {
	return nil
}

// stubImages resolves every key to fixed bytes, with optional per-key
// failures.
type stubImages struct {
	data    []byte
	failing map[string]bool
}

func (s *stubImages) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if s.failing[key] {
		return nil, fmt.Errorf("object storage: no such key %q", key)
	}
	return s.data, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func approvedObject(name string, rating float64, votes int64, translated []string) catalog.Object {
	return catalog.Object{
		ID:           bson.NewObjectID(),
		ImageHash:    "hash-" + name,
		ImageKey:     "images/" + name,
		ImageStatus:  catalog.ImageStatusApproved,
		ObjectNameEN: name,
		TranslationSummary: catalog.TranslationSummary{
			Global: catalog.LanguageSet{TranslatedLanguages: translated},
		},
		VotesSummary: catalog.VotesSummary{
			FairStarRating: rating,
			TotalNetVotes:  votes,
		},
	}
}

func newService(store *poolStore, images *stubImages) *pool.Service {
	logger := quietLogger()
	engine := search.NewEngine(store, stubEmbedder{}, search.Config{
		VectorThresholdEnglish: 0.80,
		VectorThresholdOther:   0.65,
		FuzzyRelaxFactor:       0.90,
		VectorWeight:           2.0,
		TextWeight:             1.0,
	}, logger)
	ranker := discovery.NewRanker(store, logger)
	assembler := pool.NewAssembler(images, store, 4, logger)
	return pool.NewService(engine, ranker, assembler, logger)
}

/*
TestService_DiscoveryPaging verifies cursor paging end to end against a
snapshot of three objects with ratings [5,4,4] and votes [10,50,20]: the
first page of two closes on the (4,50) object and the cursor resumes at
(4,20) without repeats or holes.
*/
func TestService_DiscoveryPaging(t *testing.T) {
	top := approvedObject("mango", 5, 10, []string{"English"})
	middle := approvedObject("apple", 4, 50, []string{"English"})
	last := approvedObject("guava", 4, 20, []string{"English"})

	store := &poolStore{
		pages: map[string][]catalog.Object{
			"":              {top, middle},
			middle.ID.Hex(): {last},
		},
		pageHasMore: map[string]bool{"": true},
		total:       3,
	}
	service := newService(store, &stubImages{data: []byte("raw-image-bytes")})
	scope := tenant.Scope{UserID: "u1"}

	// 1. First page.
	result, err := service.Query(context.Background(), scope, pool.QueryInput{
		Languages: []string{"Hindi"},
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "mango", result.Items[0].ObjectName)
	assert.Equal(t, "apple", result.Items[1].ObjectName)
	assert.Equal(t, 3, result.Total)
	assert.True(t, result.HasMore)

	// 2. Second page resumes after the closing object.
	result, err = service.Query(context.Background(), scope, pool.QueryInput{
		Languages: []string{"Hindi"},
		Limit:     2,
		LastID:    middle.ID.Hex(),
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "guava", result.Items[0].ObjectName)
	assert.False(t, result.HasMore)
}

/*
TestService_DiscoveryInvalidCursor verifies the malformed cursor maps to a
client error, not a 5xx.
*/
func TestService_DiscoveryInvalidCursor(t *testing.T) {
	store := &poolStore{
		discoverErr: fmt.Errorf("%w: %q", catalog.ErrInvalidCursor, "zzz"),
	}
	service := newService(store, &stubImages{data: []byte("x")})

	_, err := service.Query(context.Background(), tenant.Scope{}, pool.QueryInput{
		Languages: []string{"Hindi"},
		Limit:     9,
		LastID:    "zzz",
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

/*
TestService_SearchKeepsServicedObjects verifies the mode difference: a
fully translated object is dropped from discovery but kept in search,
where the user may want to inspect a finished item.
*/
func TestService_SearchKeepsServicedObjects(t *testing.T) {
	serviced := approvedObject("apple", 4, 10, []string{"English", "Hindi"})

	store := &poolStore{
		textHits: []catalog.ScoredObject{{Object: serviced, Score: 2.0}},
		pages: map[string][]catalog.Object{
			"": {serviced},
		},
		total: 1,
	}
	service := newService(store, &stubImages{data: []byte("raw-image-bytes")})
	scope := tenant.Scope{UserID: "u1"}
	languages := []string{"English", "Hindi"}

	// 1. Search keeps it, with an empty work gap.
	result, err := service.Query(context.Background(), scope, pool.QueryInput{
		SearchQuery: "apple",
		Languages:   languages,
		Limit:       9,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Items[0].UntranslatedLanguages)

	// 2. Discovery drops it.
	result, err = service.Query(context.Background(), scope, pool.QueryInput{
		Languages: languages,
		Limit:     9,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}
