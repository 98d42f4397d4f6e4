// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package search_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/search"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

// fakeStore is an in-memory stand-in for the document store with canned
// per-strategy results.
type fakeStore struct {
	vectorHits []catalog.ScoredObject
	vectorErr  error

	textHits []catalog.ScoredObject
	textErr  error

	fuzzyHits []catalog.Object
	fuzzyErr  error
}

func (f *fakeStore) VectorSearch(ctx context.Context, scope tenant.Scope, vector []float32, window int, threshold float64) ([]catalog.ScoredObject, error) {
	return f.vectorHits, f.vectorErr
}

func (f *fakeStore) TextSearch(ctx context.Context, scope tenant.Scope, query string, window int) ([]catalog.ScoredObject, error) {
	return f.textHits, f.textErr
}

func (f *fakeStore) FuzzyCandidates(ctx context.Context, scope tenant.Scope, prefix string) ([]catalog.Object, error) {
	return f.fuzzyHits, f.fuzzyErr
}

func (f *fakeStore) DiscoverPage(ctx context.Context, scope tenant.Scope, languages []string, lastID string, limit int) ([]catalog.Object, bool, error) {
	return nil, false, nil
}

func (f *fakeStore) CountDiscoverable(ctx context.Context, scope tenant.Scope, languages []string) (int64, error) {
	return 0, nil
}

func (f *fakeStore) ApprovedTranslationName(ctx context.Context, scope tenant.Scope, objectID bson.ObjectID, language string) (string, error) {
	return "", catalog.ErrNotFound
}

func (f *fakeStore) RecomputeTranslationSummary(ctx context.Context, objectID bson.ObjectID) error {
	return nil
}

// fakeEmbedder returns a fixed vector or a canned failure.
type fakeEmbedder struct {
	err    error
	called bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func testConfig() search.Config {
	return search.Config{
		VectorThresholdEnglish: 0.80,
		VectorThresholdOther:   0.65,
		FuzzyRelaxFactor:       0.90,
		VectorWeight:           2.0,
		TextWeight:             1.0,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func namedObject(name, hash string) catalog.Object {
	return catalog.Object{
		ID:           bson.NewObjectID(),
		ImageHash:    hash,
		ImageStatus:  catalog.ImageStatusApproved,
		ObjectNameEN: name,
	}
}

/*
TestSearch_DedupPrefersOrgRecord verifies the merge invariant: two raw
records sharing one image hash collapse to a single candidate carrying the
org-tagged copy, with scores accumulated across strategies.
*/
func TestSearch_DedupPrefersOrgRecord(t *testing.T) {
	org := "acme"

	global := namedObject("Apple", "hash-apple")
	tagged := namedObject("Apple", "hash-apple")
	tagged.OrgID = &org

	store := &fakeStore{
		vectorHits: []catalog.ScoredObject{{Object: global, Score: 0.9}},
		textHits:   []catalog.ScoredObject{{Object: tagged, Score: 0.8}},
	}
	engine := search.NewEngine(store, &fakeEmbedder{}, testConfig(), testLogger())

	result, err := engine.Search(context.Background(), tenant.Scope{OrgID: org}, "apple", 9, 0, true)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, tagged.ID, result.Items[0].Object.ID)
	require.NotNil(t, result.Items[0].Object.OrgID)
	assert.Equal(t, org, *result.Items[0].Object.OrgID)

	// 0.9 * vector weight + 0.8 * text weight
	assert.InDelta(t, 2.6, result.Items[0].Score, 1e-9)
	assert.Equal(t, 1, result.Total)
	assert.False(t, result.HasMore)
}

/*
TestSearch_TextOnly verifies the vector-disabled mode: the embedder is
never consulted and ordering follows lexical relevance alone.
*/
func TestSearch_TextOnly(t *testing.T) {
	first := namedObject("Apple", "hash-1")
	second := namedObject("Apple Pie", "hash-2")
	third := namedObject("Pineapple", "hash-3")

	store := &fakeStore{
		textHits: []catalog.ScoredObject{
			{Object: first, Score: 3.1},
			{Object: second, Score: 2.4},
			{Object: third, Score: 1.2},
		},
	}
	embedder := &fakeEmbedder{}
	engine := search.NewEngine(store, embedder, testConfig(), testLogger())

	result, err := engine.Search(context.Background(), tenant.Scope{}, "Apple", 9, 0, false)
	require.NoError(t, err)

	assert.False(t, embedder.called)
	require.Len(t, result.Items, 3)
	assert.Equal(t, first.ID, result.Items[0].Object.ID)
	assert.Equal(t, second.ID, result.Items[1].Object.ID)
	assert.Equal(t, third.ID, result.Items[2].Object.ID)
}

/*
TestSearch_FuzzyOnlyFillsShortWindows verifies the conditional merge: the
fuzzy pass participates only when vector and text cannot fill skip+limit.
*/
func TestSearch_FuzzyOnlyFillsShortWindows(t *testing.T) {
	textHit := namedObject("Apple", "hash-text")
	fuzzyHit := namedObject("Aple", "hash-fuzzy")

	// 1. Window already filled: the fuzzy candidate stays out.
	store := &fakeStore{
		textHits: []catalog.ScoredObject{
			{Object: textHit, Score: 2.0},
		},
		fuzzyHits: []catalog.Object{fuzzyHit},
	}
	engine := search.NewEngine(store, &fakeEmbedder{}, testConfig(), testLogger())

	result, err := engine.Search(context.Background(), tenant.Scope{}, "apple", 1, 0, false)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, textHit.ID, result.Items[0].Object.ID)

	// 2. Short window: the fuzzy candidate tops it up.
	result, err = engine.Search(context.Background(), tenant.Scope{}, "apple", 5, 0, false)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	ids := []bson.ObjectID{result.Items[0].Object.ID, result.Items[1].Object.ID}
	assert.Contains(t, ids, fuzzyHit.ID)
}

/*
TestSearch_EmbedderFailureDegrades verifies fail-soft behavior: a dead
embedding provider silently drops the vector strategy.
*/
func TestSearch_EmbedderFailureDegrades(t *testing.T) {
	hit := namedObject("Apple", "hash-1")
	store := &fakeStore{
		textHits: []catalog.ScoredObject{{Object: hit, Score: 1.5}},
	}
	embedder := &fakeEmbedder{err: errors.New("provider down")}
	engine := search.NewEngine(store, embedder, testConfig(), testLogger())

	result, err := engine.Search(context.Background(), tenant.Scope{}, "apple", 9, 0, true)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, hit.ID, result.Items[0].Object.ID)
}

/*
TestSearch_AllStrategiesFailed verifies that a full outage surfaces as an
error instead of masquerading as an empty page.
*/
func TestSearch_AllStrategiesFailed(t *testing.T) {
	outage := errors.New("store unreachable")
	store := &fakeStore{
		vectorErr: outage,
		textErr:   outage,
		fuzzyErr:  outage,
	}
	engine := search.NewEngine(store, &fakeEmbedder{}, testConfig(), testLogger())

	_, err := engine.Search(context.Background(), tenant.Scope{}, "apple", 9, 0, true)
	assert.Error(t, err)
}

/*
TestSearch_SkipWindow verifies the in-memory skip/limit slice over the
merged ranking.
*/
func TestSearch_SkipWindow(t *testing.T) {
	hits := make([]catalog.ScoredObject, 0, 5)
	for i := 5; i >= 1; i-- {
		hits = append(hits, catalog.ScoredObject{
			Object: namedObject("Apple", ""),
			Score:  float64(i),
		})
	}

	store := &fakeStore{textHits: hits}
	engine := search.NewEngine(store, &fakeEmbedder{}, testConfig(), testLogger())

	result, err := engine.Search(context.Background(), tenant.Scope{}, "apple", 2, 2, false)
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.InDelta(t, 3.0, result.Items[0].Score, 1e-9)
	assert.InDelta(t, 2.0, result.Items[1].Score, 1e-9)
	assert.Equal(t, 5, result.Total)
	assert.True(t, result.HasMore)
}
