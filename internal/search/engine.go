// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package search implements the hybrid retrieval engine behind the object pool.

A free-text query fans out across three independent strategies — vector
similarity, lexical full-text, and fuzzy token matching — each with its own
timeout. The merge step is the synchronization barrier: it deduplicates
candidates on a stable identity, accumulates weighted scores, and produces
one ranked slice.

Failure semantics: any single strategy failing (index missing, provider
timeout) degrades gracefully to the survivors. Only when every strategy
fails does the engine report an error.
*/
package search

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/embedding"
	"github.com/vishalsx/identify-objects/internal/platform/constants"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

// Config carries the tunable weights and thresholds for the engine.
type Config struct {
	VectorThresholdEnglish float64
	VectorThresholdOther   float64
	FuzzyRelaxFactor       float64

	// Vector hits are weighted above text hits when scores accumulate.
	VectorWeight float64
	TextWeight   float64
}

// Result is one ranked, deduplicated, paginated search window.
type Result struct {
	Items []catalog.ScoredObject

	// Total is the size of the merged candidate set before paging.
	Total int

	// HasMore is approximate: true when the window came back full.
	HasMore bool
}

// Engine fuses the three retrieval strategies over the tenant-safe store.
type Engine struct {
	store      catalog.Store
	embedder   embedding.Provider
	classifier Classifier
	cfg        Config
	logger     *slog.Logger
}

// NewEngine wires the engine with its collaborators.
func NewEngine(store catalog.Store, embedder embedding.Provider, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		store:      store,
		embedder:   embedder,
		classifier: NewClassifier(cfg.VectorThresholdEnglish, cfg.VectorThresholdOther, cfg.FuzzyRelaxFactor),
		cfg:        cfg,
		logger:     logger,
	}
}

// strategyOutcome collects one strategy's candidates or failure.
type strategyOutcome struct {
	scored []catalog.ScoredObject
	err    error
	ran    bool
}

// Search runs the hybrid pipeline for a non-empty query.
//
// skip/limit are applied as an in-memory slice over the merged candidate
// set — the set is already bounded and deduplicated, so a store-level skip
// would double-count across strategies.
func (e *Engine) Search(ctx context.Context, scope tenant.Scope, query string, limit, skip int, useVector bool) (Result, error) {
	thresholds, isEnglish := e.classifier.Classify(query)
	window := skip + limit

	e.logger.DebugContext(ctx, "hybrid_search_started",
		slog.String("query", query),
		slog.Bool("english", isEnglish),
		slog.Bool("vector", useVector),
		slog.Float64("vector_threshold", thresholds.Vector),
	)

	var vector, text, fuzz strategyOutcome

	// Fan out the strategies. Each owns its deadline; a failure in one
	// must not cancel the others, so errors stay inside the outcome
	// instead of propagating through the group.
	var group errgroup.Group

	if useVector {
		vector.ran = true
		group.Go(func() error {
			vector.scored, vector.err = e.vectorStrategy(ctx, scope, query, window, thresholds.Vector)
			return nil
		})
	}

	text.ran = true
	group.Go(func() error {
		text.scored, text.err = e.textStrategy(ctx, scope, query, window)
		return nil
	})

	fuzz.ran = true
	group.Go(func() error {
		fuzz.scored, fuzz.err = e.fuzzyStrategy(ctx, scope, query, thresholds.Fuzzy)
		return nil
	})

	_ = group.Wait()

	for name, outcome := range map[string]strategyOutcome{"vector": vector, "text": text, "fuzzy": fuzz} {
		if outcome.ran && outcome.err != nil {
			e.logger.WarnContext(ctx, "search_strategy_degraded",
				slog.String("strategy", name),
				slog.Any("error", outcome.err),
			)
		}
	}

	// Total failure of every strategy is a service error, not an empty page.
	if err := allFailed(vector, text, fuzz); err != nil {
		return Result{}, err
	}

	merged := newMergeSet()
	merged.add(vector.scored, e.cfg.VectorWeight)
	merged.add(text.scored, e.cfg.TextWeight)

	// The fuzzy pass only participates when the precise strategies could
	// not fill the requested window.
	if merged.size() < window {
		merged.add(fuzz.scored, e.cfg.TextWeight)
	}

	ranked := merged.ranked()
	page := sliceWindow(ranked, skip, limit)

	return Result{
		Items:   page,
		Total:   len(ranked),
		HasMore: len(page) == limit && limit > 0,
	}, nil
}

// # Strategies

// vectorStrategy embeds the query and runs the ANN pass. The embedding
// provider fails soft: any error skips the strategy entirely.
func (e *Engine) vectorStrategy(ctx context.Context, scope tenant.Scope, query string, window int, threshold float64) ([]catalog.ScoredObject, error) {
	embedCtx, cancelEmbed := context.WithTimeout(ctx, constants.EmbeddingTimeout)
	defer cancelEmbed()

	vector, err := e.embedder.Embed(embedCtx, query)
	if err != nil {
		return nil, err
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, constants.StrategyTimeout)
	defer cancelSearch()

	return e.store.VectorSearch(searchCtx, scope, vector, window, threshold)
}

func (e *Engine) textStrategy(ctx context.Context, scope tenant.Scope, query string, window int) ([]catalog.ScoredObject, error) {
	searchCtx, cancel := context.WithTimeout(ctx, constants.StrategyTimeout)
	defer cancel()

	return e.store.TextSearch(searchCtx, scope, query, window)
}

// fuzzyStrategy scores the pre-filtered candidates by their best token
// ratio and keeps those above the relaxed threshold.
func (e *Engine) fuzzyStrategy(ctx context.Context, scope tenant.Scope, query string, threshold float64) ([]catalog.ScoredObject, error) {
	searchCtx, cancel := context.WithTimeout(ctx, constants.StrategyTimeout)
	defer cancel()

	candidates, err := e.store.FuzzyCandidates(searchCtx, scope, queryPrefix(query))
	if err != nil {
		return nil, err
	}

	scored := make([]catalog.ScoredObject, 0, len(candidates))
	for _, candidate := range candidates {
		ratio := float64(bestTokenRatio(candidate.SearchText(), query)) / 100.0
		if ratio >= threshold {
			scored = append(scored, catalog.ScoredObject{Object: candidate, Score: ratio})
		}
	}
	return scored, nil
}

// allFailed returns the first error when every strategy that ran failed.
func allFailed(outcomes ...strategyOutcome) error {
	var firstErr error
	for _, outcome := range outcomes {
		if !outcome.ran {
			continue
		}
		if outcome.err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = outcome.err
		}
	}
	return firstErr
}

// # Merging

// mergeSet deduplicates candidates on their stable identity and
// accumulates weighted scores across strategies.
type mergeSet struct {
	byKey map[string]*mergedCandidate
}

type mergedCandidate struct {
	object catalog.Object
	score  float64
}

func newMergeSet() *mergeSet {
	return &mergeSet{byKey: make(map[string]*mergedCandidate)}
}

func (m *mergeSet) size() int { return len(m.byKey) }

// add folds one strategy's results in. A candidate found by multiple
// strategies accumulates score, boosting confidence. When two raw records
// collide on one key, the org-tagged copy wins: a tenant-specific record
// is more authoritative than a coincidental global one.
func (m *mergeSet) add(scored []catalog.ScoredObject, weight float64) {
	for _, hit := range scored {
		key := hit.Object.DedupKey()
		weighted := hit.Score * weight

		existing, found := m.byKey[key]
		if !found {
			m.byKey[key] = &mergedCandidate{object: hit.Object, score: weighted}
			continue
		}

		existing.score += weighted
		if hit.Object.HasOrg() && !existing.object.HasOrg() {
			existing.object = hit.Object
		}
	}
}

// ranked returns the merged candidates best-first, id-descending on ties
// so the order is deterministic for a fixed snapshot.
func (m *mergeSet) ranked() []catalog.ScoredObject {
	out := make([]catalog.ScoredObject, 0, len(m.byKey))
	for _, candidate := range m.byKey {
		out = append(out, catalog.ScoredObject{Object: candidate.object, Score: candidate.score})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Object.ID.Hex() > out[j].Object.ID.Hex()
	})
	return out
}

func sliceWindow(items []catalog.ScoredObject, skip, limit int) []catalog.ScoredObject {
	if skip >= len(items) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
