// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/discovery"
	"github.com/vishalsx/identify-objects/internal/platform/apperr"
	"github.com/vishalsx/identify-objects/internal/search"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

// # Service Layer

// Service orchestrates one pool query end to end: branch on query
// presence, evaluate translation gaps, and hand survivors to the
// assembler.
type Service struct {
	engine    *search.Engine
	ranker    *discovery.Ranker
	assembler *Assembler
	logger    *slog.Logger
}

// NewService constructs a new [Service] with its collaborators.
func NewService(engine *search.Engine, ranker *discovery.Ranker, assembler *Assembler, logger *slog.Logger) *Service {
	return &Service{
		engine:    engine,
		ranker:    ranker,
		assembler: assembler,
		logger:    logger,
	}
}

// QueryInput is the parsed request for one pool page.
type QueryInput struct {
	// SearchQuery selects the mode: non-empty means search, empty means
	// popularity discovery.
	SearchQuery string

	// TargetLanguage, when set, substitutes that language's approved object
	// name for the English default on items that have it.
	TargetLanguage string

	// Languages is the user's allowed translation languages, in their
	// preference order.
	Languages []string

	Limit     int
	Skip      int
	LastID    string
	UseVector bool
}

// QueryResult is one assembled pool page.
type QueryResult struct {
	Items   []Item
	Total   int
	HasMore bool
}

/*
Query resolves one page of the object pool for the given tenant scope.

Description: Search mode ranks hybrid-retrieval candidates and keeps even
fully translated objects, since a searching user may want to inspect a
finished item. Discovery mode pages the popularity ranking and only shows
objects the user can still contribute to.

Parameters:
  - ctx: context.Context
  - scope: tenant.Scope
  - input: QueryInput

Returns:
  - QueryResult: Assembled items with paging metadata
  - error: Malformed cursor (client error) or store outage
*/
func (service *Service) Query(ctx context.Context, scope tenant.Scope, input QueryInput) (QueryResult, error) {
	var (
		candidates []Candidate
		total      int
		hasMore    bool
	)

	if input.SearchQuery != "" {
		result, err := service.engine.Search(ctx, scope, input.SearchQuery, input.Limit, input.Skip, input.UseVector)
		if err != nil {
			return QueryResult{}, apperr.StoreUnavailable(fmt.Errorf("pool_search_failed: %w", err))
		}
		for _, scored := range result.Items {
			candidates = append(candidates, Candidate{
				Object: scored.Object,
				Gap:    discovery.EvaluateGap(scored.Object, scope, input.Languages),
			})
		}
		total, hasMore = result.Total, result.HasMore
	} else {
		page, err := service.ranker.Page(ctx, scope, input.Languages, input.LastID, input.Limit)
		if err != nil {
			if errors.Is(err, catalog.ErrInvalidCursor) {
				return QueryResult{}, apperr.ValidationError("invalid last_object_id cursor")
			}
			return QueryResult{}, apperr.StoreUnavailable(fmt.Errorf("pool_discover_failed: %w", err))
		}
		for _, item := range page.Items {
			candidates = append(candidates, Candidate{Object: item.Object, Gap: item.Gap})
		}
		total, hasMore = int(page.Total), page.HasMore
	}

	items := service.assembler.Assemble(ctx, scope, candidates, input.TargetLanguage)
	if dropped := len(candidates) - len(items); dropped > 0 {
		service.logger.Warn("pool: assembler dropped candidates",
			slog.Int("dropped", dropped),
			slog.Int("kept", len(items)))
	}

	return QueryResult{Items: items, Total: total, HasMore: hasMore}, nil
}
