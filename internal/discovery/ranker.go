// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package discovery

import (
	"context"
	"log/slog"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

// Item is one ranked object together with its evaluated work gap.
type Item struct {
	Object catalog.Object
	Gap    Gap
}

// Page is one cursor page of the discovery feed.
type Page struct {
	Items   []Item
	Total   int64
	HasMore bool
}

// Ranker pages the catalog in popularity order, restricted to objects the
// requesting user can still contribute a translation to.
type Ranker struct {
	store  catalog.Store
	logger *slog.Logger
}

func NewRanker(store catalog.Store, logger *slog.Logger) *Ranker {
	return &Ranker{store: store, logger: logger}
}

// Page returns the next discovery page after the lastID cursor. An empty
// lastID means the first page.
//
// The store already filters on the summary, but the summary is eventually
// consistent with the translations collection, so each object's gap is
// re-evaluated here and fully serviced stragglers are dropped from the
// page rather than shown with an empty work list.
func (r *Ranker) Page(ctx context.Context, scope tenant.Scope, languages []string, lastID string, limit int) (Page, error) {
	objects, hasMore, err := r.store.DiscoverPage(ctx, scope, languages, lastID, limit)
	if err != nil {
		return Page{}, err
	}

	total, err := r.store.CountDiscoverable(ctx, scope, languages)
	if err != nil {
		return Page{}, err
	}

	items := make([]Item, 0, len(objects))
	for _, object := range objects {
		gap := EvaluateGap(object, scope, languages)
		if gap.FullyServiced() {
			r.logger.Debug("discovery: dropping fully serviced object",
				slog.String("object_id", object.ID.Hex()))
			continue
		}
		items = append(items, Item{Object: object, Gap: gap})
	}

	return Page{Items: items, Total: total, HasMore: hasMore}, nil
}
