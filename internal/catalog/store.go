// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vishalsx/identify-objects/internal/tenant"
)

// Document field paths shared by queries and index definitions.
const (
	FieldID          = "_id"
	FieldImageHash   = "image_hash"
	FieldImageStatus = "image_status"

	FieldObjectNameEN  = "object_name_en"
	FieldEmbeddingText = "embedding_text"

	FieldFairRating = "votes_summary.fair_star_rating"
	FieldNetVotes   = "votes_summary.total_net_votes"

	FieldTranslationObject   = "object_id"
	FieldTranslationLanguage = "requested_language"
	FieldTranslationStatus   = "translation_status"
)

// ErrInvalidCursor marks a malformed or unresolvable discovery cursor.
// It is caller error, not a pipeline failure.
var ErrInvalidCursor = errors.New("catalog: invalid pagination cursor")

// ErrNotFound marks a lookup miss.
var ErrNotFound = errors.New("catalog: not found")

// Store is the tenant-safe catalog access contract consumed by the hybrid
// search engine, the discovery ranker, and the result assembler.
type Store interface {
	// VectorSearch runs an approximate nearest-neighbor pass over Approved,
	// tenant-visible objects, oversampling candidates before trimming by
	// the similarity threshold.
	VectorSearch(ctx context.Context, scope tenant.Scope, vector []float32, window int, threshold float64) ([]ScoredObject, error)

	// TextSearch runs a lexical full-text pass scored by the store's native
	// relevance metric, best first.
	TextSearch(ctx context.Context, scope tenant.Scope, query string, window int) ([]ScoredObject, error)

	// FuzzyCandidates pre-filters objects by a cheap substring match on a
	// short query prefix, capped at the configured scan ceiling. Token-level
	// scoring happens in the search engine.
	FuzzyCandidates(ctx context.Context, scope tenant.Scope, prefix string) ([]Object, error)

	// DiscoverPage returns the next page of popularity-ranked objects that
	// still have a work gap for the given languages, using the compound
	// cursor from lastID. The bool reports whether more pages exist.
	DiscoverPage(ctx context.Context, scope tenant.Scope, languages []string, lastID string, limit int) ([]Object, bool, error)

	// CountDiscoverable counts the objects DiscoverPage would traverse.
	CountDiscoverable(ctx context.Context, scope tenant.Scope, languages []string) (int64, error)

	// ApprovedTranslationName resolves the approved localized object name
	// for one language, preferring a tenant-specific translation over a
	// global one. Returns ErrNotFound when the language has no approved
	// translation in scope.
	ApprovedTranslationName(ctx context.Context, scope tenant.Scope, objectID bson.ObjectID, language string) (string, error)

	// RecomputeTranslationSummary rebuilds the denormalized per-scope
	// translation summary of one object from the translations collection.
	// Runs unscoped: the summary spans every visibility branch.
	RecomputeTranslationSummary(ctx context.Context, objectID bson.ObjectID) error
}
