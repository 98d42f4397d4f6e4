// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vishalsx/identify-objects/internal/tenant"
)

const (
	collObjects      = "objects"
	collTranslations = "translations"

	// vectorIndexName is the Atlas search index over embedding_vector.
	vectorIndexName = "object_vector_index"

	// annCandidateFactor widens the raw ANN candidate pool relative to the
	// already-oversampled limit, per the usual numCandidates guidance.
	annCandidateFactor = 5
)

// StoreOptions carries the tunables for the Mongo-backed store.
type StoreOptions struct {
	// VectorOversample multiplies the requested window before threshold
	// filtering trims the ANN results.
	VectorOversample int

	// FuzzyScanCeiling caps the candidates admitted to the fuzzy pass.
	FuzzyScanCeiling int
}

// MongoStore implements [Store] on the shared objects and translations
// collections, with all tenant filtering delegated to the repositories.
type MongoStore struct {
	objects      tenant.Repository
	translations tenant.Repository

	// Raw handles for system-level work that spans visibility scopes:
	// index management and summary recomputation.
	objectsColl      *mongo.Collection
	translationsColl *mongo.Collection

	oversample   int
	fuzzyCeiling int
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore wires the tenant-aware repositories over the shared
// collections. Both use the fallback visibility rule: an organisation sees
// its own records plus globally-approved ones.
func NewMongoStore(db *mongo.Database, opts StoreOptions) *MongoStore {
	objectsColl := db.Collection(collObjects)
	translationsColl := db.Collection(collTranslations)

	return &MongoStore{
		objects: tenant.NewFallback(
			objectsColl,
			tenant.Eq(FieldImageStatus, string(ImageStatusApproved)),
		),
		translations: tenant.NewFallback(
			translationsColl,
			tenant.Eq(FieldTranslationStatus, string(TranslationStatusApproved)),
		),
		objectsColl:      objectsColl,
		translationsColl: translationsColl,
		oversample:       opts.VectorOversample,
		fuzzyCeiling:     opts.FuzzyScanCeiling,
	}
}

// scoredDoc decodes an object plus the strategy score attached by the
// projection or pipeline.
type scoredDoc struct {
	Object `bson:",inline"`
	Score  float64 `bson:"score"`
}

func toScored(docs []scoredDoc) []ScoredObject {
	out := make([]ScoredObject, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ScoredObject{Object: doc.Object, Score: doc.Score})
	}
	return out
}

// # Retrieval Strategies

// VectorSearch builds a $vectorSearch pipeline. The similarity stage must
// be first, so the tenant repository merges its visibility condition into
// the stage's filter clause rather than prepending a $match.
func (s *MongoStore) VectorSearch(ctx context.Context, scope tenant.Scope, vector []float32, window int, threshold float64) ([]ScoredObject, error) {
	limit := window * s.oversample
	if limit < window {
		limit = window
	}

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: vectorIndexName},
			{Key: "path", Value: "embedding_vector"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: limit * annCandidateFactor},
			{Key: "limit", Value: limit},
			{Key: "filter", Value: bson.M{FieldImageStatus: string(ImageStatusApproved)}},
		}}},
		{{Key: "$set", Value: bson.M{"score": bson.M{"$meta": "vectorSearchScore"}}}},
		{{Key: "$match", Value: bson.M{"score": bson.M{"$gte": threshold}}}},
	}

	var docs []scoredDoc
	if err := s.objects.Aggregate(ctx, scope, pipeline, &docs); err != nil {
		return nil, fmt.Errorf("catalog: vector search: %w", err)
	}
	return toScored(docs), nil
}

// TextSearch runs the lexical pass over the text index, sorted by the
// store's relevance score.
func (s *MongoStore) TextSearch(ctx context.Context, scope tenant.Scope, query string, window int) ([]ScoredObject, error) {
	filter := tenant.And(
		tenant.Raw(bson.M{"$text": bson.M{"$search": query}}),
		tenant.Eq(FieldImageStatus, string(ImageStatusApproved)),
	)

	opts := tenant.FindOptions{
		Projection: bson.M{"score": bson.M{"$meta": "textScore"}},
		Sort:       bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}},
		Limit:      int64(window),
	}

	var docs []scoredDoc
	if err := s.objects.Find(ctx, scope, filter, opts, &docs); err != nil {
		return nil, fmt.Errorf("catalog: text search: %w", err)
	}
	return toScored(docs), nil
}

// FuzzyCandidates narrows the collection to rows whose searchable text
// contains the query prefix, so the engine's token scoring never scans the
// full catalog.
func (s *MongoStore) FuzzyCandidates(ctx context.Context, scope tenant.Scope, prefix string) ([]Object, error) {
	pattern := regexp.QuoteMeta(prefix)

	filter := tenant.And(
		tenant.Eq(FieldImageStatus, string(ImageStatusApproved)),
		tenant.Or(
			tenant.Regex(FieldEmbeddingText, pattern, "i"),
			tenant.Regex(FieldObjectNameEN, pattern, "i"),
		),
	)

	var objects []Object
	err := s.objects.Find(ctx, scope, filter, tenant.FindOptions{Limit: int64(s.fuzzyCeiling)}, &objects)
	if err != nil {
		return nil, fmt.Errorf("catalog: fuzzy candidate scan: %w", err)
	}
	return objects, nil
}

// # Discovery

// workGapFilter requires at least one of the user's languages to be absent
// from the scope-appropriate translated set. Evaluated store-side; no scan
// of the translations collection.
func workGapFilter(scope tenant.Scope, languages []string) tenant.Expr {
	return tenant.And(
		tenant.Eq(FieldImageStatus, string(ImageStatusApproved)),
		tenant.NotAll(translatedLanguagesPath(scope), languages),
	)
}

// translatedLanguagesPath picks the summary branch for the scope.
func translatedLanguagesPath(scope tenant.Scope) string {
	if scope.HasOrg() {
		return "translation_summary.orgs." + scope.OrgID + ".translated_languages"
	}
	return "translation_summary.global.translated_languages"
}

// discoverSort ranks by popularity with the object id as the stable
// tie-breaker the compound cursor depends on.
var discoverSort = bson.D{
	{Key: FieldFairRating, Value: -1},
	{Key: FieldNetVotes, Value: -1},
	{Key: FieldID, Value: -1},
}

func (s *MongoStore) DiscoverPage(ctx context.Context, scope tenant.Scope, languages []string, lastID string, limit int) ([]Object, bool, error) {
	filter := workGapFilter(scope, languages)

	if lastID != "" {
		boundary, err := s.cursorBoundary(ctx, scope, lastID)
		if err != nil {
			return nil, false, err
		}
		filter = tenant.And(filter, boundary)
	}

	var page []Object
	opts := tenant.FindOptions{
		Sort: discoverSort,
		// One extra row answers has_more without a second count query.
		Limit: int64(limit + 1),
	}
	if err := s.objects.Find(ctx, scope, filter, opts, &page); err != nil {
		return nil, false, fmt.Errorf("catalog: discover page: %w", err)
	}

	hasMore := len(page) > limit
	if hasMore {
		page = page[:limit]
	}
	return page, hasMore, nil
}

// cursorBoundary turns the previous page's closing object into the
// disjunctive compound-cursor condition:
//
//	rating < r  OR  (rating = r AND votes < v)  OR  (rating = r AND votes = v AND id < last)
//
// Pinning the boundary to concrete field values keeps pagination stable
// while the popularity ranking mutates underneath the user.
func (s *MongoStore) cursorBoundary(ctx context.Context, scope tenant.Scope, lastID string) (tenant.Expr, error) {
	lastOID, err := bson.ObjectIDFromHex(lastID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, lastID)
	}

	var last Object
	if err := s.objects.FindOne(ctx, scope, tenant.Eq(FieldID, lastOID), &last); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: object %q is not visible", ErrInvalidCursor, lastID)
		}
		return nil, fmt.Errorf("catalog: cursor lookup: %w", err)
	}

	return cursorBoundaryExpr(last.VotesSummary.FairStarRating, last.VotesSummary.TotalNetVotes, lastOID), nil
}

func cursorBoundaryExpr(rating float64, votes int64, lastOID bson.ObjectID) tenant.Expr {
	return tenant.Or(
		tenant.Lt(FieldFairRating, rating),
		tenant.And(
			tenant.Eq(FieldFairRating, rating),
			tenant.Lt(FieldNetVotes, votes),
		),
		tenant.And(
			tenant.Eq(FieldFairRating, rating),
			tenant.Eq(FieldNetVotes, votes),
			tenant.Lt(FieldID, lastOID),
		),
	)
}

func (s *MongoStore) CountDiscoverable(ctx context.Context, scope tenant.Scope, languages []string) (int64, error) {
	count, err := s.objects.Count(ctx, scope, workGapFilter(scope, languages))
	if err != nil {
		return 0, fmt.Errorf("catalog: discover count: %w", err)
	}
	return count, nil
}

// # Translations

// ApprovedTranslationName fetches the approved localized name, sorting the
// org attribute descending so a tenant-specific translation beats a global
// one when both exist.
func (s *MongoStore) ApprovedTranslationName(ctx context.Context, scope tenant.Scope, objectID bson.ObjectID, language string) (string, error) {
	filter := tenant.And(
		tenant.Eq(FieldTranslationObject, objectID),
		tenant.Eq(FieldTranslationLanguage, language),
		tenant.Eq(FieldTranslationStatus, string(TranslationStatusApproved)),
	)

	var matches []Translation
	opts := tenant.FindOptions{
		Sort:  bson.D{{Key: tenant.FieldOrg, Value: -1}},
		Limit: 1,
	}
	if err := s.translations.Find(ctx, scope, filter, opts, &matches); err != nil {
		return "", fmt.Errorf("catalog: translation lookup: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: translation %s/%s", ErrNotFound, objectID.Hex(), language)
	}
	return matches[0].ObjectName, nil
}

// # Summary Recompute

// summaryGroup is one visibility branch produced by the recompute
// aggregation; an empty org key is the global branch.
type summaryGroup struct {
	OrgID     string   `bson:"_id"`
	Languages []string `bson:"languages"`
}

// RecomputeTranslationSummary rebuilds translation_summary from the
// approved translations of one object. Triggered by the moderation
// workflow whenever a translation is approved or withdrawn; uses the raw
// collections because the summary spans every tenant branch.
func (s *MongoStore) RecomputeTranslationSummary(ctx context.Context, objectID bson.ObjectID) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			FieldTranslationObject: objectID,
			FieldTranslationStatus: string(TranslationStatusApproved),
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"$ifNull": bson.A{"$" + tenant.FieldOrg, ""}},
			"languages": bson.M{"$addToSet": "$" + FieldTranslationLanguage},
		}}},
	}

	cursor, err := s.translationsColl.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("catalog: summary aggregation: %w", err)
	}

	var groups []summaryGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return fmt.Errorf("catalog: summary decode: %w", err)
	}

	summary := TranslationSummary{}
	for _, group := range groups {
		if group.OrgID == "" {
			summary.Global = LanguageSet{TranslatedLanguages: group.Languages}
			continue
		}
		if summary.Orgs == nil {
			summary.Orgs = make(map[string]LanguageSet)
		}
		summary.Orgs[group.OrgID] = LanguageSet{TranslatedLanguages: group.Languages}
	}

	_, err = s.objectsColl.UpdateOne(ctx,
		bson.M{FieldID: objectID},
		bson.M{"$set": bson.M{
			"translation_summary": summary,
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("catalog: summary write: %w", err)
	}
	return nil
}

// # Index Management

// EnsureIndexes creates the indexes discovery and search depend on. The
// Atlas vector index is managed out-of-band (cluster configuration), so it
// is not created here.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	objectIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: FieldImageHash, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: FieldObjectNameEN, Value: "text"},
				{Key: FieldEmbeddingText, Value: "text"},
			},
		},
		{
			Keys: discoverSort,
		},
	}
	if _, err := s.objectsColl.Indexes().CreateMany(ctx, objectIndexes); err != nil {
		return fmt.Errorf("catalog: object indexes: %w", err)
	}

	translationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: FieldTranslationObject, Value: 1},
				{Key: FieldTranslationLanguage, Value: 1},
				{Key: FieldTranslationStatus, Value: 1},
			},
		},
	}
	if _, err := s.translationsColl.Indexes().CreateMany(ctx, translationIndexes); err != nil {
		return fmt.Errorf("catalog: translation indexes: %w", err)
	}

	return nil
}
