// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package tenant

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FindOptions carries the post-filter knobs a caller may set on a Find.
// The repository owns the filter itself.
type FindOptions struct {
	Sort       bson.D
	Limit      int64
	Skip       int64
	Projection bson.M
}

// Repository is the narrow tenant-safe data-access contract. Callers supply
// plain domain filters; the implementation injects the visibility condition
// for the active [Scope] on every call.
type Repository interface {
	FindOne(ctx context.Context, scope Scope, filter Expr, result any) error
	Find(ctx context.Context, scope Scope, filter Expr, opts FindOptions, results any) error
	Count(ctx context.Context, scope Scope, filter Expr) (int64, error)
	UpdateOne(ctx context.Context, scope Scope, filter Expr, update bson.D, upsert bool) error
	InsertOne(ctx context.Context, scope Scope, document bson.D) (bson.ObjectID, error)
	Aggregate(ctx context.Context, scope Scope, pipeline mongo.Pipeline, results any) error
}

// visibilityRule builds the tenant condition injected into unconstrained
// filters. The two rules (strict, fallback-to-global) are selected by
// composition at construction time.
type visibilityRule func(Scope) Expr

// Repo is the tenant-aware repository over one collection.
//
// It raises no errors of its own: it is a pure query-rewriting layer, and
// malformed filters surface through the underlying driver's behavior.
type Repo struct {
	coll       *mongo.Collection
	visibility visibilityRule
}

var _ Repository = (*Repo)(nil)

// NewStrict builds a repository where records are visible only to their own
// organisation, and anonymous scopes see only no-org records.
func NewStrict(coll *mongo.Collection) *Repo {
	return &Repo{
		coll: coll,
		visibility: func(scope Scope) Expr {
			if scope.HasOrg() {
				return Eq(FieldOrg, scope.OrgID)
			}
			return Null(FieldOrg)
		},
	}
}

// NewFallback builds a repository where an organisation sees its own records
// PLUS all globally-shared records that satisfy publicVisible (for the
// object catalog: image approval). Anonymous scopes see no-org records only.
//
// The "what counts as publicly visible" predicate is a parameter so this
// generic layer never hard-codes a workflow-state literal.
func NewFallback(coll *mongo.Collection, publicVisible Expr) *Repo {
	return &Repo{
		coll: coll,
		visibility: func(scope Scope) Expr {
			if scope.HasOrg() {
				return Or(
					Eq(FieldOrg, scope.OrgID),
					And(Null(FieldOrg), publicVisible),
				)
			}
			return Null(FieldOrg)
		},
	}
}

// # Filter Rewriting

// rewrite injects the scope's visibility condition unless the caller's
// filter already constrains the org attribute — explicit caller intent wins.
func (r *Repo) rewrite(scope Scope, filter Expr) Expr {
	if ContainsField(filter, FieldOrg) {
		return filter
	}

	cond := r.visibility(scope)
	if filter == nil {
		return cond
	}
	return And(filter, cond)
}

// filterDoc renders a possibly-nil expression for the driver.
func filterDoc(expr Expr) bson.M {
	if expr == nil {
		return bson.M{}
	}
	return expr.BSON()
}

// # Reads

func (r *Repo) FindOne(ctx context.Context, scope Scope, filter Expr, result any) error {
	return r.coll.FindOne(ctx, filterDoc(r.rewrite(scope, filter))).Decode(result)
}

func (r *Repo) Find(ctx context.Context, scope Scope, filter Expr, opts FindOptions, results any) error {
	findOpts := options.Find()
	if opts.Sort != nil {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Projection != nil {
		findOpts.SetProjection(opts.Projection)
	}

	cursor, err := r.coll.Find(ctx, filterDoc(r.rewrite(scope, filter)), findOpts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

func (r *Repo) Count(ctx context.Context, scope Scope, filter Expr) (int64, error) {
	return r.coll.CountDocuments(ctx, filterDoc(r.rewrite(scope, filter)))
}

// # Writes

// UpdateOne rewrites the filter like any read. On an upsert, the org
// attribute is placed on the inserted branch via $setOnInsert so the $set
// semantics for existing documents are left untouched.
func (r *Repo) UpdateOne(ctx context.Context, scope Scope, filter Expr, update bson.D, upsert bool) error {
	if upsert {
		update = r.withOrgOnInsert(scope, update)
	}

	_, err := r.coll.UpdateOne(
		ctx,
		filterDoc(r.rewrite(scope, filter)),
		update,
		options.UpdateOne().SetUpsert(upsert),
	)
	return err
}

// InsertOne stamps the scope's org attribute onto the document when the
// caller omitted it. A caller-supplied value is never overwritten.
func (r *Repo) InsertOne(ctx context.Context, scope Scope, document bson.D) (bson.ObjectID, error) {
	document = r.withOrgOnDocument(scope, document)

	res, err := r.coll.InsertOne(ctx, document)
	if err != nil {
		return bson.ObjectID{}, err
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, fmt.Errorf("tenant: unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (r *Repo) withOrgOnDocument(scope Scope, document bson.D) bson.D {
	if !scope.HasOrg() || docConstrains(document, FieldOrg) {
		return document
	}
	return append(document, bson.E{Key: FieldOrg, Value: scope.OrgID})
}

// withOrgOnInsert guarantees the upserted document carries the org
// attribute without disturbing the $set branch.
func (r *Repo) withOrgOnInsert(scope Scope, update bson.D) bson.D {
	if !scope.HasOrg() || docConstrains(update, FieldOrg) {
		return update
	}

	for i, elem := range update {
		if elem.Key != "$setOnInsert" {
			continue
		}
		// Extend the existing on-insert clause.
		onInsert, ok := elem.Value.(bson.D)
		if !ok {
			return update
		}
		rewritten := make(bson.D, len(update))
		copy(rewritten, update)
		rewritten[i] = bson.E{
			Key:   "$setOnInsert",
			Value: append(onInsert, bson.E{Key: FieldOrg, Value: scope.OrgID}),
		}
		return rewritten
	}

	return append(update, bson.E{
		Key:   "$setOnInsert",
		Value: bson.D{{Key: FieldOrg, Value: scope.OrgID}},
	})
}

// # Aggregation

// Aggregate injects the tenant condition as the first pipeline stage —
// unless the pipeline opens with a vector-similarity stage, which the
// search engine requires to be first; in that case the condition merges
// into the vector stage's own filter clause.
func (r *Repo) Aggregate(ctx context.Context, scope Scope, pipeline mongo.Pipeline, results any) error {
	cursor, err := r.coll.Aggregate(ctx, r.rewritePipeline(scope, pipeline))
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

func (r *Repo) rewritePipeline(scope Scope, pipeline mongo.Pipeline) mongo.Pipeline {
	// Explicit caller intent wins, anywhere in the pipeline.
	for _, stage := range pipeline {
		if docConstrains(stage, FieldOrg) {
			return pipeline
		}
	}

	cond := r.visibility(scope).BSON()

	if len(pipeline) > 0 && stageOperator(pipeline[0]) == "$vectorSearch" {
		rewritten := make(mongo.Pipeline, len(pipeline))
		copy(rewritten, pipeline)
		rewritten[0] = injectVectorFilter(pipeline[0], cond)
		return rewritten
	}

	match := bson.D{{Key: "$match", Value: cond}}
	return append(mongo.Pipeline{match}, pipeline...)
}

// stageOperator returns the operator name of an aggregation stage.
func stageOperator(stage bson.D) string {
	if len(stage) == 0 {
		return ""
	}
	return stage[0].Key
}

// injectVectorFilter merges the tenant condition into the filter clause of
// a $vectorSearch stage, AND-ing with any caller-supplied filter.
func injectVectorFilter(stage bson.D, cond bson.M) bson.D {
	spec, ok := stage[0].Value.(bson.D)
	if !ok {
		return stage
	}

	rewrittenSpec := make(bson.D, 0, len(spec)+1)
	injected := false

	for _, elem := range spec {
		if elem.Key == "filter" {
			rewrittenSpec = append(rewrittenSpec, bson.E{
				Key:   "filter",
				Value: bson.M{"$and": bson.A{elem.Value, cond}},
			})
			injected = true
			continue
		}
		rewrittenSpec = append(rewrittenSpec, elem)
	}

	if !injected {
		rewrittenSpec = append(rewrittenSpec, bson.E{Key: "filter", Value: cond})
	}

	return bson.D{{Key: stage[0].Key, Value: rewrittenSpec}}
}
