// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

// White-box tests: the rewriting rules are the security boundary of the
// whole service, so they are pinned here at the expression level without a
// live collection.

package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var approvedOnly = Eq("image_status", "Approved")

/*
TestRewrite_StrictScopes verifies the Strict visibility rule: an org scope
sees only its own records, an anonymous scope only no-org records.
*/
func TestRewrite_StrictScopes(t *testing.T) {
	repo := NewStrict(nil)

	// 1. Org scope: equality on the org attribute.
	rewritten := repo.rewrite(Scope{UserID: "u1", OrgID: "acme"}, nil)
	assert.Equal(t, Eq(FieldOrg, "acme").BSON(), rewritten.BSON())

	// 2. Anonymous scope: org attribute missing or null.
	rewritten = repo.rewrite(Scope{UserID: "u1"}, nil)
	assert.Equal(t, Null(FieldOrg).BSON(), rewritten.BSON())

	// 3. A caller filter is AND-ed with the visibility condition.
	rewritten = repo.rewrite(Scope{OrgID: "acme"}, Eq("category", "Fruits"))
	assert.Equal(t,
		And(Eq("category", "Fruits"), Eq(FieldOrg, "acme")).BSON(),
		rewritten.BSON())
}

/*
TestRewrite_FallbackScopes verifies the Fallback rule: an org scope also
sees globally-shared records that pass the public-visibility predicate.
*/
func TestRewrite_FallbackScopes(t *testing.T) {
	repo := NewFallback(nil, approvedOnly)

	// 1. Org scope: own records OR approved global records.
	rewritten := repo.rewrite(Scope{OrgID: "acme"}, nil)
	expected := Or(
		Eq(FieldOrg, "acme"),
		And(Null(FieldOrg), approvedOnly),
	)
	assert.Equal(t, expected.BSON(), rewritten.BSON())

	// 2. Anonymous scope never widens: no-org records only, regardless of
	// the predicate.
	rewritten = repo.rewrite(Scope{}, nil)
	assert.Equal(t, Null(FieldOrg).BSON(), rewritten.BSON())
}

/*
TestRewrite_CallerFilterWins verifies that a filter already constraining
the org attribute passes through untouched, at any nesting depth.
*/
func TestRewrite_CallerFilterWins(t *testing.T) {
	repo := NewStrict(nil)
	scope := Scope{OrgID: "acme"}

	filters := []Expr{
		Eq(FieldOrg, "other-org"),
		Null(FieldOrg),
		And(Eq("category", "Fruits"), Or(Eq(FieldOrg, "x"), Null(FieldOrg))),
		Raw(bson.M{"$or": bson.A{bson.M{FieldOrg: nil}, bson.M{FieldOrg: "x"}}}),
	}

	for _, filter := range filters {
		rewritten := repo.rewrite(scope, filter)
		assert.Equal(t, filter.BSON(), rewritten.BSON())
	}
}

/*
TestRewritePipeline_PrependsMatch verifies that an ordinary pipeline gains
the tenant condition as a leading $match stage.
*/
func TestRewritePipeline_PrependsMatch(t *testing.T) {
	repo := NewStrict(nil)
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "votes_summary.fair_star_rating", Value: -1}}}},
	}

	rewritten := repo.rewritePipeline(Scope{OrgID: "acme"}, pipeline)

	require.Len(t, rewritten, 2)
	assert.Equal(t, "$match", rewritten[0][0].Key)
	assert.Equal(t, Eq(FieldOrg, "acme").BSON(), rewritten[0][0].Value)
	assert.Equal(t, pipeline[0], rewritten[1])
}

/*
TestRewritePipeline_VectorStageFirst verifies the $vectorSearch special
case: the stage must stay first, so the tenant condition merges into its
filter clause instead.
*/
func TestRewritePipeline_VectorStageFirst(t *testing.T) {
	repo := NewStrict(nil)
	scope := Scope{OrgID: "acme"}

	// 1. No caller filter on the stage: the condition becomes the filter.
	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: "object_vector_index"},
			{Key: "numCandidates", Value: 100},
		}}},
	}

	rewritten := repo.rewritePipeline(scope, pipeline)
	require.Len(t, rewritten, 1)

	spec, ok := rewritten[0][0].Value.(bson.D)
	require.True(t, ok)
	require.Len(t, spec, 3)
	assert.Equal(t, "filter", spec[2].Key)
	assert.Equal(t, Eq(FieldOrg, "acme").BSON(), spec[2].Value)

	// 2. A caller-supplied filter is AND-merged, not replaced.
	pipeline = mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: "object_vector_index"},
			{Key: "filter", Value: bson.M{"image_status": "Approved"}},
		}}},
	}

	rewritten = repo.rewritePipeline(scope, pipeline)
	spec, ok = rewritten[0][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "filter", spec[1].Key)
	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"image_status": "Approved"},
		Eq(FieldOrg, "acme").BSON(),
	}}, spec[1].Value)

	// 3. The input pipeline is never mutated.
	originalSpec := pipeline[0][0].Value.(bson.D)
	assert.Equal(t, "filter", originalSpec[1].Key)
	assert.Equal(t, bson.M{"image_status": "Approved"}, originalSpec[1].Value)
}

/*
TestRewritePipeline_CallerConstraintWins verifies that a pipeline already
naming the org attribute anywhere passes through unmodified.
*/
func TestRewritePipeline_CallerConstraintWins(t *testing.T) {
	repo := NewStrict(nil)
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$match", Value: bson.M{FieldOrg: "other-org"}}},
	}

	rewritten := repo.rewritePipeline(Scope{OrgID: "acme"}, pipeline)
	assert.Equal(t, pipeline, rewritten)
}

/*
TestWithOrgOnDocument verifies org stamping on inserts: set when missing,
never overwritten, never added for anonymous scopes.
*/
func TestWithOrgOnDocument(t *testing.T) {
	repo := NewStrict(nil)

	// 1. Missing org attribute gets stamped.
	doc := bson.D{{Key: "image_hash", Value: "abc"}}
	stamped := repo.withOrgOnDocument(Scope{OrgID: "acme"}, doc)
	assert.Equal(t, bson.E{Key: FieldOrg, Value: "acme"}, stamped[len(stamped)-1])

	// 2. A caller-supplied value is preserved.
	doc = bson.D{{Key: FieldOrg, Value: "other"}}
	stamped = repo.withOrgOnDocument(Scope{OrgID: "acme"}, doc)
	assert.Equal(t, doc, stamped)

	// 3. Anonymous scope adds nothing.
	doc = bson.D{{Key: "image_hash", Value: "abc"}}
	assert.Equal(t, doc, repo.withOrgOnDocument(Scope{}, doc))
}

/*
TestWithOrgOnInsert verifies upsert stamping: the org attribute lands on
the $setOnInsert branch without disturbing $set.
*/
func TestWithOrgOnInsert(t *testing.T) {
	repo := NewStrict(nil)
	scope := Scope{OrgID: "acme"}

	// 1. No $setOnInsert clause yet: one is appended.
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "updated_at", Value: 1}}}}
	rewritten := repo.withOrgOnInsert(scope, update)

	require.Len(t, rewritten, 2)
	assert.Equal(t, update[0], rewritten[0])
	assert.Equal(t, bson.E{
		Key:   "$setOnInsert",
		Value: bson.D{{Key: FieldOrg, Value: "acme"}},
	}, rewritten[1])

	// 2. An existing $setOnInsert clause is extended in place.
	update = bson.D{
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: 1}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: 1}}},
	}
	rewritten = repo.withOrgOnInsert(scope, update)

	onInsert, ok := rewritten[1].Value.(bson.D)
	require.True(t, ok)
	require.Len(t, onInsert, 2)
	assert.Equal(t, bson.E{Key: FieldOrg, Value: "acme"}, onInsert[1])

	// 3. An update that already names the org attribute passes through.
	update = bson.D{{Key: "$set", Value: bson.D{{Key: FieldOrg, Value: "other"}}}}
	assert.Equal(t, update, repo.withOrgOnInsert(scope, update))
}
