// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package tenant

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Expr is one node of the typed filter-expression tree.
//
// # Why not raw bson?
//
// The repository must answer "does this filter already constrain the org
// attribute?" before injecting tenant conditions. A tagged expression tree
// makes that a structural traversal instead of duck-typing arbitrarily
// nested documents. [Raw] remains as an escape hatch for store-native
// operators ($text) and is walked recursively.
type Expr interface {
	// BSON renders the expression as a driver filter document.
	BSON() bson.M

	// constrains reports whether the expression references the field name,
	// at any depth.
	constrains(field string) bool
}

// ContainsField reports whether expr references the given field anywhere.
func ContainsField(expr Expr, field string) bool {
	if expr == nil {
		return false
	}
	return expr.constrains(field)
}

// # Leaf Expressions

type eqExpr struct {
	field string
	value any
}

// Eq matches documents whose field equals value.
func Eq(field string, value any) Expr { return eqExpr{field: field, value: value} }

func (e eqExpr) BSON() bson.M                 { return bson.M{e.field: e.value} }
func (e eqExpr) constrains(field string) bool { return e.field == field }

type ltExpr struct {
	field string
	value any
}

// Lt matches documents whose field is strictly less than value.
func Lt(field string, value any) Expr { return ltExpr{field: field, value: value} }

func (e ltExpr) BSON() bson.M                 { return bson.M{e.field: bson.M{"$lt": e.value}} }
func (e ltExpr) constrains(field string) bool { return e.field == field }

type nullExpr struct {
	field string
}

// Null matches documents whose field is null or missing entirely.
// This is the store's semantics for `{field: null}` and is exactly the
// "no organisation" visibility condition.
func Null(field string) Expr { return nullExpr{field: field} }

func (e nullExpr) BSON() bson.M                 { return bson.M{e.field: nil} }
func (e nullExpr) constrains(field string) bool { return e.field == field }

type existsExpr struct {
	field  string
	exists bool
}

// Exists matches on the presence (or absence) of a field.
func Exists(field string, exists bool) Expr { return existsExpr{field: field, exists: exists} }

func (e existsExpr) BSON() bson.M                 { return bson.M{e.field: bson.M{"$exists": e.exists}} }
func (e existsExpr) constrains(field string) bool { return e.field == field }

type regexExpr struct {
	field   string
	pattern string
	options string
}

// Regex matches the field against a regular expression. Used by the fuzzy
// pass as a cheap prefix/substring pre-filter.
func Regex(field, pattern, options string) Expr {
	return regexExpr{field: field, pattern: pattern, options: options}
}

func (e regexExpr) BSON() bson.M {
	return bson.M{e.field: bson.M{"$regex": e.pattern, "$options": e.options}}
}
func (e regexExpr) constrains(field string) bool { return e.field == field }

type notAllExpr struct {
	field  string
	values []string
}

// NotAll matches documents whose array field does NOT contain every one of
// the given values. A missing field matches too, which is precisely the
// work-gap condition: at least one allowed language is still untranslated.
func NotAll(field string, values []string) Expr { return notAllExpr{field: field, values: values} }

func (e notAllExpr) BSON() bson.M {
	return bson.M{e.field: bson.M{"$not": bson.M{"$all": e.values}}}
}
func (e notAllExpr) constrains(field string) bool { return e.field == field }

// # Composite Expressions

type andExpr struct {
	exprs []Expr
}

// And matches documents satisfying every sub-expression.
func And(exprs ...Expr) Expr { return andExpr{exprs: exprs} }

func (e andExpr) BSON() bson.M {
	clauses := make(bson.A, 0, len(e.exprs))
	for _, sub := range e.exprs {
		clauses = append(clauses, sub.BSON())
	}
	return bson.M{"$and": clauses}
}

func (e andExpr) constrains(field string) bool {
	for _, sub := range e.exprs {
		if sub.constrains(field) {
			return true
		}
	}
	return false
}

type orExpr struct {
	exprs []Expr
}

// Or matches documents satisfying at least one sub-expression.
func Or(exprs ...Expr) Expr { return orExpr{exprs: exprs} }

func (e orExpr) BSON() bson.M {
	clauses := make(bson.A, 0, len(e.exprs))
	for _, sub := range e.exprs {
		clauses = append(clauses, sub.BSON())
	}
	return bson.M{"$or": clauses}
}

func (e orExpr) constrains(field string) bool {
	for _, sub := range e.exprs {
		if sub.constrains(field) {
			return true
		}
	}
	return false
}

// # Escape Hatch

type rawExpr struct {
	doc bson.M
}

// Raw wraps a store-native filter document. Prefer the typed constructors;
// Raw exists for operators the builder does not model, such as $text.
func Raw(doc bson.M) Expr { return rawExpr{doc: doc} }

func (e rawExpr) BSON() bson.M { return e.doc }

func (e rawExpr) constrains(field string) bool {
	return docConstrains(e.doc, field)
}

// docConstrains walks an arbitrary bson value looking for a key. It covers
// the nesting shapes the driver produces: bson.M, bson.D, bson.A, plain
// maps, and slices.
func docConstrains(value any, field string) bool {
	switch v := value.(type) {
	case bson.M:
		for key, nested := range v {
			if key == field || docConstrains(nested, field) {
				return true
			}
		}
	case map[string]any:
		for key, nested := range v {
			if key == field || docConstrains(nested, field) {
				return true
			}
		}
	case bson.D:
		for _, elem := range v {
			if elem.Key == field || docConstrains(elem.Value, field) {
				return true
			}
		}
	case bson.E:
		return v.Key == field || docConstrains(v.Value, field)
	case bson.A:
		for _, nested := range v {
			if docConstrains(nested, field) {
				return true
			}
		}
	case []any:
		for _, nested := range v {
			if docConstrains(nested, field) {
				return true
			}
		}
	}
	return false
}
