// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package tenant implements the tenant-isolation layer over the shared
document collections.

Every read, write, and aggregation issued through a [Repo] is rewritten so
that organisation-scoped data, globally-shared data, and fallback-to-global
data never leak across tenants. Centralizing the rewriting here is the only
way to guarantee no handler can accidentally leak cross-tenant data; every
other component treats the repository as already tenant-safe and never
re-implements org filtering.

Architecture:

  - Scope: the (user_id, org_id) pair derived per request. Threaded
    explicitly through every call — never stored in a process-wide mutable
    singleton, since requests execute concurrently.
  - Expr: a typed filter-expression tree the repository can traverse
    structurally to detect pre-existing org constraints.
  - Repo: one concrete repository whose visibility rule (strict vs.
    fallback-to-global) is selected by composition at construction time.
*/
package tenant

import "github.com/vishalsx/identify-objects/internal/platform/sec"

// FieldOrg is the attribute that scopes a document to an organisation.
// Documents without it are global records.
const FieldOrg = "org_id"

// Scope is the ambient tenant context for one request.
//
// It is read-only after construction. An empty OrgID means the requester
// is anonymous or belongs to no organisation and sees global data only.
type Scope struct {
	UserID string
	OrgID  string
}

// HasOrg reports whether the scope is bound to an organisation.
func (s Scope) HasOrg() bool { return s.OrgID != "" }

// FromClaims derives the request scope from verified token claims.
// A nil claims pointer yields the anonymous scope.
func FromClaims(claims *sec.AuthClaims) Scope {
	if claims == nil {
		return Scope{}
	}
	return Scope{
		UserID: claims.UserID,
		OrgID:  claims.OrgID,
	}
}
