// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how paging is requested via query parameters and how the
// resulting metadata is delivered in the API response envelope. Two modes
// coexist:
//
//   - Search mode: limit + skip over an already-bounded, deduplicated
//     candidate set (an in-memory slice, not a store-level offset).
//   - Discovery mode: limit + a compound cursor (`last_object_id`), because
//     offset paging drifts when popularity rankings mutate between pages.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 9
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 27
)

// Params holds the parsed paging inputs from a request's query string.
type Params struct {
	Limit int
	Skip  int

	// LastID is the discovery-mode cursor: the object id that closed the
	// previous page. Empty for the first page and for search mode.
	LastID string
}

// Meta is the paging metadata included in API list responses.
type Meta struct {
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// FromRequest parses "limit", "skip", and "last_object_id" query parameters.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultLimit] / [MaxLimit]; skip is never negative.
func FromRequest(r *http.Request) Params {
	limit := parseIntParam(r, "limit", DefaultLimit)
	skip := parseIntParam(r, "skip", 0)

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if skip < 0 {
		skip = 0
	}

	return Params{
		Limit:  limit,
		Skip:   skip,
		LastID: r.URL.Query().Get("last_object_id"),
	}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
