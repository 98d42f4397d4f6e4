// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package search

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// fuzzyPrefixLen is how much of the query seeds the cheap substring
// pre-filter before token scoring. Short enough to keep the candidate pool
// permissive, long enough to dodge a full-collection scan.
const fuzzyPrefixLen = 4

// queryPrefix returns the lowercased scan prefix for a query.
func queryPrefix(query string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(runes) > fuzzyPrefixLen {
		runes = runes[:fuzzyPrefixLen]
	}
	return string(runes)
}

// bestTokenRatio scores a candidate's searchable text against the query:
// the best token-level similarity, taking the maximum of a substring-aware
// ratio and a word-order-independent ratio per token. Returns 0..100.
func bestTokenRatio(text, query string) int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || text == "" {
		return 0
	}

	best := 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		partial := fuzzy.PartialRatio(token, query)
		tokenSet := fuzzy.TokenSetRatio(token, query)

		score := partial
		if tokenSet > score {
			score = tokenSet
		}
		if score > best {
			best = score
		}
	}
	return best
}
