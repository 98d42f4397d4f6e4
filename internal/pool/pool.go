// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package pool serves the object pool: the paged feed of catalog objects a
user can translate next, either ranked by popularity (discovery mode) or
matched against a free-text query (search mode).

Data flow: request → tenant scope → {search engine | discovery ranker} →
translation-gap evaluation → result assembler → paginated response. The
assembler enriches each surviving candidate with image bytes, a thumbnail,
humanized vote counts, and the target-language object name.

# Degradation

Partial failures never fail the page. A skipped retrieval strategy or an
unresolvable image narrows the result set; only a malformed cursor (400)
or a full store outage (5xx) produces an error response.
*/
package pool

import (
	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/discovery"
)

// Candidate is one raw object headed for assembly, with its work gap
// already evaluated.
type Candidate struct {
	Object catalog.Object
	Gap    discovery.Gap
}

// Item is the fully assembled response entry for one pool object.
type Item struct {
	ObjectID              string           `json:"object_id"`
	ImageHash             string           `json:"image_hash"`
	ObjectName            string           `json:"object_name"`
	ImageBase64           string           `json:"image_base64"`
	ThumbnailBase64       string           `json:"thumbnail_base64,omitempty"`
	Metadata              catalog.Metadata `json:"metadata"`
	PopularityStars       float64          `json:"popularity_stars"`
	TotalNetVotes         int64            `json:"total_net_votes"`
	TotalVoteCountHuman   string           `json:"total_vote_count_human"`
	LanguagesTranslated   []string         `json:"languages_translated"`
	UntranslatedLanguages []string         `json:"untranslated_languages"`
	OrgID                 *string          `json:"org_id,omitempty"`
}
