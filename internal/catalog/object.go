// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package catalog defines the shared object/translation data model and the
document-store access layer behind discovery and search.

An Object is one distinct real-world subject captured in one canonical
image. Its translation and vote summaries are denormalized onto the object
document so gap detection and popularity ranking never have to join against
the translations collection at discovery time.
*/
package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ImageStatus is the moderation state of an object's canonical image.
// The workflow that advances it lives outside this service.
type ImageStatus string

const (
	ImageStatusNone      ImageStatus = "None"
	ImageStatusSubmitted ImageStatus = "Submitted"
	ImageStatusVerified  ImageStatus = "Verified"
	ImageStatusApproved  ImageStatus = "Approved"
	ImageStatusRejected  ImageStatus = "Rejected"
)

// Metadata carries the classification attributes of an object.
type Metadata struct {
	Category       string   `bson:"category" json:"category"`
	FieldOfStudy   string   `bson:"field_of_study" json:"field_of_study"`
	Tags           []string `bson:"tags" json:"tags"`
	AgeAppropriate bool     `bson:"age_appropriate" json:"age_appropriate"`
}

// LanguageSet is one visibility branch of the translation summary.
type LanguageSet struct {
	TranslatedLanguages []string `bson:"translated_languages" json:"translated_languages"`
}

// TranslationSummary is the denormalized per-object record of which
// languages already have an Approved translation, split by visibility
// scope. A language appears under Global only when a no-org Approved
// translation exists; under Orgs[X] only when org-X has its own.
type TranslationSummary struct {
	Global LanguageSet            `bson:"global" json:"global"`
	Orgs   map[string]LanguageSet `bson:"orgs,omitempty" json:"orgs,omitempty"`
}

// ForScope returns the translated-language set the given org (or the
// global branch, when orgID is empty) should be evaluated against.
func (s TranslationSummary) ForScope(orgID string) []string {
	if orgID == "" {
		return s.Global.TranslatedLanguages
	}
	branch, ok := s.Orgs[orgID]
	if !ok {
		return nil
	}
	return branch.TranslatedLanguages
}

// VotesSummary is the denormalized fair-rating aggregate, recomputed in
// the background whenever votes change.
type VotesSummary struct {
	FairStarRating     float64          `bson:"fair_star_rating" json:"fair_star_rating"`
	TotalNetVotes      int64            `bson:"total_net_votes" json:"total_net_votes"`
	NetVotesByLanguage map[string]int64 `bson:"net_votes_by_language,omitempty" json:"net_votes_by_language,omitempty"`
}

// Object is one catalog entry. OrgID is a pointer: nil means the record is
// global and — once Approved — visible to every tenant.
type Object struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ImageHash       string        `bson:"image_hash" json:"image_hash"`
	ImageKey        string        `bson:"image_key" json:"-"`
	ImageStatus     ImageStatus   `bson:"image_status" json:"image_status"`
	ObjectNameEN    string        `bson:"object_name_en" json:"object_name_en"`
	Metadata        Metadata      `bson:"metadata" json:"metadata"`
	OrgID           *string       `bson:"org_id,omitempty" json:"org_id,omitempty"`
	EmbeddingText   string        `bson:"embedding_text,omitempty" json:"-"`
	EmbeddingVector []float32     `bson:"embedding_vector,omitempty" json:"-"`

	TranslationSummary TranslationSummary `bson:"translation_summary" json:"translation_summary"`
	VotesSummary       VotesSummary       `bson:"votes_summary" json:"votes_summary"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DedupKey is the stable identity used when merging candidates from
// multiple retrieval strategies: the content fingerprint when present,
// otherwise the document id.
func (o Object) DedupKey() string {
	if o.ImageHash != "" {
		return o.ImageHash
	}
	return o.ID.Hex()
}

// SearchText is the text the fuzzy strategy scores tokens against.
func (o Object) SearchText() string {
	if o.EmbeddingText != "" {
		return o.EmbeddingText
	}
	return o.ObjectNameEN
}

// HasOrg reports whether the record is tenant-tagged.
func (o Object) HasOrg() bool { return o.OrgID != nil && *o.OrgID != "" }

// ScoredObject pairs a candidate with its raw strategy score. The hybrid
// engine applies per-strategy weights before merging.
type ScoredObject struct {
	Object Object
	Score  float64
}
