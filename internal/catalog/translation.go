// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TranslationStatus is the moderation state of one localized rendition.
type TranslationStatus string

const (
	TranslationStatusNone      TranslationStatus = "None"
	TranslationStatusDraft     TranslationStatus = "Draft"
	TranslationStatusSubmitted TranslationStatus = "Submitted"
	TranslationStatusVerified  TranslationStatus = "Verified"
	TranslationStatusApproved  TranslationStatus = "Approved"
	TranslationStatusRejected  TranslationStatus = "Rejected"
)

// Translation is one object's content in one language within one
// visibility scope. Per scope, an object carries at most one Approved
// translation per language.
//
// This service reads translations (name resolution, summary recompute);
// creation and moderation happen in the external workflow.
type Translation struct {
	ID                bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	ObjectID          bson.ObjectID     `bson:"object_id" json:"object_id"`
	RequestedLanguage string            `bson:"requested_language" json:"requested_language"`
	TranslationStatus TranslationStatus `bson:"translation_status" json:"translation_status"`

	ObjectName        string `bson:"object_name" json:"object_name"`
	ObjectDescription string `bson:"object_description,omitempty" json:"object_description,omitempty"`

	OrgID           *string   `bson:"org_id,omitempty" json:"org_id,omitempty"`
	EmbeddingText   string    `bson:"embedding_text,omitempty" json:"-"`
	EmbeddingVector []float32 `bson:"embedding_vector,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
