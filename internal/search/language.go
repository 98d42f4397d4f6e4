// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package search

import (
	"github.com/abadojack/whatlanggo"
)

// Thresholds is the similarity threshold pair selected for one query.
//
// English queries get the stricter vector threshold; non-English queries a
// looser one, compensating for weaker cross-lingual embedding quality. The
// fuzzy threshold is the vector threshold relaxed by the configured factor.
type Thresholds struct {
	Vector float64
	Fuzzy  float64
}

// Classifier derives per-query thresholds from a best-effort language
// detection pass.
type Classifier struct {
	english float64
	other   float64
	relax   float64
}

// NewClassifier builds a classifier from the configured threshold pair and
// fuzzy relax multiplier.
func NewClassifier(english, other, relax float64) Classifier {
	return Classifier{english: english, other: other, relax: relax}
}

// Classify returns the thresholds for the query and whether it was judged
// English. Detection is best-effort: unreliable results default to English.
func (c Classifier) Classify(query string) (Thresholds, bool) {
	info := whatlanggo.Detect(query)
	isEnglish := info.Lang == whatlanggo.Eng || !info.IsReliable()

	vector := c.english
	if !isEnglish {
		vector = c.other
	}

	return Thresholds{
		Vector: vector,
		Fuzzy:  vector * c.relax,
	}, isEnglish
}
