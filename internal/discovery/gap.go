// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package discovery surfaces the most popular objects that still need
translation work for the requesting user.

Two pieces: the translation-gap evaluator, which turns the denormalized
per-object summary into translated/untranslated language lists for one
scope, and the ranker, which pages the popularity-ordered catalog with a
compound cursor so pagination stays stable while rankings mutate.
*/
package discovery

import (
	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

// Gap is the translation state of one object for one user.
type Gap struct {
	// Translated is the scope-appropriate translated-language set from the
	// object's summary.
	Translated []string

	// Untranslated is languages_allowed minus Translated, in the user's
	// order.
	Untranslated []string
}

// FullyServiced reports whether the object needs no work from this user.
// Discovery excludes such objects; search keeps them, since a searching
// user may want to view or verify a finished item.
func (g Gap) FullyServiced() bool { return len(g.Untranslated) == 0 }

// EvaluateGap computes the work gap from the object's denormalized
// summary. It never touches the translations collection: that is the whole
// point of the summary.
func EvaluateGap(object catalog.Object, scope tenant.Scope, languagesAllowed []string) Gap {
	translated := object.TranslationSummary.ForScope(scope.OrgID)

	translatedSet := make(map[string]struct{}, len(translated))
	for _, language := range translated {
		translatedSet[language] = struct{}{}
	}

	untranslated := make([]string, 0, len(languagesAllowed))
	for _, language := range languagesAllowed {
		if _, ok := translatedSet[language]; !ok {
			untranslated = append(untranslated, language)
		}
	}

	return Gap{Translated: translated, Untranslated: untranslated}
}
