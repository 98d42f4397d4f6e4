// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/discovery"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

func summarizedObject(global []string, orgs map[string][]string) catalog.Object {
	summary := catalog.TranslationSummary{
		Global: catalog.LanguageSet{TranslatedLanguages: global},
	}
	if len(orgs) > 0 {
		summary.Orgs = make(map[string]catalog.LanguageSet, len(orgs))
		for orgID, languages := range orgs {
			summary.Orgs[orgID] = catalog.LanguageSet{TranslatedLanguages: languages}
		}
	}
	return catalog.Object{TranslationSummary: summary}
}

/*
TestEvaluateGap_GlobalBranch verifies gap evaluation against the global
summary branch: a user allowed Hindi and French, with English and Hindi
already translated, has exactly French left to contribute.
*/
func TestEvaluateGap_GlobalBranch(t *testing.T) {
	object := summarizedObject([]string{"English", "Hindi"}, nil)

	gap := discovery.EvaluateGap(object, tenant.Scope{UserID: "u1"}, []string{"Hindi", "French"})

	assert.Equal(t, []string{"English", "Hindi"}, gap.Translated)
	assert.Equal(t, []string{"French"}, gap.Untranslated)
	assert.False(t, gap.FullyServiced())

	// A user whose allowed set is already covered has nothing to do here.
	covered := discovery.EvaluateGap(object, tenant.Scope{UserID: "u2"}, []string{"English", "Hindi"})
	assert.Empty(t, covered.Untranslated)
	assert.True(t, covered.FullyServiced())
}

/*
TestEvaluateGap_OrgBranch verifies that an org scope is evaluated against
its own summary branch only — global translations do not count for it.
*/
func TestEvaluateGap_OrgBranch(t *testing.T) {
	object := summarizedObject(
		[]string{"English", "Hindi"},
		map[string][]string{"acme": {"French"}},
	)
	scope := tenant.Scope{UserID: "u1", OrgID: "acme"}

	gap := discovery.EvaluateGap(object, scope, []string{"Hindi", "French"})

	assert.Equal(t, []string{"French"}, gap.Translated)
	assert.Equal(t, []string{"Hindi"}, gap.Untranslated)

	// An org with no branch at all has every allowed language open.
	other := discovery.EvaluateGap(object, tenant.Scope{OrgID: "globex"}, []string{"Hindi", "French"})
	assert.Empty(t, other.Translated)
	assert.Equal(t, []string{"Hindi", "French"}, other.Untranslated)
}

/*
TestEvaluateGap_Monotonic verifies that growing the translated set can
only shrink the untranslated set, never grow it.
*/
func TestEvaluateGap_Monotonic(t *testing.T) {
	allowed := []string{"Hindi", "French", "Tamil"}
	scope := tenant.Scope{UserID: "u1"}

	translated := []string{}
	previous := len(allowed) + 1

	for _, added := range []string{"Hindi", "French", "Tamil"} {
		translated = append(translated, added)
		gap := discovery.EvaluateGap(summarizedObject(translated, nil), scope, allowed)

		assert.Less(t, len(gap.Untranslated), previous)
		previous = len(gap.Untranslated)
	}

	assert.Zero(t, previous)
}

/*
TestEvaluateGap_PreservesUserOrder verifies that untranslated languages
come back in the user's preference order.
*/
func TestEvaluateGap_PreservesUserOrder(t *testing.T) {
	object := summarizedObject([]string{"Tamil"}, nil)

	gap := discovery.EvaluateGap(object, tenant.Scope{}, []string{"French", "Hindi", "Tamil", "Bengali"})

	assert.Equal(t, []string{"French", "Hindi", "Bengali"}, gap.Untranslated)
}
