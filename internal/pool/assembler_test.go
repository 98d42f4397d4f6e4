// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package pool_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/discovery"
	"github.com/vishalsx/identify-objects/internal/pool"
	"github.com/vishalsx/identify-objects/internal/tenant"
)

// pngBytes renders a small valid PNG for thumbnail tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func candidateFor(object catalog.Object, scope tenant.Scope, languages []string) pool.Candidate {
	return pool.Candidate{
		Object: object,
		Gap:    discovery.EvaluateGap(object, scope, languages),
	}
}

/*
TestAssembler_EnrichesCandidate verifies the full enrichment of one
candidate: image bytes, derived thumbnail, humanized votes, and the
language lists from the gap evaluation.
*/
func TestAssembler_EnrichesCandidate(t *testing.T) {
	object := approvedObject("apple", 4.5, 1500, []string{"English"})
	raw := pngBytes(t)

	assembler := pool.NewAssembler(&stubImages{data: raw}, &poolStore{}, 4, quietLogger())
	scope := tenant.Scope{UserID: "u1"}

	items := assembler.Assemble(context.Background(), scope,
		[]pool.Candidate{candidateFor(object, scope, []string{"Hindi"})}, "")

	require.Len(t, items, 1)
	item := items[0]

	assert.Equal(t, object.ID.Hex(), item.ObjectID)
	assert.Equal(t, object.ImageHash, item.ImageHash)
	assert.Equal(t, "apple", item.ObjectName)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), item.ImageBase64)
	assert.NotEmpty(t, item.ThumbnailBase64)
	assert.Equal(t, 4.5, item.PopularityStars)
	assert.Equal(t, int64(1500), item.TotalNetVotes)
	assert.Equal(t, "1.5K", item.TotalVoteCountHuman)
	assert.Equal(t, []string{"English"}, item.LanguagesTranslated)
	assert.Equal(t, []string{"Hindi"}, item.UntranslatedLanguages)
}

/*
TestAssembler_SkipsUnresolvableImage verifies that one broken image
descriptor drops only its own candidate, preserving order for the rest.
*/
func TestAssembler_SkipsUnresolvableImage(t *testing.T) {
	first := approvedObject("apple", 5, 10, nil)
	broken := approvedObject("mango", 4, 20, nil)
	third := approvedObject("guava", 3, 30, nil)

	images := &stubImages{
		data:    []byte("raw"),
		failing: map[string]bool{broken.ImageKey: true},
	}
	assembler := pool.NewAssembler(images, &poolStore{}, 2, quietLogger())
	scope := tenant.Scope{}

	items := assembler.Assemble(context.Background(), scope, []pool.Candidate{
		candidateFor(first, scope, []string{"Hindi"}),
		candidateFor(broken, scope, []string{"Hindi"}),
		candidateFor(third, scope, []string{"Hindi"}),
	}, "")

	require.Len(t, items, 2)
	assert.Equal(t, "apple", items[0].ObjectName)
	assert.Equal(t, "guava", items[1].ObjectName)
}

/*
TestAssembler_TargetLanguageName verifies name substitution: the approved
translated name replaces the English default only when the target language
is already translated in scope.
*/
func TestAssembler_TargetLanguageName(t *testing.T) {
	translated := approvedObject("apple", 4, 10, []string{"English", "Hindi"})
	untranslated := approvedObject("mango", 4, 10, []string{"English"})

	store := &poolStore{
		names: map[string]string{
			translated.ID.Hex() + "/Hindi": "सेब",
		},
	}
	assembler := pool.NewAssembler(&stubImages{data: []byte("raw")}, store, 4, quietLogger())
	scope := tenant.Scope{UserID: "u1"}
	languages := []string{"Hindi", "French"}

	items := assembler.Assemble(context.Background(), scope, []pool.Candidate{
		candidateFor(translated, scope, languages),
		candidateFor(untranslated, scope, languages),
	}, "Hindi")

	require.Len(t, items, 2)
	assert.Equal(t, "सेब", items[0].ObjectName)

	// Hindi is not in mango's translated set: no lookup, English name.
	assert.Equal(t, "mango", items[1].ObjectName)
}

/*
TestAssembler_NameLookupMissFallsBack verifies the stale-summary case: the
summary says translated but the translation row is gone, so the English
name is used and the candidate survives.
*/
func TestAssembler_NameLookupMissFallsBack(t *testing.T) {
	object := approvedObject("apple", 4, 10, []string{"English", "Hindi"})

	// No names registered: every lookup returns not-found.
	assembler := pool.NewAssembler(&stubImages{data: []byte("raw")}, &poolStore{}, 4, quietLogger())
	scope := tenant.Scope{}

	items := assembler.Assemble(context.Background(), scope,
		[]pool.Candidate{candidateFor(object, scope, []string{"Hindi"})}, "Hindi")

	require.Len(t, items, 1)
	assert.Equal(t, "apple", items[0].ObjectName)
}
