// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package pool

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/disintegration/gift"
	"golang.org/x/sync/errgroup"

	"github.com/vishalsx/identify-objects/internal/catalog"
	"github.com/vishalsx/identify-objects/internal/imagestore"
	"github.com/vishalsx/identify-objects/internal/platform/constants"
	"github.com/vishalsx/identify-objects/internal/tenant"
	"github.com/vishalsx/identify-objects/pkg/humanize"
)

const (
	thumbnailWidth   = 128
	thumbnailQuality = 80
)

// Assembler enriches raw candidates into response items: image bytes from
// the image store, a Lanczos thumbnail, humanized vote counts, and the
// target-language object name when one is approved in scope.
type Assembler struct {
	images      imagestore.Store
	store       catalog.Store
	concurrency int
	logger      *slog.Logger
}

// NewAssembler constructs a new [Assembler]. Concurrency bounds how many
// candidates are enriched in parallel so a large page cannot overwhelm the
// image store.
func NewAssembler(images imagestore.Store, store catalog.Store, concurrency int, logger *slog.Logger) *Assembler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Assembler{
		images:      images,
		store:       store,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Assemble enriches every candidate concurrently and returns the survivors
// in their original ranked order. A candidate whose image cannot be
// resolved is skipped, never failing the page.
func (assembler *Assembler) Assemble(ctx context.Context, scope tenant.Scope, candidates []Candidate, targetLanguage string) []Item {
	assembled := make([]*Item, len(candidates))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(assembler.concurrency)

	for i, candidate := range candidates {
		group.Go(func() error {
			item, err := assembler.assembleOne(groupCtx, scope, candidate, targetLanguage)
			if err != nil {
				assembler.logger.Warn("assembler: skipping candidate",
					slog.String("object_id", candidate.Object.ID.Hex()),
					slog.String("error", err.Error()))
				return nil
			}
			assembled[i] = item
			return nil
		})
	}
	_ = group.Wait()

	items := make([]Item, 0, len(candidates))
	for _, item := range assembled {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items
}

func (assembler *Assembler) assembleOne(ctx context.Context, scope tenant.Scope, candidate Candidate, targetLanguage string) (*Item, error) {
	object := candidate.Object

	retrieveCtx, cancel := context.WithTimeout(ctx, constants.ImageRetrieveTimeout)
	defer cancel()

	imageBytes, err := assembler.images.Retrieve(retrieveCtx, object.ImageKey)
	if err != nil {
		return nil, err
	}

	item := &Item{
		ObjectID:              object.ID.Hex(),
		ImageHash:             object.ImageHash,
		ObjectName:            assembler.resolveName(ctx, scope, candidate, targetLanguage),
		ImageBase64:           base64.StdEncoding.EncodeToString(imageBytes),
		Metadata:              object.Metadata,
		PopularityStars:       object.VotesSummary.FairStarRating,
		TotalNetVotes:         object.VotesSummary.TotalNetVotes,
		TotalVoteCountHuman:   humanize.Count(object.VotesSummary.TotalNetVotes),
		LanguagesTranslated:   candidate.Gap.Translated,
		UntranslatedLanguages: candidate.Gap.Untranslated,
		OrgID:                 object.OrgID,
	}

	// A broken thumbnail is cosmetic; the full image already made it.
	thumbnail, err := renderThumbnail(imageBytes)
	if err != nil {
		assembler.logger.Debug("assembler: thumbnail failed",
			slog.String("object_id", object.ID.Hex()),
			slog.String("error", err.Error()))
	} else {
		item.ThumbnailBase64 = base64.StdEncoding.EncodeToString(thumbnail)
	}

	return item, nil
}

// resolveName returns the approved object name in the target language when
// that language is already translated in scope, else the English default.
func (assembler *Assembler) resolveName(ctx context.Context, scope tenant.Scope, candidate Candidate, targetLanguage string) string {
	if targetLanguage == "" || !containsLanguage(candidate.Gap.Translated, targetLanguage) {
		return candidate.Object.ObjectNameEN
	}

	name, err := assembler.store.ApprovedTranslationName(ctx, scope, candidate.Object.ID, targetLanguage)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			assembler.logger.Warn("assembler: name lookup failed",
				slog.String("object_id", candidate.Object.ID.Hex()),
				slog.String("language", targetLanguage),
				slog.String("error", err.Error()))
		}
		return candidate.Object.ObjectNameEN
	}
	return name
}

// renderThumbnail downscales the image to the thumbnail width, preserving
// aspect ratio, and re-encodes it as JPEG.
func renderThumbnail(imageBytes []byte) ([]byte, error) {
	source, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, err
	}

	filter := gift.New(gift.Resize(thumbnailWidth, 0, gift.LanczosResampling))
	scaled := image.NewRGBA(filter.Bounds(source.Bounds()))
	filter.Draw(scaled, source)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, scaled, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func containsLanguage(languages []string, language string) bool {
	for _, candidate := range languages {
		if candidate == language {
			return true
		}
	}
	return false
}
