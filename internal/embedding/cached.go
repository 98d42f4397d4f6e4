// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// embedCacheTTL keeps repeated searches for the same query from re-hitting
// the provider. Embeddings are deterministic per model, so a long TTL is safe.
const embedCacheTTL = 24 * time.Hour

// CachedProvider is a Redis read-through decorator over a [Provider].
// Cache failures are invisible to callers: they fall through to the inner
// provider and are only logged.
type CachedProvider struct {
	inner  Provider
	client *redis.Client
	logger *slog.Logger
}

var _ Provider = (*CachedProvider)(nil)

// NewCachedProvider wraps the inner provider with a Redis cache.
func NewCachedProvider(inner Provider, client *redis.Client, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, client: client, logger: logger}
}

func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)

	if raw, err := p.client.Get(ctx, key).Bytes(); err == nil {
		var vector []float32
		if err := json.Unmarshal(raw, &vector); err == nil && len(vector) > 0 {
			return vector, nil
		}
	}

	vector, err := p.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(vector); err == nil {
		if err := p.client.Set(ctx, key, raw, embedCacheTTL).Err(); err != nil {
			p.logger.WarnContext(ctx, "embedding_cache_write_failed", slog.Any("error", err))
		}
	}

	return vector, nil
}

// cacheKey hashes the text so arbitrary queries produce bounded key sizes.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + hex.EncodeToString(sum[:])
}
