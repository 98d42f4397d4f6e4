// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package imagestore

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// imageCacheTTL bounds how long resolved bytes stay hot. Canonical images
// are immutable once approved, so staleness is not a correctness concern.
const imageCacheTTL = 6 * time.Hour

// CachedStore is a Redis read-through decorator over a [Store]. Cache
// failures fall through to the inner store and are only logged.
type CachedStore struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore wraps the inner store with a Redis cache.
func NewCachedStore(inner Store, client *redis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, logger: logger}
}

func (s *CachedStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	cacheKey := "img:" + key

	if data, err := s.client.Get(ctx, cacheKey).Bytes(); err == nil && len(data) > 0 {
		return data, nil
	}

	data, err := s.inner.Retrieve(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, cacheKey, data, imageCacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "image_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	return data, nil
}
