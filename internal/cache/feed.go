// Copyright (c) 2026 Gidheav <contact@gidheav.org>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed cache for the public read surface:
// published post feeds and series listings. Responses are stored as
// rendered JSON so cache hits skip the database entirely. Every publish,
// unpublish, trash, or series change invalidates the whole surface.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix namespaces feed keys in Valkey.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a cached feed lives without invalidation.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache manages cached JSON payloads for the public surface.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns false on miss or error, so a
// broken cache degrades to database reads, never to request failures.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a payload under the key with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, payload []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached feed by scanning for the prefix.
// Called after any mutation that can change what the public sees.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache delete error", "error", err)
				return
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("feed cache invalidated", "keys", deleted)
}
