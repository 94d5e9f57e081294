// Package cache implements C3: a TTL-based manifest cache over the
// teacher's exact Redis client (go-redis/v8).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/pkg/apperr"
)

// DefaultTTL is the manifest cache lifetime (§4.3).
const DefaultTTL = 8 * time.Hour

// RedisCache is the ManifestCache implementation. A miss is silent; a
// write always succeeds regardless of concurrent writers computing the
// same value (last-write-wins is safe per §4.3).
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) (dto.Manifest, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return dto.Manifest{}, false, nil
	}
	if err != nil {
		return dto.Manifest{}, false, apperr.Unavailable(fmt.Errorf("cache: get %s: %w", key, err))
	}

	var m dto.Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return dto.Manifest{}, false, apperr.Internal(fmt.Errorf("cache: unmarshal %s: %w", key, err))
	}
	return m, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, m dto.Manifest, ttl time.Duration) error {
	data, err := json.Marshal(m)
	if err != nil {
		return apperr.Internal(fmt.Errorf("cache: marshal %s: %w", key, err))
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return apperr.Unavailable(fmt.Errorf("cache: set %s: %w", key, err))
	}
	return nil
}

// Key builds the `update-{from}-{to}-{os}-{texture}` cache key shape
// (§4.3).
func Key(from, to string, os, texture int) string {
	return fmt.Sprintf("update-%s-%s-%d-%d", from, to, os, texture)
}
