package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const shareTTL = 24 * time.Hour

// ShareCache caches shared-report access-code lookups.
// Key format: share:<access_code> -> report id
type ShareCache struct {
	client *redis.Client
}

// NewShareCache creates a ShareCache wrapping the given Redis client.
func NewShareCache(client *redis.Client) *ShareCache {
	return &ShareCache{client: client}
}

// Get returns the cached report id for an access code, or "" on a miss.
func (c *ShareCache) Get(ctx context.Context, accessCode string) (string, error) {
	id, err := c.client.Get(ctx, c.key(accessCode)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("share cache get: %w", err)
	}
	return id, nil
}

// Set records an access-code mapping (expires after shareTTL).
func (c *ShareCache) Set(ctx context.Context, accessCode, reportID string) error {
	return c.client.Set(ctx, c.key(accessCode), reportID, shareTTL).Err()
}

// Invalidate drops a mapping, called on unshare and on stale hits.
func (c *ShareCache) Invalidate(ctx context.Context, accessCode string) error {
	return c.client.Del(ctx, c.key(accessCode)).Err()
}

func (c *ShareCache) key(accessCode string) string {
	return "share:" + accessCode
}
