// Package cache holds the redis-backed read caches. Polling clients hit
// the availability summary every few seconds, so it is served from redis
// with a short TTL instead of recounting spaces on every request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"parqueo-service/internal/domain/lot"
)

type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func availabilityKey(lotID string) string {
	return fmt.Sprintf("availability:%s", lotID)
}

// Get returns the cached summary, or nil on a miss.
func (c *AvailabilityCache) Get(ctx context.Context, lotID string) (*lot.AvailabilitySummary, error) {
	data, err := c.client.Get(ctx, availabilityKey(lotID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read availability cache: %w", err)
	}
	var s lot.AvailabilitySummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached availability: %w", err)
	}
	return &s, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, s *lot.AvailabilitySummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}
	if err := c.client.Set(ctx, availabilityKey(s.LotID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary after a state change.
func (c *AvailabilityCache) Invalidate(ctx context.Context, lotID string) error {
	return c.client.Del(ctx, availabilityKey(lotID)).Err()
}
