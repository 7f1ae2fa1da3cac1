// Package cache provides a short-TTL Redis cache for assembled dashboard
// payloads. It is strictly best-effort: the dashboard is always recomputable,
// so a cache failure is a log line, never an error surfaced to the caller.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/agentops-portal/internal/dashboard"
)

// DefaultTTL bounds how stale a served dashboard can be.
const DefaultTTL = 60 * time.Second

// PayloadCache stores assembled payloads as JSON values in Redis.
type PayloadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPayloadCache creates a payload cache. A zero ttl falls back to
// DefaultTTL.
func NewPayloadCache(client *redis.Client, ttl time.Duration) *PayloadCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PayloadCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key, or (nil, nil) on a miss.
func (c *PayloadCache) Get(ctx context.Context, key string) (*dashboard.Payload, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var p dashboard.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, nil
	}
	return &p, nil
}

// Set stores the payload under key with the configured TTL.
func (c *PayloadCache) Set(ctx context.Context, key string, p *dashboard.Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
