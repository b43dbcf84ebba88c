package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statsVersionKey = "caddie:reporting:stats:version"
	statsKeyFormat  = "caddie:reporting:stats:v%d"
)

// Cache stores the computed dashboard in redis. Invalidation is done
// by bumping a version counter instead of deleting keys, so a slow
// writer can never resurrect a stale dashboard.
type Cache struct {
	logger *slog.Logger
	client *redis.Client
	ttl    time.Duration
}

func NewCache(logger *slog.Logger, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{logger: logger, client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, statsVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get returns the cached dashboard for the current version, if any.
func (c *Cache) Get(ctx context.Context) (Stats, bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return Stats{}, false, fmt.Errorf("stats version: %w", err)
	}
	raw, err := c.client.Get(ctx, fmt.Sprintf(statsKeyFormat, v)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Stats{}, false, nil
	}
	if err != nil {
		return Stats{}, false, fmt.Errorf("stats get: %w", err)
	}
	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return Stats{}, false, fmt.Errorf("stats decode: %w", err)
	}
	return stats, true, nil
}

// Set stores the dashboard under the current version.
func (c *Cache) Set(ctx context.Context, stats Stats) error {
	v, err := c.version(ctx)
	if err != nil {
		return fmt.Errorf("stats version: %w", err)
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats encode: %w", err)
	}
	if err := c.client.Set(ctx, fmt.Sprintf(statsKeyFormat, v), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats set: %w", err)
	}
	return nil
}

// Bump invalidates all cached dashboards. Called after every completed
// sale; failures only delay freshness until the TTL runs out.
func (c *Cache) Bump(ctx context.Context) {
	if err := c.client.Incr(ctx, statsVersionKey).Err(); err != nil {
		c.logger.Warn("stats cache bump failed", slog.Any("error", err))
	}
}
