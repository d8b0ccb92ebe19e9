// Package cache memoizes discovery results in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/internal/discovery"
	"github.com/pageza/recipeverse/backend/internal/metrics"
)

const (
	versionKey = "recipes:catalog:version"
	keyPrefix  = "recipes:discover"
)

// DiscoveryCache stores filter results keyed by the catalog version and the
// filter state. Writes to the catalog bump the version, so stale entries are
// never read again and simply expire. A nil cache or client disables caching.
type DiscoveryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewDiscoveryCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *DiscoveryCache {
	return &DiscoveryCache{client: client, ttl: ttl, log: log}
}

func (c *DiscoveryCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns cached results for state. The returned key pins the catalog
// version seen here; results computed after a miss must be stored with Set
// under that key, so a write landing in between leaves them unreachable. The
// key is empty when caching is disabled.
func (c *DiscoveryCache) Get(ctx context.Context, state discovery.FilterState) ([]discovery.RankedRecipe, string, bool) {
	if !c.enabled() {
		return nil, "", false
	}

	key, err := c.key(ctx, state)
	if err != nil {
		c.log.Warn("discovery cache key failed", zap.Error(err))
		return nil, "", false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("discovery cache read failed", zap.Error(err))
		}
		metrics.DiscoveryCache.WithLabelValues("miss").Inc()
		return nil, key, false
	}

	var results []discovery.RankedRecipe
	if err := json.Unmarshal(data, &results); err != nil {
		c.log.Warn("discovery cache entry corrupt", zap.String("key", key), zap.Error(err))
		metrics.DiscoveryCache.WithLabelValues("miss").Inc()
		return nil, key, false
	}

	metrics.DiscoveryCache.WithLabelValues("hit").Inc()
	return results, key, true
}

// Set stores results under a key returned by Get. An empty key is ignored.
func (c *DiscoveryCache) Set(ctx context.Context, key string, results []discovery.RankedRecipe) {
	if !c.enabled() || key == "" {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		c.log.Warn("discovery cache encode failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("discovery cache write failed", zap.Error(err))
	}
}

// Invalidate bumps the catalog version after any recipe write.
func (c *DiscoveryCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.log.Warn("discovery cache invalidation failed", zap.Error(err))
	}
}

func (c *DiscoveryCache) key(ctx context.Context, state discovery.FilterState) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", keyPrefix, version, StateHash(state)), nil
}

// StateHash is a stable digest of a filter state.
func StateHash(state discovery.FilterState) string {
	// FilterState only holds strings and string slices, so Marshal cannot fail.
	data, _ := json.Marshal(state)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
