package campaigns

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// OverviewSource is the read path the cache sits in front of.
type OverviewSource interface {
	Overview(ctx context.Context, orgID string) (*Overview, error)
}

// CachedOverview serves the dashboard rollup from Redis with a short
// TTL. Cache failures fall through to the source; a nil client
// disables caching entirely.
type CachedOverview struct {
	source OverviewSource
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedOverview wraps the source with a Redis cache.
func NewCachedOverview(source OverviewSource, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedOverview {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedOverview{source: source, client: client, ttl: ttl, logger: logger}
}

// Overview returns the cached rollup when fresh, refreshing on miss.
func (c *CachedOverview) Overview(ctx context.Context, orgID string) (*Overview, error) {
	if c.client == nil {
		return c.source.Overview(ctx, orgID)
	}

	key := overviewKey(orgID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var ov Overview
		if err := json.Unmarshal(raw, &ov); err == nil {
			return &ov, nil
		}
		c.logger.Warn("campaigns: dropping undecodable overview cache entry", "key", key)
	} else if err != redis.Nil {
		c.logger.Warn("campaigns: overview cache read failed", "error", err)
	}

	ov, err := c.source.Overview(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(ov); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("campaigns: overview cache write failed", "error", err)
		}
	}
	return ov, nil
}

// Invalidate drops the cached rollup for an org. Called after
// ingestion so the dashboard does not lag a full TTL behind.
func (c *CachedOverview) Invalidate(ctx context.Context, orgID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, overviewKey(orgID)).Err(); err != nil {
		c.logger.Warn("campaigns: overview cache invalidate failed", "error", err)
	}
}

func overviewKey(orgID string) string {
	return "campaigns:overview:" + orgID
}
