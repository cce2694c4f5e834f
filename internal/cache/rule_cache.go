// internal/cache/rule_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"offers-service/internal/domain/rule"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ActiveRuleCache keeps the active rule set per business in Redis with a
// short TTL. Checkout traffic is read-heavy against a list that only moves
// on owner edits or sweeper ticks, so a stale window of one TTL is fine.
type ActiveRuleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewActiveRuleCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ActiveRuleCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ActiveRuleCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(businessID int64) string {
	return fmt.Sprintf("offers:active:%d", businessID)
}

// Get returns the cached rule set, or (nil, false) on a miss. Cache errors
// degrade to a miss; the caller falls through to the store.
func (c *ActiveRuleCache) Get(ctx context.Context, businessID int64) ([]rule.Rule, bool) {
	raw, err := c.client.Get(ctx, cacheKey(businessID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("rule cache read failed", zap.Error(err))
		return nil, false
	}

	var rules []rule.Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		c.logger.Warn("rule cache entry corrupt, dropping", zap.Error(err))
		_ = c.client.Del(ctx, cacheKey(businessID)).Err()
		return nil, false
	}
	return rules, true
}

// Set stores the active rule set for a business.
func (c *ActiveRuleCache) Set(ctx context.Context, businessID int64, rules []rule.Rule) {
	raw, err := json.Marshal(rules)
	if err != nil {
		c.logger.Warn("rule cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKey(businessID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("rule cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached set after any rule write for the business.
func (c *ActiveRuleCache) Invalidate(ctx context.Context, businessID int64) {
	if err := c.client.Del(ctx, cacheKey(businessID)).Err(); err != nil {
		c.logger.Warn("rule cache invalidation failed", zap.Error(err))
	}
}
