package earnings

import (
	"context"
	"encoding/json"
	"time"

	"adwuma/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const snapshotKeyPrefix = "earnings:snapshot:"

// SnapshotCache is a short-lived Redis cache in front of the aggregator.
// It is purely advisory: every booking mutation for a provider invalidates
// the provider's entry, and a cache failure falls through to a fresh scan.
type SnapshotCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{Client: client, TTL: ttl, Logger: logger}
}

func (c *SnapshotCache) Get(ctx context.Context, providerID string) (*models.ProviderEarningsSnapshot, bool) {
	raw, err := c.Client.Get(ctx, snapshotKeyPrefix+providerID).Result()
	if err != nil {
		if err != redis.Nil {
			c.Logger.Warn("earnings cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var snap models.ProviderEarningsSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		c.Logger.Warn("earnings cache entry corrupt, dropping", zap.Error(err))
		c.Client.Del(ctx, snapshotKeyPrefix+providerID)
		return nil, false
	}
	return &snap, true
}

func (c *SnapshotCache) Set(ctx context.Context, providerID string, snap *models.ProviderEarningsSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		c.Logger.Warn("earnings cache marshal failed", zap.Error(err))
		return
	}
	if err := c.Client.Set(ctx, snapshotKeyPrefix+providerID, raw, c.TTL).Err(); err != nil {
		c.Logger.Warn("earnings cache write failed", zap.Error(err))
	}
}

// InvalidateProvider satisfies the booking service's SnapshotInvalidator.
func (c *SnapshotCache) InvalidateProvider(ctx context.Context, providerID string) {
	if err := c.Client.Del(ctx, snapshotKeyPrefix+providerID).Err(); err != nil {
		c.Logger.Warn("earnings cache invalidation failed",
			zap.String("providerId", providerID), zap.Error(err))
	}
}
