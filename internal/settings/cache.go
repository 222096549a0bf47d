package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/psipro/platform/pkg/logging"
)

// CachedStore is a read-through Redis cache in front of another Store.
// Documents and reminders read the profile on every generation, so the row is
// cached; saves write through and refresh the cached entry.
type CachedStore struct {
	inner  Store
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStore wraps inner with a Redis cache. A zero ttl means entries do
// not expire until the next save.
func NewCachedStore(inner Store, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedStore{inner: inner, redis: redisClient, ttl: ttl, logger: logger}
}

func (c *CachedStore) key(ownerID string) string {
	return fmt.Sprintf("psipro:settings:%s", ownerID)
}

// Get returns cached settings when present, falling back to the inner store.
// Cache failures degrade to the inner store rather than failing the request.
func (c *CachedStore) Get(ctx context.Context, ownerID string) (Settings, error) {
	data, err := c.redis.Get(ctx, c.key(ownerID)).Bytes()
	if err == nil {
		var out Settings
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		c.logger.Warn("discarding corrupt settings cache entry", "owner_id", ownerID)
	} else if err != redis.Nil {
		c.logger.Warn("settings cache read failed", "error", err)
	}

	out, err := c.inner.Get(ctx, ownerID)
	if err != nil {
		return Settings{}, err
	}
	c.fill(ctx, ownerID, out)
	return out, nil
}

// Save writes through to the inner store and refreshes the cache entry.
func (c *CachedStore) Save(ctx context.Context, ownerID string, s Settings) error {
	if err := c.inner.Save(ctx, ownerID, s); err != nil {
		return err
	}
	c.fill(ctx, ownerID, s)
	return nil
}

func (c *CachedStore) fill(ctx context.Context, ownerID string, s Settings) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(ownerID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("settings cache write failed", "error", err)
	}
}
