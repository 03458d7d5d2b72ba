package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/courseforge/courseforge/internal/logger"
	redisclient "github.com/courseforge/courseforge/internal/redis"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements the Cache interface using Redis. Values are stored as
// JSON strings; callers unmarshal with UnmarshalCacheValue.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCache creates a new Redis-backed cache
func NewRedisCache(client *redisclient.Client, log *logger.Logger) *RedisCache {
	return &RedisCache{
		client: client.GetClient(),
		log:    log,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (interface{}, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnw("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ExpiryDefaultRedis
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warnw("redis cache marshal failed", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, string(data), ttl).Err(); err != nil {
		c.log.Warnw("redis cache set failed", "key", key, "error", err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warnw("redis cache delete failed", "key", key, "error", err)
	}
}

// UnmarshalCacheValue attempts to convert a cache value to the specified type.
// It handles both the in-memory cache (which stores actual objects) and the
// Redis cache (which stores JSON strings).
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}

	if typed, ok := value.(*T); ok {
		return typed, true
	}

	if str, ok := value.(string); ok {
		var result T
		if err := json.Unmarshal([]byte(str), &result); err == nil {
			return &result, true
		}
	}

	return nil, false
}
