package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client with connection lifecycle management.
type Client struct {
	client *redis.Client
	log    *logger.Logger
}

// NewClient creates a Redis client from configuration and verifies the
// connection with a ping.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to Redis").
			Mark(ierr.ErrSystem)
	}

	log.Infow("connected to redis", "host", cfg.Cache.Redis.Host, "port", cfg.Cache.Redis.Port)

	return &Client{client: rdb, log: log}, nil
}

// GetClient returns the underlying go-redis client.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
