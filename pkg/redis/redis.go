package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"workly/backend/config"
)

// Client wraps the Redis connection. It serves the platform token
// blacklist and the read-side query cache of the coverage engine.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it once.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token blacklist ──

const blacklistPrefix = "token:blacklist:"

// IsBlacklisted reports whether the JWT ID was revoked by the platform.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── Query cache ──
//
// Cached values embed a generation counter in their key; any write to
// templates or coverages bumps the counter, so stale entries are never
// served and expire on their own TTL.

const cacheGenerationKey = "presidio:cache:generation"

// CacheGeneration returns the current cache generation counter.
func (c *Client) CacheGeneration(ctx context.Context) (int64, error) {
	n, err := c.rdb.Get(ctx, cacheGenerationKey).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	return n, err
}

// BumpCacheGeneration invalidates all cached query results.
func (c *Client) BumpCacheGeneration(ctx context.Context) error {
	return c.rdb.Incr(ctx, cacheGenerationKey).Err()
}

// GetCached returns the cached payload for key, if present.
func (c *Client) GetCached(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

// SetCached stores a payload under key with the given TTL.
func (c *Client) SetCached(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
