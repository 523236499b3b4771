package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flexoffice/booking-service/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// RedisImageCache stores rendered credential images in Redis.
type RedisImageCache struct {
	redis *Redis
}

// NewRedisImageCache wraps r as an image cache.
func NewRedisImageCache(r *Redis) *RedisImageCache {
	return &RedisImageCache{redis: r}
}

// Get returns the cached bytes, or nil on a miss.
func (c *RedisImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.redis == nil || c.redis.Client == nil {
		return nil, nil
	}
	data, err := c.redis.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set caches data under key for ttl.
func (c *RedisImageCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.redis == nil || c.redis.Client == nil {
		return nil
	}
	return c.redis.Client.Set(ctx, key, data, ttl).Err()
}
