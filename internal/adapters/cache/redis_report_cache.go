package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis-backed implementation of the ReportCache port.
type RedisReportCache struct{ Client *redis.Client }

func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{Client: client}
}

func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.Client == nil {
		return nil, false, errors.New("report cache: client is nil")
	}

	val, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("report cache: get %q: %w", key, err)
	}
	return val, true, nil
}

func (c *RedisReportCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.Client == nil {
		return errors.New("report cache: client is nil")
	}

	if err := c.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("report cache: put %q: %w", key, err)
	}
	return nil
}
