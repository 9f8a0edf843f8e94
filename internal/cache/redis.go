package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache stores entries in a shared Redis instance.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a ReactionCache backed by Redis.
// A zero ttl keeps entries until they are invalidated.
func NewRedisCache(client *redis.Client, ttl time.Duration) ReactionCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, postID uint) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, Key(postID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *redisCache) Set(ctx context.Context, postID uint, data []byte) error {
	return c.client.Set(ctx, Key(postID), data, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, postID uint) error {
	return c.client.Del(ctx, Key(postID)).Err()
}
