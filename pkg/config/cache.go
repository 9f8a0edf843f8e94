package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anonto42/nano-posts/backend/internal/cache"
	"github.com/redis/go-redis/v9"
)

// Cache is the reaction cache selected by CACHE_BACKEND. Close releases
// the Redis connection pool and is a no-op for the memory backend.
type Cache struct {
	Reactions cache.ReactionCache
	redis     *redis.Client
}

// InitCache builds the configured reaction cache backend.
func InitCache(cfg *Config) (*Cache, error) {
	switch cfg.CacheBackend {
	case CacheBackendMemory:
		sturdyCfg := cache.DefaultConfig()
		if cfg.CacheTTL > 0 {
			sturdyCfg.TTL = cfg.CacheTTL
		}
		reactions, err := cache.NewSturdycCache(sturdyCfg)
		if err != nil {
			return nil, err
		}
		log.Println("Using in-process reaction cache.")
		return &Cache{Reactions: reactions}, nil

	case CacheBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		log.Println("Successfully connected to Redis!")
		return &Cache{Reactions: cache.NewRedisCache(client, cfg.CacheTTL), redis: client}, nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

func (c *Cache) Close() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v\n", err)
	} else {
		log.Println("Redis connection closed.")
	}
}
