package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the options of the in-process sturdyc backend.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	NumShards int

	// TTL is the time-to-live for cached entries. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int
}

// DefaultConfig returns a Config with sensible defaults for a single node.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}

// sturdycCache keeps entries in process memory. It is only coherent when a
// single instance serves all writes, so it fits development and tests.
type sturdycCache struct {
	client *sturdyc.Client[[]byte]
}

// NewSturdycCache creates an in-process ReactionCache.
func NewSturdycCache(cfg Config) (ReactionCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
	)
	return &sturdycCache{client: client}, nil
}

func (c *sturdycCache) Get(_ context.Context, postID uint) ([]byte, bool, error) {
	data, ok := c.client.Get(Key(postID))
	return data, ok, nil
}

func (c *sturdycCache) Set(_ context.Context, postID uint, data []byte) error {
	c.client.Set(Key(postID), data)
	return nil
}

func (c *sturdycCache) Invalidate(_ context.Context, postID uint) error {
	c.client.Delete(Key(postID))
	return nil
}
