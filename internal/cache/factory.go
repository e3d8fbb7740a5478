package cache

import (
	"fmt"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// Type is the backend type: "memory" or "redis".
	Type string

	// RedisURL is the Redis connection URL (redis type only).
	RedisURL string

	// Prefix is the key prefix for Redis (redis type only).
	Prefix string

	DefaultTTL      time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// DefaultConfig returns the default memory-backend configuration.
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour,
		MaxEntries:      10000,
		CleanupInterval: time.Minute,
	}
}

// NewCache creates a cache backend from the configuration.
func NewCache(cfg Config) (Cacher, error) {
	switch cfg.Type {
	case "redis":
		opts := DefaultRedisOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}
		return NewRedisCache(opts)
	case "", "memory":
		return NewMemoryCache(MemoryOptions{
			DefaultTTL:      cfg.DefaultTTL,
			MaxEntries:      cfg.MaxEntries,
			CleanupInterval: cfg.CleanupInterval,
		}), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
