// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"net/url"
	"time"
)

const (
	// DefaultTTL applies when no TTL is configured.
	DefaultTTL = 5 * time.Minute

	// DefaultPrefix is the Redis key prefix used when none is configured.
	DefaultPrefix = "arb:"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL        string
	Prefix          string
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

// New returns a Redis cache when RedisURL is set and a memory cache otherwise.
func New(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.RedisURL == "" {
		cleanup := cfg.CleanupInterval
		if cleanup <= 0 {
			cleanup = time.Minute
		}
		return NewMemoryCache(MemoryCacheOptions{
			DefaultTTL:      cfg.DefaultTTL,
			CleanupInterval: cleanup,
		}), nil
	}

	opts := DefaultRedisCacheOptions()
	opts.URL = cfg.RedisURL
	if cfg.Prefix != "" {
		opts.Prefix = cfg.Prefix
	}
	if cfg.DefaultTTL > 0 {
		opts.DefaultTTL = cfg.DefaultTTL
	}
	return NewRedisCache(ctx, opts)
}

// Backend names the implementation behind c for logging.
func Backend(c Cache) string {
	switch c.(type) {
	case *RedisCache:
		return "redis"
	case *MemoryCache:
		return "memory"
	default:
		return "unknown"
	}
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
