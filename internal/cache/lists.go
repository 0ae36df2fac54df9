// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Keys of the cached public list responses.
const (
	KeyEvents      = "list:events"
	KeyNews        = "list:news"
	KeyGallery     = "list:gallery"
	KeyAttractions = "list:attractions"
)

// Lists caches encoded public list responses. Backend failures are logged
// and treated as misses so a cache outage never fails a request.
// A nil *Lists is valid and caches nothing.
//
// Each key carries a generation that Invalidate bumps. Load only stores a
// body if the generation it started with is still current, so a body read
// before a mutation is never cached after that mutation's invalidation.
// Generations are per process.
type Lists struct {
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger

	mu   sync.Mutex
	gens map[string]uint64
}

// NewLists wraps c. A zero ttl uses the backend default.
func NewLists(c Cache, ttl time.Duration, logger *slog.Logger) *Lists {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lists{cache: c, ttl: ttl, logger: logger, gens: make(map[string]uint64)}
}

// Get returns the cached body for key.
func (l *Lists) Get(ctx context.Context, key string) ([]byte, bool) {
	if l == nil || l.cache == nil {
		return nil, false
	}
	body, err := l.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			l.logger.Warn("list cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return body, true
}

// Load returns the cached body for key, or calls fill and caches its result.
// Errors from fill are returned as is and nothing is cached.
func (l *Lists) Load(ctx context.Context, key string, fill func(context.Context) ([]byte, error)) ([]byte, error) {
	if l == nil || l.cache == nil {
		return fill(ctx)
	}
	if body, ok := l.Get(ctx, key); ok {
		return body, nil
	}

	gen := l.generation(key)
	body, err := fill(ctx)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gens[key] != gen {
		l.logger.Debug("list changed while loading, not caching", "key", key)
		return body, nil
	}
	if err := l.cache.Set(ctx, key, body, l.ttl); err != nil {
		l.logger.Warn("list cache write failed", "key", key, "error", err)
	}
	return body, nil
}

func (l *Lists) generation(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[key]
}

// Invalidate drops key after a mutation of the underlying entity.
func (l *Lists) Invalidate(ctx context.Context, key string) {
	if l == nil || l.cache == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gens[key]++
	if err := l.cache.Delete(ctx, key); err != nil {
		l.logger.Error("list cache invalidation failed", "key", key, "error", err)
	}
}
