// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of the rendered site page.
// Keys carry a per-process generation and the blog display version, so a
// page rendered from an older post list is never served after a change.
package cache

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "portfolio:page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute

	invalidateTimeout = 2 * time.Second
)

// Pages is the page cache as seen by the HTTP handlers.
type Pages interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client     *redis.Client
	ttl        time.Duration
	generation string

	// Invalidation runs off the caller's goroutine. At most one scan is in
	// flight; changes arriving during it trigger exactly one more.
	mu       sync.Mutex
	scanning bool
	dirty    bool
	inflight sync.WaitGroup
}

// NewPageCache creates a new page cache backed by the given Valkey client.
// Each PageCache uses a fresh generation, so pages cached by a previous
// process are never served.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl, generation: uuid.NewString()}
}

func (pc *PageCache) key(key string) string {
	return pageKeyPrefix + pc.generation + ":" + key
}

// Get retrieves cached HTML for a page key. Returns false on miss or error.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pc.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pc.key(key), html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached page of every generation by scanning
// for the prefix.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache cleared", "deleted", deleted)
	}
}

// ReplaceList implements blog.Container. Any change to the post list drops
// the cached pages. It is called under the renderer's lock, so the scan
// runs in the background.
func (pc *PageCache) ReplaceList(template.HTML) {
	pc.invalidateAsync()
}

// ShowPlaceholder implements blog.Container.
func (pc *PageCache) ShowPlaceholder() {
	pc.invalidateAsync()
}

func (pc *PageCache) invalidateAsync() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.scanning {
		pc.dirty = true
		return
	}
	pc.scanning = true
	pc.inflight.Add(1)
	go pc.invalidateLoop()
}

func (pc *PageCache) invalidateLoop() {
	defer pc.inflight.Done()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		pc.InvalidateAll(ctx)
		cancel()

		pc.mu.Lock()
		if !pc.dirty {
			pc.scanning = false
			pc.mu.Unlock()
			return
		}
		pc.dirty = false
		pc.mu.Unlock()
	}
}

// Wait blocks until no background invalidation is running.
func (pc *PageCache) Wait() {
	pc.inflight.Wait()
}

// HomepageKey returns the cache key for the site page rendered from the
// given blog display version.
func HomepageKey(version uint64) string {
	return fmt.Sprintf("_homepage:%d", version)
}
