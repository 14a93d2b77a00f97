// Copyright (c) 2026 gqlsql. All rights reserved.

package cache

import (
	stdctx "context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Tag identifies one row a cached result depends on. A result whose
// selection touched rows of type TypeName with the given ID is tagged
// with one Tag per row; a mutation response's cascade metadata
// invalidates every cache entry sharing any of its tags.
type Tag struct {
	TypeName string
	ID       string
}

type resultEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []Tag
}

func (e resultEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// ResultCache is the second cache level: JSON response bodies keyed
// by fingerprint+variable-hash, bounded by an in-process LRU with a
// TTL, spilling to a shared Redis tier so a cache hit in one process
// is visible to its siblings. Entries are additionally indexed by the
// (TypeName, ID) tags of the rows they were built from, so a mutation
// can invalidate every affected entry without knowing their keys.
type ResultCache struct {
	mu    sync.Mutex
	store *lru
	tags  map[Tag]map[string]struct{}

	ttl   time.Duration
	redis *redis.Client
	log   *slog.Logger

	group singleflight.Group
}

// NewResultCache builds a ResultCache holding at most capacity local
// entries for ttl each. redisClient may be nil, in which case the
// cache is purely in-process.
func NewResultCache(capacity int, ttl time.Duration, redisClient *redis.Client, logger *slog.Logger) *ResultCache {
	c := &ResultCache{
		tags:  make(map[Tag]map[string]struct{}),
		ttl:   ttl,
		redis: redisClient,
		log:   logger,
	}
	c.store = newLRU(capacity, c.untrackEvicted)
	return c
}

// untrackEvicted removes an evicted key from the tag index. Called by
// the underlying lru with its lock held, so it must not re-lock c.mu;
// callers of set/get/invalidate take c.mu before touching c.store.
func (c *ResultCache) untrackEvicted(key string, value any) {
	entry := value.(resultEntry)
	for _, tag := range entry.tags {
		if set, ok := c.tags[tag]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(c.tags, tag)
			}
		}
	}
}

// Get returns the cached response for key, consulting Redis on a
// local miss. Expired local entries are treated as a miss.
func (c *ResultCache) Get(ctx stdctx.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	v, ok := c.store.get(key)
	c.mu.Unlock()

	if ok {
		entry := v.(resultEntry)
		if !entry.expired(time.Now()) {
			return entry.value, true
		}
		c.mu.Lock()
		c.store.delete(key)
		c.mu.Unlock()
	}

	if c.redis == nil {
		return nil, false
	}
	val, err := c.redis.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Put stores value under key with the cache's configured TTL, tagged
// by the rows it was derived from, writing through to Redis when
// configured.
func (c *ResultCache) Put(ctx stdctx.Context, key string, value []byte, tags []Tag) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.store.set(key, resultEntry{value: value, expiresAt: expiresAt, tags: tags})
	for _, tag := range tags {
		set, ok := c.tags[tag]
		if !ok {
			set = make(map[string]struct{})
			c.tags[tag] = set
		}
		set[key] = struct{}{}
	}
	c.mu.Unlock()

	if c.redis != nil {
		if err := c.redis.Set(ctx, redisKey(key), value, c.ttl).Err(); err != nil && c.log != nil {
			c.log.Warn("result cache: redis write-through failed", slog.String("error", err.Error()))
		}
	}
}

// Invalidate drops every cached entry tagged with any of tags. Called
// with a mutation response's cascade metadata.
func (c *ResultCache) Invalidate(ctx stdctx.Context, tags []Tag) int {
	c.mu.Lock()
	keys := make(map[string]struct{})
	for _, tag := range tags {
		for key := range c.tags[tag] {
			keys[key] = struct{}{}
		}
	}
	for key := range keys {
		c.store.delete(key)
	}
	c.mu.Unlock()

	if c.redis != nil && len(keys) > 0 {
		redisKeys := make([]string, 0, len(keys))
		for key := range keys {
			redisKeys = append(redisKeys, redisKey(key))
		}
		if err := c.redis.Del(ctx, redisKeys...).Err(); err != nil && c.log != nil {
			c.log.Warn("result cache: redis invalidation failed", slog.String("error", err.Error()))
		}
	}

	return len(keys)
}

// GetOrLoad returns the cached value for key, or calls load and
// caches its result if absent. Concurrent calls for the same key are
// coalesced: only one load runs at a time, and every caller waiting
// on it receives the same result.
func (c *ResultCache) GetOrLoad(ctx stdctx.Context, key string, tags []Tag, load func() ([]byte, []Tag, error)) ([]byte, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(ctx, key); ok {
			return v, nil
		}
		value, loadedTags, err := load()
		if err != nil {
			return nil, err
		}
		c.Put(ctx, key, value, loadedTags)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func redisKey(key string) string {
	return "gqlsql:result:" + key
}
