// Package cache stores upstream responses for a short time so repeated page
// loads do not spend the providers' request quotas.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// A miss is reported as ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// HitRecorder observes cache lookups.
type HitRecorder interface {
	RecordCacheLookup(hit bool)
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache wraps rdb. Keys are namespaced with prefix.
func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// sweepThreshold is the entry count above which Set purges expired entries.
const sweepThreshold = 1024

// Memory is an in-process Cache. Expired entries are dropped on read, and
// swept on write once the map grows past sweepThreshold.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.entries) >= sweepThreshold {
		for k, e := range m.entries {
			if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// JSON reads and writes JSON values through a Cache. Cache failures are
// logged and treated as misses so a broken cache never fails a request.
type JSON struct {
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
	recorder HitRecorder
}

// NewJSON creates a JSON cache. recorder may be nil.
func NewJSON(c Cache, ttl time.Duration, logger *slog.Logger, recorder HitRecorder) *JSON {
	if c == nil {
		c = Noop{}
	}
	return &JSON{cache: c, ttl: ttl, logger: logger, recorder: recorder}
}

// Load decodes the cached value for key into dst and reports whether it was found.
func (j *JSON) Load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := j.cache.Get(ctx, key)
	if err != nil {
		j.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.Any("error", err))
		ok = false
	}
	if ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			j.logger.WarnContext(ctx, "cache entry corrupt", slog.String("key", key), slog.Any("error", err))
			ok = false
		}
	}
	if j.recorder != nil {
		j.recorder.RecordCacheLookup(ok)
	}
	return ok
}

// Store encodes v and caches it under key.
func (j *JSON) Store(ctx context.Context, key string, v any) {
	if j.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		j.logger.WarnContext(ctx, "cache encode failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := j.cache.Set(ctx, key, raw, j.ttl); err != nil {
		j.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
