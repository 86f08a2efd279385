package universities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/romdo/go-pace/clock"
)

// Cache stores search results by normalized country.
type Cache interface {
	Get(ctx context.Context, country string) ([]University, bool, error)
	Set(ctx context.Context, country string, list []University) error
}

// MemoryCache is an in-process Cache with a fixed entry lifetime.
type MemoryCache struct {
	ttl   time.Duration
	clock clock.Clock

	mux     sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	list    []University
	expires time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache returns a MemoryCache whose entries live for ttl. A nil
// clock uses the real clock.
func NewMemoryCache(ttl time.Duration, c clock.Clock) *MemoryCache {
	if c == nil {
		c = clock.New()
	}

	return &MemoryCache{
		ttl:     ttl,
		clock:   c,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryCache) Get(
	_ context.Context,
	country string,
) ([]University, bool, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	e, ok := m.entries[country]
	if !ok || !m.clock.Now().Before(e.expires) {
		return nil, false, nil
	}

	return e.list, true, nil
}

func (m *MemoryCache) Set(
	_ context.Context,
	country string,
	list []University,
) error {
	m.mux.Lock()
	defer m.mux.Unlock()

	m.entries[country] = memoryEntry{
		list:    list,
		expires: m.clock.Now().Add(m.ttl),
	}

	return nil
}

// RedisCache is a Cache backed by Redis string keys holding JSON.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithRedisPrefix sets the key prefix, without trailing colon.
func WithRedisPrefix(prefix string) RedisCacheOption {
	return func(r *RedisCache) {
		r.prefix = strings.Trim(prefix, ":")
	}
}

// WithRedisTTL sets the expiry of cached entries.
func WithRedisTTL(d time.Duration) RedisCacheOption {
	return func(r *RedisCache) { r.ttl = d }
}

// NewRedisCache returns a RedisCache using rdb.
func NewRedisCache(rdb *redis.Client, opts ...RedisCacheOption) *RedisCache {
	r := &RedisCache{
		rdb:    rdb,
		prefix: "pace:universities",
		ttl:    time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *RedisCache) key(country string) string {
	return r.prefix + ":" + country
}

func (r *RedisCache) Get(
	ctx context.Context,
	country string,
) ([]University, bool, error) {
	if r == nil || r.rdb == nil {
		return nil, false, nil
	}

	b, err := r.rdb.Get(ctx, r.key(country)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var list []University
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, fmt.Errorf("redis decode: %w", err)
	}

	return list, true, nil
}

func (r *RedisCache) Set(
	ctx context.Context,
	country string,
	list []University,
) error {
	if r == nil || r.rdb == nil {
		return nil
	}

	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("redis encode: %w", err)
	}

	if err := r.rdb.Set(ctx, r.key(country), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
