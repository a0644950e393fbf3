package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// invalidateScanCount is the batch size for SCAN during prefix invalidation.
const invalidateScanCount = 256

// Manager handles caching operations with Redis backend.
type Manager struct {
	redis *redis.Client
}

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{
		redis: redisClient,
	}
}

// Get retrieves a cache entry by key.
// Returns ErrCacheMiss if the key doesn't exist or entry is expired.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	cacheKey := key.String()

	data, err := m.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	// Redis TTL should have evicted it already; treat a stale entry as a
	// miss either way so stale variants never leave the cache layer.
	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	if key.DynamicRender {
		CacheHits.WithLabelValues("true").Inc()
	} else {
		CacheHits.WithLabelValues("false").Inc()
	}

	return &entry, nil
}

// Set stores a cache entry with TTL based on the entry's Expires field.
// The entry will be automatically removed from Redis when it expires.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.TTL()
	if ttl <= 0 {
		// Already expired, don't cache
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// InvalidatePrefix evicts every cached variant under a path prefix. It is
// the deployment-event hook: publishing a new site version invalidates "/"
// so both rendering variants and all encodings are refreshed together.
// Returns the number of evicted keys.
func (m *Manager) InvalidatePrefix(ctx context.Context, pathPrefix string) (int, error) {
	pattern := PrefixPattern(pathPrefix)

	var (
		cursor  uint64
		evicted int
	)

	for {
		keys, next, err := m.redis.Scan(ctx, cursor, pattern, invalidateScanCount).Result()
		if err != nil {
			CacheErrors.WithLabelValues("invalidate").Inc()
			return evicted, fmt.Errorf("redis scan %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			deleted, err := m.redis.Del(ctx, keys...).Result()
			if err != nil {
				CacheErrors.WithLabelValues("invalidate").Inc()
				return evicted, fmt.Errorf("redis del: %w", err)
			}
			evicted += int(deleted)
			CacheInvalidations.Add(float64(deleted))
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return evicted, nil
}
