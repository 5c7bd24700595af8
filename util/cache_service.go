// api/util/cache_service.go

package util

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
)

// Cache is the distributed cache contract every repository shares: string
// payloads with a per-key TTL, and substring invalidation. Get reports a
// missing key as rollcall_errors.ErrCacheMiss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, substr string) (int, error)
}

// TTL tiers, chosen by data volatility. Services pick a tier instead of an
// ad hoc duration so the policy lives in one place.
const (
	// TTLFlash suits hot, frequently-changing lookups such as the current
	// attendance of a course.
	TTLFlash = 1 * time.Minute
	// TTLShort suits per-page listings and access decisions.
	TTLShort = 2 * time.Minute
	// TTLMedium suits single-entity reads by ID.
	TTLMedium = 1 * time.Hour
	// TTLLong and TTLStatic suit near-static reference data.
	TTLLong   = 2 * time.Hour
	TTLStatic = 12 * time.Hour
)

// CacheService is the cache-aside facade shared by all services. It owns key
// construction and invalidation policy; the store stays the sole source of
// truth, so losing the cache costs performance, never correctness.
type CacheService struct {
	cache Cache
}

func NewCacheService(cache Cache) *CacheService {
	return &CacheService{cache: cache}
}

// Key builds the deterministic cache key for a kind and its identifiers,
// e.g. Key("Attendance", id) -> "Attendance:<id>". The same inputs always
// produce the same key, which is what makes cache hits possible at all.
func Key(kind string, parts ...string) string {
	if len(parts) == 0 {
		return kind
	}
	return kind + ":" + strings.Join(parts, ":")
}

// Invalidate deletes every cache key containing id, whatever its shape. A
// mutation of a course must also kill listing keys that merely embed the
// course ID, so the sweep is deliberately coarser than targeted deletes.
// Returns the number of keys removed.
func (c *CacheService) Invalidate(ctx context.Context, id string) int {
	n, err := c.cache.DeleteByPattern(ctx, id)
	if err != nil {
		logger.Error("Cache invalidation failed", zap.Error(err), zap.String("id", id))
		return n
	}
	logger.Debug("Cache invalidated", zap.String("id", id), zap.Int("deleted", n))
	return n
}

// GetOrLoad implements the cache-aside read path for any payload type: serve
// a hit without revalidating against the store; on a miss (or any cache
// failure) call loader, then populate the cache best-effort before
// returning. Loader errors, including not-found, are never cached, so every
// negative result costs a fresh store read on the next request.
func GetOrLoad[T any](ctx context.Context, c *CacheService, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	payload, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if jsonErr := json.Unmarshal([]byte(payload), &value); jsonErr == nil {
			logger.Debug("Cache hit", zap.String("key", key))
			return value, nil
		}
		// Corrupt payload reads as a miss, not a failure.
		logger.Warn("Discarding undecodable cache payload", zap.String("key", key))
	case errors.Is(err, rollcall_errors.ErrCacheMiss):
		logger.Debug("Cache miss", zap.String("key", key))
	default:
		// Cache transport trouble degrades to store-only operation.
		logger.Warn("Cache unavailable, falling back to store", zap.Error(err), zap.String("key", key))
	}

	value, err := loader(ctx)
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to encode value for cache", zap.Error(err), zap.String("key", key))
		return value, nil
	}
	if err := c.cache.Set(ctx, key, string(encoded), ttl); err != nil {
		logger.Warn("Failed to populate cache", zap.Error(err), zap.String("key", key))
	}
	return value, nil
}
