// api/db/redis.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rollcall-app/api/config"
	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
)

// RedisCache wraps the shared Redis connection behind the cache contract the
// rest of the service consumes: Get, Set with TTL, and substring-based
// invalidation. The underlying client is safe for concurrent use.
type RedisCache struct {
	client *redis.Client
}

// InitRedis connects to Redis using the supplied configuration and verifies
// the connection before handing the cache to callers.
func InitRedis(cfg config.RedisConfiguration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return &RedisCache{client: client}, nil
}

// Close releases the underlying connection pool.
func (r *RedisCache) Close() {
	if err := r.client.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}
}

// Get returns the raw cached payload for key. A missing key is reported as
// ErrCacheMiss so callers can tell a miss from a transport failure.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", rollcall_errors.ErrCacheMiss
	} else if err != nil {
		return "", fmt.Errorf("failed to get key from cache: %w", err)
	}
	return val, nil
}

// Set stores value under key for the given TTL.
func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache key: %w", err)
	}
	return nil
}

// DeleteByPattern removes every key whose name contains substr and returns
// the number of keys deleted. It scans rather than using KEYS so a sweep
// does not block the server.
func (r *RedisCache) DeleteByPattern(ctx context.Context, substr string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	pattern := fmt.Sprintf("*%s*", substr)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += int(n)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	logger.Debug("Cache keys invalidated",
		zap.String("pattern", pattern),
		zap.Int("deleted", deleted))
	return deleted, nil
}

// RateLimit applies a sliding-window limit to key and reports whether the
// current request is allowed.
func (r *RedisCache) RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := r.client.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
