// api/middleware/rate_limiter.go

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/rollcall-app/api/logging"
)

// Limiter is the sliding-window rate limit backed by Redis.
type Limiter interface {
	RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error)
}

// RateLimiter throttles by client IP. A limiter outage lets the request
// through; rate limiting is protection, not a correctness gate.
func RateLimiter(limiter Limiter, limit int, per time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		allowed, err := limiter.RateLimit(c, key, limit, per)
		if err != nil {
			logger.Warn("Rate limiting unavailable", zap.Error(err), zap.String("ip", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", key),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
