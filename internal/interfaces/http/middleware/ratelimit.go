package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/fundtrail/internal/shared/logger"
	"github.com/orris-inc/fundtrail/internal/shared/utils"
)

const rateLimitKeyPrefix = "fundtrail:ratelimit:"

// RateLimiter caps write requests per client IP in fixed windows. Counters live in
// Redis so every instance enforces the same budget.
type RateLimiter struct {
	redisClient *redis.Client
	limit       int64
	windowSec   int64
	logger      logger.Interface
}

// NewRateLimiter rounds window down to whole seconds, one second at least.
func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	windowSec := int64(window / time.Second)
	if windowSec < 1 {
		windowSec = 1
	}
	return &RateLimiter{
		redisClient: redisClient,
		limit:       int64(limit),
		windowSec:   windowSec,
		logger:      logger,
	}
}

// Limit lets requests through when Redis is unreachable. A refused request gets 429
// with Retry-After set to the end of the current window.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().Unix()
		bucket := now / rl.windowSec
		clientIP := c.ClientIP()
		key := rateLimitKeyPrefix + clientIP + ":" + strconv.FormatInt(bucket, 10)

		count, err := rl.hit(c, key)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, letting request through",
				"client_ip", clientIP,
				"error", err,
			)
			c.Next()
			return
		}

		if count > rl.limit {
			retryAfter := (bucket+1)*rl.windowSec - now
			rl.logger.Infow("write request throttled",
				"client_ip", clientIP,
				"path", c.Request.URL.Path,
				"count", count,
			)
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// hit counts the request and keeps the window key alive one second past its end.
func (rl *RateLimiter) hit(c *gin.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := rl.redisClient.TxPipelined(c.Request.Context(), func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, time.Duration(rl.windowSec+1)*time.Second)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
