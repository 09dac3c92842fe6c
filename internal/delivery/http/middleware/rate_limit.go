package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// Reject requests when Redis is unavailable instead of letting them
	// through.
	FailClosed bool
}

// Lua script for atomic increment with TTL on first set.
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// RateLimit counts requests per client IP in Redis. With a nil client the
// middleware is a no-op unless FailClosed is set.
func RateLimit(client *goredis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	script := goredis.NewScript(rateLimitLuaScript)

	return func(c *gin.Context) {
		if client == nil {
			if cfg.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Rate limiter unavailable", nil)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		key := cfg.KeyPrefix + c.ClientIP()
		windowSeconds := int(cfg.Window.Seconds())

		result, err := script.Run(c.Request.Context(), client, []string{key}, windowSeconds).Slice()
		if err != nil {
			logger.Log.Warn("Rate limit check failed", "error", err)
			if cfg.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Rate limiter unavailable", nil)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		count, _ := result[0].(int64)
		ttl, _ := result[1].(int64)

		remaining := cfg.Limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > cfg.Limit {
			c.Header("Retry-After", fmt.Sprintf("%d", ttl))
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GlobalRateLimitConfig returns defaults for API-wide rate limiting
func GlobalRateLimitConfig(limit, windowSeconds int) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     time.Duration(windowSeconds) * time.Second,
		KeyPrefix:  "rl:ip:",
		FailClosed: false,
	}
}

// LoginRateLimitConfig returns strict defaults for auth endpoints
func LoginRateLimitConfig(limit, windowSeconds int) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     time.Duration(windowSeconds) * time.Second,
		KeyPrefix:  "rl:login:",
		FailClosed: false,
	}
}
