package middleware

// ratelimit.go implements a distributed token-bucket rate limiter on Redis.
// Bucket state lives in a Redis hash and is refilled atomically by a Lua
// script, so multiple service instances share one budget per client. Keys
// combine the client IP and the route, limiting each caller per endpoint.
// The limiter runs before authentication, so account identity is not part
// of the key.

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/showtix/showtix/internal/config"
)

var bucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    local elapsed = math.max(0, now_ms - last_refill)
    local intervals = math.floor(elapsed / interval_ms)
    if intervals > 0 then
        tokens = math.min(capacity, tokens + (intervals * refill_tokens))
        last_refill = last_refill + (intervals * interval_ms)
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// rateKey builds the bucket key for a request: prefix, client IP, route.
func rateKey(prefix string, c echo.Context) string {
	return fmt.Sprintf("%s:%s:%s", prefix, c.RealIP(), c.Path())
}

// RateLimit returns the token-bucket middleware. When disabled or without
// a Redis client it returns a no-op. Limiter errors fail open: a broken
// Redis must not take down ticket sales.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			ctx := c.Request().Context()
			vals, err := bucketScript.Run(ctx, rdb, []string{rateKey(cfg.Prefix, c)}, args...).Int64Slice()
			if err != nil || len(vals) != 3 {
				return next(c)
			}
			if vals[0] != 1 {
				retryAfter := time.Duration(vals[2]) * time.Millisecond
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter/time.Second)+1))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
