package middleware

// cache.go implements a Redis-backed response cache for the public read
// endpoints (show lookups, prices, balances). Only configured methods are
// cached and only 2xx JSON responses are stored. The middleware degrades
// to a pass-through when Redis is unavailable.

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/showtix/showtix/internal/config"
)

// cachedResponse is the envelope stored in Redis.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter captures the response body and status while forwarding to
// the client, bounded by the configured body size limit.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.buf.Len()+len(b) <= cw.limit {
		cw.buf.Write(b)
	} else {
		// Over the limit: poison the capture so the entry is not stored.
		cw.buf.Reset()
		cw.limit = -1
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKey derives a stable key from method, concrete path and raw query.
// The concrete path (not the route pattern) keeps entries for different ids
// apart.
func cacheKey(prefix string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.Method + ":" + r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache returns the cache middleware. When disabled or without a
// Redis client it returns a no-op.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var stored cachedResponse
				if json.Unmarshal(raw, &stored) == nil {
					c.Response().Header().Set(echo.HeaderContentType, stored.ContentType)
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(stored.Status, stored.ContentType, stored.Body)
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}

			// Store only successful, bounded responses.
			if cw.limit >= 0 && cw.status >= 200 && cw.status < 300 && cw.buf.Len() > 0 {
				stored := cachedResponse{
					Status:      cw.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        cw.buf.Bytes(),
				}
				if raw, err := json.Marshal(stored); err == nil {
					// Cache failures are invisible to the client.
					_ = rdb.Set(ctx, key, raw, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}
