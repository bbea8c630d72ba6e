package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_METHODS", "")
	t.Setenv("CACHE_TTL", "")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Methods["GET"])
	assert.False(t, cfg.Methods["POST"])
	assert.Equal(t, 10*time.Second, cfg.TTL)
	assert.Equal(t, "cache", cfg.Prefix)
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, head ,")
	assert.True(t, m["GET"])
	assert.True(t, m["HEAD"])
	assert.Len(t, m, 2)
}

func TestParseDurFallsBack(t *testing.T) {
	assert.Equal(t, time.Second, parseDur("nonsense"))
	assert.Equal(t, 3*time.Minute, parseDur("3m"))
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-5")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s") // below 5x the refill interval

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestEnvBool(t *testing.T) {
	t.Setenv("FLAG", "off")
	assert.False(t, envBool("FLAG", true))
	t.Setenv("FLAG", "YES")
	assert.True(t, envBool("FLAG", false))
	t.Setenv("FLAG", "maybe")
	assert.True(t, envBool("FLAG", true))
}
