package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtix/showtix/internal/config"
)

func rateCtx(e *echo.Echo, ip, path string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":12345"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestRateKeySeparatesClientsAndRoutes(t *testing.T) {
	e := echo.New()

	a := rateKey("rl", rateCtx(e, "10.0.0.1", "/v1/shows/:id"))
	b := rateKey("rl", rateCtx(e, "10.0.0.2", "/v1/shows/:id"))
	assert.NotEqual(t, a, b, "different clients must use different buckets")

	d := rateKey("rl", rateCtx(e, "10.0.0.1", "/v1/ticket-price"))
	assert.NotEqual(t, a, d, "different routes must use different buckets")

	// stable for the same client and route
	assert.Equal(t, a, rateKey("rl", rateCtx(e, "10.0.0.1", "/v1/shows/:id")))
}

func TestRateKeyIgnoresContextIdentity(t *testing.T) {
	// The limiter runs before authentication; whatever later middleware
	// stores in the context must not change the bucket.
	e := echo.New()
	plain := rateCtx(e, "10.0.0.1", "/v1/shows/:id")
	withID := rateCtx(e, "10.0.0.1", "/v1/shows/:id")
	withID.Set("account_id", float64(7))

	assert.Equal(t, rateKey("rl", plain), rateKey("rl", withID))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	c := rateCtx(e, "10.0.0.1", "/v1/shows/:id")

	h := RateLimit(config.RateLimitConfig{Enabled: false}, nil)(okHandler)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, c.Response().Status)
}
