package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/showtix/showtix/internal/config"     // import cache and rate limit configuration
	"github.com/showtix/showtix/internal/handler"    // import the handlers that implement business logic
	"github.com/showtix/showtix/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while the /v1/me endpoint requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Group for operations that do not require an existing session
	// (register, login, refresh).  Each of these handlers is responsible
	// for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new access
	// token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication.  The handler accepts a
	// JSON body containing a `refresh_token` and will invalidate that token.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "CUSTOMER", "SERVICE"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated read endpoints.  These routes do
// not apply any JWT or role middleware and are intended for guest users.
// Responses are cached in Redis when caching is enabled.
func RegisterPublic(e *echo.Echo, s *handler.ShowHandler, p *handler.PricingHandler, l *handler.LedgerHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.ResponseCache(cacheCfg, rdb)
	// Show details by show id.
	e.GET("/v1/shows/:id", s.GetShow, cache)
	// Current ticket price.
	e.GET("/v1/ticket-price", p.GetTicketPrice, cache)
	// Ledger reads: balances and role membership are public state.
	e.GET("/v1/ledger/balance/:id", l.BalanceOf, cache)
	e.GET("/v1/ledger/issuers/:id", l.HasRole)
}

// RegisterTicketing registers the authenticated sale and redemption routes
// plus the funds wallet.  Any authenticated role may buy, redeem, deposit
// and transfer.
func RegisterTicketing(e *echo.Echo, t *handler.TicketHandler, w *handler.WalletHandler, l *handler.LedgerHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER", "CUSTOMER", "SERVICE"))
	// Buy tickets for a show; the body carries the paid amount.
	g.POST("/shows/:id/tickets", t.BuyTickets)
	// Redeem the caller's full holding for a show.
	g.POST("/shows/:id/consume", t.ConsumeTicket)
	// List the caller's holdings across all shows.
	g.GET("/me/tickets", t.MyTickets)
	// Funds wallet.
	g.POST("/wallet/deposit", w.Deposit)
	g.GET("/wallet", w.GetWallet)
	// Token transfers between accounts require no role, only a session.
	g.POST("/ledger/transfer", l.Transfer)
}

// RegisterOwner registers routes restricted to the OWNER account: show
// creation, price changes and issuer role management.
func RegisterOwner(e *echo.Echo, s *handler.ShowHandler, p *handler.PricingHandler, l *handler.LedgerHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER"))
	g.POST("/shows", s.CreateShow)
	g.PUT("/ticket-price", p.ChangeTicketPrice)
	g.POST("/ledger/issuers", l.GrantIssuer)
	g.DELETE("/ledger/issuers/:id", l.RevokeIssuer)
}

// RegisterIssuer registers the supply routes.  They require a session; the
// issuer role itself is verified inside the ledger transaction, so a JWT
// role claim can never outlive a revoked grant.
func RegisterIssuer(e *echo.Echo, l *handler.LedgerHandler, jwtSecret string) {
	g := e.Group("/v1/ledger")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER", "CUSTOMER", "SERVICE"))
	g.POST("/mint", l.Mint)
	g.POST("/burn", l.Burn)
}
