package main // Entry point package

import (
	"context" // Context for bootstrap deadlines
	"log"     // Logging library
	"time"    // Timeout durations

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/showtix/showtix/internal/config"     // Internal config loader
	"github.com/showtix/showtix/internal/database"   // Database open, schema and bootstrap
	"github.com/showtix/showtix/internal/handler"    // HTTP handlers
	"github.com/showtix/showtix/internal/middleware" // Rate limiting
	"github.com/showtix/showtix/internal/queue"      // Event consumer
	"github.com/showtix/showtix/internal/repository" // Data access layer
	"github.com/showtix/showtix/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	// Seed the owner, the treasury, the issuer grants, the initial supply
	// and the ticket price. Idempotent across restarts.
	treasuryID, err := database.Bootstrap(ctx, db, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable; features degrade

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	issuers := repository.NewIssuerRepo(db)
	ledger := repository.NewLedgerRepo(db, issuers)
	wallets := repository.NewWalletRepo(db)
	shows := repository.NewShowRepo(db)
	holdings := repository.NewHoldingRepo(db)
	settings := repository.NewSettingsRepo(db)

	authH := handler.NewAuthHandler(cfg, accounts, tokens)
	showH := handler.NewShowHandler(shows)
	priceH := handler.NewPricingHandler(settings)
	ledgerH := handler.NewLedgerHandler(ledger, issuers, accounts)
	walletH := handler.NewWalletHandler(wallets)
	ticketH := handler.NewTicketHandler(shows, ledger, wallets, holdings, settings, treasuryID)

	e := echo.New() // Create Echo instance
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, showH, priceH, ledgerH, config.LoadCacheConfig(), rdb)
	router.RegisterTicketing(e, ticketH, walletH, ledgerH, cfg.JWTSecret)
	router.RegisterOwner(e, showH, priceH, ledgerH, cfg.JWTSecret)
	router.RegisterIssuer(e, ledgerH, cfg.JWTSecret)

	go queue.StartEventConsumer() // Drain domain events into the event log

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
