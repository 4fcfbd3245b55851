package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"double-entry-ledger/config"
	httpHandler "double-entry-ledger/internal/adapter/http/handler"
	pgStorage "double-entry-ledger/internal/adapter/storage/postgres"
	redisStorage "double-entry-ledger/internal/adapter/storage/redis"
	"double-entry-ledger/internal/core/domain"
	"double-entry-ledger/internal/core/ports"
	"double-entry-ledger/internal/service"
	"double-entry-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting ledger service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories
	currencyRepo := pgStorage.NewCurrencyRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	postingRepo := pgStorage.NewPostingRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis-backed account read cache
	accountCache := redisStorage.NewAccountCache(rdb)

	rules := domain.AmountRules{
		MaxDigits:     cfg.Ledger.MaxDigits,
		DecimalPlaces: cfg.Ledger.DecimalPlaces,
	}

	// Initialize business services
	transferSvc := service.NewTransferService(
		accountRepo,
		paymentRepo,
		postingRepo,
		transactor,
		accountCache,
		rules,
		cfg.Ledger.LockTimeout,
		log,
	)
	registrySvc := service.NewRegistryService(currencyRepo, accountRepo, rules, log)
	querySvc := service.NewLedgerService(accountRepo, paymentRepo, postingRepo, accountCache, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TransferSvc:    transferSvc,
		RegistrySvc:    registrySvc,
		QuerySvc:       querySvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
