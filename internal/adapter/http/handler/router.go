package handler

import (
	"double-entry-ledger/internal/adapter/http/middleware"
	"double-entry-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TransferSvc    ports.TransferService
	RegistrySvc    ports.RegistryService
	QuerySvc       ports.LedgerQueryService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	registryHandler := NewRegistryHandler(deps.RegistrySvc)
	ledgerHandler := NewLedgerHandler(deps.QuerySvc)
	paymentHandler := NewPaymentHandler(deps.TransferSvc, deps.QuerySvc)

	v1 := r.Group("/v1")

	currencies := v1.Group("/currencies")
	{
		currencies.POST("", registryHandler.CreateCurrency)
	}

	accounts := v1.Group("/accounts")
	{
		accounts.POST("", registryHandler.CreateAccount)
		accounts.GET("", ledgerHandler.ListAccounts)
		accounts.GET("/:name", ledgerHandler.GetAccount)
		accounts.GET("/:name/reconcile", ledgerHandler.Reconcile)
	}

	payments := v1.Group("/payments")
	{
		payments.POST("", paymentHandler.CreateTransfer)
		payments.GET("", ledgerHandler.ListPostings)
		payments.GET("/:id", paymentHandler.GetPayment)
	}

	return r
}
