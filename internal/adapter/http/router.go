package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/exchangeledger/internal/adapter/http/handler"
	"github.com/iho/exchangeledger/internal/adapter/http/middleware"
	"github.com/iho/exchangeledger/internal/infrastructure/metrics"
	"github.com/iho/exchangeledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	BalanceHandler     *handler.BalanceHandler
	EarningHandler     *handler.EarningHandler
	RegistryHandler    *handler.RegistryHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).
				WithLogger(cfg.Logger).
				WithMetrics(cfg.Metrics)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/stats", cfg.TransactionHandler.Stats)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		r.Route("/balances", func(r chi.Router) {
			r.Post("/adjust", cfg.BalanceHandler.Adjust)
			r.Get("/company", cfg.BalanceHandler.ListCompany)
			r.Get("/company/{currency_id}", cfg.BalanceHandler.GetCompany)
			r.Post("/company/{currency_id}/star", cfg.BalanceHandler.StarCompany)
		})

		r.Route("/earnings", func(r chi.Router) {
			r.Post("/", cfg.EarningHandler.Create)
			r.Get("/", cfg.EarningHandler.List)
			r.Get("/totals", cfg.EarningHandler.Totals)
			r.Get("/{id}", cfg.EarningHandler.Get)
			r.Delete("/{id}", cfg.EarningHandler.Delete)
		})

		r.Route("/currencies", func(r chi.Router) {
			r.Post("/", cfg.RegistryHandler.CreateCurrency)
			r.Get("/", cfg.RegistryHandler.ListCurrencies)
			r.Get("/{id}", cfg.RegistryHandler.GetCurrency)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.RegistryHandler.CreateCustomer)
			r.Get("/", cfg.RegistryHandler.ListCustomers)
			r.Get("/{id}", cfg.RegistryHandler.GetCustomer)
			r.Get("/{id}/balances", cfg.BalanceHandler.ListCustomer)
			r.Post("/{id}/balances/{currency_id}/star", cfg.BalanceHandler.StarCustomer)
		})

		r.Get("/ledger/reconcile", cfg.LedgerHandler.Reconcile)
	})

	return r
}
