package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/paytransfer/internal/adapter/http/handler"
	"github.com/iho/paytransfer/internal/adapter/http/middleware"
	"github.com/iho/paytransfer/internal/infrastructure/metrics"
	"github.com/iho/paytransfer/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	TransferHandler  *handler.TransferHandler
	HealthHandler    *handler.HealthHandler
	MetricsHandler   http.Handler
	Metrics          *metrics.Metrics
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// MaxRequestBodyBytes caps API request bodies.
const MaxRequestBodyBytes = 1 << 20

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger, handler.UnexpectedErrorMessage))

	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handler.WriteError(w, req, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		handler.WriteError(w, req, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.RequestSize(MaxRequestBodyBytes))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger, cfg.Metrics)
			r.Use(idempotency.Wrap)
		}

		// Accounts
		r.Post("/accounts", cfg.AccountHandler.Create)
		r.Get("/accounts/{id}", cfg.AccountHandler.Get)

		// Transactions
		r.Post("/transactions", cfg.TransferHandler.Create)
		r.Get("/transactions", cfg.TransferHandler.List)
		r.Get("/transactions/{id}", cfg.TransferHandler.Get)
	})

	return r
}
