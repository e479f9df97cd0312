package api

import (
	"net/http"

	"github.com/ayo6706/remittance-core/internal/api/handler"
	"github.com/ayo6706/remittance-core/internal/api/middleware"
	"github.com/ayo6706/remittance-core/internal/api/spec"
	"github.com/ayo6706/remittance-core/internal/domain"
	"github.com/ayo6706/remittance-core/internal/idempotency"
	"github.com/ayo6706/remittance-core/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Services groups what the handlers call into.
type Services struct {
	Currencies  *service.CurrencyService
	Conversions *service.ConversionService
	Commissions *service.CommissionService
}

// Limits are per-second request budgets. Zero disables a limiter.
type Limits struct {
	PublicRPS int
	AuthRPS   int
}

type Router struct {
	logger      *zap.Logger
	auth        *middleware.Authenticator
	health      *handler.HealthHandler
	services    Services
	idempotency *idempotency.Store
	limits      Limits
}

func NewRouter(logger *zap.Logger, auth *middleware.Authenticator, health *handler.HealthHandler, services Services, idem *idempotency.Store, limits Limits) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		logger:      logger,
		auth:        auth,
		health:      health,
		services:    services,
		idempotency: idem,
		limits:      limits,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	ratesHandler := handler.NewRatesHandler(api.services.Currencies, api.services.Conversions)
	conversionHandler := handler.NewConversionHandler(api.services.Conversions)
	commissionHandler := handler.NewCommissionHandler(api.services.Commissions)
	adminHandler := handler.NewAdminHandler(api.services.Currencies)

	// Operational routes
	if api.health != nil {
		r.Get("/healthz", api.health.Live)
		r.Get("/readyz", api.health.Ready)
	}
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	// Public routes
	r.Group(func(r chi.Router) {
		if api.limits.PublicRPS > 0 {
			r.Use(middleware.PublicRateLimiter(api.limits.PublicRPS))
		}
		r.Get("/v1/currencies", ratesHandler.ListCurrencies)
		r.Get("/v1/currencies/{code}/rate", ratesHandler.GetRate)
		r.Get("/v1/pair-rates", ratesHandler.ListPairRates)
		r.Post("/v1/conversions/quote", conversionHandler.Quote)
		r.Post("/v1/commissions/quote", commissionHandler.Quote)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(api.auth.Middleware)
		r.Use(middleware.RequireRole(domain.RoleAdmin))
		if api.limits.AuthRPS > 0 {
			r.Use(middleware.AuthRateLimiter(api.limits.AuthRPS))
		}
		if api.idempotency != nil {
			r.Use(middleware.IdempotencyMiddleware(api.idempotency, api.logger))
		}

		r.Put("/v1/admin/currencies/{code}", adminHandler.UpsertCurrency)
		r.Delete("/v1/admin/currencies/{code}", adminHandler.DeleteCurrency)
		r.Post("/v1/admin/pair-rates", adminHandler.CreatePairRate)
		r.Delete("/v1/admin/pair-rates/{id}", adminHandler.DeletePairRate)
		r.Get("/v1/admin/commission-tiers/{kind}", commissionHandler.GetTiers)
		r.Put("/v1/admin/commission-tiers/{kind}", commissionHandler.ReplaceTiers)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondError(w, r, http.StatusNotFound, "resource/not-found", "route not found")
	})
	return r
}
