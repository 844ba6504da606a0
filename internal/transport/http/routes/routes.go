package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/infra/config"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/security"
	"github.com/alkinoy/10x-politico-sub002/internal/transport/http/handlers"
	"github.com/alkinoy/10x-politico-sub002/internal/transport/http/middleware"
	"github.com/alkinoy/10x-politico-sub002/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Statements  *usecase.StatementService
	Politicians *usecase.PoliticianService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Verifier    *security.TokenVerifier
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{"*"}))

	if deps.Config.Telemetry.MetricsEnabled {
		if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{}); err == nil {
			r.Use(metrics.Handler())
		} else {
			deps.Logger.Warn("metrics middleware disabled", zap.Error(err))
		}
	}

	requireIdentity := middleware.RequireIdentity(deps.Verifier)
	optionalIdentity := middleware.OptionalIdentity(deps.Verifier)

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	if deps.Config.Telemetry.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api/v1")
	{
		statementHandler := handlers.NewStatementHandler(deps.Services.Statements)
		politicianHandler := handlers.NewPoliticianHandler(deps.Services.Politicians)

		createHandlers := []gin.HandlerFunc{requireIdentity}
		createHandlers = append(createHandlers, buildWriteRateLimit(deps)...)
		createHandlers = append(createHandlers, statementHandler.Create)

		statements := api.Group("/statements")
		statements.GET("", optionalIdentity, statementHandler.List)
		statements.GET("/:id", optionalIdentity, statementHandler.Get)
		statements.POST("", createHandlers...)
		statements.PATCH("/:id", requireIdentity, statementHandler.Update)
		statements.DELETE("/:id", requireIdentity, statementHandler.Delete)

		politicians := api.Group("/politicians")
		politicians.GET("", politicianHandler.List)
		politicians.GET("/:id", politicianHandler.Get)
		politicians.GET("/:id/statements", optionalIdentity, statementHandler.Timeline)
	}

	return r
}

func buildWriteRateLimit(deps Dependencies) []gin.HandlerFunc {
	cfg := deps.Config.RateLimit
	if deps.RateLimiter == nil || !cfg.Enabled || cfg.MaxAttempts <= 0 || cfg.WindowDuration <= 0 {
		return nil
	}

	return []gin.HandlerFunc{
		deps.RateLimiter.RateLimit(middleware.RateLimitRule{
			Name:       "statement_write",
			Limit:      cfg.MaxAttempts,
			Window:     cfg.WindowDuration,
			Identifier: middleware.IdentityIdentifier(),
		}),
	}
}
