package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alkinoy/10x-politico-sub002/internal/core/port"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/config"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/database"
	kafkainfra "github.com/alkinoy/10x-politico-sub002/internal/infra/kafka"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/logger"
	redisinfra "github.com/alkinoy/10x-politico-sub002/internal/infra/redis"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/security"
	"github.com/alkinoy/10x-politico-sub002/internal/infra/summarizer"
	postgresrepo "github.com/alkinoy/10x-politico-sub002/internal/repository/postgres"
	redisrepo "github.com/alkinoy/10x-politico-sub002/internal/repository/redis"
	"github.com/alkinoy/10x-politico-sub002/internal/transport/http/middleware"
	"github.com/alkinoy/10x-politico-sub002/internal/transport/http/routes"
	"github.com/alkinoy/10x-politico-sub002/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	verifier, err := security.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("init token verifier: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	displayCache := redisrepo.NewDisplayCache(redisClient.Client(), redisrepo.DisplayCacheConfig{
		KeyPrefix: cfg.Redis.DisplayCachePrefix,
		TTL:       cfg.Redis.DisplayCacheTTL,
	})

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			producer = kafkaProducer
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitStore(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})

	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	statementCfg := usecase.StatementConfig{
		GraceWindow:     cfg.Statements.GraceWindow,
		BodyMinLength:   cfg.Statements.BodyMinLength,
		BodyMaxLength:   cfg.Statements.BodyMaxLength,
		DefaultPageSize: cfg.Statements.DefaultPageSize,
		MaxPageSize:     cfg.Statements.MaxPageSize,
	}

	statementService := usecase.NewStatementService(repos.Statements, repos.Politicians, repos.Profiles, statementCfg, log).
		WithDisplayCache(displayCache).
		WithEventPublisher(eventPublisher)

	if cfg.Summarizer.Enabled {
		statementService.WithSummarizer(summarizer.NewClient(cfg.Summarizer, log))
		log.Info("statement augmentation enabled",
			zap.String("endpoint", cfg.Summarizer.Endpoint),
			zap.String("model", cfg.Summarizer.Model),
		)
	}

	politicianService := usecase.NewPoliticianService(repos.Politicians, statementCfg, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Verifier:    verifier,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Statements:  statementService,
			Politicians: politicianService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting statement archive API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
