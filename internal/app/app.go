package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayo6706/remittance-core/internal/api"
	"github.com/ayo6706/remittance-core/internal/api/handler"
	"github.com/ayo6706/remittance-core/internal/api/middleware"
	"github.com/ayo6706/remittance-core/internal/config"
	"github.com/ayo6706/remittance-core/internal/db"
	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/idempotency"
	"github.com/ayo6706/remittance-core/internal/observability"
	"github.com/ayo6706/remittance-core/internal/repository"
	"github.com/ayo6706/remittance-core/internal/service"
	"github.com/ayo6706/remittance-core/internal/worker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Run bootstraps the HTTP server and rate audit worker, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("database migrations applied")
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	redisClient, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	repo := repository.NewRepository(pool)
	store := service.NewStore(repo)
	idemStore := idempotency.NewStore(redisClient, repo, cfg.IdempotencyTTL)

	resolver := fx.NewResolver(cfg.BaseCurrency)
	audit := service.NewAuditService()
	snapshots := service.NewRateSnapshotter(store, redisClient, cfg.RateSnapshotTTL)
	services := api.Services{
		Currencies:  service.NewCurrencyService(store, snapshots, audit),
		Conversions: service.NewConversionService(snapshots, resolver),
		Commissions: service.NewCommissionService(store, audit),
	}

	auditWorker := worker.NewRateAuditWorker(service.NewRateAuditService(snapshots, resolver)).
		WithInterval(cfg.RateAuditInterval)
	stopWorker := auditWorker.Run(ctx)
	logger.Info("rate audit worker started",
		zap.Duration("interval", cfg.RateAuditInterval),
		zap.String("base_currency", resolver.BaseCurrency()),
	)

	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	router := api.NewRouter(logger, auth, handler.NewHealthHandler(pool, redisClient), services, idemStore, api.Limits{
		PublicRPS: cfg.PublicRateLimitRPS,
		AuthRPS:   cfg.AuthRateLimitRPS,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			stopWorker()
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping rate audit worker")
	stopWorker()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
