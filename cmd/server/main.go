package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MF1DEV/vantora/internal/adapter/httpserver"
	"github.com/MF1DEV/vantora/internal/adapter/metrics"
	"github.com/MF1DEV/vantora/internal/adapter/postgres"
	"github.com/MF1DEV/vantora/internal/adapter/redis"
	"github.com/MF1DEV/vantora/internal/app"
	"github.com/MF1DEV/vantora/internal/platform/config"
	"github.com/MF1DEV/vantora/internal/platform/logging"
	"github.com/MF1DEV/vantora/internal/platform/version"
)

const shutdownTimeout = 10 * time.Second

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *httpserver.Server, appSvc *app.Service) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		// Drain the analytics queue and pending audit writes before exit.
		if err := appSvc.Stop(shutdownCtx); err != nil {
			slog.Error("Service shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().Version)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	// Repositories
	profileRepo := postgres.NewProfileRepo(pool)
	linkRepo := postgres.NewLinkRepo(pool)
	domainRepo := postgres.NewDomainRepo(pool)
	analyticsRepo := postgres.NewAnalyticsRepo(pool)
	auditRepo := postgres.NewAuditRepo(pool)
	statsRepo := postgres.NewStatsRepo(pool)

	statsCache := redis.NewStatsCache(redisClient, statsRepo, cfg.StatsCacheTTL, clock)

	// Metrics
	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	analyticsMetrics := metrics.NewAnalyticsMetrics(registry)

	// Background workers
	dispatcher := app.NewDispatcher(analyticsRepo, linkRepo, analyticsMetrics, cfg.AnalyticsQueueSize)
	auditRecorder := app.NewAuditRecorder(auditRepo)

	appSvc := app.NewService(profileRepo, linkRepo, domainRepo, statsCache, dispatcher, auditRecorder, clock)

	healthChecks := []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}

	srv := httpserver.NewServer(cfg, appSvc, httpMetrics, metrics.Handler(registry), healthChecks)

	done := runGracefulShutdown(srv, appSvc)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
