// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the PortfolioHub HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool, retried with backoff).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Wire session security, auth service and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/portfoliohub/internal/api"
	"github.com/taibuivan/portfoliohub/internal/platform/config"
	"github.com/taibuivan/portfoliohub/internal/platform/constants"
	"github.com/taibuivan/portfoliohub/internal/platform/metrics"
	"github.com/taibuivan/portfoliohub/internal/platform/migration"
	pgstore "github.com/taibuivan/portfoliohub/internal/platform/postgres"
	redisstore "github.com/taibuivan/portfoliohub/internal/platform/redis"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
	"github.com/taibuivan/portfoliohub/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("redis_enabled", cfg.RedisEnabled()),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled),
	)

	if cfg.SessionSecretIsDefault() {
		log.Warn("session_secret_default_in_use",
			slog.String("hint", "set SESSION_SECRET; sessions signed with the fallback are forgeable"),
		)
	}

	// Root context for startup, bounded so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var (
		rdb          *goredis.Client
		loginLimiter auth.LoginLimiter
		checkCache   api.HealthCheck
	)
	if cfg.RedisEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		loginLimiter = auth.NewLoginLimiter(rdb)
		checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	} else {
		log.Warn("login_throttle_disabled", slog.String("reason", "REDIS_URL is empty"))
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Session Security & Auth ────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.SessionSecret), constants.AuthIssuer, constants.SessionTTL)
	must(log, err, "initialize session tokens")
	cookie := sec.NewSessionCookie(tokens, cfg.IsProduction())

	var registry *metrics.Registry
	var events auth.EventRecorder
	if cfg.MetricsEnabled {
		registry = metrics.New()
		events = registry
	}

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		sec.NewPasswordHasher(sec.PasswordCost),
		tokens,
		loginLimiter,
		events,
	)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    checkCache,
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	server := api.NewServer(serverCtx, cfg, log,
		api.Session{Resolver: authService, Reader: cookie},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      auth.NewHandler(authService, cookie),
			Metrics:   registry,
		},
	)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
