// Copyright (c) 2026 NovelHub. All rights reserved.

// Command api is the entry point for the NovelHub HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the flat-file record store and seed defaults.
//  4. (postgres driver) Connect to PostgreSQL and Redis, run migrations.
//  5. Wire domain services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
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

	"github.com/novelhub/backend/internal/api"
	"github.com/novelhub/backend/internal/core/chapter"
	"github.com/novelhub/backend/internal/core/novel"
	"github.com/novelhub/backend/internal/platform/config"
	"github.com/novelhub/backend/internal/platform/constants"
	"github.com/novelhub/backend/internal/platform/jsonstore"
	"github.com/novelhub/backend/internal/platform/migration"
	pgstore "github.com/novelhub/backend/internal/platform/postgres"
	redisstore "github.com/novelhub/backend/internal/platform/redis"
	"github.com/novelhub/backend/internal/platform/sec"
	"github.com/novelhub/backend/internal/seed"
	"github.com/novelhub/backend/internal/users/account"
	"github.com/novelhub/backend/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Flat-File Record Store ─────────────────────────────────────────
	// Content collections (novels, chapters, bookmarks) are always
	// file-backed; the driver switch below only affects identity storage.
	store, err := jsonstore.New(cfg.DataDir)
	must(log, err, "open record store")

	// Seeding writes the default admin into the file user collection, so it
	// only applies to the file driver. Postgres deployments manage users via
	// migrations.
	if cfg.StoreDriver == config.DriverFile {
		must(log, seed.EnsureDefaults(startupCtx, store, log), "seed default data")
	}

	// ── 4. Token Codec ────────────────────────────────────────────────────
	tokenCodec, err := sec.NewTokenCodec(cfg.JWTSecret)
	must(log, err, "initialize token codec")

	// ── 5. Identity Storage (driver switch) ───────────────────────────────
	var (
		userRepository  auth.UserRepository
		sessionRegistry auth.SessionRegistry
		resetTokenStore auth.ResetTokenStore
		sessionStore    *auth.PostgresSessionStore
		healthDeps      = api.HealthDependencies{CheckStore: store.Ping}
	)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		userRepository = auth.NewPostgresUserRepository(pool)
		sessionStore = auth.NewPostgresSessionStore(pool)
		sessionRegistry = auth.NewCachedSessionRegistry(rdb, sessionStore)
		resetTokenStore = auth.NewRedisResetTokenStore(rdb)

		healthDeps.CheckDatabase = func() error {
			return pgstore.Ping(context.Background(), pool)
		}
		healthDeps.CheckCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}

	default: // config.DriverFile
		userRepository = auth.NewFileUserRepository(store)
		sessionRegistry = auth.NewFileSessionRegistry(store)
		resetTokenStore = auth.NewMemoryResetTokenStore()
	}

	// ── 6. Health Handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	novelRepository := novel.NewFileNovelRepository(store)
	bookmarkRepository := novel.NewFileBookmarkRepository(store)
	chapterRepository := chapter.NewFileChapterRepository(store)

	authService := auth.NewService(userRepository, sessionRegistry, resetTokenStore, tokenCodec, cfg.SessionTTL())
	accountService := account.NewService(userRepository)
	novelService := novel.NewService(novelRepository, bookmarkRepository, userRepository, log)
	chapterService := chapter.NewService(chapterRepository, novelRepository, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Novel:     novel.NewHandler(novelService),
		Chapter:   chapter.NewHandler(chapterService),
	}

	// serverCtx outlives startupCtx; it backs long-lived middleware
	// goroutines (rate-limit cleanup) and is cancelled on shutdown.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, handlers)

	// Redis expires liveness keys by itself; the durable session table needs
	// a periodic sweep to stay bounded.
	if sessionStore != nil {
		go auth.SweepExpiredSessions(serverCtx, sessionStore, constants.SessionSweepInterval, log)
	}

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
