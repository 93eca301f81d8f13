// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command widgets is the entry point for the Yomira comment and rating widget server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the CMS API client.
//  4. Connect to Redis when configured, otherwise keep sessions in memory.
//  5. Load the viewer token verifier when a public key is configured.
//  6. Wire the session registry, the bootstrapper and the HTTP handlers.
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

	"github.com/taibuivan/yomira-widgets/internal/api"
	"github.com/taibuivan/yomira-widgets/internal/cmsapi"
	"github.com/taibuivan/yomira-widgets/internal/page"
	"github.com/taibuivan/yomira-widgets/internal/platform/config"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/middleware"
	redisstore "github.com/taibuivan/yomira-widgets/internal/platform/redis"
	"github.com/taibuivan/yomira-widgets/internal/platform/sec"
	"github.com/taibuivan/yomira-widgets/internal/ui"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Yomira] widgets_initializing")

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
		slog.Bool("comments", cfg.EnableComments),
		slog.Bool("ratings", cfg.EnableRatings),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; stops the sweeper and the rate limiter cleanup.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. CMS Client ─────────────────────────────────────────────────────
	cms, err := cmsapi.New(cfg.CMSBaseURL, cfg.CMSTimeout, log.With(slog.String("module", "cmsapi")))
	must(log, err, "build cms client")

	healthDeps := api.HealthDependencies{CheckUpstream: cms.Ping}

	// ── 4. Session Store ──────────────────────────────────────────────────
	var store page.Store
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, redisstore.Options{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize}, log)
		must(log, err, "connect to redis")
		defer redisstore.Close(rdb, log)
		redisSessions := page.NewRedisStore(rdb)
		store = redisSessions
		healthDeps.CheckSessionStore = redisSessions.Ping
	} else {
		log.Warn("redis_not_configured", slog.String("sessions", "memory"))
		store = page.NewMemoryStore(nil)
	}

	// ── 5. Viewer Identity ────────────────────────────────────────────────
	var verifier middleware.TokenVerifier
	if cfg.JWTPubKeyPath != "" {
		tokens, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, cfg.JWTIssuer)
		must(log, err, "load jwt public key")
		verifier = tokens
	} else {
		log.Warn("jwt_not_configured", slog.String("viewers", "anonymous"))
	}

	// ── 6. Widget Wiring ──────────────────────────────────────────────────
	registry := page.NewRegistry(store, cfg.SessionTTL, log.With(slog.String("module", "sessions")))
	boot := page.NewBootstrapper(page.Features{
		Comments:        cfg.EnableComments,
		Ratings:         cfg.EnableRatings,
		CommentsPerPage: cfg.CommentsPerPage,
	}, cms, registry, ui.Catalog(cfg.Locale), log)
	go registry.Run(appCtx)

	liveness, readiness := api.NewHealthHandlers(healthDeps, log)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Widgets:   page.NewHandler(boot, registry, api.WidgetsPrefix),
	}

	server := api.NewServer(appCtx, cfg, log, verifier, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
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
		appCancel()
		os.Exit(1)
	}
	appCancel()

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
