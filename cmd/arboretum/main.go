// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/arboretum-go/internal/cache"
	"github.com/olegiv/arboretum-go/internal/config"
	"github.com/olegiv/arboretum-go/internal/handler/api"
	"github.com/olegiv/arboretum-go/internal/logging"
	"github.com/olegiv/arboretum-go/internal/middleware"
	"github.com/olegiv/arboretum-go/internal/scheduler"
	"github.com/olegiv/arboretum-go/internal/server"
	"github.com/olegiv/arboretum-go/internal/service"
	"github.com/olegiv/arboretum-go/internal/session"
	"github.com/olegiv/arboretum-go/internal/store"
	"github.com/olegiv/arboretum-go/internal/version"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	createAdmin := flag.Bool("create-admin", false, "Create the admin user if it does not exist, then exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "arboretum - Nairobi Arboretum content API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_SESSION_SECRET     Secret key material (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_DB_PATH            SQLite database path (default: ./data/arboretum.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_SERVER_HOST        Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_SERVER_PORT        Listen port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_LOG_LEVEL          debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_LOG_FORMAT         text|json (default: text)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_UPLOADS_DIR        Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_REDIS_URL          Redis URL for the response cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_DO_SEED            Create the admin user on startup (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_ADMIN_PASSWORD     Seed admin password (random and logged once if empty)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ARB_SWEEP_SCHEDULE     Cron spec for the orphaned upload sweep (default: @hourly)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("arboretum %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(*createAdmin); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(createAdminOnly bool) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	queries := store.New(db)

	if cfg.DoSeed || createAdminOnly {
		if _, err := store.SeedAdmin(ctx, queries, store.AdminSeed{
			Username: cfg.AdminUsername,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		}); err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		if createAdminOnly {
			return nil
		}
	}

	responseCache, err := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = responseCache.Close() }()
	slog.Info("response cache initialized",
		"backend", cache.Backend(responseCache),
		"url", cache.SanitizeRedisURL(cfg.RedisURL),
	)

	sessionManager := session.New(db, cfg.SessionLife, cfg.IsDevelopment())
	slog.Info("session manager initialized", "lifetime", cfg.SessionLife)

	uploads := service.NewUploadService(cfg.UploadsDir, cfg.MaxUploadSize, logger)
	slog.Info("upload service initialized", "dir", uploads.Dir(), "max_size", cfg.MaxUploadSize)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	formLimiter := middleware.NewGlobalRateLimiter(middleware.DefaultFormRateLimit, middleware.DefaultFormBurst)
	slog.Info("login protection initialized")

	apiHandler := api.NewHandler(api.Deps{
		Queries:  queries,
		Uploads:  uploads,
		Lists:    cache.NewLists(responseCache, cfg.CacheTTLDuration(), logger),
		Sessions: sessionManager,
		Login:    loginProtection,
		Forms:    formLimiter,
		Logger:   logger,
	})

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
	}

	sched := scheduler.New(logger)
	if err := sched.RegisterSweep(cfg.SweepSchedule, uploads, queries); err != nil {
		return fmt.Errorf("scheduling upload sweep: %w", err)
	}
	if err := sched.AddJob("limiter-prune", "@every 10m", func(context.Context) error {
		loginProtection.Prune()
		formLimiter.Prune()
		return nil
	}); err != nil {
		return fmt.Errorf("scheduling limiter prune: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router := server.NewRouter(server.Deps{
		DB:      db,
		Config:  cfg,
		API:     apiHandler,
		Metrics: metrics,
		Logger:  logger,
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads over slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
