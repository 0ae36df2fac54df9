// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the HTTP router.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/arboretum-go/internal/config"
	"github.com/olegiv/arboretum-go/internal/handler"
	"github.com/olegiv/arboretum-go/internal/handler/api"
	"github.com/olegiv/arboretum-go/internal/middleware"
	"github.com/olegiv/arboretum-go/internal/store"
)

const (
	requestTimeout = 30 * time.Second
	uploadMaxAge   = 30 * 24 * time.Hour

	gzipLevel   = 5
	gzipMinSize = 1024
)

// Deps are the collaborators the router is built from.
type Deps struct {
	DB      *sql.DB
	Config  *config.Config
	API     *api.Handler
	Metrics *middleware.Metrics // nil disables /metrics
	Logger  *slog.Logger
}

// NewRouter returns the application handler.
//
//	/health                 health check
//	/metrics                Prometheus exposition
//	/uploads/*              uploaded images
//	/api/*                  public API
//	/api/admin/*            session endpoints and admin API (CSRF-checked)
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	healthHandler := handler.NewHealthHandler(d.DB, cfg.UploadsDir)
	r.Get("/health", healthHandler.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.With(middleware.StaticCache(uploadMaxAge)).Get("/uploads/*", uploadsHandler(cfg.UploadsDir))

	sessions := d.API.Sessions()
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(csrfKey(cfg.SessionSecret), cfg.IsDevelopment()))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.Compress(gzipLevel, gzipMinSize))
		r.Use(sessions.LoadAndSave)
		r.Use(middleware.LoadUser(sessions, store.New(d.DB)))

		d.API.PublicRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(csrfMiddleware)
			d.API.SessionRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				d.API.AdminRoutes(r)
			})
		})
	})

	logger.Info("router initialized",
		"metrics", d.Metrics != nil,
		"hsts", !cfg.IsDevelopment(),
	)
	return r
}

// uploadsHandler serves files from the flat upload directory. Directory
// listings are never served.
func uploadsHandler(dir string) http.HandlerFunc {
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if name == "" || strings.Contains(name, "/") {
			middleware.WriteJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

// csrfKey returns the first 32 bytes of the session secret, which config
// guarantees is at least that long.
func csrfKey(secret string) []byte {
	key := []byte(secret)
	if len(key) > 32 {
		key = key[:32]
	}
	return key
}
