// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST API for the arboretum site: public
// content and forms, the admin session endpoints and admin content CRUD.
package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/arboretum-go/internal/cache"
	"github.com/olegiv/arboretum-go/internal/handler"
	"github.com/olegiv/arboretum-go/internal/middleware"
	"github.com/olegiv/arboretum-go/internal/service"
	"github.com/olegiv/arboretum-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	queries  *store.Queries
	uploads  *service.UploadService
	lists    *cache.Lists
	sessions *scs.SessionManager
	login    *middleware.LoginProtection
	forms    *middleware.GlobalRateLimiter
	logger   *slog.Logger
	now      func() time.Time
}

// Deps are the collaborators of a Handler. Lists, Login and Forms may be nil.
type Deps struct {
	Queries  *store.Queries
	Uploads  *service.UploadService
	Lists    *cache.Lists
	Sessions *scs.SessionManager
	Login    *middleware.LoginProtection
	Forms    *middleware.GlobalRateLimiter // per-IP limit on contact and subscribe
	Logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Login == nil {
		d.Login = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}
	if d.Forms == nil {
		d.Forms = middleware.NewGlobalRateLimiter(middleware.DefaultFormRateLimit, middleware.DefaultFormBurst)
	}
	return &Handler{
		queries:  d.Queries,
		uploads:  d.Uploads,
		lists:    d.Lists,
		sessions: d.Sessions,
		login:    d.Login,
		forms:    d.Forms,
		logger:   d.Logger,
		now:      time.Now,
	}
}

// Sessions returns the session manager the login endpoints write to.
func (h *Handler) Sessions() *scs.SessionManager {
	return h.sessions
}

// PublicRoutes registers the unauthenticated content and form endpoints.
// The form endpoints are rate limited per client IP.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.forms.Middleware())
		r.Post("/contact", h.Contact)
		r.Post("/subscribe", h.Subscribe)
	})

	r.Get("/events", h.ListEvents)
	r.Get("/events/{id}", h.GetEvent)
	r.Get("/news", h.ListNews)
	r.Get("/news/{id}", h.GetNews)
	r.Get("/gallery", h.ListGallery)
	r.Get("/gallery/{id}", h.GetGalleryImage)
	r.Get("/attractions", h.ListAttractions)
	r.Get("/attractions/{id}", h.GetAttraction)
}

// SessionRoutes registers login, logout and auth-check. Login is wrapped
// with the per-IP rate limit.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.With(h.login.Middleware).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/auth-check", h.AuthCheck)
}

// AdminRoutes registers the admin content endpoints. The caller must guard
// them with middleware.RequireAdmin.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/events", h.AdminListEvents)
	r.Post("/events", h.CreateEvent)
	r.Put("/events/{id}", h.UpdateEvent)
	r.Delete("/events/{id}", h.DeleteEvent)

	r.Get("/news", h.AdminListNews)
	r.Post("/news", h.CreateNews)
	r.Put("/news/{id}", h.UpdateNews)
	r.Delete("/news/{id}", h.DeleteNews)

	r.Get("/gallery", h.AdminListGallery)
	r.Post("/gallery", h.CreateGalleryImage)
	r.Put("/gallery/{id}", h.UpdateGalleryImage)
	r.Delete("/gallery/{id}", h.DeleteGalleryImage)

	r.Get("/attractions", h.AdminListAttractions)
	r.Post("/attractions", h.CreateAttraction)
	r.Put("/attractions/{id}", h.UpdateAttraction)
	r.Delete("/attractions/{id}", h.DeleteAttraction)

	r.Get("/contact-messages", h.ListContactMessages)
	r.Get("/subscriptions", h.ListSubscriptions)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// MessageResponse is a success body that carries only a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteEntity writes {"success": true, <key>: value}.
func WriteEntity(w http.ResponseWriter, statusCode int, key string, value any) {
	handler.WriteJSON(w, statusCode, map[string]any{"success": true, key: value})
}

// WriteMessage writes {"success": true, "message": message}.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	handler.WriteJSON(w, statusCode, MessageResponse{Success: true, Message: message})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	handler.WriteJSON(w, statusCode, ErrorResponse{Success: false, Message: message})
}

// WriteValidationError writes a 400 response listing the failing fields.
func WriteValidationError(w http.ResponseWriter, message string, fieldErrors []FieldError) {
	handler.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}

// internalError logs err and answers with a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.ErrorContext(r.Context(), message, "error", err)
	WriteError(w, http.StatusInternalServerError, message)
}

// storeError maps storage errors onto 404, 409 and 500.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, entityName, action string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, capitalizeFirst(entityName)+" not found")
	case errors.Is(err, store.ErrConstraintViolation):
		WriteError(w, http.StatusConflict, capitalizeFirst(entityName)+" already exists")
	default:
		h.internalError(w, r, "Failed to "+action+" "+entityName, err)
	}
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true if successful, or zero value and false if error (response written).
func requireEntityByID[T any](h *Handler, w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := handler.ParseIDParam(r)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid "+entityName+" ID")
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		h.storeError(w, r, entityName, "retrieve", err)
		return zero, false
	}

	return entity, true
}

// createdBy returns the id of the acting user for audit columns.
func createdBy(r *http.Request) sql.NullInt64 {
	id := middleware.GetUserID(r)
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// mapSlice converts store rows to responses. The result is never nil so
// empty lists encode as [].
func mapSlice[S, R any](items []S, fn func(S) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
