// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/arboretum-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the store.User of the current session.
const ContextKeyUser ContextKey = "user"

// SessionKeyUserID is the session key binding a session to a user.
const SessionKeyUserID = "user_id"

// UserLoader looks up users by id.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (store.User, error)
}

// errorBody is the JSON shape of middleware error responses.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSONError writes {"success":false,"message":...} with the given status.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Message: message})
}

// LoadUser loads the session's user into the request context. A session that
// points at a user that no longer exists is treated as anonymous and its user
// id is dropped.
func LoadUser(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), SessionKeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					slog.ErrorContext(r.Context(), "failed to load session user", "user_id", userID, "error", err)
					WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				sm.Remove(r.Context(), SessionKeyUserID)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the current user, or nil for anonymous requests.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID, or 0 if anonymous.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// RequireAdmin rejects anonymous requests with 401 and authenticated
// non-admins with 403, in that order. It must run after LoadUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if !user.IsAdmin {
			slog.WarnContext(r.Context(), "access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"user_id", user.ID,
				"remote_addr", r.RemoteAddr,
			)
			WriteJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
