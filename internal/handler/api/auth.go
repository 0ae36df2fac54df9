// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/arboretum-go/internal/auth"
	"github.com/olegiv/arboretum-go/internal/handler"
	"github.com/olegiv/arboretum-go/internal/middleware"
	"github.com/olegiv/arboretum-go/internal/store"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown user or
// a wrong password. The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")

const invalidCredentialsMessage = "Invalid username or password"

// LoginRequest represents the request body for admin login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginFailure is the 401 body of a failed login. RetryAfter is set, in
// seconds, while the username is locked out.
type LoginFailure struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// AuthCheckResponse reports the session state.
type AuthCheckResponse struct {
	Success       bool          `json:"success"`
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// Authenticate verifies a username and password. Legacy bcrypt hashes are
// upgraded to argon2id after a successful check.
func (h *Handler) Authenticate(ctx context.Context, username, password string) (store.User, error) {
	user, err := h.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.CheckDummyPassword(password)
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, fmt.Errorf("loading user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.Password) {
		h.rehashPassword(ctx, user, password)
	}
	return user, nil
}

func (h *Handler) rehashPassword(ctx context.Context, user store.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to rehash password", "user_id", user.ID, "error", err)
		return
	}
	if err := h.queries.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		h.logger.WarnContext(ctx, "failed to store rehashed password", "user_id", user.ID, "error", err)
		return
	}
	h.logger.InfoContext(ctx, "upgraded password hash", "user_id", user.ID)
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req, "Invalid request body") {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if !h.checkRequest(w, r, &req, validationFailed) {
		return
	}

	ctx := r.Context()

	if locked, remaining := h.login.IsLocked(req.Username); locked {
		h.logger.WarnContext(ctx, "login attempt on locked account", "username", req.Username)
		writeLoginFailure(w, remaining)
		return
	}

	user, err := h.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			h.internalError(w, r, "Login failed", err)
			return
		}
		locked, lockout := h.login.RecordFailure(req.Username)
		h.logger.InfoContext(ctx, "failed login",
			"username", req.Username,
			"locked", locked,
			"remaining_attempts", h.login.RemainingAttempts(req.Username),
		)
		if !locked {
			lockout = 0
		}
		writeLoginFailure(w, lockout)
		return
	}

	h.login.RecordSuccess(req.Username)

	// New token on privilege change.
	if err := h.sessions.RenewToken(ctx); err != nil {
		h.internalError(w, r, "Login failed", err)
		return
	}
	h.sessions.Put(ctx, middleware.SessionKeyUserID, user.ID)

	h.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	WriteEntity(w, http.StatusOK, "user", storeUserToResponse(user))
}

func writeLoginFailure(w http.ResponseWriter, retryAfter time.Duration) {
	body := LoginFailure{Success: false, Message: invalidCredentialsMessage}
	if retryAfter > 0 {
		secs := int(math.Ceil(retryAfter.Seconds()))
		body.RetryAfter = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	handler.WriteJSON(w, http.StatusUnauthorized, body)
}

// Logout handles POST /api/admin/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.internalError(w, r, "Logout failed", err)
		return
	}
	if userID != 0 {
		h.logger.InfoContext(r.Context(), "user logged out", "user_id", userID)
	}
	WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// AuthCheck handles GET /api/admin/auth-check. It never fails.
func (h *Handler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		handler.WriteJSON(w, http.StatusOK, AuthCheckResponse{Success: true})
		return
	}
	resp := storeUserToResponse(*user)
	handler.WriteJSON(w, http.StatusOK, AuthCheckResponse{
		Success:       true,
		Authenticated: true,
		User:          &resp,
	})
}
