// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session manager.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session cookie names. The __Host- prefix requires Secure, Path=/ and no
// Domain, so it is only used in production.
const (
	CookieName       = "arboretum_session"
	SecureCookieName = "__Host-arboretum_session"
)

// New creates a new session manager backed by the sessions table in db.
// A zero lifetime falls back to 24 hours.
func New(db *sql.DB, lifetime time.Duration, isDev bool) *scs.SessionManager {
	return newManager(sqlite3store.New(db), lifetime, isDev)
}

// NewWithoutCleanup is New without the background expiry sweep, for tests
// that close the database before the process exits.
func NewWithoutCleanup(db *sql.DB, lifetime time.Duration, isDev bool) *scs.SessionManager {
	return newManager(sqlite3store.NewWithCleanupInterval(db, 0), lifetime, isDev)
}

func newManager(store scs.Store, lifetime time.Duration, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store

	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	if !isDev {
		sm.Cookie.Name = SecureCookieName
	}

	return sm
}
