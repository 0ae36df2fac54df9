// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when no row matches the requested id or key.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when a write breaks a uniqueness
	// constraint (duplicate username or subscription email).
	ErrConstraintViolation = errors.New("constraint violation")
)

// sqliteError is implemented by driver errors that carry an extended result code.
type sqliteError interface {
	Code() int
}

// IsUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY violation.
func IsUniqueViolation(err error) bool {
	var se sqliteError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// wrapErr adds operation context to err and maps driver errors onto the
// package sentinels so callers can use errors.Is.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case IsUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// requireAffected turns a zero-row exec result into ErrNotFound.
func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
