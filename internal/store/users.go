// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// User is an operator account. Password holds the encoded hash.
type User struct {
	ID        int64
	Username  string
	Password  string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
}

const userColumns = `id, username, password, email, is_admin, created_at`

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.IsAdmin, timeDest(&u.CreatedAt))
	return u, err
}

// CreateUserParams holds the fields for a new user.
type CreateUserParams struct {
	Username  string
	Password  string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
}

// CreateUser inserts a user. A taken username yields ErrConstraintViolation.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password, email, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+userColumns,
		arg.Username, arg.Password, arg.Email, arg.IsAdmin, arg.CreatedAt.UTC(),
	)
	u, err := scanUser(row)
	return u, wrapErr("creating user", err)
}

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	return u, wrapErr("getting user", err)
}

// GetUserByUsername returns the user with the exact (case-sensitive) username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	return u, wrapErr("getting user by username", err)
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return wrapErr("updating user password", err)
	}
	return requireAffected("updating user password", res)
}
