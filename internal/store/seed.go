// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/arboretum-go/internal/auth"
)

// Default admin account.
const (
	DefaultAdminUsername = "aboretum"
	DefaultAdminEmail    = "admin@nairobi-arboretum.com"
)

// AdminSeed describes the admin account created by SeedAdmin.
// An empty Password generates a random one that is logged once.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedAdmin creates the admin user when no user with that username exists.
// It reports whether a user was created.
func SeedAdmin(ctx context.Context, q *Queries, seed AdminSeed) (bool, error) {
	if seed.Username == "" {
		seed.Username = DefaultAdminUsername
	}
	if seed.Email == "" {
		seed.Email = DefaultAdminEmail
	}

	// Check if admin user already exists
	_, err := q.GetUserByUsername(ctx, seed.Username)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "username", seed.Username)
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("checking for admin user: %w", err)
	}

	password := seed.Password
	generated := password == ""
	if generated {
		password, err = randomPassword()
		if err != nil {
			return false, err
		}
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}

	user, err := q.CreateUser(ctx, CreateUserParams{
		Username:  seed.Username,
		Password:  passwordHash,
		Email:     seed.Email,
		IsAdmin:   true,
		CreatedAt: time.Now(),
	})
	if errors.Is(err, ErrConstraintViolation) {
		// Created concurrently by another process.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}

	attrs := []any{"id", user.ID, "username", user.Username, "email", user.Email}
	if generated {
		attrs = append(attrs, "password", password)
	}
	slog.Info("created admin user", attrs...)

	return true, nil
}

func randomPassword() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
