// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Subscription is a newsletter sign-up. Email is unique.
type Subscription struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

// CreateSubscription stores a subscription. The UNIQUE constraint on email
// rejects duplicates with ErrConstraintViolation; there is no check-then-insert.
func (q *Queries) CreateSubscription(ctx context.Context, email string, createdAt time.Time) (Subscription, error) {
	var s Subscription
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO subscriptions (email, created_at) VALUES (?, ?)
		 RETURNING id, email, created_at`,
		email, createdAt.UTC(),
	).Scan(&s.ID, &s.Email, timeDest(&s.CreatedAt))
	return s, wrapErr("creating subscription", err)
}

// ListSubscriptions returns all subscriptions, newest first.
func (q *Queries) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, email, created_at FROM subscriptions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrapErr("listing subscriptions", err)
	}
	defer func() { _ = rows.Close() }()

	var items []Subscription
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(&s.ID, &s.Email, timeDest(&s.CreatedAt)); err != nil {
			return nil, wrapErr("scanning subscription", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing subscriptions", err)
	}
	return items, nil
}
