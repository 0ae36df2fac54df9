// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// ContactMessage is an append-only message left through the contact form.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Interest  sql.NullString
	Message   string
	CreatedAt time.Time
}

const contactMessageColumns = `id, name, email, interest, message, created_at`

func scanContactMessage(row rowScanner) (ContactMessage, error) {
	var m ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Interest, &m.Message, timeDest(&m.CreatedAt))
	return m, err
}

// CreateContactMessageParams holds the fields for a new contact message.
type CreateContactMessageParams struct {
	Name      string
	Email     string
	Interest  sql.NullString
	Message   string
	CreatedAt time.Time
}

// CreateContactMessage stores a contact message.
func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO contact_messages (name, email, interest, message, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+contactMessageColumns,
		arg.Name, arg.Email, arg.Interest, arg.Message, arg.CreatedAt.UTC(),
	)
	m, err := scanContactMessage(row)
	return m, wrapErr("creating contact message", err)
}

// ListContactMessages returns all messages, newest first.
func (q *Queries) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	return queryList(ctx, q.db, "listing contact messages",
		`SELECT `+contactMessageColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC`,
		scanContactMessage)
}
