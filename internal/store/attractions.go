// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// Attraction is a park attraction with a cover image and an ordered feature list.
type Attraction struct {
	ID          int64
	Title       string
	Description string
	Image       string
	Features    StringList
	CreatedAt   time.Time
	CreatedBy   sql.NullInt64
	UpdatedAt   sql.NullTime
}

const attractionColumns = `id, title, description, image, features, created_at, created_by, updated_at`

func scanAttraction(row rowScanner) (Attraction, error) {
	var a Attraction
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Image, &a.Features,
		timeDest(&a.CreatedAt), &a.CreatedBy, nullTimeDest(&a.UpdatedAt))
	return a, err
}

// CreateAttractionParams holds the fields for a new attraction.
type CreateAttractionParams struct {
	Title       string
	Description string
	Image       string
	Features    StringList
	CreatedBy   sql.NullInt64
	CreatedAt   time.Time
}

// CreateAttraction inserts an attraction.
func (q *Queries) CreateAttraction(ctx context.Context, arg CreateAttractionParams) (Attraction, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO attractions (title, description, image, features, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+attractionColumns,
		arg.Title, arg.Description, arg.Image, arg.Features, arg.CreatedAt.UTC(), arg.CreatedBy,
	)
	a, err := scanAttraction(row)
	return a, wrapErr("creating attraction", err)
}

// ListAttractions returns all attractions, newest first.
func (q *Queries) ListAttractions(ctx context.Context) ([]Attraction, error) {
	return queryList(ctx, q.db, "listing attractions",
		`SELECT `+attractionColumns+` FROM attractions ORDER BY created_at DESC, id DESC`, scanAttraction)
}

// GetAttraction returns the attraction with the given id.
func (q *Queries) GetAttraction(ctx context.Context, id int64) (Attraction, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+attractionColumns+` FROM attractions WHERE id = ?`, id)
	a, err := scanAttraction(row)
	return a, wrapErr("getting attraction", err)
}

// UpdateAttractionParams holds a partial attraction update. A nil Features
// keeps the stored list; a non-nil empty list clears it.
type UpdateAttractionParams struct {
	ID          int64
	Title       sql.NullString
	Description sql.NullString
	Image       sql.NullString
	Features    StringList
	UpdatedAt   time.Time
}

// UpdateAttraction merges the presented fields onto the stored attraction and sets updated_at.
func (q *Queries) UpdateAttraction(ctx context.Context, arg UpdateAttractionParams) (Attraction, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE attractions SET
			title = COALESCE(?, title),
			description = COALESCE(?, description),
			image = COALESCE(?, image),
			features = COALESCE(?, features),
			updated_at = ?
		 WHERE id = ?
		 RETURNING `+attractionColumns,
		arg.Title, arg.Description, arg.Image, arg.Features, arg.UpdatedAt.UTC(), arg.ID,
	)
	a, err := scanAttraction(row)
	return a, wrapErr("updating attraction", err)
}

// DeleteAttraction removes the attraction with the given id.
func (q *Queries) DeleteAttraction(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM attractions WHERE id = ?`, id)
	if err != nil {
		return wrapErr("deleting attraction", err)
	}
	return requireAffected("deleting attraction", res)
}
