// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// News is a news article with an optional image.
type News struct {
	ID          int64
	Title       string
	Content     string
	Date        time.Time
	DisplayDate string
	ImageURL    sql.NullString
	CreatedAt   time.Time
	CreatedBy   sql.NullInt64
	UpdatedAt   sql.NullTime
}

const newsColumns = `id, title, content, date, display_date, image_url, created_at, created_by, updated_at`

func scanNews(row rowScanner) (News, error) {
	var n News
	err := row.Scan(&n.ID, &n.Title, &n.Content, timeDest(&n.Date), &n.DisplayDate, &n.ImageURL,
		timeDest(&n.CreatedAt), &n.CreatedBy, nullTimeDest(&n.UpdatedAt))
	return n, err
}

// CreateNewsParams holds the fields for a new news item.
type CreateNewsParams struct {
	Title       string
	Content     string
	Date        time.Time
	DisplayDate string
	ImageURL    sql.NullString
	CreatedBy   sql.NullInt64
	CreatedAt   time.Time
}

// CreateNews inserts a news item.
func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (News, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO news (title, content, date, display_date, image_url, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+newsColumns,
		arg.Title, arg.Content, arg.Date.UTC(), arg.DisplayDate, arg.ImageURL, arg.CreatedAt.UTC(), arg.CreatedBy,
	)
	n, err := scanNews(row)
	return n, wrapErr("creating news", err)
}

// ListNews returns all news ordered by date, latest first.
func (q *Queries) ListNews(ctx context.Context) ([]News, error) {
	return queryList(ctx, q.db, "listing news",
		`SELECT `+newsColumns+` FROM news ORDER BY date DESC, id DESC`, scanNews)
}

// GetNews returns the news item with the given id.
func (q *Queries) GetNews(ctx context.Context, id int64) (News, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE id = ?`, id)
	n, err := scanNews(row)
	return n, wrapErr("getting news", err)
}

// UpdateNewsParams holds a partial news update.
type UpdateNewsParams struct {
	ID          int64
	Title       sql.NullString
	Content     sql.NullString
	Date        sql.NullTime
	DisplayDate sql.NullString
	ImageURL    sql.NullString
	UpdatedAt   time.Time
}

// UpdateNews merges the presented fields onto the stored news item and sets updated_at.
func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (News, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE news SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			date = COALESCE(?, date),
			display_date = COALESCE(?, display_date),
			image_url = COALESCE(?, image_url),
			updated_at = ?
		 WHERE id = ?
		 RETURNING `+newsColumns,
		arg.Title, arg.Content, utcNullTime(arg.Date), arg.DisplayDate, arg.ImageURL,
		arg.UpdatedAt.UTC(), arg.ID,
	)
	n, err := scanNews(row)
	return n, wrapErr("updating news", err)
}

// DeleteNews removes the news item with the given id.
func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return wrapErr("deleting news", err)
	}
	return requireAffected("deleting news", res)
}
