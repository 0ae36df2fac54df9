// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// GalleryImage is an uploaded photo shown in the public gallery.
type GalleryImage struct {
	ID          int64
	Title       string
	Alt         string
	Src         string
	Description sql.NullString
	Category    sql.NullString
	CreatedAt   time.Time
	CreatedBy   sql.NullInt64
	UpdatedAt   sql.NullTime
}

const galleryImageColumns = `id, title, alt, src, description, category, created_at, created_by, updated_at`

func scanGalleryImage(row rowScanner) (GalleryImage, error) {
	var g GalleryImage
	err := row.Scan(&g.ID, &g.Title, &g.Alt, &g.Src, &g.Description, &g.Category,
		timeDest(&g.CreatedAt), &g.CreatedBy, nullTimeDest(&g.UpdatedAt))
	return g, err
}

// CreateGalleryImageParams holds the fields for a new gallery image.
type CreateGalleryImageParams struct {
	Title       string
	Alt         string
	Src         string
	Description sql.NullString
	Category    sql.NullString
	CreatedBy   sql.NullInt64
	CreatedAt   time.Time
}

// CreateGalleryImage inserts a gallery image.
func (q *Queries) CreateGalleryImage(ctx context.Context, arg CreateGalleryImageParams) (GalleryImage, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO gallery_images (title, alt, src, description, category, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+galleryImageColumns,
		arg.Title, arg.Alt, arg.Src, arg.Description, arg.Category, arg.CreatedAt.UTC(), arg.CreatedBy,
	)
	g, err := scanGalleryImage(row)
	return g, wrapErr("creating gallery image", err)
}

// ListGalleryImages returns all gallery images, newest first.
func (q *Queries) ListGalleryImages(ctx context.Context) ([]GalleryImage, error) {
	return queryList(ctx, q.db, "listing gallery images",
		`SELECT `+galleryImageColumns+` FROM gallery_images ORDER BY created_at DESC, id DESC`, scanGalleryImage)
}

// GetGalleryImage returns the gallery image with the given id.
func (q *Queries) GetGalleryImage(ctx context.Context, id int64) (GalleryImage, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+galleryImageColumns+` FROM gallery_images WHERE id = ?`, id)
	g, err := scanGalleryImage(row)
	return g, wrapErr("getting gallery image", err)
}

// UpdateGalleryImageParams holds a partial gallery image update.
type UpdateGalleryImageParams struct {
	ID          int64
	Title       sql.NullString
	Alt         sql.NullString
	Src         sql.NullString
	Description sql.NullString
	Category    sql.NullString
	UpdatedAt   time.Time
}

// UpdateGalleryImage merges the presented fields onto the stored image and sets updated_at.
func (q *Queries) UpdateGalleryImage(ctx context.Context, arg UpdateGalleryImageParams) (GalleryImage, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE gallery_images SET
			title = COALESCE(?, title),
			alt = COALESCE(?, alt),
			src = COALESCE(?, src),
			description = COALESCE(?, description),
			category = COALESCE(?, category),
			updated_at = ?
		 WHERE id = ?
		 RETURNING `+galleryImageColumns,
		arg.Title, arg.Alt, arg.Src, arg.Description, arg.Category, arg.UpdatedAt.UTC(), arg.ID,
	)
	g, err := scanGalleryImage(row)
	return g, wrapErr("updating gallery image", err)
}

// DeleteGalleryImage removes the gallery image with the given id.
func (q *Queries) DeleteGalleryImage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = ?`, id)
	if err != nil {
		return wrapErr("deleting gallery image", err)
	}
	return requireAffected("deleting gallery image", res)
}
