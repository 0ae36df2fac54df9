// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

// ListUploadReferences returns every stored upload path referenced by a
// news item, gallery image or attraction.
func (q *Queries) ListUploadReferences(ctx context.Context) ([]string, error) {
	return queryList(ctx, q.db, "listing upload references",
		`SELECT image_url FROM news WHERE image_url IS NOT NULL AND image_url <> ''
		 UNION SELECT src FROM gallery_images
		 UNION SELECT image FROM attractions`,
		func(row rowScanner) (string, error) {
			var path string
			err := row.Scan(&path)
			return path, err
		})
}
