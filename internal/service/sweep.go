// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultOrphanAge is how old an unreferenced upload must be before the
// sweep deletes it. Younger files may belong to a request still in flight.
const DefaultOrphanAge = time.Hour

// ReferenceLister returns the upload URLs still referenced by stored records.
type ReferenceLister interface {
	ListUploadReferences(ctx context.Context) ([]string, error)
}

// SweepOrphans deletes files in the upload directory that no record
// references and that were last modified more than minAge ago. It returns
// the number of files removed.
func (s *UploadService) SweepOrphans(ctx context.Context, refs ReferenceLister, minAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading upload directory: %w", err)
	}

	urls, err := refs.ListUploadReferences(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing upload references: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if p, ok := s.pathForURL(u); ok {
			referenced[filepath.Base(p)] = struct{}{}
		}
	}

	cutoff := s.now().Add(-minAge)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.uploadDir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.WarnContext(ctx, "failed to remove orphaned upload", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "removed orphaned uploads", "count", removed)
	}
	return removed, nil
}
