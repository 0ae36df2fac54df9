// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"time"

	"github.com/olegiv/arboretum-go/internal/service"
)

// SweepJobName identifies the orphaned upload sweep in logs.
const SweepJobName = "upload-sweep"

// Sweeper removes upload files that no record references.
type Sweeper interface {
	SweepOrphans(ctx context.Context, refs service.ReferenceLister, minAge time.Duration) (int, error)
}

// SweepJob returns a job that deletes orphaned uploads older than minAge.
func SweepJob(uploads Sweeper, refs service.ReferenceLister, minAge time.Duration) JobFunc {
	return func(ctx context.Context) error {
		_, err := uploads.SweepOrphans(ctx, refs, minAge)
		return err
	}
}

// RegisterSweep schedules the orphaned upload sweep. An empty spec disables it.
func (s *Scheduler) RegisterSweep(spec string, uploads Sweeper, refs service.ReferenceLister) error {
	if spec == "" {
		s.logger.Info("upload sweep disabled")
		return nil
	}
	return s.AddJob(SweepJobName, spec, SweepJob(uploads, refs, service.DefaultOrphanAge))
}
