// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/olegiv/arboretum-go/internal/version"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         Pinger
	uploadsDir string
	startTime  time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, uploadsDir string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		uploadsDir: uploadsDir,
		startTime:  time.Now(),
	}
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

// Health reports "healthy" with 200 when the database answers and the upload
// directory is usable, and "degraded" with 503 otherwise. Check results carry
// no error details.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": statusOf(h.db.PingContext(ctx)),
		"uploads":  statusOf(checkDir(h.uploadsDir)),
	}

	status, code := "healthy", http.StatusOK
	for _, c := range checks {
		if c != "healthy" {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	WriteJSON(w, code, HealthStatus{
		Status:  status,
		Version: version.Get().Version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Checks:  checks,
	})
}

func statusOf(err error) string {
	if err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// checkDir accepts a missing directory, which is created on first upload.
func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory")
	}
	return nil
}
