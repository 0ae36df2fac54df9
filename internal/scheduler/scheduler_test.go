// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/arboretum-go/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	s := New(nil)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testLogger())
	if err := s.AddJob("noop", "@hourly", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}
	s.Start()
	s.Stop()
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@hourly", false},
		{"*/15 * * * *", false},
		{"0 3 * * 1", false},
		{"", true},
		{"every hour", true},
		{"* * * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := ValidateSchedule(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestScheduler_RunRecordsFailure(t *testing.T) {
	s := New(testLogger())
	called := false
	s.run("failing", func(ctx context.Context) error {
		called = true
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context has no deadline")
		}
		return errors.New("boom")
	})
	if !called {
		t.Error("job was not invoked")
	}
}

type staticRefs []string

func (r staticRefs) ListUploadReferences(context.Context) ([]string, error) {
	return r, nil
}

func TestSweepJob_RemovesOrphans(t *testing.T) {
	dir := t.TempDir()
	uploads := service.NewUploadService(dir, service.DefaultMaxUploadSize, testLogger())

	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"kept.jpg", "orphan.jpg"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, old, old); err != nil {
			t.Fatal(err)
		}
	}

	job := SweepJob(uploads, staticRefs{"/uploads/kept.jpg"}, time.Hour)
	if err := job(context.Background()); err != nil {
		t.Fatalf("sweep job error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "kept.jpg")); err != nil {
		t.Errorf("referenced file removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "orphan.jpg")); !os.IsNotExist(err) {
		t.Errorf("orphaned file still present, stat err = %v", err)
	}
}

func TestRegisterSweep(t *testing.T) {
	uploads := service.NewUploadService(t.TempDir(), 0, testLogger())

	s := New(testLogger())
	if err := s.RegisterSweep("", uploads, staticRefs{}); err != nil {
		t.Fatalf("RegisterSweep(empty) error = %v", err)
	}
	if n := len(s.cron.Entries()); n != 0 {
		t.Errorf("entries = %d, want 0 when disabled", n)
	}

	if err := s.RegisterSweep("@hourly", uploads, staticRefs{}); err != nil {
		t.Fatalf("RegisterSweep error = %v", err)
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}

	if err := s.RegisterSweep("bogus", uploads, staticRefs{}); err == nil {
		t.Error("RegisterSweep(bogus) error = nil, want error")
	}
}
