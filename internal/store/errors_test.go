// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite3 "modernc.org/sqlite/lib"
)

// codeError mimics a driver error carrying an extended SQLite result code.
type codeError struct{ code int }

func (e codeError) Error() string { return "sqlite error" }
func (e codeError) Code() int     { return e.code }

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique", codeError{sqlite3.SQLITE_CONSTRAINT_UNIQUE}, true},
		{"primary key", codeError{sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY}, true},
		{"foreign key", codeError{sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY}, false},
		{"busy", codeError{sqlite3.SQLITE_BUSY}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestQueries_ClassifiesDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	q := New(db)
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnError(codeError{sqlite3.SQLITE_CONSTRAINT_UNIQUE})
	_, err = q.CreateSubscription(ctx, "dup@example.com", time.Now())
	assert.ErrorIs(t, err, ErrConstraintViolation)

	mock.ExpectQuery("SELECT (.+) FROM events WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = q.GetEvent(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec("DELETE FROM news").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = q.DeleteNews(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT (.+) FROM attractions").WillReturnError(boom)
	_, err = q.ListAttractions(ctx)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConstraintViolation)

	assert.NoError(t, mock.ExpectationsWereMet())
}
