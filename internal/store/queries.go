// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries is the single access point to persisted entities. It is created
// once at startup and injected into every handler that needs it.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// StringList is an ordered list of strings stored as a JSON array.
// A nil list is stored as NULL.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scanning StringList: unsupported type %T", src)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("scanning StringList: %w", err)
	}
	*l = items
	return nil
}

// queryList runs a multi-row query and scans every row with scan.
func queryList[T any](ctx context.Context, db DBTX, op, query string, scan func(rowScanner) (T, error), args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() { _ = rows.Close() }()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return items, nil
}

// utcNullTime normalizes a valid time to UTC so stored values sort lexically.
func utcNullTime(t sql.NullTime) sql.NullTime {
	if t.Valid {
		t.Time = t.Time.UTC()
	}
	return t
}

// timeLayouts are the text encodings a DATETIME column may come back in.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// timeScan accepts a DATETIME value as time.Time or text. The driver only
// converts text by declared column type, which RETURNING clauses may not carry.
type timeScan struct {
	t     *time.Time
	valid *bool
}

func timeDest(t *time.Time) *timeScan { return &timeScan{t: t} }
func nullTimeDest(t *sql.NullTime) *timeScan { return &timeScan{t: &t.Time, valid: &t.Valid} }

// Scan implements sql.Scanner.
func (s *timeScan) Scan(src any) error {
	if src == nil {
		if s.valid == nil {
			return fmt.Errorf("scanning time: unexpected NULL")
		}
		*s.t, *s.valid = time.Time{}, false
		return nil
	}

	var text string
	switch v := src.(type) {
	case time.Time:
		s.set(v)
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("scanning time: unsupported type %T", src)
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			s.set(parsed)
			return nil
		}
	}
	return fmt.Errorf("scanning time: unrecognized format %q", text)
}

func (s *timeScan) set(t time.Time) {
	*s.t = t.UTC()
	if s.valid != nil {
		*s.valid = true
	}
}
