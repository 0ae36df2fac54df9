// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// Event is a scheduled park event. Month, Day and Time are display strings;
// Date is the sortable occurrence time.
type Event struct {
	ID          int64
	Title       string
	Description string
	Date        time.Time
	Month       string
	Day         string
	Time        string
	Location    string
	CreatedAt   time.Time
	CreatedBy   sql.NullInt64
	UpdatedAt   sql.NullTime
}

const eventColumns = `id, title, description, date, month, day, time, location, created_at, created_by, updated_at`

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, timeDest(&e.Date), &e.Month, &e.Day,
		&e.Time, &e.Location, timeDest(&e.CreatedAt), &e.CreatedBy, nullTimeDest(&e.UpdatedAt))
	return e, err
}

// CreateEventParams holds the fields for a new event.
type CreateEventParams struct {
	Title       string
	Description string
	Date        time.Time
	Month       string
	Day         string
	Time        string
	Location    string
	CreatedBy   sql.NullInt64
	CreatedAt   time.Time
}

// CreateEvent inserts an event.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO events (title, description, date, month, day, time, location, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+eventColumns,
		arg.Title, arg.Description, arg.Date.UTC(), arg.Month, arg.Day, arg.Time, arg.Location,
		arg.CreatedAt.UTC(), arg.CreatedBy,
	)
	e, err := scanEvent(row)
	return e, wrapErr("creating event", err)
}

// ListEvents returns all events ordered by occurrence date, latest first.
func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	return queryList(ctx, q.db, "listing events",
		`SELECT `+eventColumns+` FROM events ORDER BY date DESC, id DESC`, scanEvent)
}

// GetEvent returns the event with the given id.
func (q *Queries) GetEvent(ctx context.Context, id int64) (Event, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	return e, wrapErr("getting event", err)
}

// UpdateEventParams holds a partial event update. Invalid (null) fields
// keep their stored value.
type UpdateEventParams struct {
	ID          int64
	Title       sql.NullString
	Description sql.NullString
	Date        sql.NullTime
	Month       sql.NullString
	Day         sql.NullString
	Time        sql.NullString
	Location    sql.NullString
	UpdatedAt   time.Time
}

// UpdateEvent merges the presented fields onto the stored event and sets updated_at.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE events SET
			title = COALESCE(?, title),
			description = COALESCE(?, description),
			date = COALESCE(?, date),
			month = COALESCE(?, month),
			day = COALESCE(?, day),
			time = COALESCE(?, time),
			location = COALESCE(?, location),
			updated_at = ?
		 WHERE id = ?
		 RETURNING `+eventColumns,
		arg.Title, arg.Description, utcNullTime(arg.Date), arg.Month, arg.Day, arg.Time, arg.Location,
		arg.UpdatedAt.UTC(), arg.ID,
	)
	e, err := scanEvent(row)
	return e, wrapErr("updating event", err)
}

// DeleteEvent removes the event with the given id.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return wrapErr("deleting event", err)
	}
	return requireAffected("deleting event", res)
}
