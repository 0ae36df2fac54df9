// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"

	"github.com/olegiv/arboretum-go/internal/cache"
	"github.com/olegiv/arboretum-go/internal/store"
	"github.com/olegiv/arboretum-go/internal/util"
)

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"required,notblank,max=5000"`
	Date        string `json:"date" validate:"required,isodate"`
	Month       string `json:"month" validate:"required,notblank,max=20"`
	Day         string `json:"day" validate:"required,notblank,max=10"`
	Time        string `json:"time" validate:"required,notblank,max=50"`
	Location    string `json:"location" validate:"required,notblank,max=200"`
}

// UpdateEventRequest represents the request body for updating an event.
// Absent fields keep their stored value.
type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,notblank,max=5000"`
	Date        *string `json:"date" validate:"omitnil,isodate"`
	Month       *string `json:"month" validate:"omitnil,notblank,max=20"`
	Day         *string `json:"day" validate:"omitnil,notblank,max=10"`
	Time        *string `json:"time" validate:"omitnil,notblank,max=50"`
	Location    *string `json:"location" validate:"omitnil,notblank,max=200"`
}

// AdminListEvents handles GET /api/admin/events.
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListEvents(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch events", err)
		return
	}
	WriteEntity(w, http.StatusOK, "events", mapSlice(events, storeEventToResponse))
}

// CreateEvent handles POST /api/admin/events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if _, ok := h.readInput(w, r, &req, false); !ok {
		return
	}

	date, _ := parseDate(req.Date)
	event, err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Month:       req.Month,
		Day:         req.Day,
		Time:        req.Time,
		Location:    req.Location,
		CreatedBy:   createdBy(r),
		CreatedAt:   h.now(),
	})
	if err != nil {
		h.storeError(w, r, "event", "create", err)
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyEvents)
	h.logger.InfoContext(r.Context(), "event created", "event_id", event.ID, "user_id", createdBy(r).Int64)
	WriteEntity(w, http.StatusCreated, "event", storeEventToResponse(event))
}

// UpdateEvent handles PUT /api/admin/events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(h, w, r, "event", func(id int64) (store.Event, error) {
		return h.queries.GetEvent(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateEventRequest
	if _, ok := h.readInput(w, r, &req, false); !ok {
		return
	}

	params := store.UpdateEventParams{
		ID:          existing.ID,
		Title:       util.NullStringFromPtr(req.Title),
		Description: util.NullStringFromPtr(req.Description),
		Month:       util.NullStringFromPtr(req.Month),
		Day:         util.NullStringFromPtr(req.Day),
		Time:        util.NullStringFromPtr(req.Time),
		Location:    util.NullStringFromPtr(req.Location),
		UpdatedAt:   h.now(),
	}
	if req.Date != nil {
		date, _ := parseDate(*req.Date)
		params.Date = sql.NullTime{Time: date, Valid: true}
	}

	event, err := h.queries.UpdateEvent(r.Context(), params)
	if err != nil {
		h.storeError(w, r, "event", "update", err)
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyEvents)
	WriteEntity(w, http.StatusOK, "event", storeEventToResponse(event))
}

// DeleteEvent handles DELETE /api/admin/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := requireEntityByID(h, w, r, "event", func(id int64) (store.Event, error) {
		return h.queries.GetEvent(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteEvent(r.Context(), event.ID); err != nil {
		h.storeError(w, r, "event", "delete", err)
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyEvents)
	h.logger.InfoContext(r.Context(), "event deleted", "event_id", event.ID)
	WriteMessage(w, http.StatusOK, "Event deleted successfully")
}
