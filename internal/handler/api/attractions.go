// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/arboretum-go/internal/cache"
	"github.com/olegiv/arboretum-go/internal/store"
	"github.com/olegiv/arboretum-go/internal/util"
)

// CreateAttractionRequest represents the fields sent with a new attraction.
// The cover image is the multipart "image" file.
type CreateAttractionRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"required,notblank,max=5000"`
	Features    []string `json:"features" validate:"max=50,dive,notblank,max=200"`
}

// UpdateAttractionRequest represents the request body for updating an
// attraction. A present features list replaces the stored one.
type UpdateAttractionRequest struct {
	Title       *string   `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string   `json:"description" validate:"omitnil,notblank,max=5000"`
	Features    *[]string `json:"features" validate:"omitnil,max=50,dive,notblank,max=200"`
}

// AdminListAttractions handles GET /api/admin/attractions.
func (h *Handler) AdminListAttractions(w http.ResponseWriter, r *http.Request) {
	attractions, err := h.queries.ListAttractions(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch attractions", err)
		return
	}
	WriteEntity(w, http.StatusOK, "attractions", mapSlice(attractions, storeAttractionToResponse))
}

// CreateAttraction handles POST /api/admin/attractions. An accepted image
// file is required.
func (h *Handler) CreateAttraction(w http.ResponseWriter, r *http.Request) {
	var req CreateAttractionRequest
	upload, ok := h.readInput(w, r, &req, true)
	if !ok {
		return
	}
	if upload == nil {
		imageRequired(w)
		return
	}

	features := store.StringList(req.Features)
	if features == nil {
		features = store.StringList{}
	}

	attraction, err := h.queries.CreateAttraction(r.Context(), store.CreateAttractionParams{
		Title:       req.Title,
		Description: req.Description,
		Image:       upload.URL,
		Features:    features,
		CreatedBy:   createdBy(r),
		CreatedAt:   h.now(),
	})
	if err != nil {
		h.uploads.Remove(r.Context(), upload.URL)
		h.storeError(w, r, "attraction", "create", err)
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyAttractions)
	h.logger.InfoContext(r.Context(), "attraction created", "attraction_id", attraction.ID)
	WriteEntity(w, http.StatusCreated, "attraction", storeAttractionToResponse(attraction))
}

// UpdateAttraction handles PUT /api/admin/attractions/{id}.
func (h *Handler) UpdateAttraction(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(h, w, r, "attraction", func(id int64) (store.Attraction, error) {
		return h.queries.GetAttraction(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateAttractionRequest
	upload, ok := h.readInput(w, r, &req, true)
	if !ok {
		return
	}

	params := store.UpdateAttractionParams{
		ID:          existing.ID,
		Title:       util.NullStringFromPtr(req.Title),
		Description: util.NullStringFromPtr(req.Description),
		UpdatedAt:   h.now(),
	}
	if req.Features != nil {
		params.Features = store.StringList(*req.Features)
		if params.Features == nil {
			params.Features = store.StringList{}
		}
	}
	if upload != nil {
		params.Image = util.NullStringFromValue(upload.URL)
	}

	attraction, err := h.queries.UpdateAttraction(r.Context(), params)
	if err != nil {
		if upload != nil {
			h.uploads.Remove(r.Context(), upload.URL)
		}
		h.storeError(w, r, "attraction", "update", err)
		return
	}

	if upload != nil && existing.Image != upload.URL {
		h.uploads.Remove(r.Context(), existing.Image)
	}

	h.lists.Invalidate(r.Context(), cache.KeyAttractions)
	WriteEntity(w, http.StatusOK, "attraction", storeAttractionToResponse(attraction))
}

// DeleteAttraction handles DELETE /api/admin/attractions/{id}. A missing
// image file does not fail the request.
func (h *Handler) DeleteAttraction(w http.ResponseWriter, r *http.Request) {
	attraction, ok := requireEntityByID(h, w, r, "attraction", func(id int64) (store.Attraction, error) {
		return h.queries.GetAttraction(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteAttraction(r.Context(), attraction.ID); err != nil {
		h.storeError(w, r, "attraction", "delete", err)
		return
	}
	h.uploads.Remove(r.Context(), attraction.Image)

	h.lists.Invalidate(r.Context(), cache.KeyAttractions)
	h.logger.InfoContext(r.Context(), "attraction deleted", "attraction_id", attraction.ID)
	WriteMessage(w, http.StatusOK, "Attraction deleted successfully")
}
