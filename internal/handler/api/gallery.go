// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/arboretum-go/internal/cache"
	"github.com/olegiv/arboretum-go/internal/store"
	"github.com/olegiv/arboretum-go/internal/util"
)

// CreateGalleryImageRequest represents the fields sent with a new gallery
// image. The image itself is the multipart "image" file.
type CreateGalleryImageRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Alt         string  `json:"alt" validate:"required,notblank,max=300"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Category    *string `json:"category" validate:"omitnil,max=100"`
}

// UpdateGalleryImageRequest represents the request body for updating a
// gallery image.
type UpdateGalleryImageRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=200"`
	Alt         *string `json:"alt" validate:"omitnil,notblank,max=300"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Category    *string `json:"category" validate:"omitnil,max=100"`
}

// AdminListGallery handles GET /api/admin/gallery.
func (h *Handler) AdminListGallery(w http.ResponseWriter, r *http.Request) {
	images, err := h.queries.ListGalleryImages(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch gallery images", err)
		return
	}
	WriteEntity(w, http.StatusOK, "galleryImages", mapSlice(images, storeGalleryImageToResponse))
}

// CreateGalleryImage handles POST /api/admin/gallery. An accepted image
// file is required.
func (h *Handler) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req CreateGalleryImageRequest
	upload, ok := h.readInput(w, r, &req, true)
	if !ok {
		return
	}
	if upload == nil {
		imageRequired(w)
		return
	}

	image, err := h.queries.CreateGalleryImage(r.Context(), store.CreateGalleryImageParams{
		Title:       req.Title,
		Alt:         req.Alt,
		Src:         upload.URL,
		Description: util.NullStringFromPtr(req.Description),
		Category:    util.NullStringFromPtr(req.Category),
		CreatedBy:   createdBy(r),
		CreatedAt:   h.now(),
	})
	if err != nil {
		h.uploads.Remove(r.Context(), upload.URL)
		h.storeError(w, r, "gallery image", "create", err)
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyGallery)
	h.logger.InfoContext(r.Context(), "gallery image created", "gallery_image_id", image.ID, "src", image.Src)
	WriteEntity(w, http.StatusCreated, "galleryImage", storeGalleryImageToResponse(image))
}

// UpdateGalleryImage handles PUT /api/admin/gallery/{id}.
func (h *Handler) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(h, w, r, "gallery image", func(id int64) (store.GalleryImage, error) {
		return h.queries.GetGalleryImage(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateGalleryImageRequest
	upload, ok := h.readInput(w, r, &req, true)
	if !ok {
		return
	}

	params := store.UpdateGalleryImageParams{
		ID:          existing.ID,
		Title:       util.NullStringFromPtr(req.Title),
		Alt:         util.NullStringFromPtr(req.Alt),
		Description: util.NullStringFromPtr(req.Description),
		Category:    util.NullStringFromPtr(req.Category),
		UpdatedAt:   h.now(),
	}
	if upload != nil {
		params.Src = util.NullStringFromValue(upload.URL)
	}

	image, err := h.queries.UpdateGalleryImage(r.Context(), params)
	if err != nil {
		if upload != nil {
			h.uploads.Remove(r.Context(), upload.URL)
		}
		h.storeError(w, r, "gallery image", "update", err)
		return
	}

	if upload != nil && existing.Src != upload.URL {
		h.uploads.Remove(r.Context(), existing.Src)
	}

	h.lists.Invalidate(r.Context(), cache.KeyGallery)
	WriteEntity(w, http.StatusOK, "galleryImage", storeGalleryImageToResponse(image))
}

// DeleteGalleryImage handles DELETE /api/admin/gallery/{id}.
func (h *Handler) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	image, ok := requireEntityByID(h, w, r, "gallery image", func(id int64) (store.GalleryImage, error) {
		return h.queries.GetGalleryImage(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteGalleryImage(r.Context(), image.ID); err != nil {
		h.storeError(w, r, "gallery image", "delete", err)
		return
	}
	h.uploads.Remove(r.Context(), image.Src)

	h.lists.Invalidate(r.Context(), cache.KeyGallery)
	h.logger.InfoContext(r.Context(), "gallery image deleted", "gallery_image_id", image.ID)
	WriteMessage(w, http.StatusOK, "Gallery image deleted successfully")
}
