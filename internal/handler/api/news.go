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

// CreateNewsRequest represents the request body for creating a news item.
// Content is Markdown.
type CreateNewsRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Content     string `json:"content" validate:"required,notblank,max=50000"`
	Date        string `json:"date" validate:"required,isodate"`
	DisplayDate string `json:"displayDate" validate:"required,notblank,max=50"`
}

// UpdateNewsRequest represents the request body for updating a news item.
type UpdateNewsRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=200"`
	Content     *string `json:"content" validate:"omitnil,notblank,max=50000"`
	Date        *string `json:"date" validate:"omitnil,isodate"`
	DisplayDate *string `json:"displayDate" validate:"omitnil,notblank,max=50"`
}

// AdminListNews handles GET /api/admin/news.
func (h *Handler) AdminListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.queries.ListNews(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch news", err)
		return
	}
	WriteEntity(w, http.StatusOK, "news", mapSlice(news, storeNewsToResponse))
}

// CreateNews handles POST /api/admin/news. The image is optional.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsRequest
	upload, ok := h.readInput(w, r, &req, true)
	if !ok {
		return
	}

	params := store.CreateNewsParams{
		Title:       req.Title,
		Content:     req.Content,
		DisplayDate: req.DisplayDate,
		CreatedBy:   createdBy(r),
		CreatedAt:   h.now(),
	}
	params.Date, _ = parseDate(req.Date)
	if upload != nil {
		params.ImageURL = util.NullStringFromValue(upload.URL)
	}

	item, err := h.queries.CreateNews(r.Context(), params)
	if err != nil {
		if upload != nil {
			h.uploads.Remove(r.Context(), upload.URL)
		}
		h.storeError(w, r, "news item", "create", err)
		return
	}

	h.lists.Invalidate(r.Context(), cache.KeyNews)
	h.logger.InfoContext(r.Context(), "news item created", "news_id", item.ID)
	WriteEntity(w, http.StatusCreated, "newsItem", storeNewsToResponse(item))
}

// UpdateNews handles PUT /api/admin/news/{id}. A new image replaces the
// stored one and the old file is removed.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(h, w, r, "news item", func(id int64) (store.News, error) {
		return h.queries.GetNews(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateNewsRequest
	upload, ok := h.readInput(w, r, &req, true)
	if !ok {
		return
	}

	params := store.UpdateNewsParams{
		ID:          existing.ID,
		Title:       util.NullStringFromPtr(req.Title),
		Content:     util.NullStringFromPtr(req.Content),
		DisplayDate: util.NullStringFromPtr(req.DisplayDate),
		UpdatedAt:   h.now(),
	}
	if req.Date != nil {
		date, _ := parseDate(*req.Date)
		params.Date = sql.NullTime{Time: date, Valid: true}
	}
	if upload != nil {
		params.ImageURL = util.NullStringFromValue(upload.URL)
	}

	item, err := h.queries.UpdateNews(r.Context(), params)
	if err != nil {
		if upload != nil {
			h.uploads.Remove(r.Context(), upload.URL)
		}
		h.storeError(w, r, "news item", "update", err)
		return
	}

	if upload != nil && existing.ImageURL.Valid && existing.ImageURL.String != upload.URL {
		h.uploads.Remove(r.Context(), existing.ImageURL.String)
	}

	h.lists.Invalidate(r.Context(), cache.KeyNews)
	WriteEntity(w, http.StatusOK, "newsItem", storeNewsToResponse(item))
}

// DeleteNews handles DELETE /api/admin/news/{id}.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	item, ok := requireEntityByID(h, w, r, "news item", func(id int64) (store.News, error) {
		return h.queries.GetNews(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteNews(r.Context(), item.ID); err != nil {
		h.storeError(w, r, "news item", "delete", err)
		return
	}
	if item.ImageURL.Valid {
		h.uploads.Remove(r.Context(), item.ImageURL.String)
	}

	h.lists.Invalidate(r.Context(), cache.KeyNews)
	h.logger.InfoContext(r.Context(), "news item deleted", "news_id", item.ID)
	WriteMessage(w, http.StatusOK, "News item deleted successfully")
}
