// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/olegiv/arboretum-go/internal/cache"
	"github.com/olegiv/arboretum-go/internal/content"
	"github.com/olegiv/arboretum-go/internal/model"
	"github.com/olegiv/arboretum-go/internal/store"
	"github.com/olegiv/arboretum-go/internal/util"
)

// ContactRequest represents the request body for the contact form.
type ContactRequest struct {
	Name     string  `json:"name" validate:"required,notblank,max=200"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Interest *string `json:"interest" validate:"omitnil,max=100"`
	Message  string  `json:"message" validate:"required,notblank,max=5000"`
}

// SubscribeRequest represents the request body for a newsletter subscription.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// Contact handles POST /api/contact.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	const invalid = "Invalid form data"

	var req ContactRequest
	if !decodeRequest(w, r, &req, invalid) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if !h.checkRequest(w, r, &req, invalid) {
		return
	}

	message := content.StripHTML(req.Message)
	if message == "" {
		WriteValidationError(w, invalid, []FieldError{{Field: "message", Message: "Must not be blank"}})
		return
	}

	var interest *string
	if req.Interest != nil {
		if v := strings.TrimSpace(*req.Interest); v != "" {
			v = model.CanonicalInterest(v)
			interest = &v
		}
	}

	_, err := h.queries.CreateContactMessage(r.Context(), store.CreateContactMessageParams{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Interest:  util.NullStringFromPtr(interest),
		Message:   message,
		CreatedAt: h.now(),
	})
	if err != nil {
		h.internalError(w, r, "An error occurred while sending your message. Please try again later.", err)
		return
	}

	WriteMessage(w, http.StatusCreated, "Your message has been sent successfully!")
}

// Subscribe handles POST /api/subscribe. Emails are stored lowercased so
// the unique constraint catches case variants.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	const invalid = "Invalid email address"

	var req SubscribeRequest
	if !decodeRequest(w, r, &req, invalid) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !h.checkRequest(w, r, &req, invalid) {
		return
	}

	_, err := h.queries.CreateSubscription(r.Context(), req.Email, h.now())
	if err != nil {
		if errors.Is(err, store.ErrConstraintViolation) {
			WriteError(w, http.StatusConflict, "This email is already subscribed to our newsletter.")
			return
		}
		h.internalError(w, r, "An error occurred while processing your subscription. Please try again later.", err)
		return
	}

	WriteMessage(w, http.StatusCreated, "You have been successfully subscribed to our newsletter!")
}

// serveList writes a cached list body, or loads, encodes and caches it.
func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, key, field string, load func(context.Context) (any, error)) {
	body, err := h.lists.Load(r.Context(), key, func(ctx context.Context) ([]byte, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]any{"success": true, field: items})
	})
	if err != nil {
		h.internalError(w, r, "Failed to fetch "+field, err)
		return
	}
	writeRawJSON(w, body)
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ListEvents handles GET /api/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, cache.KeyEvents, "events", func(ctx context.Context) (any, error) {
		events, err := h.queries.ListEvents(ctx)
		return mapSlice(events, storeEventToResponse), err
	})
}

// GetEvent handles GET /api/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := requireEntityByID(h, w, r, "event", func(id int64) (store.Event, error) {
		return h.queries.GetEvent(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteEntity(w, http.StatusOK, "event", storeEventToResponse(event))
}

// ListNews handles GET /api/news.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, cache.KeyNews, "news", func(ctx context.Context) (any, error) {
		news, err := h.queries.ListNews(ctx)
		return mapSlice(news, storeNewsToResponse), err
	})
}

// GetNews handles GET /api/news/{id}.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	item, ok := requireEntityByID(h, w, r, "news item", func(id int64) (store.News, error) {
		return h.queries.GetNews(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteEntity(w, http.StatusOK, "newsItem", storeNewsToResponse(item))
}

// ListGallery handles GET /api/gallery.
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, cache.KeyGallery, "galleryImages", func(ctx context.Context) (any, error) {
		images, err := h.queries.ListGalleryImages(ctx)
		return mapSlice(images, storeGalleryImageToResponse), err
	})
}

// GetGalleryImage handles GET /api/gallery/{id}.
func (h *Handler) GetGalleryImage(w http.ResponseWriter, r *http.Request) {
	image, ok := requireEntityByID(h, w, r, "gallery image", func(id int64) (store.GalleryImage, error) {
		return h.queries.GetGalleryImage(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteEntity(w, http.StatusOK, "galleryImage", storeGalleryImageToResponse(image))
}

// ListAttractions handles GET /api/attractions.
func (h *Handler) ListAttractions(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, cache.KeyAttractions, "attractions", func(ctx context.Context) (any, error) {
		attractions, err := h.queries.ListAttractions(ctx)
		return mapSlice(attractions, storeAttractionToResponse), err
	})
}

// GetAttraction handles GET /api/attractions/{id}.
func (h *Handler) GetAttraction(w http.ResponseWriter, r *http.Request) {
	attraction, ok := requireEntityByID(h, w, r, "attraction", func(id int64) (store.Attraction, error) {
		return h.queries.GetAttraction(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteEntity(w, http.StatusOK, "attraction", storeAttractionToResponse(attraction))
}
