// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"time"

	"github.com/olegiv/arboretum-go/internal/content"
	"github.com/olegiv/arboretum-go/internal/store"
	"github.com/olegiv/arboretum-go/internal/util"
)

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	Month       string     `json:"month"`
	Day         string     `json:"day"`
	Time        string     `json:"time"`
	Location    string     `json:"location"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   *int64     `json:"createdBy"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// NewsResponse represents a news item in API responses. ContentHTML is the
// sanitized Markdown rendering of Content.
type NewsResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"contentHtml"`
	Date        time.Time  `json:"date"`
	DisplayDate string     `json:"displayDate"`
	ImageURL    *string    `json:"imageUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   *int64     `json:"createdBy"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// GalleryImageResponse represents a gallery image in API responses.
type GalleryImageResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Alt         string     `json:"alt"`
	Src         string     `json:"src"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   *int64     `json:"createdBy"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// AttractionResponse represents an attraction in API responses.
type AttractionResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Features    []string   `json:"features"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   *int64     `json:"createdBy"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// ContactMessageResponse represents a contact message in API responses.
type ContactMessageResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Interest  *string   `json:"interest"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubscriptionResponse represents a newsletter subscription in API responses.
type SubscriptionResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse is the public view of a user. The password hash is never
// included.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func storeEventToResponse(e store.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Month:       e.Month,
		Day:         e.Day,
		Time:        e.Time,
		Location:    e.Location,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   util.PtrFromNullInt64(e.CreatedBy),
		UpdatedAt:   util.PtrFromNullTime(e.UpdatedAt),
	}
}

func storeNewsToResponse(n store.News) NewsResponse {
	html, err := content.RenderMarkdown(n.Content)
	if err != nil {
		slog.Warn("failed to render news content", "news_id", n.ID, "error", err)
	}
	return NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		ContentHTML: html,
		Date:        n.Date,
		DisplayDate: n.DisplayDate,
		ImageURL:    util.PtrFromNullString(n.ImageURL),
		CreatedAt:   n.CreatedAt,
		CreatedBy:   util.PtrFromNullInt64(n.CreatedBy),
		UpdatedAt:   util.PtrFromNullTime(n.UpdatedAt),
	}
}

func storeGalleryImageToResponse(g store.GalleryImage) GalleryImageResponse {
	return GalleryImageResponse{
		ID:          g.ID,
		Title:       g.Title,
		Alt:         g.Alt,
		Src:         g.Src,
		Description: util.PtrFromNullString(g.Description),
		Category:    util.PtrFromNullString(g.Category),
		CreatedAt:   g.CreatedAt,
		CreatedBy:   util.PtrFromNullInt64(g.CreatedBy),
		UpdatedAt:   util.PtrFromNullTime(g.UpdatedAt),
	}
}

func storeAttractionToResponse(a store.Attraction) AttractionResponse {
	features := []string(a.Features)
	if features == nil {
		features = []string{}
	}
	return AttractionResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Image:       a.Image,
		Features:    features,
		CreatedAt:   a.CreatedAt,
		CreatedBy:   util.PtrFromNullInt64(a.CreatedBy),
		UpdatedAt:   util.PtrFromNullTime(a.UpdatedAt),
	}
}

func storeContactMessageToResponse(m store.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Interest:  util.PtrFromNullString(m.Interest),
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

func storeSubscriptionToResponse(s store.Subscription) SubscriptionResponse {
	return SubscriptionResponse{ID: s.ID, Email: s.Email, CreatedAt: s.CreatedAt}
}

func storeUserToResponse(u store.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}
