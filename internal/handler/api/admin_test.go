// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/arboretum-go/internal/service"
)

func validEvent(title, date string) map[string]string {
	return map[string]string{
		"title":       title,
		"description": "A guided walk through the indigenous tree collection.",
		"date":        date,
		"month":       "JUN",
		"day":         "15",
		"time":        "9:00 AM - 11:00 AM",
		"location":    "Main Gate",
	}
}

// createAttraction posts a multipart attraction with a PNG cover image.
func (e *testEnv) createAttraction(t *testing.T, cookie *http.Cookie, title string) AttractionResponse {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/api/admin/attractions", [][2]string{
		{"title", title},
		{"description", "Shaded trails under the old canopy."},
		{"features", "Guided tours"},
		{"features", "Bird watching"},
	}, pngFile(t, "Forest Trail.png"))
	rec := e.do(req, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var a AttractionResponse
	decodeField(t, rec, "attraction", &a)
	return a
}

// uploadPath maps an /uploads/ URL to the file in the test upload directory.
func (e *testEnv) uploadPath(url string) string {
	return filepath.Join(e.uploads.Dir(), strings.TrimPrefix(url, service.URLPrefix))
}

func TestAdminMutations_AuthOrdering(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "staff", false)
	staff := env.login(t, "staff")
	admin := env.adminCookie(t)

	endpoints := []struct {
		method string
		path   string
		table  string
	}{
		{http.MethodPost, "/api/admin/events", "events"},
		{http.MethodPost, "/api/admin/news", "news"},
		{http.MethodPost, "/api/admin/gallery", "gallery_images"},
		{http.MethodPost, "/api/admin/attractions", "attractions"},
		{http.MethodPut, "/api/admin/events/1", "events"},
		{http.MethodDelete, "/api/admin/attractions/1", "attractions"},
		{http.MethodGet, "/api/admin/contact-messages", "contact_messages"},
		{http.MethodGet, "/api/admin/subscriptions", "subscriptions"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			rec := env.doJSON(ep.method, ep.path, map[string]string{}, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, false, decodeBody(t, rec)["success"])

			rec = env.doJSON(ep.method, ep.path, map[string]string{}, staff)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, false, decodeBody(t, rec)["success"])

			if ep.method == http.MethodPost {
				rec = env.doJSON(ep.method, ep.path, map[string]string{"title": ""}, admin)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, errorFields(t, rec), "title")
			}
			assert.Equal(t, 0, countRows(t, env.db, ep.table))
		})
	}
}

func TestUpdate_InvalidBodyPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	rec := env.doJSON(http.MethodPost, "/api/admin/events", validEvent("Tree planting", "2025-06-15"), admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created EventResponse
	decodeField(t, rec, "event", &created)

	path := "/api/admin/events/" + strconv.FormatInt(created.ID, 10)
	rec = env.doJSON(http.MethodPut, path, map[string]string{"title": "Renamed", "date": "next tuesday"}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"date"}, errorFields(t, rec))

	event, err := env.queries.GetEvent(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tree planting", event.Title)
	assert.False(t, event.UpdatedAt.Valid)
}

func TestEvent_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	input := validEvent("Tree planting day", "2025-06-15T09:00:00Z")
	rec := env.doJSON(http.MethodPost, "/api/admin/events", input, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created EventResponse
	decodeField(t, rec, "event", &created)
	require.NotZero(t, created.ID)

	rec = env.doJSON(http.MethodGet, "/api/events/"+strconv.FormatInt(created.ID, 10), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got EventResponse
	decodeField(t, rec, "event", &got)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, input["title"], got.Title)
	assert.Equal(t, input["description"], got.Description)
	assert.True(t, got.Date.Equal(time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)), "date = %v", got.Date)
	assert.Equal(t, input["month"], got.Month)
	assert.Equal(t, input["day"], got.Day)
	assert.Equal(t, input["time"], got.Time)
	assert.Equal(t, input["location"], got.Location)
	assert.False(t, got.CreatedAt.IsZero())
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	require.NotNil(t, got.CreatedBy)
	assert.Nil(t, got.UpdatedAt)
}

func TestEvents_ListedByDateDescending(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	for _, ev := range []struct{ title, date string }{
		{"Middle", "2025-05-10"},
		{"Latest", "2025-09-01"},
		{"Earliest", "2025-01-20"},
	} {
		rec := env.doJSON(http.MethodPost, "/api/admin/events", validEvent(ev.title, ev.date), admin)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	for _, path := range []string{"/api/events", "/api/admin/events"} {
		rec := env.doJSON(http.MethodGet, path, nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		var events []EventResponse
		decodeField(t, rec, "events", &events)

		titles := make([]string, 0, len(events))
		for _, e := range events {
			titles = append(titles, e.Title)
		}
		assert.Equal(t, []string{"Latest", "Middle", "Earliest"}, titles, path)
	}
}

func TestAttraction_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.handler.now = steppingClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	admin := env.adminCookie(t)

	created := env.createAttraction(t, admin, "Forest Trail")
	assert.Equal(t, []string{"Guided tours", "Bird watching"}, created.Features)
	assert.FileExists(t, env.uploadPath(created.Image))

	path := "/api/admin/attractions/" + strconv.FormatInt(created.ID, 10)

	rec := env.doJSON(http.MethodPut, path, map[string]string{"title": "Old Forest Trail"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var first AttractionResponse
	decodeField(t, rec, "attraction", &first)

	assert.Equal(t, "Old Forest Trail", first.Title)
	assert.Equal(t, created.Description, first.Description)
	assert.Equal(t, created.Image, first.Image)
	assert.Equal(t, created.Features, first.Features)
	require.NotNil(t, first.UpdatedAt)
	assert.True(t, first.UpdatedAt.After(created.CreatedAt))

	rec = env.doJSON(http.MethodPut, path, map[string]any{"features": []string{"Picnic sites"}}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var second AttractionResponse
	decodeField(t, rec, "attraction", &second)

	assert.Equal(t, "Old Forest Trail", second.Title)
	assert.Equal(t, []string{"Picnic sites"}, second.Features)
	require.NotNil(t, second.UpdatedAt)
	assert.True(t, second.UpdatedAt.After(*first.UpdatedAt))
}

func TestAttraction_CreateRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	fields := [][2]string{{"title", "Butterfly garden"}, {"description", "Nectar plants."}}

	tests := []struct {
		name string
		file *formFile
	}{
		{"no file", nil},
		{"disallowed type", &formFile{name: "notes.txt", contentType: "text/plain", data: []byte("hello")}},
		{"not really an image", &formFile{name: "fake.png", contentType: "image/png", data: []byte("hello")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(multipartRequest(t, http.MethodPost, "/api/admin/attractions", fields, tt.file), admin)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, []string{"image"}, errorFields(t, rec))
		})
	}

	assert.Equal(t, 0, countRows(t, env.db, "attractions"))
	entries, _ := os.ReadDir(env.uploads.Dir())
	assert.Empty(t, entries)
}

func TestAttraction_DeleteRemovesImage(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	created := env.createAttraction(t, admin, "Forest Trail")
	file := env.uploadPath(created.Image)
	require.FileExists(t, file)

	rec := env.doJSON(http.MethodDelete, "/api/admin/attractions/"+strconv.FormatInt(created.ID, 10), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NoFileExists(t, file)

	rec = env.doJSON(http.MethodGet, "/api/attractions/"+strconv.FormatInt(created.ID, 10), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/api/admin/attractions/"+strconv.FormatInt(created.ID, 10), nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttraction_DeleteWithMissingImageSucceeds(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	created := env.createAttraction(t, admin, "Forest Trail")
	require.NoError(t, os.Remove(env.uploadPath(created.Image)))

	rec := env.doJSON(http.MethodDelete, "/api/admin/attractions/"+strconv.FormatInt(created.ID, 10), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeBody(t, rec)["success"])
	assert.Equal(t, 0, countRows(t, env.db, "attractions"))
}

func TestGallery_ReplaceImageRemovesOldFile(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	req := multipartRequest(t, http.MethodPost, "/api/admin/gallery", [][2]string{
		{"title", "Sunbird"},
		{"alt", "A sunbird on a flowering branch"},
		{"category", "Birds"},
	}, pngFile(t, "sunbird.png"))
	rec := env.do(req, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created GalleryImageResponse
	decodeField(t, rec, "galleryImage", &created)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Birds", *created.Category)
	assert.Nil(t, created.Description)

	path := "/api/admin/gallery/" + strconv.FormatInt(created.ID, 10)
	req = multipartRequest(t, http.MethodPut, path, [][2]string{{"description", "Morning light"}}, pngFile(t, "sunbird-2.png"))
	rec = env.do(req, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated GalleryImageResponse
	decodeField(t, rec, "galleryImage", &updated)

	assert.NotEqual(t, created.Src, updated.Src)
	assert.Equal(t, "Sunbird", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Morning light", *updated.Description)
	assert.NoFileExists(t, env.uploadPath(created.Src))
	assert.FileExists(t, env.uploadPath(updated.Src))

	// An update without a file keeps the current image.
	rec = env.doJSON(http.MethodPut, path, map[string]string{"alt": "Sunbird feeding"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var kept GalleryImageResponse
	decodeField(t, rec, "galleryImage", &kept)
	assert.Equal(t, updated.Src, kept.Src)
	assert.FileExists(t, env.uploadPath(kept.Src))
}

func TestNews_RendersSanitizedMarkdown(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	rec := env.doJSON(http.MethodPost, "/api/admin/news", map[string]string{
		"title":       "New nature trail",
		"content":     "The trail is **open**.\n\n<script>alert(1)</script>",
		"date":        "2025-04-02",
		"displayDate": "April 2, 2025",
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created NewsResponse
	decodeField(t, rec, "newsItem", &created)
	assert.Nil(t, created.ImageURL)

	rec = env.doJSON(http.MethodGet, "/api/news/"+strconv.FormatInt(created.ID, 10), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got NewsResponse
	decodeField(t, rec, "newsItem", &got)

	assert.Equal(t, created.Content, got.Content)
	assert.Contains(t, got.ContentHTML, "<strong>open</strong>")
	assert.NotContains(t, got.ContentHTML, "<script")
}

func TestNews_DeleteRemovesImage(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	req := multipartRequest(t, http.MethodPost, "/api/admin/news", [][2]string{
		{"title", "Tree census"},
		{"content", "Volunteers counted 350 species."},
		{"date", "2025-02-11"},
		{"displayDate", "February 11, 2025"},
	}, pngFile(t, "census.png"))
	rec := env.do(req, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created NewsResponse
	decodeField(t, rec, "newsItem", &created)
	require.NotNil(t, created.ImageURL)
	file := env.uploadPath(*created.ImageURL)
	require.FileExists(t, file)

	rec = env.doJSON(http.MethodDelete, "/api/admin/news/"+strconv.FormatInt(created.ID, 10), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoFileExists(t, file)
}

func TestAdminInbox(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminCookie(t)

	rec := env.doJSON(http.MethodPost, "/api/subscribe", map[string]string{"email": "a@example.com"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.doJSON(http.MethodPost, "/api/contact", map[string]string{
		"name": "Otieno", "email": "o@example.com", "message": "When are guided walks?",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/admin/subscriptions", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var subs []SubscriptionResponse
	decodeField(t, rec, "subscriptions", &subs)
	require.Len(t, subs, 1)
	assert.Equal(t, "a@example.com", subs[0].Email)

	rec = env.doJSON(http.MethodGet, "/api/admin/contact-messages", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var messages []ContactMessageResponse
	decodeField(t, rec, "messages", &messages)
	require.Len(t, messages, 1)
	assert.Equal(t, "Otieno", messages[0].Name)
	assert.Nil(t, messages[0].Interest)
}
