// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/arboretum-go/internal/auth"
	"github.com/olegiv/arboretum-go/internal/cache"
	"github.com/olegiv/arboretum-go/internal/middleware"
	"github.com/olegiv/arboretum-go/internal/service"
	"github.com/olegiv/arboretum-go/internal/store"
	"github.com/olegiv/arboretum-go/internal/testutil"
)

const testPassword = "Correct-Horse-9"

// testEnv is an API handler mounted the way the server mounts it, backed
// by a fresh database and upload directory.
type testEnv struct {
	db       *sql.DB
	queries  *store.Queries
	sessions *scs.SessionManager
	uploads  *service.UploadService
	handler  *Handler
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	queries := store.New(db)
	logger := testutil.TestLoggerSilent()

	sessions := scs.New()
	uploads := service.NewUploadService(filepath.Join(t.TempDir(), "uploads"), service.DefaultMaxUploadSize, logger)

	memCache := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = memCache.Close() })

	h := NewHandler(Deps{
		Queries:  queries,
		Uploads:  uploads,
		Lists:    cache.NewLists(memCache, time.Minute, logger),
		Sessions: sessions,
		Login: middleware.NewLoginProtection(middleware.LoginProtectionConfig{
			IPRateLimit:       1000,
			IPBurst:           1000,
			MaxFailedAttempts: 3,
			LockoutDuration:   time.Minute,
		}),
		Forms:  middleware.NewGlobalRateLimiter(1000, 1000),
		Logger: logger,
	})

	r := chi.NewRouter()
	r.Use(sessions.LoadAndSave, middleware.LoadUser(sessions, queries))
	r.Route("/api", func(r chi.Router) {
		h.PublicRoutes(r)
		r.Route("/admin", func(r chi.Router) {
			h.SessionRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				h.AdminRoutes(r)
			})
		})
	})

	return &testEnv{
		db:       db,
		queries:  queries,
		sessions: sessions,
		uploads:  uploads,
		handler:  h,
		router:   r,
	}
}

// do serves req, attaching cookie when non-nil.
func (e *testEnv) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// doJSON sends body encoded as JSON.
func (e *testEnv) doJSON(method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req, cookie)
}

// createUser inserts a user whose password is testPassword.
func (e *testEnv) createUser(t *testing.T, username string, isAdmin bool) store.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Username:  username,
		Password:  hash,
		Email:     username + "@example.com",
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return user
}

// login signs in through the API and returns the session cookie.
func (e *testEnv) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := e.doJSON(http.MethodPost, "/api/admin/login",
		map[string]string{"username": username, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

// adminCookie creates an admin user and logs it in.
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	e.createUser(t, "admin", true)
	return e.login(t, "admin")
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("response carries no session cookie")
	return nil
}

// formFile is a file part of a multipart request.
type formFile struct {
	name        string
	contentType string
	data        []byte
}

// multipartRequest builds a multipart/form-data request. Repeated keys in
// fields are sent as repeated values.
func multipartRequest(t *testing.T, method, target string, fields [][2]string, file *formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	if file != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, file.name))
		hdr.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// pngFile returns a small valid PNG upload.
func pngFile(t *testing.T, name string) *formFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &formFile{name: name, contentType: "image/png", data: buf.Bytes()}
}

// decodeBody unmarshals the response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// decodeField unmarshals one top-level field of the response body into dst.
func decodeField(t *testing.T, rec *httptest.ResponseRecorder, field string, dst any) {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	raw, ok := body[field]
	require.True(t, ok, "response has no %q field: %s", field, rec.Body.String())
	require.NoError(t, json.Unmarshal(raw, dst))
}

// errorFields returns the field names of a validation error response.
func errorFields(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	fields := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

// countRows returns the number of rows in table.
func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// steppingClock returns a clock that advances by one second per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
