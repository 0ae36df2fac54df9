// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig) http.Header {
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	return rec.Header()
}

func TestSecurityHeaders_Production(t *testing.T) {
	headers := serveWithHeaders(DefaultSecurityHeadersConfig(false))

	if got := headers.Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
	if got := headers.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := headers.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if csp := headers.Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'none'") {
		t.Errorf("CSP = %q, want default-src 'none'", csp)
	}
	if headers.Get("Permissions-Policy") == "" {
		t.Error("Permissions-Policy not set")
	}
}

func TestSecurityHeaders_DevelopmentSkipsHSTS(t *testing.T) {
	headers := serveWithHeaders(DefaultSecurityHeadersConfig(true))

	if got := headers.Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS = %q, want empty in development", got)
	}
	if got := headers.Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
		t.Errorf("Referrer-Policy = %q", got)
	}
}

func TestSecurityHeaders_Disabled(t *testing.T) {
	headers := serveWithHeaders(SecurityHeadersConfig{})

	for _, name := range []string{"Content-Security-Policy", "Strict-Transport-Security", "X-Frame-Options"} {
		if got := headers.Get(name); got != "" {
			t.Errorf("%s = %q, want empty", name, got)
		}
	}
}
