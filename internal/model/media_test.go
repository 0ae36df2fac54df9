// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestIsSupportedImageType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"image/tiff", false},
		{"image/svg+xml", false},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsSupportedImageType(tt.mimeType); got != tt.want {
				t.Errorf("IsSupportedImageType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestExtensionForMimeType(t *testing.T) {
	for _, mt := range SupportedImageTypes() {
		if ExtensionForMimeType(mt) == "" {
			t.Errorf("ExtensionForMimeType(%q) is empty", mt)
		}
	}
	if got := ExtensionForMimeType("text/plain"); got != "" {
		t.Errorf("ExtensionForMimeType(text/plain) = %q, want empty", got)
	}
}
