// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds constants shared by the upload, validation and API layers.
package model

// Supported image MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// imageExtensions maps each accepted MIME type to its canonical file extension.
var imageExtensions = map[string]string{
	MimeTypeJPEG: ".jpg",
	MimeTypePNG:  ".png",
	MimeTypeGIF:  ".gif",
	MimeTypeWebP: ".webp",
}

// SupportedImageTypes returns the MIME types accepted for uploads.
func SupportedImageTypes() []string {
	return []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP}
}

// IsSupportedImageType reports whether mimeType may be uploaded.
func IsSupportedImageType(mimeType string) bool {
	_, ok := imageExtensions[mimeType]
	return ok
}

// ExtensionForMimeType returns the canonical extension for an accepted
// MIME type, or "" for anything else.
func ExtensionForMimeType(mimeType string) string {
	return imageExtensions[mimeType]
}
