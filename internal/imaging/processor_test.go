// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/olegiv/arboretum-go/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeTestImage(t *testing.T, format string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encoding %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		format   string
		wantMime string
	}{
		{"jpeg", model.MimeTypeJPEG},
		{"png", model.MimeTypePNG},
		{"gif", model.MimeTypeGIF},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data := encodeTestImage(t, tt.format, createTestImage(20, 10))

			res, err := Normalize(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if res.MimeType != tt.wantMime {
				t.Errorf("MimeType = %q, want %q", res.MimeType, tt.wantMime)
			}
			if res.Width != 20 || res.Height != 10 {
				t.Errorf("size = %dx%d, want 20x10", res.Width, res.Height)
			}
			if res.Rotated {
				t.Error("image without EXIF should not be rotated")
			}
			if !bytes.Equal(res.Data, data) {
				t.Error("unrotated image bytes should be kept as uploaded")
			}
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("hello, this is not an image")},
		{"pdf", []byte("%PDF-1.4\n%âãÏÓ\n")},
		{"truncated png", encodeTestImage(t, "png", createTestImage(8, 8))[:40]},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Normalize error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png", []byte("\x89PNG\r\n\x1a\n"), "png"},
		{"gif", []byte("GIF89a"), "gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP"), "webp"},
		{"tiff", []byte("II*\x00"), ""},
		{"text", []byte("plain text"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 20, 10},
		{2, 20, 10},
		{3, 20, 10},
		{4, 20, 10},
		{5, 10, 20},
		{6, 10, 20},
		{7, 10, 20},
		{8, 10, 20},
		{0, 20, 10},
		{9, 20, 10},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("orientation_%d", tt.orientation), func(t *testing.T) {
			result := applyOrientation(createTestImage(20, 10), tt.orientation)
			b := result.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}
