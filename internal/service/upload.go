// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service contains the upload service that stores admin image
// uploads in a single flat directory served under /uploads/.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/arboretum-go/internal/imaging"
	"github.com/olegiv/arboretum-go/internal/model"
	"github.com/olegiv/arboretum-go/internal/util"
)

// Upload limits
const (
	DefaultMaxUploadSize = 5 * 1024 * 1024 // 5MB
	DefaultUploadDir     = "./uploads"

	// URLPrefix is the public path under which uploads are served.
	URLPrefix = "/uploads/"

	// formOverhead is the extra request body allowance for the other
	// multipart fields and boundaries.
	formOverhead = 64 * 1024
	// maxFormMemory is how much of a multipart form is buffered in memory.
	maxFormMemory = 1 << 20
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")

	// ErrUnsupportedType is returned for files that are not an accepted image.
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// Upload is a file stored in the upload directory.
type Upload struct {
	Filename string
	URL      string
	MimeType string
	Size     int64
}

// UploadService handles image upload storage and cleanup.
type UploadService struct {
	uploadDir string
	maxSize   int64
	logger    *slog.Logger
	now       func() time.Time
}

// NewUploadService creates a new upload service.
func NewUploadService(uploadDir string, maxSize int64, logger *slog.Logger) *UploadService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		uploadDir: uploadDir,
		maxSize:   maxSize,
		logger:    logger,
		now:       time.Now,
	}
}

// Dir returns the upload directory.
func (s *UploadService) Dir() string { return s.uploadDir }

// MaxSize returns the per-file size limit in bytes.
func (s *UploadService) MaxSize() int64 { return s.maxSize }

// MaxRequestSize returns the request body limit for a multipart form
// carrying one file.
func (s *UploadService) MaxRequestSize() int64 { return s.maxSize + formOverhead }

// ParseMultipart parses a multipart request body. Bodies over the request
// limit yield ErrFileTooLarge.
func (s *UploadService) ParseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize())
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrFileTooLarge
		}
		return fmt.Errorf("parsing multipart form: %w", err)
	}
	return nil
}

// SaveFormFile stores the file sent in field of an already parsed multipart
// form. It returns (nil, nil) when no file was sent or when the file is not
// an accepted image, so callers treat a rejected file as an absent one.
func (s *UploadService) SaveFormFile(r *http.Request, field string) (*Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading form file: %w", err)
	}
	defer func() { _ = file.Close() }()

	upload, err := s.Save(file, header)
	if errors.Is(err, ErrUnsupportedType) {
		s.logger.InfoContext(r.Context(), "dropped upload with disallowed type",
			"filename", header.Filename, "content_type", header.Header.Get("Content-Type"))
		return nil, nil
	}
	return upload, err
}

// Save validates an uploaded file and writes it to the upload directory,
// creating the directory on first use.
func (s *UploadService) Save(file multipart.File, header *multipart.FileHeader) (*Upload, error) {
	if header.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	// Declared type first; the content must also decode as that kind of image.
	mimeType := header.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = getMimeTypeFromExtension(header.Filename)
	}
	if !model.IsSupportedImageType(mimeType) {
		return nil, ErrUnsupportedType
	}

	img, err := imaging.Normalize(file)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, ErrUnsupportedType
		}
		return nil, err
	}

	filename := s.uniqueFilename(header.Filename, img.MimeType)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	target, err := util.SafeJoinPath(s.uploadDir, filename)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(s.uploadDir, target, img.Data); err != nil {
		return nil, err
	}

	return &Upload{
		Filename: filename,
		URL:      URLPrefix + filename,
		MimeType: img.MimeType,
		Size:     int64(len(img.Data)),
	}, nil
}

// Remove deletes the file behind a stored upload URL. Failures are logged
// and never returned: a missing file is not an error.
func (s *UploadService) Remove(ctx context.Context, url string) {
	p, ok := s.pathForURL(url)
	if !ok {
		return
	}
	err := os.Remove(p)
	switch {
	case err == nil:
		s.logger.DebugContext(ctx, "removed upload", "url", url)
	case errors.Is(err, os.ErrNotExist):
		s.logger.DebugContext(ctx, "upload already missing", "url", url)
	default:
		s.logger.WarnContext(ctx, "failed to remove upload", "url", url, "error", err)
	}
}

// pathForURL maps "/uploads/<name>" to a file inside the upload directory.
func (s *UploadService) pathForURL(url string) (string, bool) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", false
	}
	name := path.Base(strings.TrimPrefix(url, URLPrefix))
	if name == "." || name == "/" || name == "" {
		return "", false
	}
	p, err := util.SafeJoinPath(s.uploadDir, name)
	if err != nil {
		return "", false
	}
	return p, true
}

// uniqueFilename builds "<unix-millis>-<8 hex>-<slug><ext>". The extension
// follows the detected content type, not the client's filename.
func (s *UploadService) uniqueFilename(original, mimeType string) string {
	ext := model.ExtensionForMimeType(mimeType)
	name := util.SlugifyFilename(original, ext)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s%s", s.now().UnixMilli(), suffix, stem, ext)
}

// writeFileAtomic writes data to a temporary file in dir and renames it
// into place so readers never see a partial upload.
func writeFileAtomic(dir, target string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

func getMimeTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
