// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// compressibleContentTypes lists content types that should be compressed.
var compressibleContentTypes = []string{
	"application/json",
	"application/xml",
	"application/javascript",
	"image/svg+xml",
}

// Compress gzip-compresses responses for clients that accept it. Bodies are
// buffered so that only compressible content of at least minSize bytes is
// compressed; everything else is written through unchanged.
func Compress(level, minSize int) func(http.Handler) http.Handler {
	if level < gzip.BestSpeed || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	pool := &sync.Pool{
		New: func() any {
			gz, _ := gzip.NewWriterLevel(io.Discard, level)
			return gz
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			sw := &selectiveWriter{
				ResponseWriter: w,
				pool:           pool,
				minSize:        minSize,
			}
			next.ServeHTTP(sw, r)
			sw.finish()
		})
	}
}

// selectiveWriter buffers a response and decides on compression once the
// handler is done.
type selectiveWriter struct {
	http.ResponseWriter
	pool       *sync.Pool
	minSize    int
	buffer     []byte
	statusCode int
}

func (sw *selectiveWriter) WriteHeader(statusCode int) {
	if sw.statusCode == 0 {
		sw.statusCode = statusCode
	}
}

func (sw *selectiveWriter) Write(b []byte) (int, error) {
	sw.buffer = append(sw.buffer, b...)
	return len(b), nil
}

func (sw *selectiveWriter) finish() {
	if sw.statusCode == 0 && len(sw.buffer) == 0 {
		return
	}

	shouldCompress := len(sw.buffer) > 0 &&
		len(sw.buffer) >= sw.minSize &&
		sw.Header().Get("Content-Encoding") == "" &&
		isCompressible(sw.Header().Get("Content-Type"))

	if shouldCompress {
		sw.Header().Set("Content-Encoding", "gzip")
		sw.Header().Add("Vary", "Accept-Encoding")
		sw.Header().Del("Content-Length")
	}

	if sw.statusCode != 0 {
		sw.ResponseWriter.WriteHeader(sw.statusCode)
	}
	if len(sw.buffer) == 0 {
		return
	}

	if !shouldCompress {
		_, _ = sw.ResponseWriter.Write(sw.buffer)
		return
	}

	gz := sw.pool.Get().(*gzip.Writer)
	gz.Reset(sw.ResponseWriter)
	_, _ = gz.Write(sw.buffer)
	_ = gz.Close()
	sw.pool.Put(gz)
}

// isCompressible checks if the content type should be compressed.
func isCompressible(contentType string) bool {
	if contentType == "" {
		return false
	}

	// Extract the media type without parameters (e.g., charset)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	for _, ct := range compressibleContentTypes {
		if strings.EqualFold(contentType, ct) {
			return true
		}
	}

	return strings.HasPrefix(strings.ToLower(contentType), "text/")
}
