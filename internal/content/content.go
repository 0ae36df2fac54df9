// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content renders news bodies and cleans visitor-submitted text.
package content

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	// htmlSanitizer allows the safe subset of HTML produced by Markdown
	// (links, emphasis, lists, images) and strips scripts and event handlers.
	htmlSanitizer = bluemonday.UGCPolicy()

	// textSanitizer removes every tag.
	textSanitizer = bluemonday.StrictPolicy()

	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// RenderMarkdown converts Markdown to sanitized HTML. Raw HTML embedded in
// the source is escaped by the renderer and anything left is filtered by the
// UGC policy.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// StripHTML removes all markup from s and trims surrounding whitespace.
// Entities produced by the sanitizer are decoded so the stored text reads
// the way it was typed.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(textSanitizer.Sanitize(s)))
}
