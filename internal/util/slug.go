// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// extRegex matches a safe file extension
	extRegex = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// Slugify converts a string to a lowercase ASCII slug. Accents are removed
// and other scripts are transliterated.
func Slugify(s string) string {
	// Decompose accents before transliterating the rest
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '.' {
			return '-'
		}
		return r
	}, result)
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// SlugifyFilename returns a safe flat filename for an uploaded file. Any
// directory components are dropped, the stem is slugified and the extension
// lowercased. An empty stem becomes "file"; a missing or unsafe extension
// becomes fallbackExt.
func SlugifyFilename(name, fallbackExt string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))

	ext := strings.ToLower(filepath.Ext(base))
	stem := Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	if len(stem) > 80 {
		stem = strings.TrimRight(stem[:80], "-")
	}
	if !extRegex.MatchString(ext) {
		ext = fallbackExt
	}

	return stem + ext
}
