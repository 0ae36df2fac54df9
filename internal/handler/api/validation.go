// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/arboretum-go/internal/handler"
	"github.com/olegiv/arboretum-go/internal/service"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationFailed is the default message of a 400 with field errors.
const validationFailed = "Validation failed"

// dateLayouts are the accepted occurrence date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// validate is shared; validator caches struct metadata per instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// parseDate parses an ISO 8601 date or date-time. Values without a zone
// are taken as UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// validationErrors converts validator output into FieldErrors. The second
// result is false for errors that are not field failures.
func validationErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldName(fe), Message: fieldMessage(fe)})
	}
	return out, true
}

// fieldName strips the request struct name from the namespace so nested
// list items read as "features[2]".
func fieldName(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "email":
		return "Must be a valid email address"
	case "isodate":
		return "Must be a date in YYYY-MM-DD or RFC 3339 format"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "Must have at most " + fe.Param() + " items"
		}
		return "Must be at most " + fe.Param() + " characters"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Must have at least " + fe.Param() + " items"
		}
		return "Must be at least " + fe.Param() + " characters"
	default:
		return "Invalid value"
	}
}

// checkRequest validates dst and writes a 400 on failure.
func (h *Handler) checkRequest(w http.ResponseWriter, r *http.Request, dst any, message string) bool {
	err := validate.Struct(dst)
	if err == nil {
		return true
	}
	if fieldErrors, ok := validationErrors(err); ok {
		WriteValidationError(w, message, fieldErrors)
		return false
	}
	h.internalError(w, r, "Failed to validate request", err)
	return false
}

// decodeRequest reads a JSON body into dst. An empty body leaves dst at its
// zero value so required fields are reported by validation.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any, message string) bool {
	if err := handler.DecodeJSON(w, r, dst); err != nil && !errors.Is(err, handler.ErrEmptyBody) {
		WriteError(w, http.StatusBadRequest, message)
		return false
	}
	return true
}

// isMultipart reports whether the request carries a multipart form.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// listFields are form fields that carry a list of strings.
var listFields = map[string]bool{"features": true}

// decodeForm maps multipart form values onto dst through its JSON tags.
// List fields accept repeated values or a single JSON array.
func decodeForm(values map[string][]string, dst any) error {
	m := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if !listFields[key] {
			m[key] = vals[0]
			continue
		}
		list, err := formList(vals)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		m[key] = list
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func formList(vals []string) ([]string, error) {
	if len(vals) == 1 && strings.HasPrefix(strings.TrimSpace(vals[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(vals[0]), &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	list := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list, nil
}

// readInput decodes and validates an admin write body, JSON or multipart.
// With withImage set it then stores the optional "image" file. It returns
// false when a response has already been written. The upload is nil when no
// acceptable file was sent.
func (h *Handler) readInput(w http.ResponseWriter, r *http.Request, dst any, withImage bool) (*service.Upload, bool) {
	if !isMultipart(r) {
		if !decodeRequest(w, r, dst, "Invalid request body") {
			return nil, false
		}
		return nil, h.checkRequest(w, r, dst, validationFailed)
	}

	if err := h.uploads.ParseMultipart(w, r); err != nil {
		if errors.Is(err, service.ErrFileTooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return nil, false
		}
		WriteError(w, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	if err := decodeForm(r.MultipartForm.Value, dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	if !h.checkRequest(w, r, dst, validationFailed) {
		return nil, false
	}
	if !withImage {
		return nil, true
	}

	upload, err := h.uploads.SaveFormFile(r, "image")
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return nil, false
		}
		h.internalError(w, r, "Failed to save upload", err)
		return nil, false
	}
	return upload, true
}

// imageRequired writes the 400 for a create without an accepted image.
func imageRequired(w http.ResponseWriter) {
	WriteValidationError(w, validationFailed, []FieldError{{
		Field:   "image",
		Message: "An image file (JPEG, PNG, GIF or WebP) is required",
	}})
}
