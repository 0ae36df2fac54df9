// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// ListContactMessages handles GET /api/admin/contact-messages.
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.queries.ListContactMessages(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch contact messages", err)
		return
	}
	WriteEntity(w, http.StatusOK, "messages", mapSlice(messages, storeContactMessageToResponse))
}

// ListSubscriptions handles GET /api/admin/subscriptions.
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.queries.ListSubscriptions(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to fetch subscriptions", err)
		return
	}
	WriteEntity(w, http.StatusOK, "subscriptions", mapSlice(subscriptions, storeSubscriptionToResponse))
}
