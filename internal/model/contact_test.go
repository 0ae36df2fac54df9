// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestCanonicalInterest(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Volunteering", "Volunteering"},
		{"sponsoring a tree", "Sponsoring a Tree"},
		{"MEMBERSHIP", "Membership"},
		{"Birdwatching", "Birdwatching"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CanonicalInterest(tt.in); got != tt.want {
			t.Errorf("CanonicalInterest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
