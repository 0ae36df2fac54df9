// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// InterestOptions are the values offered by the contact form's interest
// selector. The API accepts any short string; these are the known values.
var InterestOptions = []string{
	"Membership",
	"Making a Donation",
	"Volunteering",
	"Sponsoring a Tree",
	"Other",
}

// CanonicalInterest returns the InterestOptions spelling of v when it
// matches one ignoring case, and v unchanged otherwise.
func CanonicalInterest(v string) string {
	for _, opt := range InterestOptions {
		if strings.EqualFold(opt, v) {
			return opt
		}
	}
	return v
}
