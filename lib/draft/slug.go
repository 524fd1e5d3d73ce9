// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import "strings"

// Slugify lowercases the title and collapses every run of
// non-alphanumeric characters into a single hyphen, trimming hyphens
// at the ends. "Lagos DevFest 2026!" becomes "lagos-devfest-2026".
func Slugify(title string) string {
	var builder strings.Builder
	builder.Grow(len(title))
	previousHyphen := true
	for _, r := range strings.ToLower(title) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			builder.WriteRune(r)
			previousHyphen = false
			continue
		}
		if !previousHyphen {
			builder.WriteByte('-')
			previousHyphen = true
		}
	}
	return strings.TrimSuffix(builder.String(), "-")
}
