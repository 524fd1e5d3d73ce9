// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"fmt"
	"time"
)

// TimeLayout is the wire and entry format for draft date-times: local
// date-time with second precision, the shape a datetime field produces.
const TimeLayout = "2006-01-02T15:04:05"

// timeLayouts are the accepted entry formats, most precise first.
// Minute precision is accepted because users rarely type seconds.
var timeLayouts = []string{
	TimeLayout,
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseTime parses a draft date-time string in the local time zone.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date/time %q", value)
}

// RangeResult is the outcome of validating a start/end pair.
type RangeResult struct {
	OK      bool
	Message string
}

// ValidateRange checks that start precedes end. The rules, shared by
// the event range and every agenda row:
//
//   - both empty: ok — the user has not entered them yet
//   - either unparseable: error asking for a valid date/time
//   - start >= end: error naming the label
//   - otherwise: ok
//
// A single filled field with the other empty is ok; completeness is
// enforced by the step preconditions, not here.
func ValidateRange(start, end, label string) RangeResult {
	if start == "" || end == "" {
		return RangeResult{OK: true}
	}

	startTime, startErr := ParseTime(start)
	endTime, endErr := ParseTime(end)
	if startErr != nil || endErr != nil {
		return RangeResult{Message: "Please enter valid dates and times"}
	}

	if !startTime.Before(endTime) {
		return RangeResult{Message: fmt.Sprintf("%s start date/time must be before the end date/time", label)}
	}
	return RangeResult{OK: true}
}
