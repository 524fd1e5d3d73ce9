// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"strings"
	"testing"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		ok      bool
		message string
	}{
		{
			name:  "both empty",
			start: "",
			end:   "",
			ok:    true,
		},
		{
			name:  "start only",
			start: "2026-03-01T09:00:00",
			end:   "",
			ok:    true,
		},
		{
			name:  "end only",
			start: "",
			end:   "2026-03-01T17:00:00",
			ok:    true,
		},
		{
			name:  "valid range",
			start: "2026-03-01T09:00:00",
			end:   "2026-03-01T17:00:00",
			ok:    true,
		},
		{
			name:  "minute precision",
			start: "2026-03-01T09:00",
			end:   "2026-03-01T17:00",
			ok:    true,
		},
		{
			name:    "unparseable start",
			start:   "not-a-date",
			end:     "2026-03-01T17:00:00",
			message: "Please enter valid dates and times",
		},
		{
			name:    "unparseable end",
			start:   "2026-03-01T09:00:00",
			end:     "soon",
			message: "Please enter valid dates and times",
		},
		{
			name:    "start equals end",
			start:   "2026-03-01T09:00:00",
			end:     "2026-03-01T09:00:00",
			message: "Event start date/time must be before the end date/time",
		},
		{
			name:    "start after end",
			start:   "2026-03-01T17:00:00",
			end:     "2026-03-01T09:00:00",
			message: "Event start date/time must be before the end date/time",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := ValidateRange(test.start, test.end, "Event")
			if result.OK != test.ok {
				t.Errorf("OK = %v, want %v", result.OK, test.ok)
			}
			if result.Message != test.message {
				t.Errorf("Message = %q, want %q", result.Message, test.message)
			}
		})
	}
}

func TestValidateRangeLabel(t *testing.T) {
	result := ValidateRange("2026-03-01T10:00:00", "2026-03-01T10:00:00", "Session 2")
	if result.OK {
		t.Fatal("expected failure for equal start and end")
	}
	if !strings.HasPrefix(result.Message, "Session 2 ") {
		t.Errorf("message %q does not carry the label", result.Message)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	for _, value := range []string{
		"2026-03-01T09:30:00",
		"2026-03-01T09:30",
		"2026-03-01T09:30:00Z",
	} {
		if _, err := ParseTime(value); err != nil {
			t.Errorf("ParseTime(%q): %v", value, err)
		}
	}
	if _, err := ParseTime("March 1st"); err == nil {
		t.Error("ParseTime accepted garbage")
	}
}
