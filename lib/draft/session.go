// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"fmt"
	"strings"
)

// Session is a speaker-led block inside an event.
type Session struct {
	// ID is client-local, used only for list diffing in the agenda
	// step. It is never sent to the server.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SpeakerName string `json:"speaker_name"`

	// StartTime and EndTime are local date-times in TimeLayout;
	// StartTime < EndTime whenever both are present.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// ImageURL is the speaker image after upload, if any.
	ImageURL string `json:"image_url,omitempty"`

	// SessionOrder is the 0-based dense position in the agenda.
	SessionOrder int `json:"session_order"`
}

// Validate returns all violations for this row, prefixed with label.
// A row that exists must be complete: title, speaker, and a valid
// temporal range.
func (s Session) Validate(label string) []string {
	var problems []string
	if strings.TrimSpace(s.Title) == "" {
		problems = append(problems, fmt.Sprintf("%s: title is required", label))
	}
	if strings.TrimSpace(s.SpeakerName) == "" {
		problems = append(problems, fmt.Sprintf("%s: speaker is required", label))
	}

	switch {
	case s.StartTime == "" || s.EndTime == "":
		problems = append(problems, fmt.Sprintf("%s: start and end date/time are required", label))
	default:
		if result := ValidateRange(s.StartTime, s.EndTime, label); !result.OK {
			problems = append(problems, result.Message)
		}
	}
	return problems
}
