// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

// Step identifies one page of the authoring pipeline. Order is
// navigation order; the user may jump back to any step they have
// already reached but never skip ahead past an unvisited one.
type Step int

const (
	StepDetails Step = iota
	StepCoverMedia
	StepAgenda
	StepTickets
	StepPreview

	stepCount
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "Details"
	case StepCoverMedia:
		return "Cover"
	case StepAgenda:
		return "Agenda"
	case StepTickets:
		return "Tickets"
	case StepPreview:
		return "Preview"
	default:
		return "unknown"
	}
}
