// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package upload

// State is the lifecycle of one image attachment.
type State int

const (
	// StateEmpty: no file chosen.
	StateEmpty State = iota
	// StatePending: file chosen and validated, upload not started.
	StatePending
	// StateUploading: request in flight.
	StateUploading
	// StateUploaded: object store accepted the file.
	StateUploaded
	// StateFailed: guard rejection or request failure.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateUploading:
		return "uploading"
	case StateUploaded:
		return "uploaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// holdPercent is where the simulated ramp parks until the server
// responds. The object store gives no transfer progress, so the ramp
// is a pacifier: it must never reach 100 before the response arrives,
// and never move backwards.
const holdPercent = 90

// Progress models the displayed upload percentage. The wizard ticks it
// on a timer while the request is in flight and completes or fails it
// from the response.
type Progress struct {
	state   State
	percent int
	message string
}

// NewProgress returns a Progress in the empty state.
func NewProgress() *Progress {
	return &Progress{}
}

// State returns the current lifecycle state.
func (p *Progress) State() State { return p.state }

// Percent returns the displayed percentage, in [0, 100].
func (p *Progress) Percent() int { return p.percent }

// Message returns the failure message, if any.
func (p *Progress) Message() string { return p.message }

// Select moves empty/failed to pending for a newly chosen file.
func (p *Progress) Select() {
	p.state = StatePending
	p.percent = 0
	p.message = ""
}

// Start moves pending to uploading.
func (p *Progress) Start() {
	if p.state == StatePending {
		p.state = StateUploading
	}
}

// Tick advances the simulated ramp by one step. Monotonic, and parked
// at holdPercent until Complete.
func (p *Progress) Tick() {
	if p.state != StateUploading {
		return
	}
	next := p.percent + 7
	if next > holdPercent {
		next = holdPercent
	}
	p.percent = next
}

// Complete records a successful upload at 100 percent.
func (p *Progress) Complete() {
	p.state = StateUploaded
	p.percent = 100
	p.message = ""
}

// Fail records a guard rejection or request failure. The percentage
// resets so a retry ramps from zero.
func (p *Progress) Fail(message string) {
	p.state = StateFailed
	p.percent = 0
	p.message = message
}

// Clear returns to the empty state, dropping any chosen file.
func (p *Progress) Clear() {
	p.state = StateEmpty
	p.percent = 0
	p.message = ""
}
