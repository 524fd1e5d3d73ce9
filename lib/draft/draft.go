// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Draft is the event document the wizard accumulates across steps. It
// is mirrored as JSON to the local state store between steps and
// cleared on publish, so every field must round-trip through JSON.
type Draft struct {
	// ID is empty until the event is first persisted; thereafter
	// immutable.
	ID string `json:"id,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	IsOnline    bool   `json:"is_online"`

	// Category and Tags are insertion-ordered sets of short tokens.
	// Mutate them through AddCategory/AddTag so duplicates stay out.
	Category []string `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// StartTime and EndTime are local date-times in TimeLayout.
	// Whenever both are present, StartTime < EndTime.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// ImagePath is a local file pending upload; ImageURL is the
	// object-store URL once uploaded. At most one is meaningful:
	// upload success clears ImagePath and sets ImageURL. ImageHash is
	// the blake3 digest of the uploaded content, kept so re-publishing
	// an unchanged file can skip a second upload.
	ImagePath string `json:"image_path,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	ImageHash string `json:"image_hash,omitempty"`

	// Sessions is ordered; position equals SessionOrder (0-based,
	// dense). Mutate through AppendSession/UpdateSession/RemoveSession.
	Sessions []Session `json:"sessions"`

	// Tickets is the unordered ticket type collection.
	Tickets []TicketType `json:"tickets"`
}

// New returns an empty draft, the state the wizard mounts with.
func New() *Draft {
	return &Draft{}
}

// AddCategory appends a category token unless it is already present
// (case-insensitive). Duplicates are rejected silently; insertion
// order is preserved.
func (d *Draft) AddCategory(value string) {
	d.Category = appendToken(d.Category, value)
}

// RemoveCategory removes a category token by exact value.
func (d *Draft) RemoveCategory(value string) {
	d.Category = removeToken(d.Category, value)
}

// AddTag appends a tag token with the same set semantics as AddCategory.
func (d *Draft) AddTag(value string) {
	d.Tags = appendToken(d.Tags, value)
}

// RemoveTag removes a tag token by exact value.
func (d *Draft) RemoveTag(value string) {
	d.Tags = removeToken(d.Tags, value)
}

func appendToken(set []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return set
	}
	for _, existing := range set {
		if strings.EqualFold(existing, value) {
			return set
		}
	}
	return append(set, value)
}

func removeToken(set []string, value string) []string {
	for index, existing := range set {
		if existing == value {
			return append(set[:index], set[index+1:]...)
		}
	}
	return set
}

// AppendSession adds an empty session row at the end of the list with
// the next dense order index, returning its client-local id.
func (d *Draft) AppendSession() string {
	session := Session{
		ID:           uuid.NewString(),
		SessionOrder: len(d.Sessions),
	}
	d.Sessions = append(d.Sessions, session)
	return session.ID
}

// UpdateSession applies a pointwise patch to the session with the given
// client-local id. Returns false when no such session exists.
func (d *Draft) UpdateSession(id string, patch func(*Session)) bool {
	for index := range d.Sessions {
		if d.Sessions[index].ID == id {
			patch(&d.Sessions[index])
			return true
		}
	}
	return false
}

// RemoveSession drops the session with the given client-local id and
// re-densifies SessionOrder so indices stay 0-based and gap-free.
func (d *Draft) RemoveSession(id string) {
	for index := range d.Sessions {
		if d.Sessions[index].ID == id {
			d.Sessions = append(d.Sessions[:index], d.Sessions[index+1:]...)
			break
		}
	}
	for index := range d.Sessions {
		d.Sessions[index].SessionOrder = index
	}
}

// ValidateSessions checks every session row and aggregates all
// violations, naming each offending row by its 1-based position. An
// empty slice means the agenda may advance. Zero rows is valid: the
// agenda step may be skipped entirely.
func (d *Draft) ValidateSessions() []string {
	var problems []string
	for index, session := range d.Sessions {
		label := fmt.Sprintf("Session %d", index+1)
		problems = append(problems, session.Validate(label)...)
	}
	return problems
}

// ValidateDetails reports whether the basic-details step may advance:
// non-empty title and a valid, fully-entered temporal range.
func (d *Draft) ValidateDetails() []string {
	var problems []string
	if strings.TrimSpace(d.Title) == "" {
		problems = append(problems, "Event name is required")
	}
	if d.StartTime == "" || d.EndTime == "" {
		problems = append(problems, "Event start and end date/time are required")
	} else if result := ValidateRange(d.StartTime, d.EndTime, "Event"); !result.OK {
		problems = append(problems, result.Message)
	}
	return problems
}

// TicketByID returns a pointer into the ticket collection, or nil.
func (d *Draft) TicketByID(id string) *TicketType {
	for index := range d.Tickets {
		if d.Tickets[index].ID == id {
			return &d.Tickets[index]
		}
	}
	return nil
}

// AppendTicket adds an empty ticket row with defaults applied,
// returning its client-local id.
func (d *Draft) AppendTicket() string {
	ticket := TicketType{
		ID:            uuid.NewString(),
		Currency:      "NGN",
		PurchaseLimit: DefaultPurchaseLimit,
		TotalSupply:   UnlimitedSupply,
	}
	d.Tickets = append(d.Tickets, ticket)
	return ticket.ID
}

// UpdateTicket applies a pointwise patch to the ticket with the given
// client-local id. Returns false when no such ticket exists.
func (d *Draft) UpdateTicket(id string, patch func(*TicketType)) bool {
	for index := range d.Tickets {
		if d.Tickets[index].ID == id {
			patch(&d.Tickets[index])
			return true
		}
	}
	return false
}

// RemoveTicket drops the ticket with the given client-local id.
func (d *Draft) RemoveTicket(id string) {
	for index := range d.Tickets {
		if d.Tickets[index].ID == id {
			d.Tickets = append(d.Tickets[:index], d.Tickets[index+1:]...)
			return
		}
	}
}
