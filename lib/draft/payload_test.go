// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"testing"
	"time"
)

func TestBuildCreateRequest(t *testing.T) {
	document := New()
	document.Title = "Lagos DevFest 2026"
	document.Description = "Two days of talks"
	document.Location = "Landmark Centre"
	document.StartTime = "2026-03-01T09:00:00"
	document.EndTime = "2026-03-02T17:00:00"
	document.ImageURL = "https://cdn.example.com/cover.png"
	document.AddTag("tech")

	ticketID := document.AppendTicket()
	ticket := document.TicketByID(ticketID)
	ticket.Name = "Regular"
	ticket.Type = "regular"
	ticket.IsFree = true
	ticket.Price = "5000"
	ticket.TotalSupply = 100

	sessionID := document.AppendSession()
	document.UpdateSession(sessionID, func(s *Session) {
		s.Title = "Opening keynote"
		s.SpeakerName = "Ada"
		s.StartTime = "2026-03-01T09:30:00"
		s.EndTime = "2026-03-01T10:30:00"
	})

	request, err := document.BuildCreateRequest()
	if err != nil {
		t.Fatalf("BuildCreateRequest: %v", err)
	}

	if request.Slug != "lagos-devfest-2026" {
		t.Errorf("Slug = %q", request.Slug)
	}

	// Times go out as UTC RFC 3339 regardless of the entry zone.
	wantStart, _ := ParseTime(document.StartTime)
	if request.StartTime != wantStart.UTC().Format(time.RFC3339) {
		t.Errorf("StartTime = %q, want %q", request.StartTime, wantStart.UTC().Format(time.RFC3339))
	}
	if parsed, err := time.Parse(time.RFC3339, request.EndTime); err != nil || parsed.Location() != time.UTC {
		t.Errorf("EndTime %q is not UTC RFC 3339", request.EndTime)
	}

	if len(request.Tickets) != 1 {
		t.Fatalf("Tickets = %d, want 1", len(request.Tickets))
	}
	payload := request.Tickets[0]
	if payload.Price != "0" {
		t.Errorf("free ticket price = %q, want 0", payload.Price)
	}
	if payload.TotalSupply == nil || *payload.TotalSupply != 100 {
		t.Errorf("TotalSupply = %v, want 100", payload.TotalSupply)
	}

	// The agenda travels with the create payload.
	if len(request.Sessions) != 1 || request.Sessions[0].Title != "Opening keynote" {
		t.Fatalf("Sessions = %+v, want the agenda row", request.Sessions)
	}
	if _, err := time.Parse(time.RFC3339, request.Sessions[0].StartTime); err != nil {
		t.Errorf("session start time %q not RFC 3339", request.Sessions[0].StartTime)
	}

	// Source draft stays untouched by payload normalization.
	if ticket.Price != "5000" {
		t.Errorf("draft ticket price mutated to %q", ticket.Price)
	}
}

func TestBuildCreateRequestUnlimitedSupply(t *testing.T) {
	document := New()
	document.Title = "Meetup"
	document.StartTime = "2026-03-01T09:00:00"
	document.EndTime = "2026-03-01T12:00:00"
	id := document.AppendTicket()
	document.TicketByID(id).Name = "General"

	request, err := document.BuildCreateRequest()
	if err != nil {
		t.Fatalf("BuildCreateRequest: %v", err)
	}
	if request.Tickets[0].TotalSupply != nil {
		t.Errorf("unlimited supply should serialize as null, got %d", *request.Tickets[0].TotalSupply)
	}
}

func TestBuildCreateRequestBadTime(t *testing.T) {
	document := New()
	document.Title = "Meetup"
	document.StartTime = "whenever"
	document.EndTime = "2026-03-01T12:00:00"
	if _, err := document.BuildCreateRequest(); err == nil {
		t.Fatal("expected error for unparseable start time")
	}
}

func TestBuildSessionPayloads(t *testing.T) {
	document := New()
	for _, title := range []string{"Opening", "Deep Dive"} {
		id := document.AppendSession()
		document.UpdateSession(id, func(s *Session) {
			s.Title = title
			s.SpeakerName = "Ada"
			s.StartTime = "2026-03-01T09:00:00"
			s.EndTime = "2026-03-01T10:00:00"
		})
	}

	payloads, err := document.BuildSessionPayloads()
	if err != nil {
		t.Fatalf("BuildSessionPayloads: %v", err)
	}
	if len(payloads) != 2 {
		t.Fatalf("payloads = %d, want 2", len(payloads))
	}
	for index, payload := range payloads {
		if payload.SessionOrder != index {
			t.Errorf("payload %d has order %d", index, payload.SessionOrder)
		}
		if _, err := time.Parse(time.RFC3339, payload.StartTime); err != nil {
			t.Errorf("payload %d start time %q not RFC 3339", index, payload.StartTime)
		}
	}
}
