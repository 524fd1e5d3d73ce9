// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"fmt"
	"time"
)

// CreateEventRequest is the publish payload. All timestamps are UTC
// RFC 3339; local entry times are converted at payload-build time so
// the local zone never leaks to the server.
type CreateEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	IsOnline    bool     `json:"is_online"`
	Category    []string `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	ImageURL    string   `json:"image_url,omitempty"`
	Slug        string   `json:"slug"`

	Sessions []SessionPayload `json:"sessions"`
	Tickets  []TicketPayload  `json:"ticket_types"`
}

// TicketPayload is a normalized ticket type as sent to the server. The
// client-local row id is dropped; the server assigns authoritative ids.
type TicketPayload struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Type           string   `json:"type"`
	Price          string   `json:"price"`
	Currency       string   `json:"currency"`
	IsFree         bool     `json:"is_free"`
	TotalSupply    *int     `json:"total_supply"`
	PurchaseLimit  int      `json:"purchase_limit"`
	IsTransferable bool     `json:"is_transferable"`
	IsResellable   bool     `json:"is_resellable"`
	Benefits       []string `json:"benefits,omitempty"`
}

// SessionPayload is one agenda row as sent to the sessions endpoint.
type SessionPayload struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	SpeakerName  string `json:"speaker_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ImageURL     string `json:"image_url,omitempty"`
	SessionOrder int    `json:"session_order"`
}

// BuildCreateRequest converts the draft into the publish payload,
// normalizing every ticket, folding the agenda in as a sessions array,
// and converting entry times to UTC. It fails on unparseable times;
// callers validate before publishing, so an error here means a reducer
// bug let a bad value through.
func (d *Draft) BuildCreateRequest() (*CreateEventRequest, error) {
	startTime, err := toUTC(d.StartTime)
	if err != nil {
		return nil, fmt.Errorf("event start time: %w", err)
	}
	endTime, err := toUTC(d.EndTime)
	if err != nil {
		return nil, fmt.Errorf("event end time: %w", err)
	}
	sessions, err := d.BuildSessionPayloads()
	if err != nil {
		return nil, err
	}

	request := &CreateEventRequest{
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		IsOnline:    d.IsOnline,
		Category:    d.Category,
		Tags:        d.Tags,
		StartTime:   startTime,
		EndTime:     endTime,
		ImageURL:    d.ImageURL,
		Slug:        Slugify(d.Title),
		Sessions:    sessions,
	}

	for _, ticket := range d.Tickets {
		normalized := ticket
		normalized.Normalize()
		payload := TicketPayload{
			Name:           normalized.Name,
			Description:    normalized.Description,
			Type:           normalized.Type,
			Price:          normalized.Price,
			Currency:       normalized.Currency,
			IsFree:         normalized.IsFree,
			PurchaseLimit:  normalized.PurchaseLimit,
			IsTransferable: normalized.IsTransferable,
			IsResellable:   normalized.IsResellable,
			Benefits:       normalized.Benefits,
		}
		// Unlimited supply goes over the wire as JSON null.
		if normalized.TotalSupply != UnlimitedSupply {
			supply := normalized.TotalSupply
			payload.TotalSupply = &supply
		}
		request.Tickets = append(request.Tickets, payload)
	}
	return request, nil
}

// BuildSessionPayloads converts the agenda rows for the sessions
// endpoint, in order, with UTC times.
func (d *Draft) BuildSessionPayloads() ([]SessionPayload, error) {
	var payloads []SessionPayload
	for index, session := range d.Sessions {
		startTime, err := toUTC(session.StartTime)
		if err != nil {
			return nil, fmt.Errorf("session %d start time: %w", index+1, err)
		}
		endTime, err := toUTC(session.EndTime)
		if err != nil {
			return nil, fmt.Errorf("session %d end time: %w", index+1, err)
		}
		payloads = append(payloads, SessionPayload{
			Title:        session.Title,
			Description:  session.Description,
			SpeakerName:  session.SpeakerName,
			StartTime:    startTime,
			EndTime:      endTime,
			ImageURL:     session.ImageURL,
			SessionOrder: session.SessionOrder,
		})
	}
	return payloads, nil
}

func toUTC(value string) (string, error) {
	parsed, err := ParseTime(value)
	if err != nil {
		return "", err
	}
	return parsed.UTC().Format(time.RFC3339), nil
}
