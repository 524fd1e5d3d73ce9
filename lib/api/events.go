// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/netutil"
)

// Event is an event as returned by the server. Timestamps are UTC
// RFC 3339.
type Event struct {
	ID          string   `json:"id"`
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
	Status      string   `json:"status,omitempty"`

	Sessions    []EventSession `json:"sessions,omitempty"`
	TicketTypes []TicketType   `json:"ticket_types,omitempty"`
}

// EventSession is a server-side agenda row.
type EventSession struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	SpeakerName  string `json:"speaker_name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ImageURL     string `json:"image_url,omitempty"`
	SessionOrder int    `json:"session_order"`
}

// Events lists the caller's events, newest first.
func (client *Client) Events(ctx context.Context) ([]Event, error) {
	response, err := client.get(ctx, "/events")
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events: %w", statusError(response))
	}

	var result []Event
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	return result, nil
}

// Event fetches a single event with its sessions and ticket types.
func (client *Client) Event(ctx context.Context, id string) (*Event, error) {
	response, err := client.get(ctx, "/events/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("event %s: %w", id, statusError(response))
	}

	var result Event
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}
	return &result, nil
}

// CreateEvent publishes a new event and returns the server's view of
// it, including the assigned id.
func (client *Client) CreateEvent(ctx context.Context, request *draft.CreateEventRequest) (*Event, error) {
	response, err := client.post(ctx, "/events", request)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create event: %w", statusError(response))
	}

	var result Event
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("create event: empty id in response")
	}
	return &result, nil
}

// ReplaceSessions stores the full agenda for an event. Some server
// deployments accept POST for this route, others only PUT; the client
// tries POST first and retries exactly once with PUT when the server
// rejects the method. Any other failure, including a failure of the
// PUT retry itself, is returned as-is.
func (client *Client) ReplaceSessions(ctx context.Context, eventID string, sessions []draft.SessionPayload) error {
	path := "/events/" + url.PathEscape(eventID) + "/sessions"
	body := struct {
		Sessions []draft.SessionPayload `json:"sessions"`
	}{Sessions: sessions}

	err := client.sendSessions(ctx, http.MethodPost, path, body)
	if err == nil {
		return nil
	}
	if !IsMethodMismatch(err) {
		return fmt.Errorf("replace sessions for %s: %w", eventID, err)
	}
	if err := client.sendSessions(ctx, http.MethodPut, path, body); err != nil {
		return fmt.Errorf("replace sessions for %s: %w", eventID, err)
	}
	return nil
}

func (client *Client) sendSessions(ctx context.Context, method, path string, body any) error {
	response, err := client.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return statusError(response)
	}
	return nil
}
