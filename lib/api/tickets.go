// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/blocstage/stagehand/lib/netutil"
)

// TicketType is a sellable admission class as the server reports it.
// The live claimable count arrives as remaining where the server
// tracks it separately; otherwise total_supply itself is decremented
// as tickets are claimed and carries the current count. Both are nil
// for unlimited types.
type TicketType struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Type          string   `json:"type"`
	Price         string   `json:"price"`
	Currency      string   `json:"currency"`
	IsFree        bool     `json:"is_free"`
	TotalSupply   *int     `json:"total_supply"`
	Remaining     *int     `json:"remaining"`
	PurchaseLimit int      `json:"purchase_limit"`
	Benefits      []string `json:"benefits,omitempty"`
}

// RemainingSupply returns the claimable count for a capped type,
// preferring the explicit remaining field over total_supply. ok is
// false for unlimited types.
func (t TicketType) RemainingSupply() (count int, ok bool) {
	if t.Remaining != nil {
		return *t.Remaining, true
	}
	if t.TotalSupply != nil {
		return *t.TotalSupply, true
	}
	return 0, false
}

// SoldOut reports whether the type has a supply cap that is exhausted.
func (t TicketType) SoldOut() bool {
	count, capped := t.RemainingSupply()
	return capped && count <= 0
}

// TicketTypes fetches the current ticket inventory for an event. The
// claim flow calls this on entry and again after any claim failure so
// its optimistic counts re-converge with the server.
func (client *Client) TicketTypes(ctx context.Context, eventID string) ([]TicketType, error) {
	response, err := client.get(ctx, "/events/"+url.PathEscape(eventID)+"/tickets")
	if err != nil {
		return nil, fmt.Errorf("ticket types for %s: %w", eventID, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticket types for %s: %w", eventID, statusError(response))
	}

	var result []TicketType
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("ticket types for %s: %w", eventID, err)
	}
	return result, nil
}

// ClaimRequest is the body for claiming tickets of one type. The
// ticketing endpoints use camelCase keys, unlike the snake_case event
// resources.
type ClaimRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	EventID      string `json:"eventId"`
	TicketTypeID string `json:"ticketTypeId"`
	Quantity     int    `json:"quantity"`
}

// ClaimResponse reports the outcome of a successful claim.
type ClaimResponse struct {
	TicketIDs []string `json:"ticket_ids"`
	Message   string   `json:"message,omitempty"`
}

// Claim reserves tickets of the given type. A 409 from the server
// means the claim raced supply exhaustion; IsConflict distinguishes it
// so the claim flow can refresh inventory instead of surfacing a
// generic error.
func (client *Client) Claim(ctx context.Context, ticketTypeID string, request ClaimRequest) (*ClaimResponse, error) {
	response, err := client.post(ctx, "/ticket-types/"+url.PathEscape(ticketTypeID)+"/claim", request)
	if err != nil {
		return nil, fmt.Errorf("claim %s: %w", ticketTypeID, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("claim %s: %w", ticketTypeID, statusError(response))
	}

	var result ClaimResponse
	if err := netutil.DecodeResponse(response.Body, &result); err != nil {
		return nil, fmt.Errorf("claim %s: %w", ticketTypeID, err)
	}
	return &result, nil
}
