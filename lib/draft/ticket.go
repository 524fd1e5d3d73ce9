// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package draft

import (
	"strconv"
	"strings"
)

const (
	// UnlimitedSupply is the sentinel for a ticket type with no
	// supply cap. A TotalSupply of 0 means sold out.
	UnlimitedSupply = -1

	// DefaultPurchaseLimit is the per-buyer cap applied to new ticket
	// rows.
	DefaultPurchaseLimit = 5

	// MaxPurchaseLimit bounds the per-buyer cap.
	MaxPurchaseLimit = 10
)

// TicketType is a sellable class of admission.
type TicketType struct {
	// ID is client-local while authoring; the server assigns the
	// authoritative id on publish.
	ID string `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Type is an enum-like token: regular, vip, early-bird, student.
	Type string `json:"type"`

	// Price is a decimal string; Currency an ISO-ish token. IsFree
	// and a non-zero price are mutually exclusive: normalization
	// forces the price to "0" when IsFree is set.
	Price    string `json:"price"`
	Currency string `json:"currency"`
	IsFree   bool   `json:"is_free"`

	// TotalSupply is non-negative, or UnlimitedSupply.
	TotalSupply int `json:"total_supply"`

	// PurchaseLimit is the per-buyer cap, in [1, MaxPurchaseLimit].
	PurchaseLimit int `json:"purchase_limit"`

	IsTransferable bool `json:"is_transferable"`
	IsResellable   bool `json:"is_resellable"`

	// Benefits is an ordered list of short strings.
	Benefits []string `json:"benefits,omitempty"`
}

// TicketTypeNames are the suggested type tokens, in display order.
var TicketTypeNames = []string{"regular", "vip", "early-bird", "student"}

// Normalize applies the submit-time rules: a free ticket's price is
// forced to zero regardless of what the UI holds, an empty or
// malformed price becomes "0", and the purchase limit is clamped into
// its legal range. Supply below the unlimited sentinel collapses to 0.
func (t *TicketType) Normalize() {
	if t.IsFree {
		t.Price = "0"
	}
	if strings.TrimSpace(t.Price) == "" {
		t.Price = "0"
	} else if _, err := strconv.ParseFloat(t.Price, 64); err != nil {
		t.Price = "0"
	}

	if t.PurchaseLimit < 1 {
		t.PurchaseLimit = DefaultPurchaseLimit
	}
	if t.PurchaseLimit > MaxPurchaseLimit {
		t.PurchaseLimit = MaxPurchaseLimit
	}

	if t.TotalSupply < UnlimitedSupply {
		t.TotalSupply = 0
	}
}

// AddBenefit appends a benefit line, ignoring empty input.
func (t *TicketType) AddBenefit(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	t.Benefits = append(t.Benefits, value)
}

// RemoveBenefit drops the benefit at the given position.
func (t *TicketType) RemoveBenefit(index int) {
	if index < 0 || index >= len(t.Benefits) {
		return
	}
	t.Benefits = append(t.Benefits[:index], t.Benefits[index+1:]...)
}

// SupplyLabel renders the supply for display: "Unlimited", "Sold out",
// or the remaining count.
func (t TicketType) SupplyLabel() string {
	switch {
	case t.TotalSupply == UnlimitedSupply:
		return "Unlimited"
	case t.TotalSupply == 0:
		return "Sold out"
	default:
		return strconv.Itoa(t.TotalSupply) + " tickets"
	}
}
