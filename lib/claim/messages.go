// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package claim

import "github.com/blocstage/stagehand/lib/api"

// inventoryMsg delivers a ticket inventory snapshot, on entry and
// after any claim failure.
type inventoryMsg struct {
	types []api.TicketType
	err   error
}

// claimResultMsg reports one claim call of the serialized submit queue.
type claimResultMsg struct {
	ticketTypeID string
	quantity     int
	response     *api.ClaimResponse
	err          error
}
