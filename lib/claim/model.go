// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package claim implements the attendee ticket claim flow: pick
// quantities from the live inventory, enter contact details, and submit
// one claim per selected ticket type.
//
// Inventory counts are optimistic: a successful claim decrements the
// local snapshot immediately, and any failure re-fetches the snapshot
// so the display re-converges with the server. Claim calls are strictly
// serialized; at most one is in flight.
package claim

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blocstage/stagehand/lib/api"
	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/session"
	"github.com/blocstage/stagehand/lib/tui"
)

type phase int

const (
	phaseLoading phase = iota
	phaseSelection
	phaseContact
	phaseSubmitting
	phaseDone
)

// Contact field order.
const (
	contactFieldFirst = iota
	contactFieldLast
	contactFieldEmail
	contactFieldPhone
	contactFieldCount
)

// Deps are the claim flow's collaborators. Watchdog may be nil when
// the flow runs unauthenticated.
type Deps struct {
	Client   *api.Client
	Watchdog *session.Watchdog
	Logger   *slog.Logger
	Theme    tui.Theme
	Keys     KeyMap
}

// row pairs a server ticket type with the locally chosen quantity.
type row struct {
	ticket   api.TicketType
	quantity int
}

// claimTask is one pending claim call of the serialized submit queue.
type claimTask struct {
	ticketTypeID string
	quantity     int
}

// Model is the claim flow controller.
type Model struct {
	deps    Deps
	eventID string

	phase  phase
	rows   []row
	cursor int

	first textinput.Model
	last  textinput.Model
	email textinput.Model
	phone textinput.Model
	focus int

	queue   []claimTask
	claimed []string

	problems []string
	notice   string

	width  int
	height int
}

// New creates the claim flow for one event.
func New(deps Deps, eventID string) *Model {
	makeInput := func(placeholder string) textinput.Model {
		input := textinput.New()
		input.Placeholder = placeholder
		input.CharLimit = 120
		return input
	}
	model := &Model{
		deps:    deps,
		eventID: eventID,
		first:   makeInput("First name"),
		last:    makeInput("Last name"),
		email:   makeInput("Email"),
		phone:   makeInput("Phone"),
		width:   100,
		height:  40,
	}
	model.first.Focus()
	return model
}

// Claimed returns the ticket ids issued across all successful claims.
func (model *Model) Claimed() []string { return model.claimed }

// Init fetches the initial inventory snapshot.
func (model *Model) Init() tea.Cmd {
	return model.fetchInventory()
}

func (model *Model) fetchInventory() tea.Cmd {
	client := model.deps.Client
	eventID := model.eventID
	return func() tea.Msg {
		types, err := client.TicketTypes(context.Background(), eventID)
		return inventoryMsg{types: types, err: err}
	}
}

// Update is the controller reducer.
func (model *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := message.(type) {
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		return model, nil

	case inventoryMsg:
		return model.handleInventory(typed)

	case claimResultMsg:
		return model.handleClaimResult(typed)

	case tea.KeyMsg:
		if model.deps.Watchdog != nil {
			model.deps.Watchdog.Activity()
		}
		return model.handleKey(typed)
	}

	return model, nil
}

// handleInventory folds a fresh snapshot into the rows, preserving the
// quantities already chosen where the type still exists, re-clamped
// against the new counts.
func (model *Model) handleInventory(message inventoryMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		model.problems = []string{fmt.Sprintf("loading tickets: %v", message.err)}
		if model.phase == phaseLoading {
			model.phase = phaseSelection
		}
		return model, nil
	}

	previous := make(map[string]int, len(model.rows))
	for _, existing := range model.rows {
		previous[existing.ticket.ID] = existing.quantity
	}

	model.rows = model.rows[:0]
	for _, ticket := range message.types {
		quantity := previous[ticket.ID]
		if limit := maxSelectable(ticket); quantity > limit {
			quantity = limit
		}
		model.rows = append(model.rows, row{ticket: ticket, quantity: quantity})
	}
	if model.cursor >= len(model.rows) {
		model.cursor = 0
	}
	if model.phase == phaseLoading {
		model.phase = phaseSelection
	}
	return model, nil
}

func (model *Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.deps.Keys
	if key.Matches(message, keys.Quit) {
		return model, tea.Quit
	}

	switch model.phase {
	case phaseSelection:
		return model.updateSelection(message)
	case phaseContact:
		return model.updateContact(message)
	case phaseDone:
		if key.Matches(message, keys.Continue) || key.Matches(message, keys.Back) {
			return model, tea.Quit
		}
	}
	// phaseLoading and phaseSubmitting ignore everything but quit.
	return model, nil
}

// --- Selection phase ---

// maxSelectable is the per-type quantity ceiling: the purchase limit,
// further capped by remaining supply when the server tracks it.
func maxSelectable(ticket api.TicketType) int {
	limit := ticket.PurchaseLimit
	if limit < 1 {
		limit = draft.DefaultPurchaseLimit
	}
	if limit > draft.MaxPurchaseLimit {
		limit = draft.MaxPurchaseLimit
	}
	if supply, capped := ticket.RemainingSupply(); capped && supply < limit {
		limit = supply
	}
	if limit < 0 {
		limit = 0
	}
	return limit
}

func (model *Model) updateSelection(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.deps.Keys
	switch {
	case key.Matches(message, keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, keys.Down):
		if model.cursor < len(model.rows)-1 {
			model.cursor++
		}
	case key.Matches(message, keys.Increase):
		model.adjustQuantity(+1)
	case key.Matches(message, keys.Decrease):
		model.adjustQuantity(-1)
	case key.Matches(message, keys.Continue):
		if model.totalQuantity() == 0 {
			model.notice = "select at least one ticket"
			return model, nil
		}
		model.notice = ""
		model.problems = nil
		model.phase = phaseContact
		model.setContactFocus(contactFieldFirst)
	}
	return model, nil
}

func (model *Model) adjustQuantity(delta int) {
	if model.cursor >= len(model.rows) {
		return
	}
	selected := &model.rows[model.cursor]
	if selected.ticket.SoldOut() {
		model.notice = "sold out"
		return
	}
	model.notice = ""

	quantity := selected.quantity + delta
	limit := maxSelectable(selected.ticket)
	if quantity < 0 {
		quantity = 0
	}
	if quantity > limit {
		quantity = limit
	}
	selected.quantity = quantity
}

func (model *Model) totalQuantity() int {
	total := 0
	for _, selected := range model.rows {
		total += selected.quantity
	}
	return total
}

// totalPrice sums the selected subtotals. Prices are decimal strings;
// a malformed one counts as zero, matching the free-ticket rendering.
func (model *Model) totalPrice() (float64, string) {
	total := 0.0
	currency := ""
	for _, selected := range model.rows {
		if selected.quantity == 0 || selected.ticket.IsFree {
			continue
		}
		price, err := strconv.ParseFloat(selected.ticket.Price, 64)
		if err != nil {
			continue
		}
		total += price * float64(selected.quantity)
		if currency == "" {
			currency = selected.ticket.Currency
		}
	}
	return total, currency
}

// --- Contact phase ---

func (model *Model) updateContact(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.deps.Keys
	switch {
	case key.Matches(message, keys.Back):
		model.phase = phaseSelection
		model.problems = nil
		return model, nil
	case key.Matches(message, keys.Up):
		model.setContactFocus((model.focus + contactFieldCount - 1) % contactFieldCount)
		return model, nil
	case key.Matches(message, keys.Down):
		model.setContactFocus((model.focus + 1) % contactFieldCount)
		return model, nil
	case key.Matches(message, keys.Continue):
		if model.focus < contactFieldCount-1 {
			model.setContactFocus(model.focus + 1)
			return model, nil
		}
		return model.startSubmit()
	}

	var command tea.Cmd
	switch model.focus {
	case contactFieldFirst:
		model.first, command = model.first.Update(message)
	case contactFieldLast:
		model.last, command = model.last.Update(message)
	case contactFieldEmail:
		model.email, command = model.email.Update(message)
	case contactFieldPhone:
		model.phone, command = model.phone.Update(message)
	}
	return model, command
}

func (model *Model) setContactFocus(target int) {
	model.focus = target
	inputs := []*textinput.Model{&model.first, &model.last, &model.email, &model.phone}
	for index, input := range inputs {
		if index == target {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

// validateContact returns all violations; every field is required.
func (model *Model) validateContact() []string {
	var problems []string
	if strings.TrimSpace(model.first.Value()) == "" {
		problems = append(problems, "First name is required")
	}
	if strings.TrimSpace(model.last.Value()) == "" {
		problems = append(problems, "Last name is required")
	}
	email := strings.TrimSpace(model.email.Value())
	if email == "" {
		problems = append(problems, "Email is required")
	} else if !strings.Contains(email, "@") {
		problems = append(problems, "Please enter a valid email address")
	}
	if strings.TrimSpace(model.phone.Value()) == "" {
		problems = append(problems, "Phone number is required")
	}
	return problems
}

// --- Submit phase ---

// startSubmit validates the contact details and kicks off the
// serialized claim queue, one call per selected ticket type.
func (model *Model) startSubmit() (tea.Model, tea.Cmd) {
	if problems := model.validateContact(); len(problems) > 0 {
		model.problems = problems
		return model, nil
	}
	model.problems = nil

	model.queue = model.queue[:0]
	for _, selected := range model.rows {
		if selected.quantity > 0 {
			model.queue = append(model.queue, claimTask{
				ticketTypeID: selected.ticket.ID,
				quantity:     selected.quantity,
			})
		}
	}
	if len(model.queue) == 0 {
		model.phase = phaseSelection
		model.notice = "select at least one ticket"
		return model, nil
	}

	model.phase = phaseSubmitting
	return model, model.nextClaim()
}

// nextClaim pops the queue head and issues it. The queue invariant is
// that exactly one claim is in flight until it empties or fails.
func (model *Model) nextClaim() tea.Cmd {
	task := model.queue[0]
	model.queue = model.queue[1:]

	client := model.deps.Client
	request := api.ClaimRequest{
		FirstName:    strings.TrimSpace(model.first.Value()),
		LastName:     strings.TrimSpace(model.last.Value()),
		Email:        strings.TrimSpace(model.email.Value()),
		Phone:        strings.TrimSpace(model.phone.Value()),
		EventID:      model.eventID,
		TicketTypeID: task.ticketTypeID,
		Quantity:     task.quantity,
	}
	return func() tea.Msg {
		response, err := client.Claim(context.Background(), task.ticketTypeID, request)
		return claimResultMsg{
			ticketTypeID: task.ticketTypeID,
			quantity:     task.quantity,
			response:     response,
			err:          err,
		}
	}
}

func (model *Model) handleClaimResult(message claimResultMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		// Keep the selection and contact details so the user can
		// retry, but re-fetch the inventory: a conflict means the
		// optimistic counts have drifted from the server.
		model.phase = phaseSelection
		model.queue = model.queue[:0]
		if api.IsConflict(message.err) {
			model.problems = []string{"Those tickets just sold out. The availability below has been refreshed."}
		} else {
			model.problems = []string{fmt.Sprintf("claim failed: %v", message.err)}
		}
		model.deps.Logger.Warn("claim failed", "ticket_type", message.ticketTypeID, "error", message.err)
		return model, model.fetchInventory()
	}

	model.claimed = append(model.claimed, message.response.TicketIDs...)
	for index := range model.rows {
		selected := &model.rows[index]
		if selected.ticket.ID != message.ticketTypeID {
			continue
		}
		// Decrement whichever field the server reported the count in.
		if supply, capped := selected.ticket.RemainingSupply(); capped {
			remaining := supply - message.quantity
			if remaining < 0 {
				remaining = 0
			}
			if selected.ticket.Remaining != nil {
				selected.ticket.Remaining = &remaining
			} else {
				selected.ticket.TotalSupply = &remaining
			}
		}
		selected.quantity = 0
	}
	model.deps.Logger.Info("tickets claimed",
		"ticket_type", message.ticketTypeID, "count", message.quantity)

	if len(model.queue) > 0 {
		return model, model.nextClaim()
	}

	model.first.SetValue("")
	model.last.SetValue("")
	model.email.SetValue("")
	model.phone.SetValue("")
	model.phase = phaseDone
	return model, nil
}

// --- View ---

func (model *Model) View() string {
	theme := model.deps.Theme
	label := lipgloss.NewStyle().Foreground(theme.FaintText)

	var view strings.Builder
	switch model.phase {
	case phaseLoading:
		view.WriteString(label.Render("Loading tickets…") + "\n")
	case phaseSelection:
		view.WriteString(model.selectionView(theme))
	case phaseContact:
		view.WriteString(model.contactView(theme))
	case phaseSubmitting:
		view.WriteString(label.Render("Claiming your tickets…") + "\n")
	case phaseDone:
		view.WriteString(model.doneView(theme))
	}

	if len(model.problems) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(theme.Error)
		for _, problem := range model.problems {
			view.WriteString(errorStyle.Render("✗ "+problem) + "\n")
		}
	}
	if model.notice != "" {
		view.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(model.notice) + "\n")
	}
	return view.String()
}

func (model *Model) selectionView(theme tui.Theme) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	selectedStyle := lipgloss.NewStyle().
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground)
	normal := lipgloss.NewStyle().Foreground(theme.NormalText)
	soldOut := lipgloss.NewStyle().Foreground(theme.FaintText).Strikethrough(true)

	var view strings.Builder
	view.WriteString(heading.Render("Select tickets") + "\n\n")

	if len(model.rows) == 0 {
		view.WriteString(label.Render("No tickets available for this event.") + "\n")
	}
	for index, selected := range model.rows {
		price := selected.ticket.Price + " " + selected.ticket.Currency
		if selected.ticket.IsFree {
			price = "Free"
		}
		supply := "unlimited"
		if count, capped := selected.ticket.RemainingSupply(); capped {
			supply = strconv.Itoa(count) + " left"
		}
		line := fmt.Sprintf("%s · %s · %s   [ %d / %d ]",
			selected.ticket.Name, price, supply, selected.quantity, maxSelectable(selected.ticket))

		style := normal
		switch {
		case selected.ticket.SoldOut():
			style = soldOut
		case index == model.cursor:
			style = selectedStyle
		}
		view.WriteString(style.Render(line) + "\n")
	}

	if total, currency := model.totalPrice(); model.totalQuantity() > 0 {
		fmt.Fprintf(&view, "\n%s\n", normal.Render(fmt.Sprintf(
			"%d ticket(s) · total %.2f %s", model.totalQuantity(), total, currency)))
	}

	keys := model.deps.Keys
	view.WriteString("\n" + label.Render(
		keys.Increase.Help().Key+" "+keys.Increase.Help().Desc+" · "+
			keys.Decrease.Help().Key+" "+keys.Decrease.Help().Desc+" · "+
			keys.Continue.Help().Key+" "+keys.Continue.Help().Desc) + "\n")
	return view.String()
}

func (model *Model) contactView(theme tui.Theme) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	focused := lipgloss.NewStyle().Foreground(theme.Accent)

	fieldLabel := func(index int, text string) string {
		if index == model.focus {
			return focused.Render("▸ " + text)
		}
		return label.Render("  " + text)
	}

	var view strings.Builder
	view.WriteString(heading.Render("Who are the tickets for?") + "\n\n")
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(contactFieldFirst, "First name"), model.first.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(contactFieldLast, "Last name"), model.last.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(contactFieldEmail, "Email"), model.email.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(contactFieldPhone, "Phone"), model.phone.View())
	view.WriteString(label.Render("Enter on the last field submits · Esc back to selection") + "\n")
	return view.String()
}

func (model *Model) doneView(theme tui.Theme) string {
	success := lipgloss.NewStyle().Foreground(theme.Success)
	label := lipgloss.NewStyle().Foreground(theme.FaintText)

	var view strings.Builder
	view.WriteString(success.Render(fmt.Sprintf("✓ %d ticket(s) claimed", len(model.claimed))) + "\n")
	view.WriteString(label.Render("Check your email for the tickets. Press Enter to close.") + "\n")
	return view.String()
}
