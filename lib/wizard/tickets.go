// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/tui"
)

// Field order for the ticket row editor.
const (
	ticketFieldName = iota
	ticketFieldType
	ticketFieldPrice
	ticketFieldCurrency
	ticketFieldFree
	ticketFieldSupply
	ticketFieldLimit
	ticketFieldTransferable
	ticketFieldResellable
	ticketFieldBenefits
	ticketFieldCount
)

// currencies are the supported price currencies, in cycle order.
var currencies = []string{"NGN", "USD", "EUR"}

// ticketsModel is the ticket-types step: a list of ticket rows with a
// per-row editor. Free/price exclusivity and the purchase-limit clamp
// are applied by TicketType.Normalize when the editor closes and again
// at payload build time.
type ticketsModel struct {
	theme tui.Theme
	keys  KeyMap

	cursor  int
	editing bool
	editID  string
	focus   int

	name     textinput.Model
	price    textinput.Model
	supply   textinput.Model
	limit    textinput.Model
	benefits tui.TagInput

	typeIndex     int
	currencyIndex int
	free          bool
	transferable  bool
	resellable    bool
}

func newTicketsModel(theme tui.Theme, keys KeyMap) *ticketsModel {
	makeInput := func(placeholder string, limit int) textinput.Model {
		input := textinput.New()
		input.Placeholder = placeholder
		input.CharLimit = limit
		return input
	}
	return &ticketsModel{
		theme:    theme,
		keys:     keys,
		name:     makeInput("Ticket name", 120),
		price:    makeInput("0.00", 12),
		supply:   makeInput("empty = unlimited", 8),
		limit:    makeInput("5", 3),
		benefits: tui.NewTagInput("add benefit", nil, theme, nil, nil),
	}
}

func (step *ticketsModel) Load(document *draft.Draft) {
	if step.cursor >= len(document.Tickets) {
		step.cursor = 0
	}
	step.editing = false
}

func (step *ticketsModel) Update(message tea.Msg, document *draft.Draft) (stepModel, tea.Cmd) {
	keyMessage, ok := message.(tea.KeyMsg)
	if !ok {
		if step.editing && step.focus == ticketFieldBenefits {
			var command tea.Cmd
			step.benefits, command = step.benefits.Update(message)
			step.apply(document)
			return step, command
		}
		return step, nil
	}
	if step.editing {
		return step.updateEditor(keyMessage, document)
	}
	return step.updateList(keyMessage, document)
}

func (step *ticketsModel) updateList(message tea.KeyMsg, document *draft.Draft) (stepModel, tea.Cmd) {
	switch {
	case key.Matches(message, step.keys.Up):
		if step.cursor > 0 {
			step.cursor--
		}
	case key.Matches(message, step.keys.Down):
		if step.cursor < len(document.Tickets)-1 {
			step.cursor++
		}
	case key.Matches(message, step.keys.Add):
		id := document.AppendTicket()
		step.cursor = len(document.Tickets) - 1
		step.openEditor(document, id)
	case key.Matches(message, step.keys.Delete):
		if step.cursor < len(document.Tickets) {
			document.RemoveTicket(document.Tickets[step.cursor].ID)
			if step.cursor >= len(document.Tickets) && step.cursor > 0 {
				step.cursor--
			}
		}
	case key.Matches(message, step.keys.Edit):
		if step.cursor < len(document.Tickets) {
			step.openEditor(document, document.Tickets[step.cursor].ID)
		}
	}
	return step, nil
}

func (step *ticketsModel) openEditor(document *draft.Draft, id string) {
	ticket := document.TicketByID(id)
	if ticket == nil {
		return
	}
	step.name.SetValue(ticket.Name)
	step.price.SetValue(ticket.Price)
	if ticket.TotalSupply == draft.UnlimitedSupply {
		step.supply.SetValue("")
	} else {
		step.supply.SetValue(strconv.Itoa(ticket.TotalSupply))
	}
	step.limit.SetValue(strconv.Itoa(ticket.PurchaseLimit))
	step.benefits.SetTokens(ticket.Benefits)

	step.typeIndex = indexOf(draft.TicketTypeNames, ticket.Type)
	step.currencyIndex = indexOf(currencies, ticket.Currency)
	step.free = ticket.IsFree
	step.transferable = ticket.IsTransferable
	step.resellable = ticket.IsResellable

	step.editing = true
	step.editID = id
	step.setFocus(ticketFieldName)
}

func indexOf(values []string, value string) int {
	for index, candidate := range values {
		if candidate == value {
			return index
		}
	}
	return 0
}

func (step *ticketsModel) updateEditor(message tea.KeyMsg, document *draft.Draft) (stepModel, tea.Cmd) {
	switch {
	case key.Matches(message, step.keys.Done):
		step.closeEditor(document)
		return step, nil
	case key.Matches(message, step.keys.NextField):
		step.setFocus((step.focus + 1) % ticketFieldCount)
		return step, nil
	case key.Matches(message, step.keys.PrevField):
		step.setFocus((step.focus + ticketFieldCount - 1) % ticketFieldCount)
		return step, nil
	}

	// Cycle and toggle fields consume their own keys.
	switch step.focus {
	case ticketFieldType:
		if message.String() == "left" || message.String() == "right" || message.Type == tea.KeySpace {
			step.typeIndex = cycle(step.typeIndex, len(draft.TicketTypeNames), message.String() != "left")
			step.apply(document)
			return step, nil
		}
	case ticketFieldCurrency:
		if message.String() == "left" || message.String() == "right" || message.Type == tea.KeySpace {
			step.currencyIndex = cycle(step.currencyIndex, len(currencies), message.String() != "left")
			step.apply(document)
			return step, nil
		}
	case ticketFieldFree:
		if message.Type == tea.KeySpace || message.String() == "enter" {
			step.free = !step.free
			step.apply(document)
			return step, nil
		}
	case ticketFieldTransferable:
		if message.Type == tea.KeySpace || message.String() == "enter" {
			step.transferable = !step.transferable
			step.apply(document)
			return step, nil
		}
	case ticketFieldResellable:
		if message.Type == tea.KeySpace || message.String() == "enter" {
			step.resellable = !step.resellable
			step.apply(document)
			return step, nil
		}
	}

	if message.String() == "enter" && step.focus != ticketFieldBenefits {
		if step.focus == ticketFieldCount-1 {
			step.closeEditor(document)
		} else {
			step.setFocus(step.focus + 1)
		}
		return step, nil
	}

	var command tea.Cmd
	switch step.focus {
	case ticketFieldName:
		step.name, command = step.name.Update(message)
	case ticketFieldPrice:
		step.price, command = step.price.Update(message)
	case ticketFieldSupply:
		step.supply, command = step.supply.Update(message)
	case ticketFieldLimit:
		step.limit, command = step.limit.Update(message)
	case ticketFieldBenefits:
		step.benefits, command = step.benefits.Update(message)
	}
	step.apply(document)
	return step, command
}

func cycle(current, length int, forward bool) int {
	if forward {
		return (current + 1) % length
	}
	return (current + length - 1) % length
}

// apply folds the editor widgets into the draft row.
func (step *ticketsModel) apply(document *draft.Draft) {
	document.UpdateTicket(step.editID, func(ticket *draft.TicketType) {
		ticket.Name = step.name.Value()
		ticket.Type = draft.TicketTypeNames[step.typeIndex]
		ticket.Price = strings.TrimSpace(step.price.Value())
		ticket.Currency = currencies[step.currencyIndex]
		ticket.IsFree = step.free
		ticket.IsTransferable = step.transferable
		ticket.IsResellable = step.resellable
		ticket.Benefits = append([]string(nil), step.benefits.Tokens()...)

		supplyText := strings.TrimSpace(step.supply.Value())
		if supplyText == "" {
			ticket.TotalSupply = draft.UnlimitedSupply
		} else if supply, err := strconv.Atoi(supplyText); err == nil {
			ticket.TotalSupply = supply
		}
		if limit, err := strconv.Atoi(strings.TrimSpace(step.limit.Value())); err == nil {
			ticket.PurchaseLimit = limit
		}
	})
}

// closeEditor applies the row one last time and normalizes it, so the
// list always shows submit-ready values.
func (step *ticketsModel) closeEditor(document *draft.Draft) {
	step.apply(document)
	if ticket := document.TicketByID(step.editID); ticket != nil {
		ticket.Normalize()
	}
	step.editing = false
}

func (step *ticketsModel) setFocus(target int) {
	step.focus = target
	inputs := []*textinput.Model{&step.name, &step.price, &step.supply, &step.limit}
	fields := []int{ticketFieldName, ticketFieldPrice, ticketFieldSupply, ticketFieldLimit}
	for index, input := range inputs {
		if fields[index] == target {
			input.Focus()
		} else {
			input.Blur()
		}
	}
	if target == ticketFieldBenefits {
		step.benefits.Focus()
	} else {
		step.benefits.Blur()
	}
}

// Validate: ticket rows are normalized as they close, so the only
// gate is that a named row exists if any row exists at all.
func (step *ticketsModel) Validate(document *draft.Draft) []string {
	var problems []string
	for index, ticket := range document.Tickets {
		if strings.TrimSpace(ticket.Name) == "" {
			problems = append(problems, fmt.Sprintf("Ticket %d: name is required", index+1))
		}
	}
	return problems
}

func (step *ticketsModel) View(width int, theme tui.Theme, document *draft.Draft) string {
	if step.editing {
		return step.editorView(theme)
	}
	return step.listView(theme, document)
}

func (step *ticketsModel) listView(theme tui.Theme, document *draft.Draft) string {
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	selected := lipgloss.NewStyle().
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground)
	normal := lipgloss.NewStyle().Foreground(theme.NormalText)

	var view strings.Builder
	view.WriteString(label.Render("Ticket types") + "\n\n")

	if len(document.Tickets) == 0 {
		view.WriteString(label.Render("No ticket types yet.") + "\n")
	}
	for index, ticket := range document.Tickets {
		name := ticket.Name
		if name == "" {
			name = "(unnamed)"
		}
		price := ticket.Price + " " + ticket.Currency
		if ticket.IsFree {
			price = "Free"
		}
		line := fmt.Sprintf("%s · %s · %s · %s", name, ticket.Type, price, ticket.SupplyLabel())
		if index == step.cursor {
			view.WriteString(selected.Render(line) + "\n")
		} else {
			view.WriteString(normal.Render(line) + "\n")
		}
	}

	view.WriteString("\n" + label.Render(
		step.keys.Add.Help().Key+" add · "+
			step.keys.Delete.Help().Key+" delete · "+
			step.keys.Edit.Help().Key+" edit") + "\n")
	return view.String()
}

func (step *ticketsModel) editorView(theme tui.Theme) string {
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	focused := lipgloss.NewStyle().Foreground(theme.Accent)

	fieldLabel := func(index int, text string) string {
		if index == step.focus {
			return focused.Render("▸ " + text)
		}
		return label.Render("  " + text)
	}
	checkbox := func(value bool) string {
		if value {
			return "[x]"
		}
		return "[ ]"
	}

	var view strings.Builder
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(ticketFieldName, "Name"), step.name.View())
	fmt.Fprintf(&view, "%s  ◂ %s ▸\n\n", fieldLabel(ticketFieldType, "Type"), draft.TicketTypeNames[step.typeIndex])
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(ticketFieldPrice, "Price"), step.price.View())
	fmt.Fprintf(&view, "%s  ◂ %s ▸\n\n", fieldLabel(ticketFieldCurrency, "Currency"), currencies[step.currencyIndex])
	fmt.Fprintf(&view, "%s %s free ticket\n\n", fieldLabel(ticketFieldFree, ""), checkbox(step.free))
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(ticketFieldSupply, "Total supply"), step.supply.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(ticketFieldLimit, "Per-buyer limit (1-10)"), step.limit.View())
	fmt.Fprintf(&view, "%s %s transferable\n\n", fieldLabel(ticketFieldTransferable, ""), checkbox(step.transferable))
	fmt.Fprintf(&view, "%s %s resellable\n\n", fieldLabel(ticketFieldResellable, ""), checkbox(step.resellable))
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(ticketFieldBenefits, "Benefits"), step.benefits.View())
	view.WriteString(label.Render("Esc back to list"))
	return view.String()
}
