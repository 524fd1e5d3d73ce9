// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/tui"
)

// previewModel is the final read-only step: it renders the whole draft
// the way attendees will roughly see it, so the author can review
// before publishing.
type previewModel struct {
	theme tui.Theme
	keys  KeyMap
}

func newPreviewModel(theme tui.Theme, keys KeyMap) *previewModel {
	return &previewModel{theme: theme, keys: keys}
}

func (step *previewModel) Load(document *draft.Draft) {}

func (step *previewModel) Update(message tea.Msg, document *draft.Draft) (stepModel, tea.Cmd) {
	return step, nil
}

// Validate: the preview itself adds nothing; publish re-validates the
// draft as a whole.
func (step *previewModel) Validate(document *draft.Draft) []string {
	return nil
}

func (step *previewModel) View(width int, theme tui.Theme, document *draft.Draft) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(theme.NormalText)

	if width > 80 {
		width = 80
	}
	if width < 20 {
		width = 20
	}

	var view strings.Builder
	title := document.Title
	if title == "" {
		title = "(untitled event)"
	}
	view.WriteString(heading.Render(title) + "\n")

	where := document.Location
	if document.IsOnline {
		if where == "" {
			where = "Online"
		} else {
			where += " (online)"
		}
	}
	if where != "" {
		view.WriteString(normal.Render(where) + "\n")
	}
	fmt.Fprintf(&view, "%s\n", normal.Render(document.StartTime+" → "+document.EndTime))

	if len(document.Category) > 0 {
		view.WriteString(label.Render("Categories: "+strings.Join(document.Category, ", ")) + "\n")
	}
	if len(document.Tags) > 0 {
		view.WriteString(label.Render("Tags: "+strings.Join(document.Tags, ", ")) + "\n")
	}
	if document.ImageURL != "" {
		view.WriteString(label.Render("Cover: "+document.ImageURL) + "\n")
	}

	if strings.TrimSpace(document.Description) != "" {
		view.WriteString("\n")
		view.WriteString(tui.Markdown(document.Description, theme, width))
	}

	if len(document.Sessions) > 0 {
		view.WriteString("\n" + heading.Render("Agenda") + "\n")
		for index, session := range document.Sessions {
			fmt.Fprintf(&view, "%s\n", normal.Render(fmt.Sprintf(
				"%d. %s — %s  %s → %s",
				index+1, session.Title, session.SpeakerName, session.StartTime, session.EndTime)))
		}
	}

	if len(document.Tickets) > 0 {
		view.WriteString("\n" + heading.Render("Tickets") + "\n")
		for _, ticket := range document.Tickets {
			price := ticket.Price + " " + ticket.Currency
			if ticket.IsFree {
				price = "Free"
			}
			fmt.Fprintf(&view, "%s\n", normal.Render(fmt.Sprintf(
				"%s (%s) · %s · %s · limit %d per buyer",
				ticket.Name, ticket.Type, price, ticket.SupplyLabel(), ticket.PurchaseLimit)))
			for _, benefit := range ticket.Benefits {
				view.WriteString(label.Render("  • "+benefit) + "\n")
			}
		}
	}

	view.WriteString("\n" + label.Render("Press "+step.keys.Publish.Help().Key+" to publish."))
	return view.String()
}
