// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/tui"
)

// Field order for focus cycling on the details step.
const (
	detailsFieldTitle = iota
	detailsFieldDescription
	detailsFieldLocation
	detailsFieldOnline
	detailsFieldStart
	detailsFieldEnd
	detailsFieldCategory
	detailsFieldTags
	detailsFieldCount
)

// detailsModel is the basic-details step: title, description,
// location, online flag, the event time range, and the category and
// tag sets.
type detailsModel struct {
	theme tui.Theme
	keys  KeyMap

	title       textinput.Model
	description textarea.Model
	location    textinput.Model
	start       textinput.Model
	end         textinput.Model
	category    tui.TagInput
	tags        tui.TagInput

	online bool
	focus  int

	// rangeProblem is the live cross-field validation result, shown
	// as the user edits rather than only on advance.
	rangeProblem string
}

func newDetailsModel(theme tui.Theme, keys KeyMap) *detailsModel {
	title := textinput.New()
	title.Placeholder = "Event name"
	title.CharLimit = 120
	title.Focus()

	description := textarea.New()
	description.Placeholder = "Describe the event (markdown supported)"
	description.SetHeight(5)

	location := textinput.New()
	location.Placeholder = "Venue or address"
	location.CharLimit = 200

	start := textinput.New()
	start.Placeholder = "2026-03-01T09:00"
	start.CharLimit = 25

	end := textinput.New()
	end.Placeholder = "2026-03-01T17:00"
	end.CharLimit = 25

	category := tui.NewTagInput("add category", nil, theme, nil, nil)
	category.SetSuggestions(categorySuggestions)

	return &detailsModel{
		theme:       theme,
		keys:        keys,
		title:       title,
		description: description,
		location:    location,
		start:       start,
		end:         end,
		category:    category,
		tags:        tui.NewTagInput("add tag", nil, theme, nil, nil),
	}
}

// categorySuggestions is the platform's suggested category list.
// Free-form entries are accepted alongside it.
var categorySuggestions = []string{
	"Technology",
	"Business",
	"Music",
	"Arts & Culture",
	"Sports",
	"Education",
	"Health & Wellness",
	"Community",
}

func (step *detailsModel) Load(document *draft.Draft) {
	step.title.SetValue(document.Title)
	step.description.SetValue(document.Description)
	step.location.SetValue(document.Location)
	step.start.SetValue(document.StartTime)
	step.end.SetValue(document.EndTime)
	step.online = document.IsOnline
	step.category.SetTokens(document.Category)
	step.tags.SetTokens(document.Tags)
	step.setFocus(step.focus)
}

func (step *detailsModel) Update(message tea.Msg, document *draft.Draft) (stepModel, tea.Cmd) {
	if keyMessage, ok := message.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMessage, step.keys.NextField):
			step.setFocus((step.focus + 1) % detailsFieldCount)
			return step, nil
		case key.Matches(keyMessage, step.keys.PrevField):
			step.setFocus((step.focus + detailsFieldCount - 1) % detailsFieldCount)
			return step, nil
		}

		if step.focus == detailsFieldOnline {
			if keyMessage.Type == tea.KeySpace || keyMessage.String() == "enter" {
				step.online = !step.online
				step.apply(document)
				return step, nil
			}
		}

		// Enter on a single-line field moves to the next one; the
		// description and tag widgets consume enter themselves.
		if keyMessage.String() == "enter" {
			switch step.focus {
			case detailsFieldTitle, detailsFieldLocation, detailsFieldStart, detailsFieldEnd:
				step.setFocus(step.focus + 1)
				step.apply(document)
				return step, nil
			}
		}
	}

	command := step.updateFocused(message)
	step.apply(document)
	return step, command
}

func (step *detailsModel) updateFocused(message tea.Msg) tea.Cmd {
	var command tea.Cmd
	switch step.focus {
	case detailsFieldTitle:
		step.title, command = step.title.Update(message)
	case detailsFieldDescription:
		step.description, command = step.description.Update(message)
	case detailsFieldLocation:
		step.location, command = step.location.Update(message)
	case detailsFieldStart:
		step.start, command = step.start.Update(message)
	case detailsFieldEnd:
		step.end, command = step.end.Update(message)
	case detailsFieldCategory:
		step.category, command = step.category.Update(message)
	case detailsFieldTags:
		step.tags, command = step.tags.Update(message)
	}
	return command
}

// apply folds the widget values into the draft and refreshes the live
// range validation.
func (step *detailsModel) apply(document *draft.Draft) {
	document.Title = step.title.Value()
	document.Description = step.description.Value()
	document.Location = step.location.Value()
	document.IsOnline = step.online
	document.StartTime = strings.TrimSpace(step.start.Value())
	document.EndTime = strings.TrimSpace(step.end.Value())

	document.Category = nil
	for _, token := range step.category.Tokens() {
		document.AddCategory(token)
	}
	step.category.SetTokens(document.Category)

	document.Tags = nil
	for _, token := range step.tags.Tokens() {
		document.AddTag(token)
	}
	step.tags.SetTokens(document.Tags)

	if result := draft.ValidateRange(document.StartTime, document.EndTime, "Event"); !result.OK {
		step.rangeProblem = result.Message
	} else {
		step.rangeProblem = ""
	}
}

func (step *detailsModel) Validate(document *draft.Draft) []string {
	return document.ValidateDetails()
}

func (step *detailsModel) setFocus(target int) {
	step.focus = target
	step.title.Blur()
	step.description.Blur()
	step.location.Blur()
	step.start.Blur()
	step.end.Blur()
	step.category.Blur()
	step.tags.Blur()

	switch target {
	case detailsFieldTitle:
		step.title.Focus()
	case detailsFieldDescription:
		step.description.Focus()
	case detailsFieldLocation:
		step.location.Focus()
	case detailsFieldStart:
		step.start.Focus()
	case detailsFieldEnd:
		step.end.Focus()
	case detailsFieldCategory:
		step.category.Focus()
	case detailsFieldTags:
		step.tags.Focus()
	}
}

func (step *detailsModel) View(width int, theme tui.Theme, document *draft.Draft) string {
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	focused := lipgloss.NewStyle().Foreground(theme.Accent)

	fieldLabel := func(index int, text string) string {
		if index == step.focus {
			return focused.Render("▸ " + text)
		}
		return label.Render("  " + text)
	}

	online := "[ ] online event"
	if step.online {
		online = "[x] online event"
	}

	var view strings.Builder
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(detailsFieldTitle, "Name"), step.title.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(detailsFieldDescription, "Description"), step.description.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(detailsFieldLocation, "Location"), step.location.View())
	fmt.Fprintf(&view, "%s %s\n\n", fieldLabel(detailsFieldOnline, ""), online)
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(detailsFieldStart, "Starts (local time)"), step.start.View())
	fmt.Fprintf(&view, "%s\n%s\n", fieldLabel(detailsFieldEnd, "Ends (local time)"), step.end.View())
	if step.rangeProblem != "" {
		fmt.Fprintf(&view, "%s\n", lipgloss.NewStyle().Foreground(theme.Error).Render(step.rangeProblem))
	}
	fmt.Fprintf(&view, "\n%s\n%s\n\n", fieldLabel(detailsFieldCategory, "Categories"), step.category.View())
	fmt.Fprintf(&view, "%s\n%s\n", fieldLabel(detailsFieldTags, "Tags"), step.tags.View())
	return view.String()
}
