// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/tui"
)

// Field order for the agenda row editor.
const (
	agendaFieldTitle = iota
	agendaFieldSpeaker
	agendaFieldDescription
	agendaFieldStart
	agendaFieldEnd
	agendaFieldCount
)

// agendaModel is the agenda step: a list of sessions with a per-row
// editor. The list may be left empty; rows that exist must be
// complete, which Validate enforces through the draft operations.
type agendaModel struct {
	theme tui.Theme
	keys  KeyMap

	cursor  int
	editing bool
	// editID is the client-local id of the row being edited.
	editID string
	focus  int

	title       textinput.Model
	speaker     textinput.Model
	description textinput.Model
	start       textinput.Model
	end         textinput.Model
}

func newAgendaModel(theme tui.Theme, keys KeyMap) *agendaModel {
	makeInput := func(placeholder string, limit int) textinput.Model {
		input := textinput.New()
		input.Placeholder = placeholder
		input.CharLimit = limit
		return input
	}
	return &agendaModel{
		theme:       theme,
		keys:        keys,
		title:       makeInput("Session title", 120),
		speaker:     makeInput("Speaker name", 120),
		description: makeInput("Short description", 300),
		start:       makeInput("2026-03-01T09:00", 25),
		end:         makeInput("2026-03-01T10:00", 25),
	}
}

func (step *agendaModel) Load(document *draft.Draft) {
	if step.cursor >= len(document.Sessions) {
		step.cursor = 0
	}
	step.editing = false
}

func (step *agendaModel) Update(message tea.Msg, document *draft.Draft) (stepModel, tea.Cmd) {
	keyMessage, ok := message.(tea.KeyMsg)
	if !ok {
		return step, nil
	}
	if step.editing {
		return step.updateEditor(keyMessage, document)
	}
	return step.updateList(keyMessage, document)
}

func (step *agendaModel) updateList(message tea.KeyMsg, document *draft.Draft) (stepModel, tea.Cmd) {
	switch {
	case key.Matches(message, step.keys.Up):
		if step.cursor > 0 {
			step.cursor--
		}
	case key.Matches(message, step.keys.Down):
		if step.cursor < len(document.Sessions)-1 {
			step.cursor++
		}
	case key.Matches(message, step.keys.Add):
		id := document.AppendSession()
		step.cursor = len(document.Sessions) - 1
		step.openEditor(document, id)
	case key.Matches(message, step.keys.Delete):
		if step.cursor < len(document.Sessions) {
			document.RemoveSession(document.Sessions[step.cursor].ID)
			if step.cursor >= len(document.Sessions) && step.cursor > 0 {
				step.cursor--
			}
		}
	case key.Matches(message, step.keys.Edit):
		if step.cursor < len(document.Sessions) {
			step.openEditor(document, document.Sessions[step.cursor].ID)
		}
	}
	return step, nil
}

func (step *agendaModel) openEditor(document *draft.Draft, id string) {
	for _, session := range document.Sessions {
		if session.ID == id {
			step.title.SetValue(session.Title)
			step.speaker.SetValue(session.SpeakerName)
			step.description.SetValue(session.Description)
			step.start.SetValue(session.StartTime)
			step.end.SetValue(session.EndTime)
			break
		}
	}
	step.editing = true
	step.editID = id
	step.setFocus(agendaFieldTitle)
}

func (step *agendaModel) updateEditor(message tea.KeyMsg, document *draft.Draft) (stepModel, tea.Cmd) {
	switch {
	case key.Matches(message, step.keys.Done):
		step.editing = false
		return step, nil
	case key.Matches(message, step.keys.NextField):
		step.setFocus((step.focus + 1) % agendaFieldCount)
		return step, nil
	case key.Matches(message, step.keys.PrevField):
		step.setFocus((step.focus + agendaFieldCount - 1) % agendaFieldCount)
		return step, nil
	}
	if message.String() == "enter" {
		if step.focus == agendaFieldEnd {
			step.editing = false
		} else {
			step.setFocus(step.focus + 1)
		}
		return step, nil
	}

	var command tea.Cmd
	switch step.focus {
	case agendaFieldTitle:
		step.title, command = step.title.Update(message)
	case agendaFieldSpeaker:
		step.speaker, command = step.speaker.Update(message)
	case agendaFieldDescription:
		step.description, command = step.description.Update(message)
	case agendaFieldStart:
		step.start, command = step.start.Update(message)
	case agendaFieldEnd:
		step.end, command = step.end.Update(message)
	}

	document.UpdateSession(step.editID, func(session *draft.Session) {
		session.Title = step.title.Value()
		session.SpeakerName = step.speaker.Value()
		session.Description = step.description.Value()
		session.StartTime = strings.TrimSpace(step.start.Value())
		session.EndTime = strings.TrimSpace(step.end.Value())
	})
	return step, command
}

func (step *agendaModel) setFocus(target int) {
	step.focus = target
	inputs := []*textinput.Model{&step.title, &step.speaker, &step.description, &step.start, &step.end}
	for index, input := range inputs {
		if index == target {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (step *agendaModel) Validate(document *draft.Draft) []string {
	return document.ValidateSessions()
}

func (step *agendaModel) View(width int, theme tui.Theme, document *draft.Draft) string {
	if step.editing {
		return step.editorView(theme)
	}
	return step.listView(theme, document)
}

func (step *agendaModel) listView(theme tui.Theme, document *draft.Draft) string {
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	selected := lipgloss.NewStyle().
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground)
	normal := lipgloss.NewStyle().Foreground(theme.NormalText)

	var view strings.Builder
	view.WriteString(label.Render("Agenda — sessions run in list order. Leave empty to skip.") + "\n\n")

	if len(document.Sessions) == 0 {
		view.WriteString(label.Render("No sessions yet.") + "\n")
	}
	for index, session := range document.Sessions {
		title := session.Title
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%d. %s — %s  %s → %s", index+1, title, session.SpeakerName, session.StartTime, session.EndTime)
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

func (step *agendaModel) editorView(theme tui.Theme) string {
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	focused := lipgloss.NewStyle().Foreground(theme.Accent)

	fieldLabel := func(index int, text string) string {
		if index == step.focus {
			return focused.Render("▸ " + text)
		}
		return label.Render("  " + text)
	}

	var view strings.Builder
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(agendaFieldTitle, "Title"), step.title.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(agendaFieldSpeaker, "Speaker"), step.speaker.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(agendaFieldDescription, "Description"), step.description.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(agendaFieldStart, "Starts"), step.start.View())
	fmt.Fprintf(&view, "%s\n%s\n\n", fieldLabel(agendaFieldEnd, "Ends"), step.end.View())
	view.WriteString(label.Render("Esc back to list"))
	return view.String()
}
