// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TagInput is a token entry widget: a single-line text input that
// commits tokens on enter or comma and shows the committed tokens as
// pills. Backspace on an empty input removes the last token. An
// optional suggestion list is filtered on every keystroke
// (case-insensitive substring, already-selected values hidden); up and
// down move a highlight through the matches and enter picks the
// highlighted one. The widget itself enforces no set semantics; the
// owner deduplicates through its own add operation.
type TagInput struct {
	input  textinput.Model
	tokens []string
	theme  Theme

	suggestions []string
	// highlight indexes into Matches(); -1 means free-form entry, so
	// enter commits the typed text instead of a suggestion.
	highlight int

	// onAdd and onRemove report committed edits to the owning model.
	onAdd    func(string)
	onRemove func(string)
}

// NewTagInput creates a TagInput seeded with existing tokens. The add
// and remove callbacks fire once per committed edit.
func NewTagInput(placeholder string, tokens []string, theme Theme, onAdd, onRemove func(string)) TagInput {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 40
	input.Prompt = "+ "
	return TagInput{
		input:     input,
		tokens:    append([]string(nil), tokens...),
		theme:     theme,
		highlight: -1,
		onAdd:     onAdd,
		onRemove:  onRemove,
	}
}

// SetSuggestions installs the suggestion list the pending text is
// filtered against.
func (widget *TagInput) SetSuggestions(suggestions []string) {
	widget.suggestions = append([]string(nil), suggestions...)
}

// Tokens returns the committed tokens in insertion order.
func (widget TagInput) Tokens() []string {
	return widget.tokens
}

// SetTokens replaces the displayed tokens, for when the owner's
// deduplication rejected a commit.
func (widget *TagInput) SetTokens(tokens []string) {
	widget.tokens = append([]string(nil), tokens...)
}

// Focus gives the inner text input focus.
func (widget *TagInput) Focus() tea.Cmd {
	return widget.input.Focus()
}

// Blur removes focus from the inner text input.
func (widget *TagInput) Blur() {
	widget.input.Blur()
	widget.highlight = -1
}

// Focused reports whether the inner text input has focus.
func (widget TagInput) Focused() bool {
	return widget.input.Focused()
}

// Matches returns the suggestions matching the pending text:
// case-insensitive substring, with already-selected values hidden.
func (widget TagInput) Matches() []string {
	pending := strings.ToLower(strings.TrimSpace(widget.input.Value()))
	var matches []string
	for _, suggestion := range widget.suggestions {
		if pending != "" && !strings.Contains(strings.ToLower(suggestion), pending) {
			continue
		}
		if widget.selected(suggestion) {
			continue
		}
		matches = append(matches, suggestion)
	}
	return matches
}

func (widget TagInput) selected(value string) bool {
	for _, token := range widget.tokens {
		if strings.EqualFold(token, value) {
			return true
		}
	}
	return false
}

// Update processes one message. Enter commits the highlighted
// suggestion when one is selected, otherwise the pending text; comma
// commits the pending text; backspace on empty input removes the last
// token; up and down move the suggestion highlight.
func (widget TagInput) Update(message tea.Msg) (TagInput, tea.Cmd) {
	if keyMessage, ok := message.(tea.KeyMsg); ok && widget.input.Focused() {
		switch {
		case keyMessage.Type == tea.KeyEnter:
			if matches := widget.Matches(); widget.highlight >= 0 && widget.highlight < len(matches) {
				widget.commitToken(matches[widget.highlight])
			} else {
				widget.commit()
			}
			widget.highlight = -1
			return widget, nil

		case keyMessage.Type == tea.KeyRunes && len(keyMessage.Runes) == 1 && keyMessage.Runes[0] == ',':
			widget.commit()
			widget.highlight = -1
			return widget, nil

		case keyMessage.Type == tea.KeyDown:
			if matches := widget.Matches(); len(matches) > 0 {
				widget.highlight = (widget.highlight + 1) % len(matches)
			}
			return widget, nil

		case keyMessage.Type == tea.KeyUp:
			if matches := widget.Matches(); len(matches) > 0 {
				if widget.highlight <= 0 {
					widget.highlight = len(matches) - 1
				} else {
					widget.highlight--
				}
			}
			return widget, nil

		case keyMessage.Type == tea.KeyBackspace && widget.input.Value() == "":
			if len(widget.tokens) > 0 {
				removed := widget.tokens[len(widget.tokens)-1]
				widget.tokens = widget.tokens[:len(widget.tokens)-1]
				if widget.onRemove != nil {
					widget.onRemove(removed)
				}
			}
			return widget, nil
		}
	}

	var command tea.Cmd
	widget.input, command = widget.input.Update(message)
	// The filter changed with the text; any previous highlight may now
	// point past the end of the match list.
	widget.highlight = -1
	return widget, command
}

func (widget *TagInput) commit() {
	widget.commitToken(widget.input.Value())
}

func (widget *TagInput) commitToken(value string) {
	token := strings.TrimSpace(value)
	widget.input.SetValue("")
	if token == "" {
		return
	}
	widget.tokens = append(widget.tokens, token)
	if widget.onAdd != nil {
		widget.onAdd(token)
	}
}

// View renders the token pills, the entry field, and the current
// suggestion matches with the highlighted one marked.
func (widget TagInput) View() string {
	pillStyle := lipgloss.NewStyle().
		Foreground(widget.theme.SelectedForeground).
		Background(widget.theme.SelectedBackground).
		Padding(0, 1)

	var parts []string
	for _, token := range widget.tokens {
		parts = append(parts, pillStyle.Render(token))
	}
	parts = append(parts, widget.input.View())
	line := strings.Join(parts, " ")

	if !widget.input.Focused() || len(widget.suggestions) == 0 {
		return line
	}
	matches := widget.Matches()
	if len(matches) == 0 {
		return line
	}

	faint := lipgloss.NewStyle().Foreground(widget.theme.FaintText)
	highlighted := lipgloss.NewStyle().Foreground(widget.theme.Accent)
	var rendered []string
	for index, match := range matches {
		if index == widget.highlight {
			rendered = append(rendered, highlighted.Render("▸"+match))
		} else {
			rendered = append(rendered, faint.Render(match))
		}
	}
	return line + "\n" + strings.Join(rendered, "  ")
}
