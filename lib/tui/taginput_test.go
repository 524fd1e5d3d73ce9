// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeString(widget TagInput, value string) TagInput {
	for _, r := range value {
		widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return widget
}

func TestTagInputCommitOnEnter(t *testing.T) {
	var added []string
	widget := NewTagInput("add tag", nil, DefaultTheme,
		func(token string) { added = append(added, token) }, nil)
	widget.Focus()

	widget = typeString(widget, "tech")
	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(widget.Tokens()) != 1 || widget.Tokens()[0] != "tech" {
		t.Errorf("Tokens = %v", widget.Tokens())
	}
	if len(added) != 1 || added[0] != "tech" {
		t.Errorf("onAdd calls = %v", added)
	}
}

func TestTagInputCommitOnComma(t *testing.T) {
	widget := NewTagInput("add tag", nil, DefaultTheme, nil, nil)
	widget.Focus()

	widget = typeString(widget, "music")
	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{','}})

	if len(widget.Tokens()) != 1 || widget.Tokens()[0] != "music" {
		t.Errorf("Tokens = %v", widget.Tokens())
	}
}

func TestTagInputEmptyCommitIgnored(t *testing.T) {
	widget := NewTagInput("add tag", nil, DefaultTheme, nil, nil)
	widget.Focus()

	widget = typeString(widget, "   ")
	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(widget.Tokens()) != 0 {
		t.Errorf("Tokens = %v, want none for whitespace commit", widget.Tokens())
	}
}

func TestTagInputBackspaceRemovesLast(t *testing.T) {
	var removed []string
	widget := NewTagInput("add tag", []string{"tech", "music"}, DefaultTheme,
		nil, func(token string) { removed = append(removed, token) })
	widget.Focus()

	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	if len(widget.Tokens()) != 1 || widget.Tokens()[0] != "tech" {
		t.Errorf("Tokens = %v", widget.Tokens())
	}
	if len(removed) != 1 || removed[0] != "music" {
		t.Errorf("onRemove calls = %v", removed)
	}
}

func TestTagInputBackspaceWithPendingTextEditsText(t *testing.T) {
	widget := NewTagInput("add tag", []string{"tech"}, DefaultTheme, nil, nil)
	widget.Focus()

	widget = typeString(widget, "mu")
	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	// The backspace edited the pending text, not the committed tokens.
	if len(widget.Tokens()) != 1 {
		t.Errorf("Tokens = %v", widget.Tokens())
	}
}

func TestTagInputSetTokens(t *testing.T) {
	widget := NewTagInput("add tag", []string{"tech", "Tech"}, DefaultTheme, nil, nil)
	widget.SetTokens([]string{"tech"})
	if len(widget.Tokens()) != 1 {
		t.Errorf("Tokens = %v", widget.Tokens())
	}
}

func TestTagInputSuggestionFiltering(t *testing.T) {
	widget := NewTagInput("add category", []string{"Music"}, DefaultTheme, nil, nil)
	widget.SetSuggestions([]string{"Music", "Technology", "Business", "Arts & Culture"})
	widget.Focus()

	// Empty input: everything except the already-selected value.
	matches := widget.Matches()
	if len(matches) != 3 {
		t.Fatalf("Matches = %v, want the 3 unselected suggestions", matches)
	}

	// Case-insensitive substring filter.
	widget = typeString(widget, "teCH")
	matches = widget.Matches()
	if len(matches) != 1 || matches[0] != "Technology" {
		t.Fatalf("Matches = %v, want [Technology]", matches)
	}
}

func TestTagInputEnterPicksHighlightedSuggestion(t *testing.T) {
	widget := NewTagInput("add category", nil, DefaultTheme, nil, nil)
	widget.SetSuggestions([]string{"Technology", "Business"})
	widget.Focus()

	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyDown}) // highlight Technology
	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyDown}) // highlight Business
	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(widget.Tokens()) != 1 || widget.Tokens()[0] != "Business" {
		t.Fatalf("Tokens = %v, want [Business]", widget.Tokens())
	}
}

func TestTagInputTypingResetsHighlight(t *testing.T) {
	widget := NewTagInput("add category", nil, DefaultTheme, nil, nil)
	widget.SetSuggestions([]string{"Technology", "Business"})
	widget.Focus()

	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyDown})
	widget = typeString(widget, "free-form")
	widget, _ = widget.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// The keystroke invalidated the highlight, so enter committed the
	// typed text rather than a suggestion.
	if len(widget.Tokens()) != 1 || widget.Tokens()[0] != "free-form" {
		t.Fatalf("Tokens = %v, want [free-form]", widget.Tokens())
	}
}
