// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the authoring wizard. Field
// editing keys (runes, backspace) pass through to the focused widget;
// these bindings cover navigation and the step-level actions.
type KeyMap struct {
	NextStep  key.Binding // advance after validation
	PrevStep  key.Binding // go back one step
	NextField key.Binding
	PrevField key.Binding

	// Step jumping by number, bounded by the furthest step reached.
	Jump key.Binding

	// List steps (agenda, tickets).
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Delete key.Binding
	Edit   key.Binding
	Done   key.Binding // leave row editing back to the list

	Publish key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	NextStep: key.NewBinding(
		key.WithKeys("ctrl+n", "pgdown"),
		key.WithHelp("C-n", "next step"),
	),
	PrevStep: key.NewBinding(
		key.WithKeys("ctrl+p", "pgup"),
		key.WithHelp("C-p", "previous step"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Jump: key.NewBinding(
		key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5"),
		key.WithHelp("M-1..5", "jump to step"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Add: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("C-a", "add row"),
	),
	Delete: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "delete row"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "edit row"),
	),
	Done: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back to list"),
	),
	Publish: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "publish"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
