// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package claim

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the claim flow's key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Increase key.Binding
	Decrease key.Binding
	Continue key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next"),
	),
	Increase: key.NewBinding(
		key.WithKeys("right", "+"),
		key.WithHelp("→/+", "more"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("left", "-"),
		key.WithHelp("←/-", "fewer"),
	),
	Continue: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "continue"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
