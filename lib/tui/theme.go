// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the visual building blocks shared by Stagehand's
// terminal surfaces: the color theme, the terminal markdown renderer,
// the token (tag) input widget, and the centered modal overlay used
// for session warnings and confirmations.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for Stagehand's terminal UIs. All
// colors are lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Semantic accents.
	Success lipgloss.Color // completed steps, successful claims
	Warning lipgloss.Color // session warnings, low ticket supply
	Error   lipgloss.Color // validation failures, rejected requests
	Accent  lipgloss.Color // active step marker, focused field

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Modal overlays.
	ModalForeground lipgloss.Color
	ModalBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme, designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Success: lipgloss.Color("114"), // green
	Warning: lipgloss.Color("220"), // amber
	Error:   lipgloss.Color("196"), // bright red
	Accent:  lipgloss.Color("75"),  // blue

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ModalForeground: lipgloss.Color("252"),
	ModalBackground: lipgloss.Color("237"),
}
