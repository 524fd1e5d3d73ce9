// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Modal is a centered overlay box with a title, body text, and a
// footer naming the available keys. Used for the session expiry
// warning and destructive-action confirmations.
type Modal struct {
	Title  string
	Body   string
	Footer string

	theme Theme
}

// NewModal creates a Modal with the given content.
func NewModal(title, body, footer string, theme Theme) Modal {
	return Modal{Title: title, Body: body, Footer: footer, theme: theme}
}

// Modal chrome overhead: 2 columns border + 2 columns padding
// horizontal; 2 lines border + title + blank + footer vertical.
const (
	modalChromeWidth = 4
	modalMaxWidth    = 60
	modalMargin      = 4
)

// Overlay splices the rendered modal over the center of a base view.
// The base is assumed to fill the screen dimensions.
func (modal Modal) Overlay(base string, screenWidth, screenHeight int) string {
	width := screenWidth - modalMargin*2
	if width > modalMaxWidth {
		width = modalMaxWidth
	}
	if width < 20 {
		width = 20
	}
	innerWidth := width - modalChromeWidth

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.theme.HeaderForeground).
		Background(modal.theme.ModalBackground)
	bodyStyle := lipgloss.NewStyle().
		Foreground(modal.theme.ModalForeground).
		Background(modal.theme.ModalBackground)
	footerStyle := lipgloss.NewStyle().
		Foreground(modal.theme.FaintText).
		Background(modal.theme.ModalBackground)

	var lines []string
	lines = append(lines, padLine(titleStyle.Render(modal.Title), innerWidth, modal.theme))
	lines = append(lines, padLine("", innerWidth, modal.theme))
	for _, line := range strings.Split(ansi.Wrap(modal.Body, innerWidth, " ,.;-"), "\n") {
		lines = append(lines, padLine(bodyStyle.Render(line), innerWidth, modal.theme))
	}
	if modal.Footer != "" {
		lines = append(lines, padLine("", innerWidth, modal.theme))
		lines = append(lines, padLine(footerStyle.Render(modal.Footer), innerWidth, modal.theme))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		Background(modal.theme.ModalBackground).
		Padding(0, 1)
	rendered := borderStyle.Render(strings.Join(lines, "\n"))
	modalLines := strings.Split(rendered, "\n")

	modalWidth := 0
	if len(modalLines) > 0 {
		modalWidth = ansi.StringWidth(modalLines[0])
	}
	anchorX := (screenWidth - modalWidth) / 2
	anchorY := (screenHeight - len(modalLines)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}

	baseLines := strings.Split(base, "\n")
	for len(baseLines) < screenHeight {
		baseLines = append(baseLines, "")
	}
	for index, modalLine := range modalLines {
		row := anchorY + index
		if row >= len(baseLines) {
			break
		}
		baseLines[row] = spliceLine(baseLines[row], modalLine, anchorX, modalWidth)
	}
	return strings.Join(baseLines, "\n")
}

// padLine pads a styled line with background-colored spaces to width.
func padLine(line string, width int, theme Theme) string {
	lineWidth := ansi.StringWidth(line)
	if lineWidth >= width {
		return line
	}
	pad := lipgloss.NewStyle().Background(theme.ModalBackground).
		Render(strings.Repeat(" ", width-lineWidth))
	return line + pad
}

// spliceLine overwrites the columns [anchorX, anchorX+width) of a base
// line with the overlay content, preserving what lies on either side.
func spliceLine(baseLine, overlay string, anchorX, width int) string {
	left := ansi.Truncate(baseLine, anchorX, "")
	leftWidth := ansi.StringWidth(left)
	if leftWidth < anchorX {
		left += strings.Repeat(" ", anchorX-leftWidth)
	}
	right := ansi.TruncateLeft(baseLine, anchorX+width, "")
	return left + overlay + right
}
