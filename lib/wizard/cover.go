// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blocstage/stagehand/lib/draft"
	"github.com/blocstage/stagehand/lib/tui"
	"github.com/blocstage/stagehand/lib/upload"
)

// coverModel is the cover-media step: a path entry field plus the
// upload progress display. The actual guard check and network call
// live in the controller; this step only asks for them.
type coverModel struct {
	theme tui.Theme
	keys  KeyMap

	path     textinput.Model
	bar      progress.Model
	tracker  *upload.Progress
	imageURL string
}

func newCoverModel(theme tui.Theme, keys KeyMap, tracker *upload.Progress) *coverModel {
	path := textinput.New()
	path.Placeholder = "/path/to/cover.png"
	path.CharLimit = 512
	path.Focus()

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return &coverModel{
		theme:   theme,
		keys:    keys,
		path:    path,
		bar:     bar,
		tracker: tracker,
	}
}

func (step *coverModel) Load(document *draft.Draft) {
	step.imageURL = document.ImageURL
	if document.ImagePath != "" {
		step.path.SetValue(document.ImagePath)
	}
}

func (step *coverModel) Update(message tea.Msg, document *draft.Draft) (stepModel, tea.Cmd) {
	if keyMessage, ok := message.(tea.KeyMsg); ok {
		switch {
		case keyMessage.String() == "enter":
			path := strings.TrimSpace(step.path.Value())
			if path == "" {
				return step, nil
			}
			return step, func() tea.Msg { return requestUploadMsg{path: path} }

		case key.Matches(keyMessage, step.keys.Delete):
			// Remove the cover entirely, uploaded or not.
			document.ImagePath = ""
			document.ImageURL = ""
			document.ImageHash = ""
			step.imageURL = ""
			step.path.SetValue("")
			step.tracker.Clear()
			return step, nil
		}
	}

	var command tea.Cmd
	step.path, command = step.path.Update(message)
	step.imageURL = document.ImageURL
	return step, command
}

// Validate: the cover is optional, so this step never blocks.
func (step *coverModel) Validate(document *draft.Draft) []string {
	return nil
}

func (step *coverModel) View(width int, theme tui.Theme, document *draft.Draft) string {
	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	success := lipgloss.NewStyle().Foreground(theme.Success)
	failure := lipgloss.NewStyle().Foreground(theme.Error)

	var view strings.Builder
	view.WriteString(label.Render("Cover image (max 5 MB, images only)") + "\n")
	view.WriteString(step.path.View() + "\n\n")

	switch step.tracker.State() {
	case upload.StateUploading:
		fmt.Fprintf(&view, "%s %d%%\n", step.bar.ViewAs(float64(step.tracker.Percent())/100), step.tracker.Percent())
	case upload.StateUploaded:
		view.WriteString(success.Render("✓ uploaded") + "\n")
		if step.imageURL != "" {
			view.WriteString(label.Render(step.imageURL) + "\n")
		}
		view.WriteString(label.Render(step.keys.Delete.Help().Key+" remove cover") + "\n")
	case upload.StateFailed:
		view.WriteString(failure.Render("✗ "+step.tracker.Message()) + "\n")
	default:
		view.WriteString(label.Render("Enter a file path and press Enter to upload. This step is optional.") + "\n")
	}
	return view.String()
}
