// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func renderPlain(t *testing.T, input string, width int) string {
	t.Helper()
	return ansi.Strip(Markdown(input, DefaultTheme, width))
}

func TestMarkdownReflowsSoftBreaks(t *testing.T) {
	// Hard-wrapped source text should reflow as one paragraph.
	input := "This paragraph was wrapped\nat a narrow width in the\nsource document."
	output := renderPlain(t, input, 80)

	if strings.Count(output, "\n") != 0 {
		t.Errorf("paragraph did not reflow to one line:\n%s", output)
	}
	if !strings.Contains(output, "wrapped at a narrow width") {
		t.Errorf("soft breaks not converted to spaces:\n%s", output)
	}
}

func TestMarkdownWrapsToWidth(t *testing.T) {
	input := "one two three four five six seven eight nine ten eleven twelve"
	output := renderPlain(t, input, 30)

	for _, line := range strings.Split(output, "\n") {
		if len(line) > 30 {
			t.Errorf("line exceeds width 30: %q", line)
		}
	}
}

func TestMarkdownHeadingAndList(t *testing.T) {
	input := "# Schedule\n\n- doors open\n- keynote\n\n1. first\n2. second"
	output := renderPlain(t, input, 80)

	if !strings.Contains(output, "Schedule") {
		t.Errorf("heading missing:\n%s", output)
	}
	if !strings.Contains(output, "- doors open") {
		t.Errorf("unordered bullet missing:\n%s", output)
	}
	if !strings.Contains(output, "1. first") || !strings.Contains(output, "2. second") {
		t.Errorf("ordered bullets missing:\n%s", output)
	}
}

func TestMarkdownCodeBlock(t *testing.T) {
	input := "Install:\n\n```\nstagehand login\n```\n\nDone."
	output := renderPlain(t, input, 80)

	if !strings.Contains(output, "stagehand login") {
		t.Errorf("code block content missing:\n%s", output)
	}
}

func TestMarkdownLink(t *testing.T) {
	input := "See [the venue](https://example.com/venue) for directions."
	output := renderPlain(t, input, 80)

	if !strings.Contains(output, "the venue") {
		t.Errorf("link text missing:\n%s", output)
	}
	if !strings.Contains(output, "https://example.com/venue") {
		t.Errorf("link destination missing:\n%s", output)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	if output := Markdown("", DefaultTheme, 80); output != "" {
		t.Errorf("empty input produced %q", output)
	}
}
