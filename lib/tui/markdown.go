// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share; actual parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// Markdown renders markdown text as styled terminal output wrapped to
// width. Event and ticket descriptions are authored in markdown on
// other BlocStage surfaces; this keeps them readable in the preview
// step and event view. Soft line breaks become spaces so hard-wrapped
// source reflows at any terminal width.
func Markdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: this output is always for terminal
	// display, and auto-detection yields uncolored output under tests
	// with no TTY.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST and produces styled terminal
// text. Inline content accumulates in a buffer and is word-wrapped as
// a unit when the containing block closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder
	inline strings.Builder

	// indent is the current left margin from list nesting.
	indent int
	// pendingBullet replaces the indent for the next flushed line.
	pendingBullet string

	boldCount   int
	italicCount int

	listStack []listState
	// bulletWidths records the indent added by each open list item so
	// leaving the item restores the margin exactly.
	bulletWidths []int

	lipRenderer *lipgloss.Renderer
}

type listState struct {
	ordered bool
	counter int
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *markdownRenderer) contentWidth() int {
	width := renderer.width - renderer.indent
	if width < 10 {
		width = 10
	}
	return width
}

// flushInline wraps the accumulated inline content, applies the
// indent (or pending bullet on the first line), and appends it to the
// output followed by a newline.
func (renderer *markdownRenderer) flushInline() {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return
	}

	wrapped := ansi.Wrap(content, renderer.contentWidth(), " ,.;-+|")
	margin := strings.Repeat(" ", renderer.indent)
	for index, line := range strings.Split(wrapped, "\n") {
		if index == 0 && renderer.pendingBullet != "" {
			renderer.output.WriteString(renderer.pendingBullet)
			renderer.pendingBullet = ""
		} else {
			renderer.output.WriteString(margin)
		}
		renderer.output.WriteString(line)
		renderer.output.WriteString("\n")
	}
}

func (renderer *markdownRenderer) blankLine() {
	if !strings.HasSuffix(renderer.output.String(), "\n\n") {
		renderer.output.WriteString("\n")
	}
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.newStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.flushInline()
			if len(renderer.listStack) == 0 {
				renderer.blankLine()
			}
		}

	case *ast.Heading:
		if entering {
			renderer.inline.Reset()
		} else {
			content := ansi.Strip(renderer.inline.String())
			renderer.inline.Reset()
			style := renderer.newStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)
			renderer.inline.WriteString(style.Render(content))
			renderer.flushInline()
			renderer.blankLine()
		}

	case *ast.FencedCodeBlock:
		if entering {
			renderer.renderCode(codeText(typed.Lines(), renderer.source), string(typed.Language(renderer.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			renderer.renderCode(codeText(typed.Lines(), renderer.source), "")
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			start := 0
			if typed.IsOrdered() {
				start = typed.Start
			}
			renderer.listStack = append(renderer.listStack, listState{
				ordered: typed.IsOrdered(),
				counter: start,
			})
		} else {
			renderer.listStack = renderer.listStack[:len(renderer.listStack)-1]
			if len(renderer.listStack) == 0 {
				renderer.blankLine()
			}
		}

	case *ast.ListItem:
		if entering {
			top := &renderer.listStack[len(renderer.listStack)-1]
			bullet := "- "
			if top.ordered {
				bullet = fmt.Sprintf("%d. ", top.counter)
				top.counter++
			}
			renderer.pendingBullet = strings.Repeat(" ", renderer.indent) + bullet
			renderer.indent += len(bullet)
			renderer.bulletWidths = append(renderer.bulletWidths, len(bullet))
		} else {
			last := len(renderer.bulletWidths) - 1
			renderer.indent -= renderer.bulletWidths[last]
			renderer.bulletWidths = renderer.bulletWidths[:last]
		}

	case *ast.ThematicBreak:
		if entering {
			rule := renderer.newStyle().Foreground(renderer.theme.BorderColor).
				Render(strings.Repeat("─", renderer.contentWidth()))
			renderer.output.WriteString(rule + "\n")
			renderer.blankLine()
		}

	case *ast.Text:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(typed.Segment.Value(renderer.source))))
			if typed.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if typed.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case *ast.String:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(typed.Value)))
		}

	case *ast.Emphasis:
		if typed.Level >= 2 {
			if entering {
				renderer.boldCount++
			} else {
				renderer.boldCount--
			}
		} else {
			if entering {
				renderer.italicCount++
			} else {
				renderer.italicCount--
			}
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			style := renderer.newStyle().Foreground(renderer.theme.FaintText)
			renderer.inline.WriteString(style.Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if entering {
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				ast.Walk(child, renderer.walk)
			}
			if url := string(typed.Destination); url != "" {
				style := renderer.newStyle().Foreground(renderer.theme.FaintText)
				renderer.inline.WriteString(" " + style.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case *ast.AutoLink:
		if entering {
			style := renderer.newStyle().Foreground(renderer.theme.Accent)
			renderer.inline.WriteString(style.Render(string(typed.URL(renderer.source))))
		}
	}

	return ast.WalkContinue, nil
}

// renderCode emits a code block, syntax-highlighted when the language
// is known to chroma and plain faint text otherwise.
func (renderer *markdownRenderer) renderCode(code, language string) {
	rendered := ""
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err == nil {
			rendered = buffer.String()
		}
	}
	if rendered == "" {
		rendered = renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}

	margin := strings.Repeat(" ", renderer.indent+2)
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		renderer.output.WriteString(margin + line + "\n")
	}
	renderer.blankLine()
}

func codeText(lines *text.Segments, source []byte) string {
	var code strings.Builder
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(source))
	}
	return code.String()
}
