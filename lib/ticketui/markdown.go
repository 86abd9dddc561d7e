// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

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

	"github.com/fixflow-project/fixflow/lib/tui"
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

// renderTerminalMarkdown parses a ticket description as markdown and
// renders it as styled terminal output. Soft line breaks (single
// newlines within paragraphs) become spaces so hard-wrapped source
// text reflows correctly at any pane width. Fenced code blocks are
// syntax-highlighted with chroma.
func renderTerminalMarkdown(input string, theme tui.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	reader := text.NewReader(source)
	document := getMarkdownParser().Parser().Parse(reader)

	// Force the ANSI256 color profile: this output is always for
	// terminal display inside the bubbletea view, so auto-detection
	// (which sees no TTY under tests) would strip all color.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	renderer.renderBlocks(document, "")
	return strings.TrimRight(renderer.output.String(), "\n")
}

// styledFragment is a run of inline text with a single style.
type styledFragment struct {
	text  string
	style lipgloss.Style
}

// markdownRenderer walks a goldmark AST and produces styled terminal
// text. Inline content accumulates into fragments per block and is
// word-wrapped as a unit when the block closes; goldmark's streaming
// renderer interface doesn't fit that accumulate-then-wrap shape.
type markdownRenderer struct {
	source      []byte
	theme       tui.Theme
	width       int
	lipRenderer *lipgloss.Renderer

	output strings.Builder
}

func (renderer *markdownRenderer) style() lipgloss.Style {
	return renderer.lipRenderer.NewStyle().Foreground(renderer.theme.NormalText)
}

// renderBlocks walks the block-level children of a node. The prefix
// is prepended to every emitted line (blockquote bars, list indents).
func (renderer *markdownRenderer) renderBlocks(parent ast.Node, prefix string) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Heading:
			fragments := renderer.collectInline(node, renderer.style().
				Bold(true).
				Foreground(renderer.theme.HeadingForeground))
			renderer.emitWrapped(fragments, prefix, prefix)
			renderer.output.WriteString("\n")

		case *ast.Paragraph, *ast.TextBlock:
			fragments := renderer.collectInline(child, renderer.style())
			renderer.emitWrapped(fragments, prefix, prefix)
			if _, isParagraph := child.(*ast.Paragraph); isParagraph {
				renderer.output.WriteString("\n")
			}

		case *ast.FencedCodeBlock:
			renderer.emitCodeBlock(node, prefix)
			renderer.output.WriteString("\n")

		case *ast.CodeBlock:
			renderer.emitIndentedCode(node, prefix)
			renderer.output.WriteString("\n")

		case *ast.List:
			renderer.emitList(node, prefix)
			renderer.output.WriteString("\n")

		case *ast.Blockquote:
			barStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.BorderColor)
			renderer.renderBlocks(node, prefix+barStyle.Render("│ "))
			renderer.output.WriteString("\n")

		case *ast.ThematicBreak:
			ruleWidth := renderer.width - ansi.StringWidth(prefix)
			if ruleWidth < 1 {
				ruleWidth = 1
			}
			rule := renderer.lipRenderer.NewStyle().
				Foreground(renderer.theme.BorderColor).
				Render(strings.Repeat("─", ruleWidth))
			renderer.output.WriteString(prefix + rule + "\n\n")

		default:
			// Unhandled block kinds (tables, HTML blocks) fall back
			// to their inline text content.
			fragments := renderer.collectInline(child, renderer.style())
			renderer.emitWrapped(fragments, prefix, prefix)
			renderer.output.WriteString("\n")
		}
	}
}

// emitList renders a bullet or ordered list. Nested lists recurse
// with a deeper indent.
func (renderer *markdownRenderer) emitList(list *ast.List, prefix string) {
	number := list.Start
	if number == 0 {
		number = 1
	}
	bulletStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "• "
		if list.IsOrdered() {
			bullet = fmt.Sprintf("%d. ", number)
			number++
		}
		continuation := prefix + strings.Repeat(" ", len(bullet))

		// The item's first paragraph shares the bullet line; any
		// further blocks (nested lists included) use the hanging
		// indent.
		first := true
		for block := item.FirstChild(); block != nil; block = block.NextSibling() {
			switch node := block.(type) {
			case *ast.List:
				renderer.emitList(node, continuation)
			case *ast.Paragraph, *ast.TextBlock:
				fragments := renderer.collectInline(block, renderer.style())
				if first {
					renderer.emitWrapped(fragments, prefix+bulletStyle.Render(bullet), continuation)
				} else {
					renderer.emitWrapped(fragments, continuation, continuation)
				}
			case *ast.FencedCodeBlock:
				renderer.emitCodeBlock(node, continuation)
			}
			first = false
		}
	}
}

// emitCodeBlock renders a fenced code block, syntax-highlighted by
// chroma when the fence names a language chroma knows.
func (renderer *markdownRenderer) emitCodeBlock(node *ast.FencedCodeBlock, prefix string) {
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}

	language := string(node.Language(renderer.source))
	var highlighted strings.Builder
	err := quick.Highlight(&highlighted, code.String(), language, "terminal256", "monokai")
	rendered := highlighted.String()
	if err != nil || language == "" {
		rendered = renderer.lipRenderer.NewStyle().
			Foreground(renderer.theme.CodeForeground).
			Render(strings.TrimRight(code.String(), "\n"))
	}

	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		renderer.output.WriteString(prefix + "  " + line + "\n")
	}
}

// emitIndentedCode renders an indented (non-fenced) code block with
// the plain code style; there is no language to highlight with.
func (renderer *markdownRenderer) emitIndentedCode(node *ast.CodeBlock, prefix string) {
	codeStyle := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.CodeForeground)
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		line := strings.TrimRight(string(segment.Value(renderer.source)), "\n")
		renderer.output.WriteString(prefix + "  " + codeStyle.Render(line) + "\n")
	}
}

// collectInline flattens a block's inline children into styled
// fragments. Soft line breaks become spaces; hard breaks become
// explicit newline fragments that emitWrapped honors.
func (renderer *markdownRenderer) collectInline(block ast.Node, baseStyle lipgloss.Style) []styledFragment {
	var fragments []styledFragment
	renderer.collectInlineInto(&fragments, block, baseStyle)
	return fragments
}

func (renderer *markdownRenderer) collectInlineInto(fragments *[]styledFragment, parent ast.Node, style lipgloss.Style) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			*fragments = append(*fragments, styledFragment{
				text:  string(node.Segment.Value(renderer.source)),
				style: style,
			})
			if node.HardLineBreak() {
				*fragments = append(*fragments, styledFragment{text: "\n", style: style})
			} else if node.SoftLineBreak() {
				*fragments = append(*fragments, styledFragment{text: " ", style: style})
			}

		case *ast.Emphasis:
			emphasized := style
			if node.Level >= 2 {
				emphasized = emphasized.Bold(true)
			} else {
				emphasized = emphasized.Italic(true)
			}
			renderer.collectInlineInto(fragments, node, emphasized)

		case *ast.CodeSpan:
			codeStyle := renderer.lipRenderer.NewStyle().
				Foreground(renderer.theme.CodeForeground).
				Background(renderer.theme.CodeBackground)
			var code strings.Builder
			for grandchild := node.FirstChild(); grandchild != nil; grandchild = grandchild.NextSibling() {
				if textNode, ok := grandchild.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			*fragments = append(*fragments, styledFragment{text: code.String(), style: codeStyle})

		case *ast.Link:
			renderer.collectInlineInto(fragments, node, style)
			*fragments = append(*fragments, styledFragment{
				text: " (" + string(node.Destination) + ")",
				style: renderer.lipRenderer.NewStyle().
					Foreground(renderer.theme.LinkForeground),
			})

		case *ast.AutoLink:
			*fragments = append(*fragments, styledFragment{
				text: string(node.URL(renderer.source)),
				style: renderer.lipRenderer.NewStyle().
					Foreground(renderer.theme.LinkForeground),
			})

		default:
			renderer.collectInlineInto(fragments, child, style)
		}
	}
}

// emitWrapped word-wraps styled fragments to the pane width and
// writes the resulting lines. firstPrefix is used for the first line
// (it may carry a list bullet); restPrefix for continuation lines.
func (renderer *markdownRenderer) emitWrapped(fragments []styledFragment, firstPrefix, restPrefix string) {
	type styledWord struct {
		text  string
		style lipgloss.Style
		brk   bool // explicit hard break
	}

	var words []styledWord
	for _, fragment := range fragments {
		if fragment.text == "\n" {
			words = append(words, styledWord{brk: true})
			continue
		}
		for _, word := range strings.Fields(fragment.text) {
			words = append(words, styledWord{text: word, style: fragment.style})
		}
	}

	prefix := firstPrefix
	available := renderer.width - ansi.StringWidth(prefix)
	if available < 10 {
		available = 10
	}

	var line strings.Builder
	lineWidth := 0
	flushLine := func() {
		renderer.output.WriteString(prefix + line.String() + "\n")
		line.Reset()
		lineWidth = 0
		prefix = restPrefix
		available = renderer.width - ansi.StringWidth(prefix)
		if available < 10 {
			available = 10
		}
	}

	for _, word := range words {
		if word.brk {
			flushLine()
			continue
		}
		wordWidth := ansi.StringWidth(word.text)
		spacer := 0
		if lineWidth > 0 {
			spacer = 1
		}
		if lineWidth > 0 && lineWidth+spacer+wordWidth > available {
			flushLine()
			spacer = 0
		}
		if spacer == 1 {
			line.WriteString(" ")
			lineWidth++
		}
		line.WriteString(word.style.Render(word.text))
		lineWidth += wordWidth
	}
	if lineWidth > 0 || len(words) == 0 {
		flushLine()
	}
}
