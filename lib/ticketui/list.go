// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/tui"
)

// Column widths for the list table. The title column fills remaining
// space; all others are fixed.
const (
	columnWidthStatus = 2  // "● "
	columnWidthID     = 7  // "#12345 "
	columnWidthDate   = 11 // "2024-03-01 "
	columnWidthRating = 6  // " ★★★★★"

	// categoryMaxWidth caps the category suffix so long category
	// names don't starve the title column.
	categoryMaxWidth = 14
)

// ListRenderer handles the table-style rendering of ticket rows
// within a given width.
type ListRenderer struct {
	theme tui.Theme
	width int
}

// NewListRenderer creates a ListRenderer for the given width.
func NewListRenderer(theme tui.Theme, width int) ListRenderer {
	return ListRenderer{theme: theme, width: width}
}

// RenderRow renders a single ticket as a formatted table row. The
// selected flag controls highlight styling. matchPositions contains
// rune indices in the title that matched the current search text;
// when non-nil those characters get the search highlight background.
//
// Row layout: status dot + id + date + title [category] + stars
//
//	● #42    2024-03-01 Printer on floor 3 jammed [Hardware] ★★★★
func (renderer ListRenderer) RenderRow(entry ticket.Ticket, selected bool, matchPositions []int) string {
	statusStyle := lipgloss.NewStyle().Foreground(renderer.theme.StatusColor(entry.Status))
	idStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	dateStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	priorityStyle := lipgloss.NewStyle().Foreground(renderer.theme.PriorityColor(entry.Priority))
	titleStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	categoryStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	ratingStyle := lipgloss.NewStyle().Foreground(renderer.theme.RatingFilled)

	if selected {
		base := lipgloss.NewStyle().
			Background(renderer.theme.SelectedBackground)
		statusStyle = statusStyle.Background(renderer.theme.SelectedBackground)
		idStyle = base.Foreground(renderer.theme.SelectedForeground)
		dateStyle = base.Foreground(renderer.theme.FaintText)
		priorityStyle = priorityStyle.Background(renderer.theme.SelectedBackground)
		titleStyle = base.Foreground(renderer.theme.SelectedForeground)
		categoryStyle = base.Foreground(renderer.theme.FaintText)
		ratingStyle = ratingStyle.Background(renderer.theme.SelectedBackground)
	}

	status := statusStyle.Render("● ")
	id := idStyle.Render(fmt.Sprintf("#%-5d ", entry.ID))
	date := dateStyle.Render(fmt.Sprintf("%-10s ", entry.CreatedDate()))

	// Priority marker: first letter, colored. Critical stands out by
	// color alone; the letter keeps it readable without color.
	marker := " "
	if entry.Priority.Valid() {
		marker = string([]rune(entry.Priority.Label())[0])
	}
	priority := priorityStyle.Render(marker + " ")

	category := ""
	if entry.Category.Name != "" {
		name := entry.Category.Name
		if ansi.StringWidth(name) > categoryMaxWidth {
			name = ansi.Truncate(name, categoryMaxWidth-1, "…")
		}
		category = categoryStyle.Render(" [" + name + "]")
	}

	rating := ""
	if entry.SatisfactionRating != nil {
		rating = ratingStyle.Render(" " + strings.Repeat("★", *entry.SatisfactionRating))
	}

	// Title fills whatever width remains after the fixed columns.
	fixedWidth := columnWidthStatus + columnWidthID + columnWidthDate + 2 +
		ansi.StringWidth(category) + ansi.StringWidth(rating)
	titleWidth := renderer.width - fixedWidth
	if titleWidth < 10 {
		titleWidth = 10
	}

	title := renderer.renderTitle(entry.Title, titleWidth, titleStyle, matchPositions)

	row := status + priority + id + date + title + category + rating

	// Pad the row to the full width so selection background extends
	// across the line.
	rowWidth := ansi.StringWidth(row)
	if rowWidth < renderer.width {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(renderer.theme.SelectedBackground)
		}
		row += padStyle.Render(strings.Repeat(" ", renderer.width-rowWidth))
	}
	return row
}

// renderTitle truncates the title to the given width and applies the
// search highlight background to matched rune positions.
func (renderer ListRenderer) renderTitle(title string, width int, baseStyle lipgloss.Style, matchPositions []int) string {
	runes := []rune(title)
	truncated := false
	if len(runes) > width {
		runes = runes[:width-1]
		truncated = true
	}

	if len(matchPositions) == 0 {
		text := string(runes)
		if truncated {
			text += "…"
		}
		return baseStyle.Render(text)
	}

	matched := make(map[int]bool, len(matchPositions))
	for _, position := range matchPositions {
		matched[position] = true
	}
	highlightStyle := baseStyle.Background(renderer.theme.SearchHighlightBackground)

	var result strings.Builder
	// Group consecutive runes by matched/unmatched to keep the escape
	// sequence count down.
	start := 0
	for start < len(runes) {
		end := start
		for end < len(runes) && matched[end] == matched[start] {
			end++
		}
		segment := string(runes[start:end])
		if matched[start] {
			result.WriteString(highlightStyle.Render(segment))
		} else {
			result.WriteString(baseStyle.Render(segment))
		}
		start = end
	}
	if truncated {
		result.WriteString(baseStyle.Render("…"))
	}
	return result.String()
}

// RenderEmpty renders the placeholder shown when the filtered list
// has no rows: either "no tickets" or "no matches" depending on
// whether a filter is active.
func (renderer ListRenderer) RenderEmpty(filtered bool) string {
	message := "No tickets."
	if filtered {
		message = "No tickets match the current filter."
	}
	return lipgloss.NewStyle().
		Foreground(renderer.theme.FaintText).
		Render("  " + message)
}
