// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// Theme defines the color palette and visual properties for the
// fixflow terminal UI. All colors use lipgloss ANSI 256-color codes
// for broad terminal compatibility.
//
// The fields cover both universal chrome (text, selection, borders)
// and semantic categories (priority, status, rating) that recur
// across the list and detail panes.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Priority colors (indexed by ticket.Priority.Rank():
	// 0 low, 1 medium, 2 high, 3 critical).
	PriorityColors [4]lipgloss.Color

	// Status colors.
	StatusOpen       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusClosed     lipgloss.Color

	// Feedback rating stars.
	RatingFilled lipgloss.Color
	RatingEmpty  lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorForeground  lipgloss.Color

	// Search and filter match highlighting.
	SearchHighlightBackground lipgloss.Color

	// Modal and dropdown overlays.
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color

	// Markdown rendering in the detail pane.
	CodeForeground    lipgloss.Color
	CodeBackground    lipgloss.Color
	HeadingForeground lipgloss.Color
	LinkForeground    lipgloss.Color
}

// PriorityColor returns the color for a ticket priority. Unknown
// priorities return NormalText.
func (theme Theme) PriorityColor(priority ticket.Priority) lipgloss.Color {
	rank := priority.Rank()
	if rank < 0 || rank >= len(theme.PriorityColors) {
		return theme.NormalText
	}
	return theme.PriorityColors[rank]
}

// StatusColor returns the color for a ticket status. Unknown values
// return FaintText.
func (theme Theme) StatusColor(status ticket.Status) lipgloss.Color {
	switch status {
	case ticket.StatusOpen:
		return theme.StatusOpen
	case ticket.StatusInProgress:
		return theme.StatusInProgress
	case ticket.StatusClosed:
		return theme.StatusClosed
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	PriorityColors: [4]lipgloss.Color{
		lipgloss.Color("245"), // low: gray
		lipgloss.Color("75"),  // medium: blue
		lipgloss.Color("208"), // high: orange
		lipgloss.Color("196"), // critical: bright red
	},

	StatusOpen:       lipgloss.Color("114"), // green
	StatusInProgress: lipgloss.Color("220"), // yellow/amber
	StatusClosed:     lipgloss.Color("245"), // gray

	RatingFilled: lipgloss.Color("220"), // amber stars
	RatingEmpty:  lipgloss.Color("240"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	ErrorForeground:  lipgloss.Color("196"),

	SearchHighlightBackground: lipgloss.Color("58"), // dark amber

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"), // slightly lighter than terminal background

	CodeForeground:    lipgloss.Color("222"),
	CodeBackground:    lipgloss.Color("235"),
	HeadingForeground: lipgloss.Color("255"),
	LinkForeground:    lipgloss.Color("75"),
}
