// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestTextModalTypingAndValue(t *testing.T) {
	modal := NewTextModal("Describe the problem", DefaultTheme)
	modal.Update(keyRunes("laptop keeps"))
	modal.Update(tea.KeyMsg{Type: tea.KeyEnter})
	modal.Update(keyRunes("rebooting"))

	if got := modal.Value(); got != "laptop keeps\nrebooting" {
		t.Errorf("Value = %q, want %q", got, "laptop keeps\nrebooting")
	}
}

func TestTextModalEnterSplitsAtCursor(t *testing.T) {
	modal := NewTextModal("", DefaultTheme)
	modal.SetValue("headtail")
	for range 4 {
		modal.Update(tea.KeyMsg{Type: tea.KeyLeft})
	}
	modal.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := modal.Value(); got != "head\ntail" {
		t.Errorf("Value = %q, want %q", got, "head\ntail")
	}
}

func TestTextModalBackspaceMergesLines(t *testing.T) {
	modal := NewTextModal("", DefaultTheme)
	modal.SetValue("one\ntwo")
	modal.Update(tea.KeyMsg{Type: tea.KeyHome})
	modal.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	if got := modal.Value(); got != "onetwo" {
		t.Errorf("Value = %q, want %q", got, "onetwo")
	}
}

func TestTextModalSetValueRestoresDraft(t *testing.T) {
	modal := NewTextModal("", DefaultTheme)
	modal.SetValue("kept\ndraft")
	modal.Update(keyRunes("!"))

	if got := modal.Value(); got != "kept\ndraft!" {
		t.Errorf("Value = %q, cursor should land at the end of the draft", got)
	}
}

func TestTextModalRenderFitsScreen(t *testing.T) {
	modal := NewTextModal("Describe the problem", DefaultTheme)
	modal.SetValue(strings.Repeat("line\n", 40))

	lines, anchorX, anchorY := modal.Render(80, 24)
	if len(lines) > 24 {
		t.Errorf("rendered %d lines, must fit a 24-row screen", len(lines))
	}
	if anchorX < 0 || anchorY < 0 {
		t.Errorf("anchor = (%d, %d), want non-negative", anchorX, anchorY)
	}
}
