// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/tui"
)

func TestFeedbackModalRefusesSubmitWithoutRating(t *testing.T) {
	modal := NewFeedbackModal(1, tui.DefaultTheme)

	if modal.Update(tea.KeyMsg{Type: tea.KeyCtrlD}) {
		t.Error("submit must be refused until a rating is chosen")
	}

	modal.Update(tea.KeyMsg{Type: tea.KeyRight}) // 1 star
	modal.Update(tea.KeyMsg{Type: tea.KeyRight}) // 2 stars
	if modal.Rating != 2 {
		t.Fatalf("rating = %d, want 2", modal.Rating)
	}
	if !modal.Update(tea.KeyMsg{Type: tea.KeyCtrlD}) {
		t.Error("submit should succeed once a rating is chosen")
	}
}

func TestFeedbackModalRatingClampsToRange(t *testing.T) {
	modal := NewFeedbackModal(1, tui.DefaultTheme)
	for range 10 {
		modal.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if modal.Rating != 5 {
		t.Errorf("rating clamps at 5, got %d", modal.Rating)
	}
	for range 10 {
		modal.Update(tea.KeyMsg{Type: tea.KeyLeft})
	}
	if modal.Rating != 1 {
		t.Errorf("rating clamps at 1, got %d", modal.Rating)
	}
}

func TestCreateFormValidation(t *testing.T) {
	categories := []ticket.Category{{ID: 1, Name: "Hardware"}}

	form := NewCreateForm(categories, tui.DefaultTheme)
	if form.Validate() == "" {
		t.Error("empty form must not validate")
	}

	form.Title = "Broken screen"
	if message := form.Validate(); message == "" {
		t.Error("missing description must not validate")
	} else if message != "description is required" {
		t.Errorf("validation message = %q", message)
	}

	form.Description = "It fell"
	if form.Validate() != "choose a category" {
		t.Error("missing category must not validate")
	}

	form.CategoryIndex = 0
	if message := form.Validate(); message != "" {
		t.Errorf("complete form should validate, got %q", message)
	}
}

func TestCreateFormDefaultsToMediumPriority(t *testing.T) {
	form := NewCreateForm(nil, tui.DefaultTheme)
	if form.Priority() != ticket.PriorityMedium {
		t.Errorf("default priority = %s, want Medium", form.Priority())
	}
}

func TestCreateFormCategoryCycling(t *testing.T) {
	categories := []ticket.Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	form := NewCreateForm(categories, tui.DefaultTheme)

	// Move focus to the category field, then cycle.
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyRight})

	category, chosen := form.Category()
	if !chosen || category.ID != 1 {
		t.Errorf("first right press should choose the first category, got %+v", category)
	}

	form.Update(tea.KeyMsg{Type: tea.KeyRight})
	category, _ = form.Category()
	if category.ID != 2 {
		t.Errorf("second right press should choose the second category, got %+v", category)
	}
}

func TestCreateFormDescriptionEditorSavesMultiline(t *testing.T) {
	form := NewCreateForm(nil, tui.DefaultTheme)
	form.Update(tea.KeyMsg{Type: tea.KeyTab}) // focus description

	form.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if !form.EditingDescription() {
		t.Fatal("Ctrl+E on the description field should open the editor")
	}

	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("first")})
	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("second")})
	if form.EditingDescription() != true {
		t.Fatal("typing must not close the editor")
	}

	form.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if form.EditingDescription() {
		t.Fatal("Ctrl+D should close the editor")
	}
	if form.Description != "first\nsecond" {
		t.Errorf("Description = %q, want %q", form.Description, "first\nsecond")
	}
}

func TestCreateFormDescriptionEditorEscDiscards(t *testing.T) {
	form := NewCreateForm(nil, tui.DefaultTheme)
	form.Description = "original"
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyCtrlE})

	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" edited")})
	form.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if form.EditingDescription() {
		t.Fatal("Esc should close the editor")
	}
	if form.Description != "original" {
		t.Errorf("Description = %q, discarded edit must not stick", form.Description)
	}
}

func TestCreateFormEditorIgnoresSubmitKeys(t *testing.T) {
	form := NewCreateForm([]ticket.Category{{ID: 1, Name: "Hardware"}}, tui.DefaultTheme)
	form.Title = "t"
	form.CategoryIndex = 0
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyCtrlE})

	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	// Ctrl+D inside the editor saves; it must not submit the form.
	if form.Update(tea.KeyMsg{Type: tea.KeyCtrlD}) {
		t.Error("closing the editor must not count as a form submit")
	}
	if form.Description != "d" {
		t.Errorf("Description = %q, want %q", form.Description, "d")
	}
}

func TestCreateFormCtrlEOnlyOpensEditorOnDescription(t *testing.T) {
	form := NewCreateForm(nil, tui.DefaultTheme)
	form.Update(tea.KeyMsg{Type: tea.KeyCtrlE}) // focus is on title
	if form.EditingDescription() {
		t.Error("Ctrl+E outside the description field must not open the editor")
	}
}
