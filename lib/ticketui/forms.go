// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/tui"
)

// FeedbackModal collects a 1-5 star rating and an optional free-text
// comment for a closed ticket. Left/right adjust the rating, typed
// characters edit the text, Ctrl+D submits. Submission is refused
// until a rating is chosen.
type FeedbackModal struct {
	TicketID int
	Rating   int // 0 means not chosen yet.
	Text     string

	theme tui.Theme
}

// NewFeedbackModal creates a feedback modal for the given ticket.
func NewFeedbackModal(ticketID int, theme tui.Theme) FeedbackModal {
	return FeedbackModal{TicketID: ticketID, theme: theme}
}

// Update processes a key message. Returns true when the user
// submitted (Ctrl+D with a rating chosen).
func (modal *FeedbackModal) Update(message tea.KeyMsg) (submitted bool) {
	switch message.Type {
	case tea.KeyLeft:
		if modal.Rating > 1 {
			modal.Rating--
		} else if modal.Rating == 0 {
			modal.Rating = 1
		}
	case tea.KeyRight:
		if modal.Rating < 5 {
			modal.Rating++
		}
	case tea.KeyBackspace:
		if len(modal.Text) > 0 {
			runes := []rune(modal.Text)
			modal.Text = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		modal.Text += string(message.Runes)
	case tea.KeyCtrlD:
		return modal.Rating > 0
	}
	return false
}

// Render produces the modal overlay lines and anchor position.
func (modal FeedbackModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	theme := modal.theme
	bgStyle := lipgloss.NewStyle().Background(theme.OverlayBackground)
	textStyle := bgStyle.Foreground(theme.OverlayForeground)
	faintStyle := bgStyle.Foreground(theme.FaintText)
	titleStyle := bgStyle.Bold(true).Foreground(theme.HeaderForeground)

	stars := ""
	for position := 1; position <= 5; position++ {
		if position <= modal.Rating {
			stars += bgStyle.Foreground(theme.RatingFilled).Render("★ ")
		} else {
			stars += bgStyle.Foreground(theme.RatingEmpty).Render("☆ ")
		}
	}

	hint := "←/→ rating  Ctrl+D submit  Esc cancel"
	if modal.Rating == 0 {
		hint = "choose a rating first  ·  " + hint
	}

	cursor := lipgloss.NewStyle().
		Foreground(theme.HeaderForeground).
		Bold(true).
		Render("▎")

	innerWidth := 44
	if innerWidth > screenWidth-6 {
		innerWidth = screenWidth - 6
	}

	rows := []string{
		titleStyle.Render(fmt.Sprintf("Feedback for #%d", modal.TicketID)),
		stars,
		textStyle.Render(truncateTail(modal.Text, innerWidth-1)) + cursor,
		faintStyle.Render(hint),
	}
	return renderOverlayBox(rows, innerWidth, screenWidth, screenHeight, theme)
}

// createFormField identifies the focused row of the create form.
type createFormField int

const (
	formFieldTitle createFormField = iota
	formFieldDescription
	formFieldCategory
	formFieldPriority
)

// CreateForm is the modal form for filing a new ticket: title,
// description, category, priority. Tab/down move between fields,
// left/right cycle the category and priority choices, Ctrl+D
// submits. Title, description, and category are required; the form
// reports a local validation error instead of calling the service
// when any is missing.
type CreateForm struct {
	Title       string
	Description string

	// CategoryIndex indexes into categories; -1 means none chosen.
	CategoryIndex int
	categories    []ticket.Category

	// PriorityIndex indexes into ticket.Priorities.
	PriorityIndex int

	// ValidationError is the current local validation failure, shown
	// inline in the form. Cleared on the next edit.
	ValidationError string

	// editor is non-nil while the description is open in the
	// multi-line editor (Ctrl+E on the description field). Keys go to
	// the editor until it is saved or discarded.
	editor *tui.TextModal

	focus createFormField
	theme tui.Theme
}

// NewCreateForm creates a blank form over the session's category set.
// Priority defaults to Medium, matching the service default.
func NewCreateForm(categories []ticket.Category, theme tui.Theme) CreateForm {
	return CreateForm{
		CategoryIndex: -1,
		categories:    categories,
		PriorityIndex: ticket.PriorityMedium.Rank(),
		theme:         theme,
	}
}

// Category returns the chosen category, or false if none was chosen.
func (form *CreateForm) Category() (ticket.Category, bool) {
	if form.CategoryIndex < 0 || form.CategoryIndex >= len(form.categories) {
		return ticket.Category{}, false
	}
	return form.categories[form.CategoryIndex], true
}

// Priority returns the chosen priority.
func (form *CreateForm) Priority() ticket.Priority {
	return ticket.Priorities[form.PriorityIndex]
}

// EditingDescription reports whether the multi-line description
// editor is open. While it is, Esc closes the editor rather than the
// form.
func (form *CreateForm) EditingDescription() bool {
	return form.editor != nil
}

// Validate checks the required fields, recording and returning the
// first failure. A nil-equivalent empty string means the form can be
// submitted.
func (form *CreateForm) Validate() string {
	switch {
	case strings.TrimSpace(form.Title) == "":
		form.ValidationError = "title is required"
	case strings.TrimSpace(form.Description) == "":
		form.ValidationError = "description is required"
	case form.CategoryIndex < 0:
		form.ValidationError = "choose a category"
	default:
		form.ValidationError = ""
	}
	return form.ValidationError
}

// Update processes a key message. Returns true when the user pressed
// submit and the form validated.
func (form *CreateForm) Update(message tea.KeyMsg) (submitted bool) {
	if form.editor != nil {
		switch message.Type {
		case tea.KeyCtrlD:
			form.Description = form.editor.Value()
			form.ValidationError = ""
			form.editor = nil
		case tea.KeyEsc:
			form.editor = nil
		default:
			form.editor.Update(message)
		}
		return false
	}

	switch message.Type {
	case tea.KeyCtrlE:
		if form.focus == formFieldDescription {
			editor := tui.NewTextModal("Describe the problem", form.theme)
			editor.FooterHint = "Ctrl+D save  Esc discard"
			editor.SetValue(form.Description)
			form.editor = &editor
		}
	case tea.KeyTab, tea.KeyDown:
		if form.focus < formFieldPriority {
			form.focus++
		} else {
			form.focus = formFieldTitle
		}
	case tea.KeyShiftTab, tea.KeyUp:
		if form.focus > formFieldTitle {
			form.focus--
		} else {
			form.focus = formFieldPriority
		}
	case tea.KeyLeft:
		form.cycleChoice(-1)
	case tea.KeyRight:
		form.cycleChoice(1)
	case tea.KeyBackspace:
		form.ValidationError = ""
		switch form.focus {
		case formFieldTitle:
			form.Title = trimLastRune(form.Title)
		case formFieldDescription:
			form.Description = trimLastRune(form.Description)
		}
	case tea.KeyRunes, tea.KeySpace:
		form.ValidationError = ""
		switch form.focus {
		case formFieldTitle:
			form.Title += string(message.Runes)
		case formFieldDescription:
			form.Description += string(message.Runes)
		}
	case tea.KeyEnter:
		// Enter advances like Tab; on the last field it submits.
		if form.focus < formFieldPriority {
			form.focus++
			return false
		}
		return form.Validate() == ""
	case tea.KeyCtrlD:
		return form.Validate() == ""
	}
	return false
}

func (form *CreateForm) cycleChoice(direction int) {
	switch form.focus {
	case formFieldCategory:
		if len(form.categories) == 0 {
			return
		}
		form.CategoryIndex += direction
		if form.CategoryIndex < 0 {
			form.CategoryIndex = len(form.categories) - 1
		}
		if form.CategoryIndex >= len(form.categories) {
			form.CategoryIndex = 0
		}
	case formFieldPriority:
		form.PriorityIndex += direction
		if form.PriorityIndex < 0 {
			form.PriorityIndex = len(ticket.Priorities) - 1
		}
		if form.PriorityIndex >= len(ticket.Priorities) {
			form.PriorityIndex = 0
		}
	}
}

// Render produces the form overlay lines and anchor position. While
// the description editor is open it takes over the whole overlay.
func (form CreateForm) Render(screenWidth, screenHeight int) ([]string, int, int) {
	if form.editor != nil {
		return form.editor.Render(screenWidth, screenHeight)
	}

	theme := form.theme
	bgStyle := lipgloss.NewStyle().Background(theme.OverlayBackground)
	textStyle := bgStyle.Foreground(theme.OverlayForeground)
	faintStyle := bgStyle.Foreground(theme.FaintText)
	titleStyle := bgStyle.Bold(true).Foreground(theme.HeaderForeground)
	errorStyle := bgStyle.Foreground(theme.ErrorForeground)

	innerWidth := 52
	if innerWidth > screenWidth-6 {
		innerWidth = screenWidth - 6
	}

	cursor := lipgloss.NewStyle().
		Foreground(theme.HeaderForeground).
		Bold(true).
		Render("▎")

	fieldLine := func(field createFormField, label, value, placeholder string) string {
		marker := "  "
		if form.focus == field {
			marker = bgStyle.Foreground(theme.HeaderForeground).Render("> ")
		} else {
			marker = bgStyle.Render(marker)
		}
		labelPart := faintStyle.Render(fmt.Sprintf("%-10s", label))
		if value == "" && form.focus != field {
			return marker + labelPart + faintStyle.Render(placeholder)
		}
		rendered := textStyle.Render(truncateTail(value, innerWidth-14))
		if form.focus == field && (field == formFieldTitle || field == formFieldDescription) {
			rendered += cursor
		}
		return marker + labelPart + rendered
	}

	categoryValue := "←/→ to choose"
	if category, chosen := form.Category(); chosen {
		categoryValue = category.Name
	}
	priorityValue := form.Priority().Label()

	// A multi-line description is shown flattened on the field row;
	// the editor is where it is read in full.
	description := strings.ReplaceAll(form.Description, "\n", " ")

	rows := []string{
		titleStyle.Render("New ticket"),
		fieldLine(formFieldTitle, "Title", form.Title, "what's wrong?"),
		fieldLine(formFieldDescription, "Describe", description, "details, steps, error text"),
		fieldLine(formFieldCategory, "Category", categoryValue, ""),
		fieldLine(formFieldPriority, "Priority", priorityValue, ""),
	}
	if form.ValidationError != "" {
		rows = append(rows, errorStyle.Render(form.ValidationError))
	}
	hint := "Tab next  ←/→ choose  Ctrl+D submit  Esc cancel"
	if form.focus == formFieldDescription {
		hint = "Ctrl+E editor  Ctrl+D submit  Esc cancel"
	}
	rows = append(rows, faintStyle.Render(hint))

	return renderOverlayBox(rows, innerWidth, screenWidth, screenHeight, theme)
}

// renderOverlayBox wraps content rows in a bordered, backgrounded box
// and centers it on screen. Returns lines plus the anchor.
func renderOverlayBox(rows []string, innerWidth, screenWidth, screenHeight int, theme tui.Theme) ([]string, int, int) {
	bgStyle := lipgloss.NewStyle().Background(theme.OverlayBackground)
	borderStyle := lipgloss.NewStyle().
		Foreground(theme.BorderColor).
		Background(theme.OverlayBackground)

	totalWidth := innerWidth + 4
	horizontal := strings.Repeat("─", totalWidth-2)
	edge := borderStyle.Render("│")

	lines := []string{borderStyle.Render("╭" + horizontal + "╮")}
	for _, row := range rows {
		if ansi.StringWidth(row) > innerWidth {
			row = ansi.Truncate(row, innerWidth, "…")
		}
		lines = append(lines, edge+tui.PadOverlayLine(row, innerWidth, bgStyle)+edge)
	}
	lines = append(lines, borderStyle.Render("╰"+horizontal+"╯"))

	anchorX := (screenWidth - totalWidth) / 2
	anchorY := (screenHeight - len(lines)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}
	return lines, anchorX, anchorY
}

// truncateTail keeps the end of a string when it exceeds the width,
// so the cursor area always shows the most recent typing.
func truncateTail(text string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return "…" + string(runes[len(runes)-width+1:])
}

// trimLastRune removes the final rune of a string.
func trimLastRune(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	return string(runes[:len(runes)-1])
}
