// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/ticketlist"
	"github.com/fixflow-project/fixflow/lib/tui"
)

// FilterModel owns the filter bar state: the free-text search input
// plus the structured criteria (status, category, priority, rating,
// sort key) set through dropdowns. The structured state lives in a
// [ticketlist.FilterState], which the model hands to the snapshot
// store to derive the visible list.
type FilterModel struct {
	// State is the structured filter handed to ticketlist.Apply.
	// The text input edits State.Search in place.
	State ticketlist.FilterState

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// HandleRune processes a character typed while the filter is active.
func (filter *FilterModel) HandleRune(character rune) {
	filter.State.Search += string(character)
}

// HandleBackspace removes the last character from the search input.
// Returns false if there was nothing to remove.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.State.Search) == 0 {
		return false
	}
	runes := []rune(filter.State.Search)
	filter.State.Search = string(runes[:len(runes)-1])
	return true
}

// Clear resets the search text and all structured criteria, keeping
// only the sort key, and deactivates the input.
func (filter *FilterModel) Clear() {
	sort := filter.State.Sort
	filter.State = ticketlist.FilterState{Sort: sort}
	filter.Active = false
}

// CycleSort advances to the next sort key in a fixed rotation:
// newest first, oldest first, title.
func (filter *FilterModel) CycleSort() {
	switch filter.State.Sort {
	case ticketlist.SortCreatedDesc:
		filter.State.Sort = ticketlist.SortCreatedAsc
	case ticketlist.SortCreatedAsc:
		filter.State.Sort = ticketlist.SortTitleAsc
	default:
		filter.State.Sort = ticketlist.SortCreatedDesc
	}
}

// TitlePositions returns the rune indices of the title that match the
// current search text, for highlight rendering in the list. Returns
// nil when the search is empty or nothing matches.
func (filter *FilterModel) TitlePositions(title string) []int {
	if filter.State.Search == "" {
		return nil
	}
	result := tui.FuzzyMatch(title, []rune(filter.State.Search), nil)
	return result.Positions
}

// Dropdown field names used by the filter dropdowns and the model's
// dropdown dispatch.
const (
	fieldFilterStatus   = "filter-status"
	fieldFilterCategory = "filter-category"
	fieldFilterPriority = "filter-priority"
	fieldFilterRating   = "filter-rating"
)

// anyOption is the first entry of every filter dropdown; selecting it
// clears that criterion.
const anyOption = "(any)"

// StatusOptions returns the status filter dropdown entries.
func (filter *FilterModel) StatusOptions() []tui.DropdownOption {
	options := []tui.DropdownOption{{Label: anyOption}}
	for _, status := range ticket.Statuses {
		options = append(options, tui.DropdownOption{Label: status.Label(), Value: string(status)})
	}
	return options
}

// PriorityOptions returns the priority filter dropdown entries.
func (filter *FilterModel) PriorityOptions() []tui.DropdownOption {
	options := []tui.DropdownOption{{Label: anyOption}}
	for _, priority := range ticket.Priorities {
		options = append(options, tui.DropdownOption{Label: priority.Label(), Value: string(priority)})
	}
	return options
}

// RatingOptions returns the rating filter dropdown entries (1 to 5
// stars).
func (filter *FilterModel) RatingOptions() []tui.DropdownOption {
	options := []tui.DropdownOption{{Label: anyOption}}
	for rating := 1; rating <= 5; rating++ {
		options = append(options, tui.DropdownOption{
			Label: strings.Repeat("★", rating),
			Value: strconv.Itoa(rating),
		})
	}
	return options
}

// CategoryOptions returns the category filter dropdown entries for
// the given category set.
func (filter *FilterModel) CategoryOptions(categories []ticket.Category) []tui.DropdownOption {
	options := []tui.DropdownOption{{Label: anyOption}}
	for _, category := range categories {
		options = append(options, tui.DropdownOption{
			Label: category.Name,
			Value: strconv.Itoa(category.ID),
		})
	}
	return options
}

// ApplyChoice sets the structured criterion named by field to the
// dropdown value. An empty value (the "(any)" entry) clears the
// criterion.
func (filter *FilterModel) ApplyChoice(field, value string) {
	switch field {
	case fieldFilterStatus:
		if value == "" {
			filter.State.Status = nil
			return
		}
		status := ticket.Status(value)
		filter.State.Status = &status
	case fieldFilterCategory:
		if value == "" {
			filter.State.Category = nil
			return
		}
		if categoryID, err := strconv.Atoi(value); err == nil {
			filter.State.Category = &categoryID
		}
	case fieldFilterPriority:
		if value == "" {
			filter.State.Priority = nil
			return
		}
		priority := ticket.Priority(value)
		filter.State.Priority = &priority
	case fieldFilterRating:
		if value == "" {
			filter.State.Rating = nil
			return
		}
		if rating, err := strconv.Atoi(value); err == nil {
			filter.State.Rating = &rating
		}
	}
}

// Summary renders the structured criteria as a compact chip string
// for the filter bar, e.g. "status:Closed cat:Hardware ★3".
func (filter *FilterModel) Summary(categories []ticket.Category) string {
	var chips []string
	if filter.State.Status != nil {
		chips = append(chips, "status:"+filter.State.Status.Label())
	}
	if filter.State.Category != nil {
		name := strconv.Itoa(*filter.State.Category)
		for _, category := range categories {
			if category.ID == *filter.State.Category {
				name = category.Name
				break
			}
		}
		chips = append(chips, "cat:"+name)
	}
	if filter.State.Priority != nil {
		chips = append(chips, "prio:"+filter.State.Priority.Label())
	}
	if filter.State.Rating != nil {
		chips = append(chips, strings.Repeat("★", *filter.State.Rating))
	}
	return strings.Join(chips, " ")
}

// View renders the filter bar line: the search input (with a cursor
// when active), the structured criteria chips, and the current sort
// key on the right.
func (filter *FilterModel) View(theme tui.Theme, width int, categories []ticket.Category) string {
	style := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width)
	dimStyle := lipgloss.NewStyle().Foreground(theme.FaintText)

	var left string
	switch {
	case filter.Active:
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		left = " / " + filter.State.Search + cursor
	case filter.State.Search != "":
		left = dimStyle.Render(" search: " + filter.State.Search)
	default:
		left = dimStyle.Render(" / to search")
	}

	if chips := filter.Summary(categories); chips != "" {
		left += "  " + dimStyle.Render(chips)
	}
	left += "  " + dimStyle.Render(fmt.Sprintf("sort:%s", filter.State.Sort.Label()))

	return style.Render(left)
}
