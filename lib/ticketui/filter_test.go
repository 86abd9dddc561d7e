// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"testing"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/ticketlist"
)

func TestApplyChoiceSetsAndClearsCriteria(t *testing.T) {
	var filter FilterModel

	filter.ApplyChoice(fieldFilterStatus, "Closed")
	if filter.State.Status == nil || *filter.State.Status != ticket.StatusClosed {
		t.Error("status choice should set the criterion")
	}
	filter.ApplyChoice(fieldFilterStatus, "")
	if filter.State.Status != nil {
		t.Error("the (any) choice should clear the criterion")
	}

	filter.ApplyChoice(fieldFilterCategory, "3")
	if filter.State.Category == nil || *filter.State.Category != 3 {
		t.Error("category choice should set the id")
	}

	filter.ApplyChoice(fieldFilterRating, "4")
	if filter.State.Rating == nil || *filter.State.Rating != 4 {
		t.Error("rating choice should set the value")
	}

	filter.ApplyChoice(fieldFilterPriority, "High")
	if filter.State.Priority == nil || *filter.State.Priority != ticket.PriorityHigh {
		t.Error("priority choice should set the criterion")
	}
}

func TestClearKeepsSortKey(t *testing.T) {
	var filter FilterModel
	filter.State.Search = "vpn"
	status := ticket.StatusOpen
	filter.State.Status = &status
	filter.State.Sort = ticketlist.SortTitleAsc

	filter.Clear()

	if filter.State.Search != "" || filter.State.Status != nil {
		t.Error("Clear should drop search text and criteria")
	}
	if filter.State.Sort != ticketlist.SortTitleAsc {
		t.Error("Clear should preserve the sort key")
	}
}

func TestCycleSortRotation(t *testing.T) {
	filter := FilterModel{State: ticketlist.FilterState{Sort: ticketlist.SortCreatedDesc}}
	expected := []ticketlist.SortKey{
		ticketlist.SortCreatedAsc,
		ticketlist.SortTitleAsc,
		ticketlist.SortCreatedDesc,
	}
	for _, want := range expected {
		filter.CycleSort()
		if filter.State.Sort != want {
			t.Fatalf("sort = %v, want %v", filter.State.Sort, want)
		}
	}
}

func TestTitlePositionsEmptyWithoutSearch(t *testing.T) {
	var filter FilterModel
	if positions := filter.TitlePositions("anything"); positions != nil {
		t.Errorf("no search text should give no positions, got %v", positions)
	}
}

func TestTitlePositionsMarksMatchedRunes(t *testing.T) {
	filter := FilterModel{State: ticketlist.FilterState{Search: "vpn"}}
	positions := filter.TitlePositions("VPN tunnel down")
	if len(positions) == 0 {
		t.Fatal("matching search should produce highlight positions")
	}
	for _, position := range positions {
		if position < 0 || position >= len("VPN tunnel down") {
			t.Errorf("position %d out of range", position)
		}
	}
}

func TestCategoryOptionsIncludeAnyEntry(t *testing.T) {
	var filter FilterModel
	options := filter.CategoryOptions([]ticket.Category{{ID: 7, Name: "Network"}})
	if len(options) != 2 {
		t.Fatalf("want any + 1 category, got %d options", len(options))
	}
	if options[0].Value != "" {
		t.Error("first option should be the clearing (any) entry")
	}
	if options[1].Label != "Network" || options[1].Value != "7" {
		t.Errorf("category option = %+v", options[1])
	}
}
