// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketlist

import (
	"reflect"
	"testing"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

func intPointer(v int) *int                         { return &v }
func statusPointer(v ticket.Status) *ticket.Status  { return &v }
func priorityPointer(v ticket.Priority) *ticket.Priority { return &v }

// fixtureTickets is a small snapshot with enough variety to exercise
// every predicate. Order is deliberate: not sorted by any key.
func fixtureTickets() []ticket.Ticket {
	return []ticket.Ticket{
		{
			ID: 1, Title: "Monitor flickers", Description: "External monitor flickers on dock",
			Status: ticket.StatusOpen, Priority: ticket.PriorityMedium,
			Category: ticket.Category{ID: 1, Name: "Hardware"},
			CreatedAt: "2024-01-01T00:00:00Z",
		},
		{
			ID: 2, Title: "VPN unstable", Description: "Disconnects hourly",
			Status: ticket.StatusInProgress, Priority: ticket.PriorityHigh,
			Category: ticket.Category{ID: 2, Name: "Network"},
			CreatedAt: "2024-02-01T00:00:00Z",
		},
		{
			ID: 3, Title: "Password reset", Description: "Locked out after vacation",
			Status: ticket.StatusClosed, Priority: ticket.PriorityLow,
			Category: ticket.Category{ID: 3, Name: "Accounts"},
			CreatedAt: "2024-01-15T00:00:00Z",
			SatisfactionRating: intPointer(5),
		},
		{
			ID: 4, Title: "vpn certificate expired", Description: "Cannot connect at all",
			Status: ticket.StatusOpen, Priority: ticket.PriorityCritical,
			Category: ticket.Category{ID: 2, Name: "Network"},
			CreatedAt: "2024-02-01T00:00:00Z",
		},
	}
}

func idsOf(tickets []ticket.Ticket) []int {
	ids := make([]int, len(tickets))
	for i, entry := range tickets {
		ids[i] = entry.ID
	}
	return ids
}

func TestApplyEmptyFilterDefaultSort(t *testing.T) {
	snapshot := fixtureTickets()
	result := Apply(snapshot, FilterState{})

	// No elements excluded, newest first, ties in snapshot order
	// (2 before 4: both 2024-02-01).
	want := []int{2, 4, 3, 1}
	if got := idsOf(result); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplyIsPure(t *testing.T) {
	snapshot := fixtureTickets()
	before := idsOf(snapshot)

	Apply(snapshot, FilterState{Sort: SortTitleAsc})

	if got := idsOf(snapshot); !reflect.DeepEqual(got, before) {
		t.Errorf("input mutated: %v, want %v", got, before)
	}
}

func TestApplyIdempotent(t *testing.T) {
	filter := FilterState{Search: "vpn", Sort: SortCreatedAsc}
	once := Apply(fixtureTickets(), filter)
	twice := Apply(once, filter)

	if !reflect.DeepEqual(idsOf(once), idsOf(twice)) {
		t.Errorf("re-application changed result: %v then %v", idsOf(once), idsOf(twice))
	}
}

func TestApplyResultIsSubset(t *testing.T) {
	snapshot := fixtureTickets()
	filter := FilterState{Status: statusPointer(ticket.StatusOpen)}
	result := Apply(snapshot, filter)

	if len(result) > len(snapshot) {
		t.Fatalf("result larger than snapshot: %d > %d", len(result), len(snapshot))
	}
	for _, entry := range result {
		if !filter.Matches(entry) {
			t.Errorf("ticket %d does not satisfy the filter", entry.ID)
		}
		if _, found := findByID(snapshot, entry.ID); !found {
			t.Errorf("ticket %d not in the snapshot", entry.ID)
		}
	}
}

func findByID(tickets []ticket.Ticket, id int) (ticket.Ticket, bool) {
	for _, entry := range tickets {
		if entry.ID == id {
			return entry, true
		}
	}
	return ticket.Ticket{}, false
}

func TestSearchIsCaseInsensitiveOverTitleAndDescription(t *testing.T) {
	tests := []struct {
		search string
		want   []int
	}{
		{"VPN", []int{2, 4}},          // title of both, mixed case
		{"vacation", []int{3}},        // description only
		{"zzz", nil},                  // no match anywhere
		{"", []int{2, 4, 3, 1}},       // empty search matches all
	}
	for _, tt := range tests {
		result := Apply(fixtureTickets(), FilterState{Search: tt.search})
		got := idsOf(result)
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("search %q: ids = %v, want %v", tt.search, got, tt.want)
		}
	}
}

func TestPredicatesCompose(t *testing.T) {
	// Category 2 AND status Open: only ticket 4.
	filter := FilterState{
		Category: intPointer(2),
		Status:   statusPointer(ticket.StatusOpen),
	}
	result := Apply(fixtureTickets(), filter)
	if got := idsOf(result); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("ids = %v, want [4]", got)
	}
}

func TestPriorityFilter(t *testing.T) {
	result := Apply(fixtureTickets(), FilterState{Priority: priorityPointer(ticket.PriorityCritical)})
	if got := idsOf(result); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("ids = %v, want [4]", got)
	}
}

func TestRatingFilterIgnoresUnratedTickets(t *testing.T) {
	result := Apply(fixtureTickets(), FilterState{Rating: intPointer(5)})
	if got := idsOf(result); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("ids = %v, want [3]", got)
	}

	// No ticket carries rating 2; unrated tickets must not leak in.
	if result := Apply(fixtureTickets(), FilterState{Rating: intPointer(2)}); len(result) != 0 {
		t.Errorf("rating 2 matched %v, want none", idsOf(result))
	}
}

func TestVanishedCategoryFailsClosed(t *testing.T) {
	// Category 99 is in no ticket (e.g. removed server-side since the
	// filter was chosen). The predicate matches nothing.
	if result := Apply(fixtureTickets(), FilterState{Category: intPointer(99)}); len(result) != 0 {
		t.Errorf("vanished category matched %v, want none", idsOf(result))
	}
}

func TestSortCreatedDescFixture(t *testing.T) {
	snapshot := []ticket.Ticket{
		{ID: 1, Title: "A", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: 2, Title: "B", CreatedAt: "2024-02-01T00:00:00Z"},
	}
	result := Apply(snapshot, FilterState{Sort: SortCreatedDesc})
	if got := idsOf(result); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Errorf("ids = %v, want [2 1]", got)
	}
}

func TestSearchNoMatchFixture(t *testing.T) {
	snapshot := []ticket.Ticket{
		{ID: 1, Title: "A", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: 2, Title: "B", CreatedAt: "2024-02-01T00:00:00Z"},
	}
	if result := Apply(snapshot, FilterState{Search: "zzz"}); len(result) != 0 {
		t.Errorf("result = %v, want empty", idsOf(result))
	}
}

func TestSortStability(t *testing.T) {
	// Four tickets sharing one CreatedAt: order must be snapshot order
	// for every sort key that ties.
	snapshot := []ticket.Ticket{
		{ID: 10, Title: "same", CreatedAt: "2024-03-01T00:00:00Z"},
		{ID: 11, Title: "same", CreatedAt: "2024-03-01T00:00:00Z"},
		{ID: 12, Title: "same", CreatedAt: "2024-03-01T00:00:00Z"},
		{ID: 13, Title: "same", CreatedAt: "2024-03-01T00:00:00Z"},
	}
	for _, key := range []SortKey{SortCreatedDesc, SortCreatedAsc, SortTitleAsc} {
		result := Apply(snapshot, FilterState{Sort: key})
		if got := idsOf(result); !reflect.DeepEqual(got, []int{10, 11, 12, 13}) {
			t.Errorf("sort %v: ids = %v, want snapshot order", key, got)
		}
	}
}

func TestSortTitleAscIsCaseSensitive(t *testing.T) {
	snapshot := []ticket.Ticket{
		{ID: 1, Title: "apple"},
		{ID: 2, Title: "Banana"},
	}
	// Byte order: 'B' (0x42) sorts before 'a' (0x61).
	result := Apply(snapshot, FilterState{Sort: SortTitleAsc})
	if got := idsOf(result); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Errorf("ids = %v, want [2 1]", got)
	}
}

func TestApplyEmptySnapshot(t *testing.T) {
	if result := Apply(nil, FilterState{Search: "anything"}); len(result) != 0 {
		t.Errorf("result = %v, want empty", result)
	}
}

func TestFilterActive(t *testing.T) {
	if (FilterState{}).Active() {
		t.Error("zero filter should not be active")
	}
	if (FilterState{Sort: SortTitleAsc}).Active() {
		t.Error("sort alone should not count as active")
	}
	if !(FilterState{Search: "x"}).Active() {
		t.Error("search should count as active")
	}
	if !(FilterState{Rating: intPointer(3)}).Active() {
		t.Error("rating should count as active")
	}
}
