// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketlist

import (
	"sort"
	"strings"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// SortKey selects the ordering of the derived display list.
type SortKey int

const (
	// SortCreatedDesc orders newest first. This is the default.
	SortCreatedDesc SortKey = iota
	// SortCreatedAsc orders oldest first.
	SortCreatedAsc
	// SortTitleAsc orders by title, ascending, case-sensitive.
	SortTitleAsc
)

// Label returns the short name shown on the sort chip in the UI.
func (key SortKey) Label() string {
	switch key {
	case SortCreatedDesc:
		return "Newest"
	case SortCreatedAsc:
		return "Oldest"
	case SortTitleAsc:
		return "Title"
	}
	return "?"
}

// FilterState is the complete filter and sort selection for the list
// view. The zero value is the empty filter: everything matches, sorted
// newest first. Pointer fields are nil when unset.
type FilterState struct {
	// Search is matched case-insensitively as a substring of the
	// ticket title or description. Empty matches everything.
	Search string

	// Status, Category (by id), Priority, and Rating each restrict
	// the list to exact matches when set.
	Status   *ticket.Status
	Category *int
	Priority *ticket.Priority
	Rating   *int

	Sort SortKey
}

// Active reports whether any narrowing filter is set (sort order
// alone does not count).
func (filter FilterState) Active() bool {
	return filter.Search != "" || filter.Status != nil || filter.Category != nil ||
		filter.Priority != nil || filter.Rating != nil
}

// Matches reports whether a single ticket passes every active
// predicate. Each unset predicate is vacuously true.
func (filter FilterState) Matches(candidate ticket.Ticket) bool {
	if filter.Search != "" {
		query := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(candidate.Title), query) &&
			!strings.Contains(strings.ToLower(candidate.Description), query) {
			return false
		}
	}
	if filter.Status != nil && candidate.Status != *filter.Status {
		return false
	}
	// A category filter referring to a category that no longer exists
	// simply never matches: the predicate fails closed.
	if filter.Category != nil && candidate.Category.ID != *filter.Category {
		return false
	}
	if filter.Priority != nil && candidate.Priority != *filter.Priority {
		return false
	}
	if filter.Rating != nil {
		if candidate.SatisfactionRating == nil || *candidate.SatisfactionRating != *filter.Rating {
			return false
		}
	}
	return true
}

// Apply computes the derived display list: the tickets that pass every
// active predicate, stably sorted by the filter's sort key. The input
// slice is never mutated; the result is a fresh slice recomputed in
// full on every call. An empty snapshot yields an empty result.
//
// CreatedAt keys compare lexicographically since the service emits
// fixed-width zero-padded ISO-8601, so string order is time order.
// Ties preserve snapshot order (sort.SliceStable).
func Apply(tickets []ticket.Ticket, filter FilterState) []ticket.Ticket {
	result := make([]ticket.Ticket, 0, len(tickets))
	for _, candidate := range tickets {
		if filter.Matches(candidate) {
			result = append(result, candidate)
		}
	}

	switch filter.Sort {
	case SortCreatedAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt < result[j].CreatedAt
		})
	case SortTitleAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Title < result[j].Title
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt > result[j].CreatedAt
		})
	}
	return result
}
