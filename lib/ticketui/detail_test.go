// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/tui"

	"testing"
)

// fakeSource is an in-memory Source + Mutator double. Mutations are
// applied to the ticket map so a subsequent GetTicket observes them,
// mirroring the re-fetch contract.
type fakeSource struct {
	mu         sync.Mutex
	tickets    map[int]ticket.Ticket
	comments   map[int][]ticket.Comment
	categories []ticket.Category

	failNext error // next call returns this error, then clears

	listAllCalls  int
	listMineCalls int
	getCalls      int
}

func newFakeSource(tickets ...ticket.Ticket) *fakeSource {
	source := &fakeSource{
		tickets:  map[int]ticket.Ticket{},
		comments: map[int][]ticket.Comment{},
		categories: []ticket.Category{
			{ID: 1, Name: "Hardware"},
			{ID: 2, Name: "Software"},
		},
	}
	for _, entry := range tickets {
		source.tickets[entry.ID] = entry
	}
	return source
}

func (source *fakeSource) takeError() error {
	err := source.failNext
	source.failNext = nil
	return err
}

func (source *fakeSource) ListTickets(ctx context.Context) ([]ticket.Ticket, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.listAllCalls++
	if err := source.takeError(); err != nil {
		return nil, err
	}
	var all []ticket.Ticket
	for _, entry := range source.tickets {
		all = append(all, entry)
	}
	return all, nil
}

func (source *fakeSource) ListMyTickets(ctx context.Context) ([]ticket.Ticket, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.listMineCalls++
	if err := source.takeError(); err != nil {
		return nil, err
	}
	var all []ticket.Ticket
	for _, entry := range source.tickets {
		all = append(all, entry)
	}
	return all, nil
}

func (source *fakeSource) GetTicket(ctx context.Context, ticketID int) (ticket.Ticket, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.getCalls++
	if err := source.takeError(); err != nil {
		return ticket.Ticket{}, err
	}
	entry, exists := source.tickets[ticketID]
	if !exists {
		return ticket.Ticket{}, errors.New("not found")
	}
	return entry, nil
}

func (source *fakeSource) ListComments(ctx context.Context, ticketID int) ([]ticket.Comment, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if err := source.takeError(); err != nil {
		return nil, err
	}
	return source.comments[ticketID], nil
}

func (source *fakeSource) ListCategories(ctx context.Context) ([]ticket.Category, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.categories, nil
}

func (source *fakeSource) CreateTicket(ctx context.Context, title, description string, categoryID int, priority ticket.Priority) error {
	source.mu.Lock()
	defer source.mu.Unlock()
	if err := source.takeError(); err != nil {
		return err
	}
	id := len(source.tickets) + 1
	source.tickets[id] = ticket.Ticket{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      ticket.StatusOpen,
		Priority:    priority,
		Category:    ticket.Category{ID: categoryID},
		CreatedAt:   "2024-06-01T00:00:00",
	}
	return nil
}

func (source *fakeSource) UpdateStatus(ctx context.Context, ticketID int, status ticket.Status) error {
	source.mu.Lock()
	defer source.mu.Unlock()
	if err := source.takeError(); err != nil {
		return err
	}
	entry := source.tickets[ticketID]
	entry.Status = status
	entry.UpdatedAt = "2024-06-02T00:00:00"
	source.tickets[ticketID] = entry
	return nil
}

func (source *fakeSource) SubmitFeedback(ctx context.Context, ticketID int, rating int, text string) error {
	source.mu.Lock()
	defer source.mu.Unlock()
	if err := source.takeError(); err != nil {
		return err
	}
	entry := source.tickets[ticketID]
	entry.SatisfactionRating = &rating
	entry.FeedbackText = &text
	source.tickets[ticketID] = entry
	return nil
}

func (source *fakeSource) PostComment(ctx context.Context, ticketID int, text string) (ticket.Comment, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if err := source.takeError(); err != nil {
		return ticket.Comment{}, err
	}
	comment := ticket.Comment{
		ID:        len(source.comments[ticketID]) + 1,
		Text:      text,
		Author:    ticket.User{ID: 9, Username: "casey"},
		CreatedAt: fmt.Sprintf("2024-06-01T10:0%d:00", len(source.comments[ticketID])),
	}
	source.comments[ticketID] = append(source.comments[ticketID], comment)
	return comment, nil
}

func testTicket(id int, title string, status ticket.Status) ticket.Ticket {
	return ticket.Ticket{
		ID:          id,
		Title:       title,
		Description: "desc",
		Status:      status,
		Priority:    ticket.PriorityMedium,
		Category:    ticket.Category{ID: 1, Name: "Hardware"},
		Submitter:   ticket.User{ID: 9, Username: "casey", Role: ticket.RoleEmployee},
		CreatedAt:   fmt.Sprintf("2024-05-%02dT09:00:00", id),
	}
}

func newTestPane() DetailPane {
	pane := NewDetailPane(tui.DefaultTheme)
	pane.SetSize(60, 20)
	return pane
}

func TestDetailViewRendersScrollbarColumn(t *testing.T) {
	pane := newTestPane()
	pane.ShowTicket(1)
	pane.HandleTicketLoaded(detailLoadedMsg{ticketID: 1, ticket: testTicket(1, "printer jam", ticket.StatusOpen)})
	pane.HandleCommentsLoaded(commentsLoadedMsg{ticketID: 1})

	view := pane.View(true)
	if !strings.Contains(view, "┃") {
		t.Error("view should include the scrollbar thumb column")
	}
}

func TestDetailDiscardsStaleTicketResult(t *testing.T) {
	pane := newTestPane()
	pane.ShowTicket(1)
	pane.ShowTicket(2) // user moved on before the first load landed

	applied := pane.HandleTicketLoaded(detailLoadedMsg{
		ticketID: 1,
		ticket:   testTicket(1, "stale", ticket.StatusOpen),
	})
	if applied {
		t.Error("result for ticket 1 should be discarded while viewing ticket 2")
	}
	if pane.Ticket() != nil {
		t.Error("stale result must not populate the pane")
	}

	applied = pane.HandleTicketLoaded(detailLoadedMsg{
		ticketID: 2,
		ticket:   testTicket(2, "current", ticket.StatusOpen),
	})
	if !applied {
		t.Fatal("result for the current ticket should apply")
	}
	if pane.Ticket() == nil || pane.Ticket().ID != 2 {
		t.Error("current result should populate the pane")
	}
}

func TestDetailDiscardsStaleCommentResult(t *testing.T) {
	pane := newTestPane()
	pane.ShowTicket(2)

	if pane.HandleCommentsLoaded(commentsLoadedMsg{ticketID: 1, comments: []ticket.Comment{{ID: 1}}}) {
		t.Error("comments for a different ticket should be discarded")
	}
	if len(pane.comments) != 0 {
		t.Error("stale comments must not land in the thread")
	}
}

func TestDetailFailedLoadShowsErrorKeepsID(t *testing.T) {
	pane := newTestPane()
	pane.ShowTicket(3)

	pane.HandleTicketLoaded(detailLoadedMsg{ticketID: 3, err: errors.New("boom")})
	if pane.Ticket() != nil {
		t.Error("failed load should leave no ticket")
	}
	if pane.TicketID() != 3 {
		t.Error("failed load should not change the viewed ticket id")
	}
}

func TestCommentPostSuccessAppendsAndClearsDraft(t *testing.T) {
	pane := newTestPane()
	pane.ShowTicket(1)
	pane.HandleTicketLoaded(detailLoadedMsg{ticketID: 1, ticket: testTicket(1, "t", ticket.StatusOpen)})
	pane.HandleCommentsLoaded(commentsLoadedMsg{ticketID: 1, comments: []ticket.Comment{{ID: 1, Text: "first"}}})

	pane.CommentDraft = "second"
	pane.BeginPost()
	pane.HandleCommentPosted(commentPostedMsg{
		ticketID: 1,
		comment:  ticket.Comment{ID: 2, Text: "second"},
	})

	if len(pane.comments) != 2 {
		t.Fatalf("thread should have 2 comments, got %d", len(pane.comments))
	}
	if pane.CommentDraft != "" {
		t.Error("draft should be cleared after a successful post")
	}
	if pane.Posting() {
		t.Error("posting flag should clear")
	}
}

func TestCommentPostFailurePreservesDraftAndThread(t *testing.T) {
	pane := newTestPane()
	pane.ShowTicket(1)
	pane.HandleCommentsLoaded(commentsLoadedMsg{ticketID: 1, comments: []ticket.Comment{{ID: 1, Text: "first"}}})

	pane.CommentDraft = "my unsent comment"
	pane.BeginPost()
	pane.HandleCommentPosted(commentPostedMsg{ticketID: 1, err: errors.New("network down")})

	if pane.CommentDraft != "my unsent comment" {
		t.Error("failed post must preserve the draft")
	}
	if len(pane.comments) != 1 {
		t.Error("failed post must leave the thread unchanged")
	}
}

func TestCanLeaveFeedbackGating(t *testing.T) {
	rating := 4
	cases := []struct {
		name   string
		entry  ticket.Ticket
		role   ticket.Role
		expect bool
	}{
		{"closed unrated employee", testTicket(1, "t", ticket.StatusClosed), ticket.RoleEmployee, true},
		{"open employee", testTicket(1, "t", ticket.StatusOpen), ticket.RoleEmployee, false},
		{"in progress employee", testTicket(1, "t", ticket.StatusInProgress), ticket.RoleEmployee, false},
		{"closed support", testTicket(1, "t", ticket.StatusClosed), ticket.RoleItSupport, false},
		{"already rated", func() ticket.Ticket {
			entry := testTicket(1, "t", ticket.StatusClosed)
			entry.SatisfactionRating = &rating
			return entry
		}(), ticket.RoleEmployee, false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			pane := newTestPane()
			pane.ShowTicket(testCase.entry.ID)
			pane.HandleTicketLoaded(detailLoadedMsg{ticketID: testCase.entry.ID, ticket: testCase.entry})
			if got := pane.CanLeaveFeedback(testCase.role); got != testCase.expect {
				t.Errorf("CanLeaveFeedback = %v, want %v", got, testCase.expect)
			}
		})
	}
}

func TestRefreshedSwapsTicket(t *testing.T) {
	pane := newTestPane()
	pane.ShowTicket(1)
	pane.HandleTicketLoaded(detailLoadedMsg{ticketID: 1, ticket: testTicket(1, "t", ticket.StatusOpen)})

	updated := testTicket(1, "t", ticket.StatusClosed)
	if !pane.HandleRefreshed(ticketRefreshedMsg{ticketID: 1, ticket: updated}) {
		t.Fatal("refresh for the current ticket should apply")
	}
	if pane.Ticket().Status != ticket.StatusClosed {
		t.Error("refresh should swap in the fetched ticket")
	}

	if pane.HandleRefreshed(ticketRefreshedMsg{ticketID: 7, ticket: testTicket(7, "x", ticket.StatusOpen)}) {
		t.Error("refresh for another ticket should be discarded")
	}
}
