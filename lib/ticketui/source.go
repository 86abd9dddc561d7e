// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"

	"github.com/fixflow-project/fixflow/lib/helpdesk"
	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// compile-time interface checks
var (
	_ Source  = (*ClientSource)(nil)
	_ Mutator = (*ClientSource)(nil)
)

// Source abstracts read access to the helpdesk service for the TUI.
// The production implementation is [ClientSource] over the REST
// client; tests substitute an in-memory fake. The TUI code is
// identical regardless of backend.
type Source interface {
	// ListTickets returns every ticket in the system. Requires the
	// support role on the server side.
	ListTickets(ctx context.Context) ([]ticket.Ticket, error)

	// ListMyTickets returns the tickets submitted by the calling user.
	ListMyTickets(ctx context.Context) ([]ticket.Ticket, error)

	// GetTicket returns a single ticket by id.
	GetTicket(ctx context.Context, ticketID int) (ticket.Ticket, error)

	// ListComments returns the comment thread for a ticket, sorted
	// by creation time ascending.
	ListComments(ctx context.Context, ticketID int) ([]ticket.Comment, error)

	// ListCategories returns all ticket categories. Categories are
	// immutable for the session; the TUI fetches them once.
	ListCategories(ctx context.Context) ([]ticket.Category, error)
}

// Mutator is an optional interface that Source implementations can
// provide to support ticket mutations. The TUI checks for this via
// type assertion on the source; when absent, all mutation controls
// are hidden and the viewer is read-only.
//
// Successful mutations do not patch local state directly: the model
// re-fetches the affected ticket so that server-owned fields
// (updatedAt in particular) stay authoritative.
type Mutator interface {
	// CreateTicket files a new ticket. Title, description, and
	// category are required; the server assigns id and timestamps.
	CreateTicket(ctx context.Context, title, description string, categoryID int, priority ticket.Priority) error

	// UpdateStatus transitions the ticket to a new status. The
	// server enforces that only support staff may call this.
	UpdateStatus(ctx context.Context, ticketID int, status ticket.Status) error

	// SubmitFeedback records a satisfaction rating (1 to 5) and an
	// optional free-text comment on a closed ticket.
	SubmitFeedback(ctx context.Context, ticketID int, rating int, text string) error

	// PostComment appends a comment to the ticket's thread and
	// returns the stored comment as the server recorded it.
	PostComment(ctx context.Context, ticketID int, text string) (ticket.Comment, error)
}

// ClientSource adapts the helpdesk REST client to the Source and
// Mutator interfaces. It is a thin delegation layer; all behavior
// (validation, auth headers, error classification) lives in the
// client itself.
type ClientSource struct {
	client *helpdesk.Client
}

// NewClientSource wraps a helpdesk client as a TUI source.
func NewClientSource(client *helpdesk.Client) *ClientSource {
	return &ClientSource{client: client}
}

func (source *ClientSource) ListTickets(ctx context.Context) ([]ticket.Ticket, error) {
	return source.client.ListTickets(ctx)
}

func (source *ClientSource) ListMyTickets(ctx context.Context) ([]ticket.Ticket, error) {
	return source.client.ListMyTickets(ctx)
}

func (source *ClientSource) GetTicket(ctx context.Context, ticketID int) (ticket.Ticket, error) {
	fetched, err := source.client.GetTicket(ctx, ticketID)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return *fetched, nil
}

func (source *ClientSource) ListComments(ctx context.Context, ticketID int) ([]ticket.Comment, error) {
	return source.client.ListComments(ctx, ticketID)
}

func (source *ClientSource) ListCategories(ctx context.Context) ([]ticket.Category, error) {
	return source.client.ListCategories(ctx)
}

func (source *ClientSource) CreateTicket(ctx context.Context, title, description string, categoryID int, priority ticket.Priority) error {
	return source.client.CreateTicket(ctx, title, description, categoryID, priority)
}

func (source *ClientSource) UpdateStatus(ctx context.Context, ticketID int, status ticket.Status) error {
	return source.client.UpdateStatus(ctx, ticketID, status)
}

func (source *ClientSource) SubmitFeedback(ctx context.Context, ticketID int, rating int, text string) error {
	return source.client.SubmitFeedback(ctx, ticketID, rating, text)
}

func (source *ClientSource) PostComment(ctx context.Context, ticketID int, text string) (ticket.Comment, error) {
	posted, err := source.client.PostComment(ctx, ticketID, text)
	if err != nil {
		return ticket.Comment{}, err
	}
	return *posted, nil
}
