// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package helpdesk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// ListTickets returns every ticket on the helpdesk. Requires the
// ItSupport role; the service answers 403 for employees.
func (client *Client) ListTickets(ctx context.Context) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	if err := client.get(ctx, "/main/requests", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListMyTickets returns the tickets submitted by the calling user.
func (client *Client) ListMyTickets(ctx context.Context) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	if err := client.get(ctx, "/main/requests/user", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches a single ticket by id.
func (client *Client) GetTicket(ctx context.Context, id int) (*ticket.Ticket, error) {
	var fetched ticket.Ticket
	if err := client.get(ctx, "/main/requests/"+strconv.Itoa(id), &fetched); err != nil {
		return nil, err
	}
	return &fetched, nil
}

// CreateTicket files a new support request. The service takes the
// fields as query parameters and returns no body; the caller reloads
// the list to pick up the server-assigned id and timestamps.
func (client *Client) CreateTicket(ctx context.Context, title, description string, categoryID int, priority ticket.Priority) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("helpdesk: ticket title is required")
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("helpdesk: ticket description is required")
	}
	if categoryID <= 0 {
		return fmt.Errorf("helpdesk: ticket category is required")
	}
	if !priority.Valid() {
		return fmt.Errorf("helpdesk: invalid priority %q", priority)
	}

	query := url.Values{}
	query.Set("title", title)
	query.Set("desc", description)
	query.Set("catId", strconv.Itoa(categoryID))
	query.Set("priority", string(priority))

	return client.post(ctx, "/main/requests?"+query.Encode(), nil, nil)
}

// UpdateStatus transitions a ticket to a new status. Requires the
// ItSupport role. The service returns no body; callers must re-fetch
// the ticket afterwards since the server also touches updatedAt.
func (client *Client) UpdateStatus(ctx context.Context, id int, status ticket.Status) error {
	if !status.Valid() {
		return fmt.Errorf("helpdesk: invalid status %q", status)
	}
	query := url.Values{}
	query.Set("status", string(status))
	return client.patch(ctx, "/main/requests/"+strconv.Itoa(id)+"/status?"+query.Encode())
}

// SubmitFeedback attaches a one-time satisfaction rating and comment
// to a closed ticket. The rating is validated locally; an out-of-range
// rating never reaches the network. Employee-only, once per ticket;
// the service rejects repeats, and the UI hides the action when a
// rating exists.
func (client *Client) SubmitFeedback(ctx context.Context, id, rating int, text string) error {
	if err := ticket.ValidateRating(rating); err != nil {
		return fmt.Errorf("helpdesk: %w", err)
	}
	query := url.Values{}
	query.Set("rating", strconv.Itoa(rating))
	query.Set("text", text)
	return client.post(ctx, "/main/requests/"+strconv.Itoa(id)+"/feedback?"+query.Encode(), nil, nil)
}
