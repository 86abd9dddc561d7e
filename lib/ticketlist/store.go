// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketlist

import (
	"context"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
)

// Lister is the slice of the helpdesk API the Store needs: the two
// role-scoped list calls. *helpdesk.Client satisfies it; tests inject
// doubles.
type Lister interface {
	// ListTickets returns every ticket (ItSupport role).
	ListTickets(ctx context.Context) ([]ticket.Ticket, error)

	// ListMyTickets returns the caller's own tickets (Employee role).
	ListMyTickets(ctx context.Context) ([]ticket.Ticket, error)
}

// Store holds the most recently fetched ticket snapshot for one
// signed-in user. It is not safe for concurrent use; the TUI owns it
// from its single event loop.
type Store struct {
	lister   Lister
	role     ticket.Role
	snapshot []ticket.Ticket
	loaded   bool
}

// NewStore creates an empty Store that loads through lister, scoped
// by role: ItSupport loads all tickets, anything else loads only the
// caller's own.
func NewStore(lister Lister, role ticket.Role) *Store {
	return &Store{lister: lister, role: role}
}

// Load fetches a fresh snapshot, dispatching on the role. On success
// the snapshot is replaced wholesale; the service always returns the
// complete list, so a partially-updated snapshot cannot occur. On
// failure the previous snapshot is untouched and the error is
// returned; the caller decides whether to re-trigger.
func (store *Store) Load(ctx context.Context) error {
	tickets, err := store.Fetch(ctx)
	if err != nil {
		return err
	}
	store.Apply(tickets)
	return nil
}

// Fetch retrieves a fresh snapshot without installing it. The TUI
// fetches from a background command and applies the result inside
// its single-threaded update loop; Load composes the two for
// synchronous callers.
func (store *Store) Fetch(ctx context.Context) ([]ticket.Ticket, error) {
	if store.role == ticket.RoleItSupport {
		return store.lister.ListTickets(ctx)
	}
	return store.lister.ListMyTickets(ctx)
}

// Apply installs a fetched snapshot wholesale.
func (store *Store) Apply(tickets []ticket.Ticket) {
	store.snapshot = tickets
	store.loaded = true
}

// Loaded reports whether at least one Load has succeeded.
func (store *Store) Loaded() bool { return store.loaded }

// Len returns the snapshot size.
func (store *Store) Len() int { return len(store.snapshot) }

// Snapshot returns the current snapshot. Callers must treat it as
// read-only; View returns freshly-allocated derived lists.
func (store *Store) Snapshot() []ticket.Ticket { return store.snapshot }

// Get returns the snapshot's copy of a ticket by id.
func (store *Store) Get(id int) (ticket.Ticket, bool) {
	for _, candidate := range store.snapshot {
		if candidate.ID == id {
			return candidate, true
		}
	}
	return ticket.Ticket{}, false
}

// Replace swaps one ticket wholesale for a freshly fetched copy after
// a confirmed server mutation, keeping its snapshot position so the
// derived list doesn't jump. Returns false if the ticket is no longer
// in the snapshot (e.g. the list was reloaded meanwhile); the caller
// then falls back to a full Load.
func (store *Store) Replace(updated ticket.Ticket) bool {
	for i, candidate := range store.snapshot {
		if candidate.ID == updated.ID {
			store.snapshot[i] = updated
			return true
		}
	}
	return false
}

// View computes the derived display list for the given filter state.
func (store *Store) View(filter FilterState) []ticket.Ticket {
	return Apply(store.snapshot, filter)
}
