// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketui implements the interactive ticket viewer TUI: a
// two-pane bubbletea application with a filterable ticket list on the
// left and a scrollable ticket detail (description, feedback, comment
// thread) on the right.
//
// The viewer talks to the helpdesk service through the [Source]
// interface. Mutations (status changes, feedback, comments, ticket
// creation) go through the optional [Mutator] interface; the UI
// hides mutation controls the session's role is not entitled to.
//
// All state lives in the single bubbletea update loop. Network calls
// run as tea.Cmd functions whose results come back as messages tagged
// with the target ticket id, so responses that arrive after the user
// has moved on are discarded rather than applied to the wrong ticket.
package ticketui
