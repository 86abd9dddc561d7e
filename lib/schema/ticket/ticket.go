// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket defines the Fix-Flow wire schema: support tickets,
// categories, comments, and users as served by the fix-flow-api REST
// service. Field names match the service's JSON exactly.
//
// Two schema generations exist server-side: an early one without
// category, priority, and satisfaction rating, and the current one
// with them. This package targets the current schema; responses from
// the old one decode with zero values in the newer fields, which every
// consumer treats as "unset".
package ticket

import (
	"fmt"
	"strings"
)

// Status is a ticket's lifecycle state. The server is authoritative:
// the client renders whatever status arrives and never validates
// transitions locally.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "InProgress"
	StatusClosed     Status = "Closed"
)

// Statuses lists all statuses in lifecycle order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// Valid reports whether the status is one the schema defines.
func (status Status) Valid() bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Label returns the human-readable form shown in the UI.
func (status Status) Label() string {
	switch status {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In progress"
	case StatusClosed:
		return "Closed"
	}
	return string(status)
}

// Priority is the requester-assigned urgency of a ticket.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities lists all priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether the priority is one the schema defines.
func (priority Priority) Valid() bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Label returns the human-readable form shown in the UI. The wire
// names are already presentation-ready, so this is the identity for
// known values.
func (priority Priority) Label() string {
	return string(priority)
}

// Rank returns the priority's position for ordering: 0 for Low up to
// 3 for Critical. Unknown priorities rank below Low.
func (priority Priority) Rank() int {
	switch priority {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	}
	return -1
}

// Role determines ticket visibility and permitted actions. Support
// staff see every ticket and may change statuses; employees see only
// their own tickets and may create tickets and leave feedback.
type Role string

const (
	RoleEmployee  Role = "Employee"
	RoleItSupport Role = "ItSupport"
)

// Valid reports whether the role is one the schema defines.
func (role Role) Valid() bool {
	return role == RoleEmployee || role == RoleItSupport
}

// Label returns the human-readable form shown in the UI.
func (role Role) Label() string {
	switch role {
	case RoleEmployee:
		return "Employee"
	case RoleItSupport:
		return "IT support"
	}
	return string(role)
}

// User is an account on the helpdesk service.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Category is immutable reference data: loaded once per screen
// activation and reused for filtering and ticket creation.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Ticket is a single support request. The client never mutates a
// Ticket in place: after any confirmed server mutation it replaces
// the whole value with a freshly fetched copy.
//
// CreatedAt and UpdatedAt are ISO-8601 strings as sent by the server.
// The format is fixed-width and zero-padded, so lexicographic
// comparison orders them chronologically; the client relies on that
// for sorting and never parses them except for display.
type Ticket struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
	Submitter   User     `json:"user"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`

	// SatisfactionRating is the employee's one-time 1-5 rating,
	// attachable only once the ticket is Closed. Nil until given.
	SatisfactionRating *int `json:"satisfactionRating"`

	// FeedbackText is the free-text part of the feedback. Nil or
	// empty until feedback is given.
	FeedbackText *string `json:"feedbackText"`
}

// HasFeedback reports whether feedback has been recorded. The rating
// is the authoritative marker; feedback text without a rating cannot
// occur through the API.
func (ticket Ticket) HasFeedback() bool {
	return ticket.SatisfactionRating != nil
}

// CreatedDate returns the date portion of CreatedAt for compact
// display (e.g. "2024-03-01").
func (ticket Ticket) CreatedDate() string {
	date, _, _ := strings.Cut(ticket.CreatedAt, "T")
	return date
}

// UpdatedDate returns the date portion of UpdatedAt for compact
// display.
func (ticket Ticket) UpdatedDate() string {
	date, _, _ := strings.Cut(ticket.UpdatedAt, "T")
	return date
}

// Comment is one message in a ticket's discussion thread. The server
// does not guarantee delivery order; consumers sort by CreatedAt
// before display. The wire field for the body is "comment".
type Comment struct {
	ID        int    `json:"id"`
	Text      string `json:"comment"`
	Author    User   `json:"user"`
	CreatedAt string `json:"createdAt"`
}

// ValidateRating checks a satisfaction rating before it leaves the
// client. Ratings are 1-5 inclusive; anything else is a local
// validation failure, not a network call.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5 (got %d)", rating)
	}
	return nil
}
