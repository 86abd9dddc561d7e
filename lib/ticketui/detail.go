// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/tui"
)

// Detail controller messages. Every message carries the id of the
// ticket it belongs to; the pane discards results whose id no longer
// matches the ticket being viewed (the user moved on while the call
// was in flight).
type (
	detailLoadedMsg struct {
		ticketID int
		ticket   ticket.Ticket
		err      error
	}

	commentsLoadedMsg struct {
		ticketID int
		comments []ticket.Comment
		err      error
	}

	commentPostedMsg struct {
		ticketID int
		comment  ticket.Comment
		err      error
	}

	statusChangedMsg struct {
		ticketID int
		err      error
	}

	feedbackSavedMsg struct {
		ticketID int
		err      error
	}

	// ticketRefreshedMsg is the re-fetch after a confirmed mutation.
	// The fresh copy replaces both the detail view and the list
	// snapshot entry; the client never patches fields optimistically.
	ticketRefreshedMsg struct {
		ticketID int
		ticket   ticket.Ticket
		err      error
	}
)

// loadDetailCmd fetches the ticket and its comment thread as two
// independent calls; either may fail without affecting the other.
func loadDetailCmd(source Source, ticketID int) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			fetched, err := source.GetTicket(context.Background(), ticketID)
			return detailLoadedMsg{ticketID: ticketID, ticket: fetched, err: err}
		},
		func() tea.Msg {
			comments, err := source.ListComments(context.Background(), ticketID)
			return commentsLoadedMsg{ticketID: ticketID, comments: comments, err: err}
		},
	)
}

func postCommentCmd(mutator Mutator, ticketID int, text string) tea.Cmd {
	return func() tea.Msg {
		comment, err := mutator.PostComment(context.Background(), ticketID, text)
		return commentPostedMsg{ticketID: ticketID, comment: comment, err: err}
	}
}

func changeStatusCmd(mutator Mutator, ticketID int, status ticket.Status) tea.Cmd {
	return func() tea.Msg {
		err := mutator.UpdateStatus(context.Background(), ticketID, status)
		return statusChangedMsg{ticketID: ticketID, err: err}
	}
}

func submitFeedbackCmd(mutator Mutator, ticketID int, rating int, text string) tea.Cmd {
	return func() tea.Msg {
		err := mutator.SubmitFeedback(context.Background(), ticketID, rating, text)
		return feedbackSavedMsg{ticketID: ticketID, err: err}
	}
}

func refreshTicketCmd(source Source, ticketID int) tea.Cmd {
	return func() tea.Msg {
		fetched, err := source.GetTicket(context.Background(), ticketID)
		return ticketRefreshedMsg{ticketID: ticketID, ticket: fetched, err: err}
	}
}

// DetailPane is the right-hand pane: one ticket's full description
// (rendered as markdown), its feedback, and its comment thread, with
// a comment composer at the bottom. Scrolling goes through a bubbles
// viewport.
type DetailPane struct {
	theme tui.Theme

	ticketID int
	ticket   *ticket.Ticket
	comments []ticket.Comment

	loadingTicket   bool
	loadingComments bool
	ticketErr       error
	commentsErr     error

	// CommentDraft is the unsent comment text. It survives a failed
	// post so the user's writing is never lost.
	CommentDraft string
	posting      bool

	viewport viewport.Model
	width    int
	height   int
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(theme tui.Theme) DetailPane {
	return DetailPane{theme: theme, viewport: viewport.New(0, 0)}
}

// TicketID returns the id of the ticket the pane is showing, or 0
// when empty.
func (pane *DetailPane) TicketID() int {
	return pane.ticketID
}

// Ticket returns the loaded ticket, or nil while loading or after a
// failed load.
func (pane *DetailPane) Ticket() *ticket.Ticket {
	return pane.ticket
}

// SetSize updates the pane dimensions. The last line is reserved for
// the comment composer and the rightmost column for the scrollbar.
func (pane *DetailPane) SetSize(width, height int) {
	pane.width = width
	pane.height = height
	pane.viewport.Width = width - 1
	if pane.viewport.Width < 1 {
		pane.viewport.Width = 1
	}
	pane.viewport.Height = height - 1
	if pane.viewport.Height < 1 {
		pane.viewport.Height = 1
	}
	pane.rebuild()
}

// ShowTicket points the pane at a new ticket and clears all state
// from the previous one. In-flight results for the old ticket will
// fail the id guard and be dropped.
func (pane *DetailPane) ShowTicket(ticketID int) {
	pane.ticketID = ticketID
	pane.ticket = nil
	pane.comments = nil
	pane.loadingTicket = true
	pane.loadingComments = true
	pane.ticketErr = nil
	pane.commentsErr = nil
	pane.CommentDraft = ""
	pane.posting = false
	pane.viewport.GotoTop()
	pane.rebuild()
}

// HandleTicketLoaded applies a detail fetch result. Returns false if
// the result was for a ticket the pane is no longer showing.
func (pane *DetailPane) HandleTicketLoaded(msg detailLoadedMsg) bool {
	if msg.ticketID != pane.ticketID {
		return false
	}
	pane.loadingTicket = false
	if msg.err != nil {
		pane.ticketErr = msg.err
	} else {
		fetched := msg.ticket
		pane.ticket = &fetched
		pane.ticketErr = nil
	}
	pane.rebuild()
	return true
}

// HandleCommentsLoaded applies a comment thread fetch result, with
// the same stale-result guard as HandleTicketLoaded.
func (pane *DetailPane) HandleCommentsLoaded(msg commentsLoadedMsg) bool {
	if msg.ticketID != pane.ticketID {
		return false
	}
	pane.loadingComments = false
	if msg.err != nil {
		pane.commentsErr = msg.err
	} else {
		pane.comments = msg.comments
		pane.commentsErr = nil
	}
	pane.rebuild()
	return true
}

// HandleCommentPosted applies a post-comment result. On success the
// server-returned comment is appended to the thread and the draft is
// cleared; on failure both the thread and the draft stay as they
// were. Returns false for stale results.
func (pane *DetailPane) HandleCommentPosted(msg commentPostedMsg) bool {
	if msg.ticketID != pane.ticketID {
		return false
	}
	pane.posting = false
	if msg.err != nil {
		return true
	}
	pane.comments = append(pane.comments, msg.comment)
	pane.CommentDraft = ""
	pane.rebuild()
	pane.viewport.GotoBottom()
	return true
}

// HandleRefreshed swaps in the re-fetched ticket after a confirmed
// mutation. Returns false for stale results.
func (pane *DetailPane) HandleRefreshed(msg ticketRefreshedMsg) bool {
	if msg.ticketID != pane.ticketID {
		return false
	}
	if msg.err != nil {
		pane.ticketErr = msg.err
		return true
	}
	fetched := msg.ticket
	pane.ticket = &fetched
	pane.ticketErr = nil
	pane.rebuild()
	return true
}

// BeginPost marks a comment post as in flight so the composer can
// show a sending indicator and ignore further submits.
func (pane *DetailPane) BeginPost() {
	pane.posting = true
}

// Posting reports whether a comment post is in flight.
func (pane *DetailPane) Posting() bool {
	return pane.posting
}

// CanLeaveFeedback reports whether the feedback action is available:
// employees only, ticket closed, no rating given yet. This is the
// only client-side gate; any status the server sends is tolerated.
func (pane *DetailPane) CanLeaveFeedback(role ticket.Role) bool {
	return role == ticket.RoleEmployee &&
		pane.ticket != nil &&
		pane.ticket.Status == ticket.StatusClosed &&
		!pane.ticket.HasFeedback()
}

// Scrolling passthroughs.
func (pane *DetailPane) ScrollUp()       { pane.viewport.LineUp(1) }
func (pane *DetailPane) ScrollDown()     { pane.viewport.LineDown(1) }
func (pane *DetailPane) PageUp()         { pane.viewport.HalfViewUp() }
func (pane *DetailPane) PageDown()       { pane.viewport.HalfViewDown() }
func (pane *DetailPane) ScrollToTop()    { pane.viewport.GotoTop() }
func (pane *DetailPane) ScrollToBottom() { pane.viewport.GotoBottom() }

// rebuild regenerates the viewport content from the current state.
func (pane *DetailPane) rebuild() {
	if pane.width <= 0 {
		return
	}
	pane.viewport.SetContent(pane.contentLines())
}

// contentLines renders everything above the comment composer.
func (pane *DetailPane) contentLines() string {
	theme := pane.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(theme.ErrorForeground)

	if pane.ticketID == 0 {
		return faint.Render("  Select a ticket to view it.")
	}
	if pane.loadingTicket {
		return faint.Render("  Loading ticket...")
	}
	if pane.ticketErr != nil {
		return errorStyle.Render("  Could not load ticket: " + pane.ticketErr.Error())
	}
	if pane.ticket == nil {
		return ""
	}

	entry := pane.ticket
	var out strings.Builder

	// Header: id + title, then status / priority / category, then
	// submitter and timestamps.
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground)
	out.WriteString(titleStyle.Render(fmt.Sprintf("#%d  %s", entry.ID, entry.Title)) + "\n")

	statusStyle := lipgloss.NewStyle().Foreground(theme.StatusColor(entry.Status))
	priorityStyle := lipgloss.NewStyle().Foreground(theme.PriorityColor(entry.Priority))
	meta := statusStyle.Render("● "+entry.Status.Label()) +
		faint.Render("  ·  ") + priorityStyle.Render(entry.Priority.Label())
	if entry.Category.Name != "" {
		meta += faint.Render("  ·  " + entry.Category.Name)
	}
	out.WriteString(meta + "\n")

	submitted := fmt.Sprintf("by %s on %s", entry.Submitter.Username, entry.CreatedDate())
	if entry.UpdatedAt != "" && entry.UpdatedAt != entry.CreatedAt {
		submitted += "  ·  updated " + entry.UpdatedDate()
	}
	out.WriteString(faint.Render(submitted) + "\n\n")

	// Description, rendered as markdown.
	description := renderTerminalMarkdown(entry.Description, theme, pane.width-2)
	if description != "" {
		for _, line := range strings.Split(description, "\n") {
			out.WriteString("  " + line + "\n")
		}
		out.WriteString("\n")
	}

	// Feedback block, only once a rating exists.
	if entry.HasFeedback() {
		stars := lipgloss.NewStyle().Foreground(theme.RatingFilled).
			Render(strings.Repeat("★", *entry.SatisfactionRating)) +
			lipgloss.NewStyle().Foreground(theme.RatingEmpty).
				Render(strings.Repeat("☆", 5-*entry.SatisfactionRating))
		out.WriteString(faint.Render("  Feedback  ") + stars + "\n")
		if entry.FeedbackText != nil && *entry.FeedbackText != "" {
			out.WriteString("  " + *entry.FeedbackText + "\n")
		}
		out.WriteString("\n")
	}

	// Comment thread.
	divider := faint.Render(strings.Repeat("─", max(pane.width-4, 8)))
	out.WriteString("  " + divider + "\n")
	switch {
	case pane.loadingComments:
		out.WriteString(faint.Render("  Loading comments...") + "\n")
	case pane.commentsErr != nil:
		out.WriteString(errorStyle.Render("  Could not load comments: "+pane.commentsErr.Error()) + "\n")
	case len(pane.comments) == 0:
		out.WriteString(faint.Render("  No comments yet.") + "\n")
	default:
		authorStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground)
		for _, comment := range pane.comments {
			header := authorStyle.Render(comment.Author.Username) +
				faint.Render("  "+comment.CreatedAt)
			out.WriteString("  " + header + "\n")
			for _, line := range wrapPlain(comment.Text, pane.width-4) {
				out.WriteString("    " + line + "\n")
			}
			out.WriteString("\n")
		}
	}

	return strings.TrimRight(out.String(), "\n")
}

// View renders the pane: the scrollable content with a scrollbar on
// the right edge, plus the comment composer line. The focused flag
// styles the scrollbar thumb and the composer cursor.
func (pane *DetailPane) View(focused bool) string {
	scrollbar := tui.RenderScrollbar(pane.theme, pane.viewport.Height,
		pane.viewport.TotalLineCount(), pane.viewport.Height, pane.viewport.YOffset, focused)
	content := lipgloss.JoinHorizontal(lipgloss.Top, pane.viewport.View(), scrollbar)
	return content + "\n" + pane.composerLine(focused)
}

// composerLine renders the single-line comment input at the bottom of
// the pane.
func (pane *DetailPane) composerLine(focused bool) string {
	faint := lipgloss.NewStyle().Foreground(pane.theme.FaintText)
	if pane.ticket == nil {
		return ""
	}
	if pane.posting {
		return faint.Render(" sending comment...")
	}

	prompt := faint.Render(" > ")
	text := pane.CommentDraft
	if focused {
		cursor := lipgloss.NewStyle().
			Foreground(pane.theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return prompt + text + cursor
	}
	if text != "" {
		return prompt + text
	}
	return faint.Render(" m to comment")
}

// wrapPlain greedily word-wraps unstyled text to the given width.
func wrapPlain(text string, width int) []string {
	if width < 8 {
		width = 8
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
