// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fixflow-project/fixflow/lib/helpdesk"
	"github.com/fixflow-project/fixflow/lib/schema/ticket"
	"github.com/fixflow-project/fixflow/lib/ticketlist"
	"github.com/fixflow-project/fixflow/lib/tui"
)

// FocusRegion identifies where keyboard input is routed.
type FocusRegion int

const (
	// FocusList means navigation keys move the ticket list cursor.
	FocusList FocusRegion = iota
	// FocusDetail means navigation keys scroll the detail viewport.
	FocusDetail
	// FocusFilter means keystrokes go to the search input.
	FocusFilter
	// FocusComment means keystrokes go to the comment composer.
	FocusComment
	// FocusDropdown means a dropdown overlay (a filter criterion or
	// the status change menu) captures all input.
	FocusDropdown
	// FocusFeedback means the feedback modal captures all input.
	FocusFeedback
	// FocusCreate means the create-ticket form captures all input.
	FocusCreate
)

// listSplitRatio is the fraction of the terminal width given to the
// list pane; the rest is the detail pane.
const listSplitRatio = 0.45

// noticeFadeDelay is how long transient status-bar notices (mutation
// results, load errors) stay visible. A var so tests can shrink it.
var noticeFadeDelay = 5 * time.Second

// fieldTicketStatus is the dropdown field for the support-only
// status change menu.
const fieldTicketStatus = "ticket-status"

// Top-level result messages for list-scope operations. Detail-scope
// messages live in detail.go.
type (
	ticketsLoadedMsg struct {
		tickets []ticket.Ticket
		err     error
	}

	categoriesLoadedMsg struct {
		categories []ticket.Category
		err        error
	}

	ticketCreatedMsg struct {
		err error
	}

	noticeFadeMsg struct{}
)

// Model is the top-level bubbletea model for the ticket viewer.
type Model struct {
	source  Source
	mutator Mutator // nil when the source is read-only
	store   *ticketlist.Store
	role    ticket.Role
	theme   tui.Theme
	keys    KeyMap

	width  int
	height int
	ready  bool

	filter     FilterModel
	categories []ticket.Category

	// visible is the derived list: a pure function of the store
	// snapshot and the filter state, recomputed after either changes.
	visible      []ticket.Ticket
	cursor       int
	scrollOffset int
	selectedID   int // stable selection across recomputes, by ticket id

	loadingList bool
	listErr     error

	focus      FocusRegion
	priorFocus FocusRegion
	detail     DetailPane

	dropdown *tui.DropdownOverlay
	feedback *FeedbackModal
	form     *CreateForm
	creating bool

	notice      string
	noticeLevel slog.Level
}

// NewModel creates the viewer over a source. Mutation controls are
// enabled if the source also implements [Mutator], and further gated
// by the session role.
func NewModel(source Source, role ticket.Role, theme tui.Theme) Model {
	mutator, _ := source.(Mutator)
	return Model{
		source:  source,
		mutator: mutator,
		store:   ticketlist.NewStore(source, role),
		role:    role,
		theme:   theme,
		keys:    DefaultKeyMap,
		filter:  FilterModel{State: ticketlist.FilterState{Sort: ticketlist.SortCreatedDesc}},
		detail:  NewDetailPane(theme),
	}
}

// Init starts the initial loads: the ticket list and the category
// set, as independent calls.
func (model Model) Init() tea.Cmd {
	return tea.Batch(model.loadTicketsCmd(), model.loadCategoriesCmd())
}

// loadTicketsCmd fetches a fresh snapshot off the update loop. The
// result is applied to the store inside Update.
func (model Model) loadTicketsCmd() tea.Cmd {
	store := model.store
	return func() tea.Msg {
		tickets, err := store.Fetch(context.Background())
		return ticketsLoadedMsg{tickets: tickets, err: err}
	}
}

func (model Model) loadCategoriesCmd() tea.Cmd {
	source := model.source
	return func() tea.Msg {
		categories, err := source.ListCategories(context.Background())
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

func (model Model) createTicketCmd(title, description string, categoryID int, priority ticket.Priority) tea.Cmd {
	mutator := model.mutator
	return func() tea.Msg {
		err := mutator.CreateTicket(context.Background(), title, description, categoryID, priority)
		return ticketCreatedMsg{err: err}
	}
}

// fadeNoticeCmd schedules the status-bar notice to clear.
func fadeNoticeCmd() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// Update is the single event loop. All state mutation happens here.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.width = msg.Width
		model.height = msg.Height
		model.ready = true
		model.detail.SetSize(model.detailWidth(), model.paneHeight())
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(msg)

	case ticketsLoadedMsg:
		model.loadingList = false
		if msg.err != nil {
			// Failed load: previous snapshot stays untouched.
			model.listErr = msg.err
			return model.withErrorNotice("could not load tickets", msg.err)
		}
		model.listErr = nil
		model.store.Apply(msg.tickets)
		model.recomputeVisible()
		return model, nil

	case categoriesLoadedMsg:
		if msg.err != nil {
			return model.withErrorNotice("could not load categories", msg.err)
		}
		model.categories = msg.categories
		return model, nil

	case detailLoadedMsg:
		model.detail.HandleTicketLoaded(msg)
		return model, nil

	case commentsLoadedMsg:
		model.detail.HandleCommentsLoaded(msg)
		return model, nil

	case commentPostedMsg:
		if !model.detail.HandleCommentPosted(msg) {
			return model, nil
		}
		if msg.err != nil {
			// Draft is preserved; the user can retry.
			return model.withErrorNotice("could not post comment", msg.err)
		}
		return model, nil

	case statusChangedMsg:
		if msg.err != nil {
			return model.withErrorNotice("could not change status", msg.err)
		}
		// The server owns updatedAt; re-fetch rather than patch.
		return model, refreshTicketCmd(model.source, msg.ticketID)

	case feedbackSavedMsg:
		if msg.err != nil {
			return model.withErrorNotice("could not save feedback", msg.err)
		}
		return model, refreshTicketCmd(model.source, msg.ticketID)

	case ticketRefreshedMsg:
		model.detail.HandleRefreshed(msg)
		if msg.err == nil {
			if model.store.Replace(msg.ticket) {
				model.recomputeVisible()
			}
		}
		return model, nil

	case ticketCreatedMsg:
		model.creating = false
		if msg.err != nil {
			return model.withErrorNotice("could not create ticket", msg.err)
		}
		model.form = nil
		model.focus = FocusList
		model.notice = "ticket created"
		model.noticeLevel = slog.LevelInfo
		model.loadingList = true
		return model, tea.Batch(model.loadTicketsCmd(), fadeNoticeCmd())

	case logRecordMsg:
		model.notice = msg.Summary
		model.noticeLevel = msg.Level
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{}
		})

	case logRecordFadeMsg, noticeFadeMsg:
		model.notice = ""
		return model, nil
	}

	return model, nil
}

// withErrorNotice surfaces an error in the status bar. Authorization
// failures get the dedicated session-expired wording since the fix
// (logging in again) is different from waiting out a network blip.
func (model Model) withErrorNotice(context string, err error) (tea.Model, tea.Cmd) {
	if helpdesk.IsAuthFailure(err) {
		model.notice = "session expired or invalid credentials: run 'fixflow login'"
	} else {
		model.notice = context + ": " + err.Error()
	}
	model.noticeLevel = slog.LevelError
	return model, fadeNoticeCmd()
}

// handleKey routes a key press according to the current focus.
func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works everywhere except while typing into a text region
	// (where q is an ordinary character).
	typing := model.focus == FocusFilter || model.focus == FocusComment ||
		model.focus == FocusFeedback || model.focus == FocusCreate
	if key.Matches(msg, model.keys.Quit) && (!typing || msg.Type == tea.KeyCtrlC) {
		return model, tea.Quit
	}

	switch model.focus {
	case FocusFilter:
		return model.handleFilterKey(msg)
	case FocusComment:
		return model.handleCommentKey(msg)
	case FocusDropdown:
		return model.handleDropdownKey(msg)
	case FocusFeedback:
		return model.handleFeedbackKey(msg)
	case FocusCreate:
		return model.handleCreateKey(msg)
	case FocusDetail:
		return model.handleDetailKey(msg)
	default:
		return model.handleListKey(msg)
	}
}

func (model Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys
	switch {
	case key.Matches(msg, keys.Up):
		model.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		model.moveCursor(1)
	case key.Matches(msg, keys.PageUp):
		model.moveCursor(-model.paneHeight() / 2)
	case key.Matches(msg, keys.PageDown):
		model.moveCursor(model.paneHeight() / 2)
	case key.Matches(msg, keys.Home):
		model.setCursor(0)
	case key.Matches(msg, keys.End):
		model.setCursor(len(model.visible) - 1)

	case key.Matches(msg, keys.FilterActivate):
		model.priorFocus = model.focus
		model.filter.Active = true
		model.focus = FocusFilter

	case key.Matches(msg, keys.FilterClear):
		model.filter.Clear()
		model.recomputeVisible()

	case key.Matches(msg, keys.Refresh):
		model.loadingList = true
		return model, model.loadTicketsCmd()

	case key.Matches(msg, keys.SortCycle):
		model.filter.CycleSort()
		model.recomputeVisible()

	case key.Matches(msg, keys.NewTicket):
		if model.mutator != nil && model.role == ticket.RoleEmployee {
			form := NewCreateForm(model.categories, model.theme)
			model.form = &form
			model.focus = FocusCreate
		}

	case key.Matches(msg, keys.FilterStatus):
		model.openDropdown(fieldFilterStatus, model.filter.StatusOptions())
	case key.Matches(msg, keys.FilterCategory):
		model.openDropdown(fieldFilterCategory, model.filter.CategoryOptions(model.categories))
	case key.Matches(msg, keys.FilterPriority):
		model.openDropdown(fieldFilterPriority, model.filter.PriorityOptions())
	case key.Matches(msg, keys.FilterRating):
		model.openDropdown(fieldFilterRating, model.filter.RatingOptions())

	case key.Matches(msg, keys.FocusToggle):
		if model.detail.TicketID() != 0 {
			model.focus = FocusDetail
		}

	case msg.Type == tea.KeyEnter:
		if entry, ok := model.selectedTicket(); ok {
			model.focus = FocusDetail
			if model.detail.TicketID() != entry.ID {
				model.detail.ShowTicket(entry.ID)
				return model, loadDetailCmd(model.source, entry.ID)
			}
		}
	}
	return model, nil
}

func (model Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys
	switch {
	case key.Matches(msg, keys.Up):
		model.detail.ScrollUp()
	case key.Matches(msg, keys.Down):
		model.detail.ScrollDown()
	case key.Matches(msg, keys.PageUp):
		model.detail.PageUp()
	case key.Matches(msg, keys.PageDown):
		model.detail.PageDown()
	case key.Matches(msg, keys.Home):
		model.detail.ScrollToTop()
	case key.Matches(msg, keys.End):
		model.detail.ScrollToBottom()

	case key.Matches(msg, keys.FocusToggle), msg.Type == tea.KeyEsc:
		model.focus = FocusList

	case key.Matches(msg, keys.Comment):
		if model.mutator != nil && !model.detail.Posting() {
			model.focus = FocusComment
		}

	case key.Matches(msg, keys.ChangeStatus):
		if model.mutator != nil && model.role == ticket.RoleItSupport && model.detail.Ticket() != nil {
			options := make([]tui.DropdownOption, 0, len(ticket.Statuses))
			for _, status := range ticket.Statuses {
				options = append(options, tui.DropdownOption{
					Label: status.Label(),
					Value: string(status),
				})
			}
			model.openDropdown(fieldTicketStatus, options)
			model.dropdown.TicketID = model.detail.TicketID()
		}

	case key.Matches(msg, keys.Feedback):
		if model.mutator != nil && model.detail.CanLeaveFeedback(model.role) {
			modal := NewFeedbackModal(model.detail.TicketID(), model.theme)
			model.feedback = &modal
			model.focus = FocusFeedback
		}
	}
	return model, nil
}

func (model Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		model.filter.Clear()
		model.recomputeVisible()
		model.focus = model.priorFocus
	case tea.KeyEnter:
		model.filter.Active = false
		model.focus = FocusList
	case tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.recomputeVisible()
		}
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range msg.Runes {
			model.filter.HandleRune(character)
		}
		model.recomputeVisible()
	}
	return model, nil
}

func (model Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Back out without losing the draft.
		model.focus = FocusDetail
	case tea.KeyEnter:
		text := strings.TrimSpace(model.detail.CommentDraft)
		if text == "" || model.detail.Posting() {
			return model, nil
		}
		model.detail.BeginPost()
		return model, postCommentCmd(model.mutator, model.detail.TicketID(), text)
	case tea.KeyBackspace:
		model.detail.CommentDraft = trimLastRune(model.detail.CommentDraft)
	case tea.KeyRunes, tea.KeySpace:
		model.detail.CommentDraft += string(msg.Runes)
	}
	return model, nil
}

func (model Model) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dropdown := model.dropdown
	switch msg.Type {
	case tea.KeyEsc:
		model.dropdown = nil
		model.focus = model.priorFocus
	case tea.KeyUp:
		dropdown.MoveUp()
	case tea.KeyDown:
		dropdown.MoveDown()
	case tea.KeyEnter:
		selected := dropdown.Selected()
		field := dropdown.Field
		ticketID := dropdown.TicketID
		model.dropdown = nil
		model.focus = model.priorFocus

		if field == fieldTicketStatus {
			status := ticket.Status(selected.Value)
			if current := model.detail.Ticket(); current != nil && current.Status == status {
				return model, nil
			}
			return model, changeStatusCmd(model.mutator, ticketID, status)
		}

		model.filter.ApplyChoice(field, selected.Value)
		model.recomputeVisible()
	default:
		if msg.String() == "j" {
			dropdown.MoveDown()
		} else if msg.String() == "k" {
			dropdown.MoveUp()
		}
	}
	return model, nil
}

func (model Model) handleFeedbackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		model.feedback = nil
		model.focus = FocusDetail
		return model, nil
	}
	if model.feedback.Update(msg) {
		modal := model.feedback
		model.feedback = nil
		model.focus = FocusDetail
		// ValidateRating is a no-op here (the modal can't produce an
		// out-of-range rating), but the local gate stays in front of
		// the network call.
		if err := ticket.ValidateRating(modal.Rating); err != nil {
			return model.withErrorNotice("invalid rating", err)
		}
		return model, submitFeedbackCmd(model.mutator, modal.TicketID, modal.Rating, strings.TrimSpace(modal.Text))
	}
	return model, nil
}

func (model Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the description editor is open, Esc closes the editor, not
	// the form; the form handles it.
	if msg.Type == tea.KeyEsc && !model.form.EditingDescription() {
		model.form = nil
		model.focus = FocusList
		return model, nil
	}
	if model.form.Update(msg) && !model.creating {
		category, _ := model.form.Category()
		model.creating = true
		return model, model.createTicketCmd(
			strings.TrimSpace(model.form.Title),
			strings.TrimSpace(model.form.Description),
			category.ID,
			model.form.Priority(),
		)
	}
	return model, nil
}

// openDropdown opens a dropdown overlay centered under the header.
func (model *Model) openDropdown(field string, options []tui.DropdownOption) {
	if len(options) == 0 {
		return
	}
	dropdown := &tui.DropdownOverlay{
		Options: options,
		Field:   field,
		AnchorX: 2,
		AnchorY: 2,
	}
	model.priorFocus = model.focus
	model.dropdown = dropdown
	model.focus = FocusDropdown
}

// recomputeVisible re-derives the filtered, sorted list from the
// snapshot and restores the selection by ticket id.
func (model *Model) recomputeVisible() {
	model.visible = model.store.View(model.filter.State)

	if model.selectedID != 0 {
		for index, entry := range model.visible {
			if entry.ID == model.selectedID {
				model.cursor = index
				model.clampScroll()
				return
			}
		}
	}
	// Previous selection filtered away (or first load): clamp.
	if model.cursor >= len(model.visible) {
		model.cursor = len(model.visible) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor < len(model.visible) {
		model.selectedID = model.visible[model.cursor].ID
	} else {
		model.selectedID = 0
	}
	model.clampScroll()
}

func (model *Model) moveCursor(delta int) {
	model.setCursor(model.cursor + delta)
}

func (model *Model) setCursor(position int) {
	if len(model.visible) == 0 {
		model.cursor = 0
		model.selectedID = 0
		return
	}
	if position < 0 {
		position = 0
	}
	if position >= len(model.visible) {
		position = len(model.visible) - 1
	}
	model.cursor = position
	model.selectedID = model.visible[position].ID
	model.clampScroll()
}

// clampScroll keeps the cursor row inside the visible window.
func (model *Model) clampScroll() {
	height := model.paneHeight()
	if height <= 0 {
		return
	}
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+height {
		model.scrollOffset = model.cursor - height + 1
	}
	if model.scrollOffset < 0 {
		model.scrollOffset = 0
	}
}

// selectedTicket returns the ticket under the cursor.
func (model *Model) selectedTicket() (ticket.Ticket, bool) {
	if model.cursor < 0 || model.cursor >= len(model.visible) {
		return ticket.Ticket{}, false
	}
	return model.visible[model.cursor], true
}

// Layout helpers. Three chrome lines: header, filter bar, status bar.
func (model *Model) paneHeight() int {
	height := model.height - 3
	if height < 1 {
		height = 1
	}
	return height
}

func (model *Model) listWidth() int {
	width := int(float64(model.width) * listSplitRatio)
	if width < 30 {
		width = 30
	}
	if width > model.width-20 {
		width = model.width - 20
	}
	return width
}

func (model *Model) detailWidth() int {
	// One column for the divider.
	width := model.width - model.listWidth() - 1
	if width < 1 {
		width = 1
	}
	return width
}

// View renders the whole screen.
func (model Model) View() string {
	if !model.ready {
		return "loading..."
	}

	header := model.renderHeader()
	filterBar := model.filter.View(model.theme, model.width, model.categories)
	panes := model.renderPanes()
	statusBar := model.renderStatusBar()

	view := header + "\n" + filterBar + "\n" + panes + "\n" + statusBar

	// Overlays, in stacking order.
	if model.dropdown != nil {
		lines := model.dropdown.Render(model.theme)
		view = tui.SpliceOverlay(view, lines, model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	if model.feedback != nil {
		lines, anchorX, anchorY := model.feedback.Render(model.width, model.height)
		view = tui.SpliceOverlay(view, lines, anchorX, anchorY)
	}
	if model.form != nil {
		lines, anchorX, anchorY := model.form.Render(model.width, model.height)
		view = tui.SpliceOverlay(view, lines, anchorX, anchorY)
	}
	return view
}

func (model Model) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	title := headerStyle.Render(" fixflow ")
	count := faint.Render(fmt.Sprintf("%d/%d tickets", len(model.visible), model.store.Len()))
	role := faint.Render("  ·  " + model.role.Label())
	loading := ""
	if model.loadingList {
		loading = faint.Render("  ·  reloading...")
	}
	return title + count + role + loading
}

func (model Model) renderPanes() string {
	height := model.paneHeight()
	listWidth := model.listWidth()

	listPane := model.renderList(listWidth, height)

	dividerStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	dividerColumn := strings.TrimRight(strings.Repeat(dividerStyle.Render("│")+"\n", height), "\n")

	detailPane := model.detail.View(model.focus == FocusComment)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, dividerColumn, detailPane)
}

func (model Model) renderList(width, height int) string {
	renderer := NewListRenderer(model.theme, width)

	if len(model.visible) == 0 {
		empty := renderer.RenderEmpty(model.filter.State.Active())
		if model.listErr != nil {
			empty = lipgloss.NewStyle().
				Foreground(model.theme.ErrorForeground).
				Render("  Could not load tickets.")
		}
		return lipgloss.NewStyle().Width(width).Height(height).Render(empty)
	}

	var rows []string
	for index := model.scrollOffset; index < len(model.visible) && index < model.scrollOffset+height; index++ {
		entry := model.visible[index]
		positions := model.filter.TitlePositions(entry.Title)
		rows = append(rows, renderer.RenderRow(entry, index == model.cursor, positions))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

func (model Model) renderStatusBar() string {
	if model.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
		if model.noticeLevel >= slog.LevelError {
			noticeStyle = noticeStyle.Foreground(model.theme.ErrorForeground)
		} else if model.noticeLevel >= slog.LevelWarn {
			noticeStyle = noticeStyle.Foreground(model.theme.StatusInProgress)
		}
		// Notices can arrive as multi-line log output; the bar is one
		// line, so show the first non-blank line truncated to fit.
		notice := model.notice
		if excerpt := tui.ExtractExcerpt(notice, max(model.width-2, 8), 1); len(excerpt) > 0 {
			notice = excerpt[0]
		}
		return noticeStyle.Render(" " + notice)
	}

	help := " j/k move  Enter open  / search  s/c/p status/cat/prio  o sort  r reload"
	switch model.focus {
	case FocusDetail:
		help = " j/k scroll  m comment  Tab back"
		if model.role == ticket.RoleItSupport {
			help += "  S status"
		} else if model.detail.CanLeaveFeedback(model.role) {
			help += "  f feedback"
		}
	case FocusFilter:
		help = " type to search  Enter accept  Esc clear"
	case FocusComment:
		help = " Enter send  Esc back"
	default:
		if model.role == ticket.RoleEmployee && model.mutator != nil {
			help += "  n new"
		}
	}
	help += "  q quit"
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(help)
}
