// Package tui is the interactive terminal client. All state lives in Model
// and is only changed on the bubbletea update loop; network work runs in
// commands whose results come back as messages.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielolaszy/jtui/internal/comment"
	"github.com/danielolaszy/jtui/internal/cursor"
	"github.com/danielolaszy/jtui/internal/input"
	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/internal/transition"
	"github.com/danielolaszy/jtui/internal/view"
	"github.com/danielolaszy/jtui/pkg/models"
)

// Backend is the data source of the UI.
type Backend interface {
	Projects(ctx context.Context, refresh bool) ([]models.Project, error)
	Tickets(ctx context.Context, project string, refresh bool) ([]models.Ticket, error)
	Comments(ctx context.Context, key string) (models.CommentSet, error)
	Transitions(ctx context.Context, key string) ([]models.Transition, error)
	Submit(ctx context.Context, key string, sub transition.Submission) (models.Ticket, error)
	AddComment(ctx context.Context, key, body string) error
	BrowseURL(key string) string
}

// FocusRegion identifies which part of the UI receives keys.
type FocusRegion int

const (
	FocusProjects FocusRegion = iota
	FocusTickets
	FocusDetail
	// FocusTransition and FocusComment are modal popups.
	FocusTransition
	FocusComment
)

type projectsLoadedMsg struct {
	projects []models.Project
	err      error
}

type ticketsLoadedMsg struct {
	project string
	tickets []models.Ticket
	err     error
}

type commentsLoadedMsg struct {
	key string
	set models.CommentSet
	err error
}

type transitionsLoadedMsg struct {
	key         string
	transitions []models.Transition
	err         error
}

type submittedMsg struct {
	key    string
	sub    transition.Submission
	ticket models.Ticket
	err    error
}

type commentAddedMsg struct {
	key string
	err error
}

// Model is the bubbletea model of the client.
type Model struct {
	ctx     context.Context
	backend Backend
	keys    input.KeyMap
	global  globalKeys
	now     func() time.Time

	focus      FocusRegion
	priorFocus FocusRegion

	projects      []models.Project
	projectCursor cursor.Selection
	project       string

	tickets      []models.Ticket
	ticketCursor cursor.Selection

	commentLines []string
	commentErr   error
	scroll       int

	transitions []models.Transition
	machine     *transition.Machine
	editor      *comment.Editor
	busy        bool

	status    string
	statusErr bool

	width  int
	height int
}

// NewModel creates the UI over backend. ctx bounds every request the UI
// makes.
func NewModel(ctx context.Context, backend Backend, keys input.KeyMap) Model {
	return Model{
		ctx:     ctx,
		backend: backend,
		keys:    keys,
		global:  defaultGlobalKeys,
		now:     time.Now,
		machine: transition.New(keys, nil),
		editor:  comment.NewEditor(keys),
	}
}

// Focus returns the region currently receiving keys.
func (m Model) Focus() FocusRegion {
	return m.focus
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadProjects(false)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case projectsLoadedMsg:
		if msg.err != nil {
			m.setError("failed to load projects", msg.err)
			return m, nil
		}
		m.projects = msg.projects
		m.projectCursor.Fit(len(m.projects))
		if _, ok := m.projectCursor.Index(); !ok {
			m.projectCursor.Top(len(m.projects))
		}
		m.setInfo(fmt.Sprintf("%d projects", len(m.projects)))

	case ticketsLoadedMsg:
		if msg.project != m.project {
			return m, nil
		}
		if msg.err != nil {
			m.setError("failed to load tickets of "+msg.project, msg.err)
			return m, nil
		}
		m.tickets = msg.tickets
		m.ticketCursor.Fit(len(m.tickets))
		if _, ok := m.ticketCursor.Index(); !ok {
			m.ticketCursor.Top(len(m.tickets))
		}
		m.setInfo(fmt.Sprintf("%d tickets in %s", len(m.tickets), msg.project))

	case commentsLoadedMsg:
		if msg.key != m.currentKey() {
			return m, nil
		}
		if msg.err != nil {
			m.commentErr = msg.err
			m.setError("failed to load comments of "+msg.key, msg.err)
			return m, nil
		}
		m.commentErr = nil
		m.commentLines = view.CommentLines(msg.set, m.now())
		if m.commentLines == nil {
			m.commentLines = []string{}
		}
		m.scroll = min(m.scroll, m.maxScroll())

	case transitionsLoadedMsg:
		if msg.key != m.currentKey() || m.focus == FocusComment {
			return m, nil
		}
		if msg.err != nil {
			m.setError("failed to load transitions of "+msg.key, msg.err)
			return m, nil
		}
		m.transitions = msg.transitions
		if m.transitions == nil {
			m.transitions = []models.Transition{}
		}
		m.machine.Reset(msg.transitions)
		m.openPopup(FocusTransition)

	case submittedMsg:
		return m.handleSubmitted(msg)

	case commentAddedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("failed to add comment to "+msg.key, msg.err)
			return m, nil
		}
		m.editor.Clear()
		m.closePopup()
		m.setInfo("comment added to " + msg.key)
		return m, m.loadComments(msg.key)
	}

	return m, nil
}

func (m Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.setError(fmt.Sprintf("failed to apply %s to %s", msg.sub.TransitionName, msg.key), msg.err)
		m.machine.Reset(m.transitions)
		return m, nil
	}

	// The old list may no longer apply; confirm is a no-op until the reload.
	m.transitions = nil
	m.machine.Reset(nil)

	for i := range m.tickets {
		if m.tickets[i].Key == msg.key {
			m.tickets[i] = msg.ticket
		}
	}
	m.setInfo(fmt.Sprintf("%s is now %s", msg.key, msg.ticket.Fields.Status.Name))

	cmds := []tea.Cmd{m.loadTransitions(msg.key)}
	if msg.sub.Comment != "" && m.priorFocus == FocusDetail {
		cmds = append(cmds, m.loadComments(msg.key))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.global.ForceQuit) {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusTransition:
		return m.handleTransitionKeys(msg)
	case FocusComment:
		return m.handleCommentKeys(msg)
	}

	if ticketKey := m.currentKey(); ticketKey != "" {
		switch {
		case key.Matches(msg, m.global.Transitions):
			m.setInfo("loading transitions of " + ticketKey)
			return m, m.loadTransitions(ticketKey)
		case key.Matches(msg, m.global.Comment):
			m.openPopup(FocusComment)
			return m, nil
		case key.Matches(msg, m.global.Browse):
			m.setInfo(m.backend.BrowseURL(ticketKey))
			return m, nil
		}
	}
	if key.Matches(msg, m.global.Refresh) {
		return m.refresh()
	}

	var cmds []tea.Cmd
	for _, k := range decodeKeys(msg) {
		action := m.keys.Action(k)
		if action == input.ActionQuit {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m, cmd = m.handleAction(action)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleAction(action input.Action) (Model, tea.Cmd) {
	switch m.focus {
	case FocusProjects:
		if m.projectCursor.Move(action, len(m.projects)) {
			return m, nil
		}
		if action == input.ActionConfirm {
			i, ok := m.projectCursor.Index()
			if !ok {
				return m, nil
			}
			m.project = m.projects[i].Key
			m.tickets = nil
			m.ticketCursor.Clear()
			m.focus = FocusTickets
			m.setInfo("loading tickets of " + m.project)
			return m, m.loadTickets(m.project, false)
		}

	case FocusTickets:
		if m.ticketCursor.Move(action, len(m.tickets)) {
			return m, nil
		}
		switch action {
		case input.ActionConfirm:
			ticketKey := m.currentKey()
			if ticketKey == "" {
				return m, nil
			}
			m.focus = FocusDetail
			m.commentLines = nil
			m.commentErr = nil
			m.scroll = 0
			return m, m.loadComments(ticketKey)
		case input.ActionCancel:
			m.focus = FocusProjects
		}

	case FocusDetail:
		if m.scrollBy(action) {
			return m, nil
		}
		if action == input.ActionCancel {
			m.focus = FocusTickets
		}
	}
	return m, nil
}

func (m *Model) scrollBy(action input.Action) bool {
	switch action {
	case input.ActionDown:
		m.scroll++
	case input.ActionUp:
		m.scroll--
	case input.ActionPageDown:
		m.scroll += input.PageStep
	case input.ActionPageUp:
		m.scroll -= input.PageStep
	case input.ActionTop:
		m.scroll = 0
	case input.ActionBottom:
		m.scroll = m.maxScroll()
	default:
		return false
	}
	m.scroll = max(0, min(m.scroll, m.maxScroll()))
	return true
}

func (m Model) maxScroll() int {
	return max(0, len(m.commentLines)-1)
}

func (m Model) handleTransitionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	for _, k := range decodeKeys(msg) {
		outcome, err := m.machine.HandleKey(k)
		if err != nil {
			m.setError("cannot open transition screen", err)
			continue
		}

		switch outcome {
		case transition.Ready:
			sub, _ := m.machine.Submission()
			m.busy = true
			m.setInfo("applying " + sub.TransitionName)
			return m, m.submit(m.currentKey(), sub)
		case transition.Ignored:
			if m.machine.Mode() == transition.ModeNormal && m.closesPopup(k) {
				m.closePopup()
				return m, nil
			}
		}
	}
	return m, nil
}

func (m Model) handleCommentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	for _, k := range decodeKeys(msg) {
		switch m.editor.HandleKey(k) {
		case comment.Push:
			m.busy = true
			ticketKey := m.currentKey()
			m.setInfo("adding comment to " + ticketKey)
			return m, m.addComment(ticketKey, m.editor.Body())
		case comment.Ignored:
			if m.editor.Mode() == comment.ModeNormal && m.closesPopup(k) {
				m.closePopup()
				return m, nil
			}
		}
	}
	return m, nil
}

func (m Model) closesPopup(k input.Key) bool {
	action := m.keys.Action(k)
	return action == input.ActionCancel || action == input.ActionQuit
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	switch m.focus {
	case FocusProjects:
		m.setInfo("refreshing projects")
		return m, m.loadProjects(true)
	default:
		if m.project == "" {
			return m, nil
		}
		m.setInfo("refreshing " + m.project)
		return m, m.loadTickets(m.project, true)
	}
}

func (m *Model) openPopup(focus FocusRegion) {
	if m.focus != FocusTransition && m.focus != FocusComment {
		m.priorFocus = m.focus
	}
	m.focus = focus
}

func (m *Model) closePopup() {
	m.focus = m.priorFocus
}

// currentKey is the key of the highlighted ticket, or "" outside the ticket
// views.
func (m Model) currentKey() string {
	focus := m.focus
	if focus == FocusTransition || focus == FocusComment {
		focus = m.priorFocus
	}
	if focus != FocusTickets && focus != FocusDetail {
		return ""
	}
	i, ok := m.ticketCursor.Index()
	if !ok || i >= len(m.tickets) {
		return ""
	}
	return m.tickets[i].Key
}

func (m *Model) setInfo(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string, err error) {
	logging.Error(s, "error", err)
	m.status = fmt.Sprintf("%s: %v", s, err)
	m.statusErr = true
}

func (m Model) loadProjects(refresh bool) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		projects, err := backend.Projects(ctx, refresh)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m Model) loadTickets(project string, refresh bool) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		tickets, err := backend.Tickets(ctx, project, refresh)
		return ticketsLoadedMsg{project: project, tickets: tickets, err: err}
	}
}

func (m Model) loadComments(ticketKey string) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		set, err := backend.Comments(ctx, ticketKey)
		return commentsLoadedMsg{key: ticketKey, set: set, err: err}
	}
}

func (m Model) loadTransitions(ticketKey string) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		transitions, err := backend.Transitions(ctx, ticketKey)
		return transitionsLoadedMsg{key: ticketKey, transitions: transitions, err: err}
	}
}

func (m Model) submit(ticketKey string, sub transition.Submission) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		ticket, err := backend.Submit(ctx, ticketKey, sub)
		return submittedMsg{key: ticketKey, sub: sub, ticket: ticket, err: err}
	}
}

func (m Model) addComment(ticketKey, body string) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return commentAddedMsg{key: ticketKey, err: backend.AddComment(ctx, ticketKey, body)}
	}
}
