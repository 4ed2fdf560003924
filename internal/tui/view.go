package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielolaszy/jtui/internal/comment"
	"github.com/danielolaszy/jtui/internal/input"
	"github.com/danielolaszy/jtui/internal/transition"
	"github.com/danielolaszy/jtui/internal/view"
	"github.com/danielolaszy/jtui/pkg/models"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.focus {
	case FocusTransition:
		body = m.place(m.renderTransitionPopup())
	case FocusComment:
		body = m.place(m.renderCommentPopup())
	default:
		body = m.renderRegion(m.focus)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.breadcrumb()),
		body,
		m.renderStatus(),
		dimStyle.Render(m.help()),
	)
}

func (m Model) breadcrumb() string {
	parts := []string{"jtui"}
	if m.project != "" && m.focus != FocusProjects {
		parts = append(parts, m.project)
	}
	if k := m.currentKey(); k != "" {
		parts = append(parts, k)
	}
	return strings.Join(parts, " / ")
}

func (m Model) renderRegion(focus FocusRegion) string {
	switch focus {
	case FocusTickets:
		return m.renderTickets()
	case FocusDetail:
		return m.renderDetail()
	default:
		return m.renderProjects()
	}
}

func (m Model) renderProjects() string {
	if len(m.projects) == 0 {
		return dimStyle.Render("no projects")
	}
	entries := make([]string, len(m.projects))
	for i, p := range m.projects {
		entries[i] = fmt.Sprintf("%-10s %s", p.Key, p.Name)
	}
	return renderList(entries, selectedIndex(m.projectCursor.Index()))
}

func (m Model) renderTickets() string {
	if len(m.tickets) == 0 {
		return dimStyle.Render("no tickets")
	}
	rows := make([][]string, len(m.tickets))
	for i, t := range m.tickets {
		rows[i] = []string{t.Key, t.Fields.Summary, t.Fields.Status.Name, t.Fields.Priority.Label(), t.Fields.IssueType.Name}
	}
	return renderTable([]string{"Key", "Summary", "Status", "Priority", "Type"}, rows, selectedIndex(m.ticketCursor.Index()))
}

func (m Model) selectedTicket() (models.Ticket, bool) {
	i, ok := m.ticketCursor.Index()
	if !ok || i >= len(m.tickets) {
		return models.Ticket{}, false
	}
	return m.tickets[i], true
}

func (m Model) renderDetail() string {
	t, ok := m.selectedTicket()
	if !ok {
		return dimStyle.Render("no ticket selected")
	}

	f := t.Fields
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", t.Key, f.Summary)
	fmt.Fprintf(&b, "Status: %s  Priority: %s  Type: %s\n", f.Status.Name, f.Priority.Label(), f.IssueType.Name)
	fmt.Fprintf(&b, "Assignee: %s  Reporter: %s", f.Assignee.Label(), f.Reporter.Label())
	if len(f.Labels) > 0 {
		fmt.Fprintf(&b, "\nLabels: %s", strings.Join(f.Labels, ", "))
	}
	for _, line := range view.HTMLText(t.RenderedFields.Description) {
		b.WriteString("\n" + line)
	}

	sections := []string{b.String()}

	sections = append(sections, sectionStyle.Render("Parent"))
	if rows := view.ParentRows(t); len(rows) > 0 {
		sections = append(sections, renderTable(view.ParentHeader, cells(rows, false), -1))
	} else {
		sections = append(sections, dimStyle.Render("none"))
	}

	sections = append(sections, sectionStyle.Render("Relations"))
	rows, err := view.RelationRows(t)
	switch {
	case err != nil:
		sections = append(sections, errorStyle.Render(err.Error()))
	case len(rows) == 0:
		sections = append(sections, dimStyle.Render("none"))
	default:
		sections = append(sections, renderTable(view.RelationHeader, cells(rows, true), -1))
	}

	sections = append(sections, sectionStyle.Render("Comments"))
	switch {
	case m.commentErr != nil:
		sections = append(sections, errorStyle.Render(m.commentErr.Error()))
	case m.commentLines == nil:
		sections = append(sections, dimStyle.Render("loading"))
	case len(m.commentLines) == 0:
		sections = append(sections, dimStyle.Render("no comments"))
	default:
		sections = append(sections, strings.Join(m.commentWindow(), "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// commentWindow returns the comment lines visible from the scroll offset.
func (m Model) commentWindow() []string {
	lines := m.commentLines[min(m.scroll, len(m.commentLines)):]
	if m.height > 0 {
		visible := max(m.height/2, 5)
		lines = lines[:min(visible, len(lines))]
	}
	return lines
}

func cells(rows []view.Row, withRelation bool) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells(withRelation)
	}
	return out
}

func (m Model) renderTransitionPopup() string {
	snap := m.machine.Snapshot()
	if snap.Screen == nil {
		title := titleStyle.Render("Transitions of " + m.currentKey())
		if m.transitions == nil {
			return popupStyle.Render(title + "\n" + dimStyle.Render("loading transitions"))
		}
		if len(snap.Transitions) == 0 {
			return popupStyle.Render(title + "\n" + dimStyle.Render("no transitions available"))
		}
		return popupStyle.Render(title + "\n" + renderList(snap.Transitions, snap.Selected))
	}

	s := snap.Screen
	name := s.FieldName
	if name == "" {
		name = s.FieldKey
	}
	transitionName := ""
	if snap.Selected >= 0 && snap.Selected < len(snap.Transitions) {
		transitionName = snap.Transitions[snap.Selected]
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("%s: %s", transitionName, name))}
	if len(s.Values) == 0 {
		lines = append(lines, dimStyle.Render("no allowed values"))
	} else {
		lines = append(lines, renderList(s.Values, s.Selected))
	}

	commentLine := "Comment: " + snap.Comment
	if snap.InputMode == transition.InputEditing {
		commentLine = editingStyle.Render(commentLine + "_")
	}
	lines = append(lines, "", commentLine)
	return popupStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCommentPopup() string {
	snap := m.editor.Snapshot()
	lines := []string{titleStyle.Render("Comment on " + m.currentKey())}
	lines = append(lines, snap.Lines...)

	if snap.Mode == comment.ModeEditing {
		lines = append(lines, editingStyle.Render(snap.Input+"_"))
	} else if snap.Input != "" {
		lines = append(lines, snap.Input)
	}
	if len(snap.Lines) == 0 && snap.Input == "" && snap.Mode == comment.ModeNormal {
		lines = append(lines, dimStyle.Render("empty"))
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}

// place centers a popup in the terminal once its size is known.
func (m Model) place(popup string) string {
	if m.width == 0 || m.height == 0 {
		return popup
	}
	return lipgloss.Place(m.width, max(m.height-3, lipgloss.Height(popup)), lipgloss.Center, lipgloss.Center, popup)
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return m.status
}

func (m Model) help() string {
	switch m.focus {
	case FocusTransition:
		snap := m.machine.Snapshot()
		if snap.Screen == nil {
			return m.actionHelp("confirm", "cancel")
		}
		if snap.InputMode == transition.InputEditing {
			return "type comment • esc stop editing"
		}
		return m.actionHelp("confirm", "edit", "cancel")
	case FocusComment:
		if m.editor.Mode() == comment.ModeEditing {
			return "type comment • enter new line • esc stop editing"
		}
		return m.actionHelp("edit", "push", "cancel")
	case FocusProjects:
		return m.actionHelp("confirm", "quit") + " • " + helpLine(m.global.Refresh, m.global.ForceQuit)
	default:
		return m.actionHelp("confirm", "cancel", "quit") + " • " +
			helpLine(m.global.Transitions, m.global.Comment, m.global.Browse, m.global.Refresh)
	}
}

func (m Model) actionHelp(actions ...string) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		keys := m.keys.Keys(input.Action(a))
		if len(keys) == 0 {
			continue
		}
		parts = append(parts, strings.Join(keys, "/")+" "+a)
	}
	return strings.Join(parts, " • ")
}

func selectedIndex(i int, ok bool) int {
	if !ok {
		return -1
	}
	return i
}
