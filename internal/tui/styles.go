package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	popupStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	editingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const columnGap = 2

// renderTable lays rows out in left aligned columns. selected is the
// highlighted row index or -1.
func renderTable(header []string, rows [][]string, selected int) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, headerStyle.Render(joinCells(header, widths)))
	for i, row := range rows {
		line := joinCells(row, widths)
		if i == selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func joinCells(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
		b.WriteString(cell)
		if i < len(cells)-1 && i < len(widths) {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
	}
	return b.String()
}

// renderList renders one entry per line with the selected entry highlighted.
func renderList(entries []string, selected int) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		if i == selected {
			lines[i] = selectedStyle.Render("> " + e)
		} else {
			lines[i] = "  " + e
		}
	}
	return strings.Join(lines, "\n")
}
