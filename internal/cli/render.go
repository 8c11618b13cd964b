package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/helios/internal/chat"
	"github.com/rcliao/helios/internal/model"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle = lipgloss.NewStyle().Width(20)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// markdownStyle is the glamour style; "auto" picks dark or light from the
// terminal.
var markdownStyle = "auto"

// renderMarkdown renders md for the terminal, returning it unchanged if
// rendering fails.
func renderMarkdown(md string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if markdownStyle == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(markdownStyle))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// renderCharts draws horizontal bar charts of the chart data.
func renderCharts(c chat.ChartsData) string {
	sections := []string{
		barChart("Issues by Type", c.ByType),
		barChart("Issues by Status", c.ByStatus),
		barChart("Issues by Assignee", c.ByAssignee),
	}

	assignees := make([]string, 0, len(c.ByAssigneeAndStatus))
	for a := range c.ByAssigneeAndStatus {
		assignees = append(assignees, a)
	}
	sort.Strings(assignees)
	for _, a := range assignees {
		sections = append(sections, barChart("Status for "+a, c.ByAssigneeAndStatus[a]))
	}
	return strings.Join(sections, "\n\n")
}

func barChart(title string, counts *model.Counter) string {
	lines := []string{titleStyle.Render(title)}
	keys := counts.Keys()
	if len(keys) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, "  (none)")...)
	}

	maxCount := 0
	for _, k := range keys {
		maxCount = max(maxCount, counts.Get(k))
	}
	for _, k := range keys {
		n := counts.Get(k)
		width := 0
		if maxCount > 0 {
			width = n * barWidth / maxCount
		}
		if n > 0 && width == 0 {
			width = 1
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(k),
			barStyle.Render(strings.Repeat("█", width)),
			countStyle.Render(fmt.Sprintf(" %d", n)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
