package project

import (
	"fmt"
	"strings"

	"github.com/rcliao/helios/internal/model"
)

// NoEpicsMessage is the roadmap text for a project without epics.
const NoEpicsMessage = "No epics found for this project."

// MaxRoadmapEpics caps how many epics the roadmap lists.
const MaxRoadmapEpics = 10

// StatusSummary renders the deterministic status summary: totals per bucket,
// the status breakdown in first-seen order, and an overdue warning when any
// issue is overdue.
func StatusSummary(data *model.ProjectData) string {
	total := len(data.Epics) + len(data.Stories) + len(data.Tasks)

	parts := []string{
		fmt.Sprintf("**Project: %s**\n", data.ProjectKey),
		fmt.Sprintf("Total Issues: %d", total),
		fmt.Sprintf("  - Epics: %d", len(data.Epics)),
		fmt.Sprintf("  - Stories: %d", len(data.Stories)),
		fmt.Sprintf("  - Tasks: %d", len(data.Tasks)),
		"\n**Status Breakdown:**",
	}

	statuses := data.Metrics.StatusCounts
	for _, status := range statuses.Keys() {
		parts = append(parts, fmt.Sprintf("  - %s: %d", status, statuses.Get(status)))
	}

	if data.Metrics.OverdueCount > 0 {
		parts = append(parts, fmt.Sprintf("\n⚠️ **Overdue Issues: %d**", data.Metrics.OverdueCount))
	}

	return strings.Join(parts, "\n")
}
