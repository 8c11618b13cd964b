package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/helios/internal/model"
)

// Risk is a scheduling or ownership concern flagged on a roadmap epic.
type Risk string

const (
	RiskUnassigned Risk = "Unassigned"
	RiskNotStarted Risk = "NotStarted"
	RiskOverdue    Risk = "Overdue"
	RiskDueSoon    Risk = "DueSoon"
)

// dueSoonDays is the window (exclusive) for the due-soon flag.
const dueSoonDays = 7

// Label is the roadmap rendering of a risk.
func (r Risk) Label() string {
	switch r {
	case RiskUnassigned:
		return "⚠️ Unassigned"
	case RiskNotStarted:
		return "⚠️ Not started"
	case RiskOverdue:
		return "🔴 Overdue"
	case RiskDueSoon:
		return "🟡 Due soon"
	}
	return string(r)
}

// Risks derives the risk flags of one epic. Overdue and due-soon are
// mutually exclusive: overdue needs a due day before today, due-soon a due
// day between today and six days out.
func Risks(epic model.Issue, today time.Time) []Risk {
	var risks []Risk
	if epic.Assignee == model.Unassigned {
		risks = append(risks, RiskUnassigned)
	}
	if model.NotStartedStatuses[epic.Status] {
		risks = append(risks, RiskNotStarted)
	}
	if due, ok := parseDate(epic.DueDate); ok {
		today = day(today)
		days := daysBetween(today, due)
		switch {
		case due.Before(today):
			if !model.TerminalStatuses[epic.Status] {
				risks = append(risks, RiskOverdue)
			}
		case days < dueSoonDays:
			risks = append(risks, RiskDueSoon)
		}
	}
	return risks
}

// Roadmap lists up to the first MaxRoadmapEpics epics in tracker order with
// status, assignee and any risk flags.
func Roadmap(epics []model.Issue, today time.Time) string {
	if len(epics) == 0 {
		return NoEpicsMessage
	}

	parts := []string{"**Roadmap:**\n"}
	if len(epics) > MaxRoadmapEpics {
		epics = epics[:MaxRoadmapEpics]
	}

	for _, epic := range epics {
		parts = append(parts,
			fmt.Sprintf("**%s**: %s", epic.Key, epic.DisplayName()),
			fmt.Sprintf("  - Status: %s", epic.Status),
			fmt.Sprintf("  - Assignee: %s", epic.Assignee),
		)

		risks := Risks(epic, today)
		if len(risks) > 0 {
			labels := make([]string, len(risks))
			for i, r := range risks {
				labels[i] = r.Label()
			}
			parts = append(parts, fmt.Sprintf("  - Risks: %s", strings.Join(labels, ", ")))
		}
		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}
