package project

import (
	"time"

	"github.com/rcliao/helios/internal/model"
)

// MatrixKey is the flat "assignee|status" key of the status/assignee matrix.
func MatrixKey(assignee, status string) string {
	return assignee + "|" + status
}

// ComputeMetrics makes a single pass over epics, stories and tasks (in that
// order) and derives all counts. An issue is overdue when its due date parses,
// falls strictly before today's UTC day, and its status is not terminal.
func ComputeMetrics(epics, stories, tasks []model.Issue, today time.Time) model.Metrics {
	m := model.Metrics{
		StatusCounts:         model.NewCounter(),
		AssigneeCounts:       model.NewCounter(),
		StatusAssigneeMatrix: model.NewCounter(),
		TypeCounts: model.TypeCounts{
			Epics:   len(epics),
			Stories: len(stories),
			Tasks:   len(tasks),
		},
	}
	today = day(today)

	for _, bucket := range [][]model.Issue{epics, stories, tasks} {
		for _, issue := range bucket {
			m.StatusCounts.Inc(issue.Status)
			m.AssigneeCounts.Inc(issue.Assignee)
			m.StatusAssigneeMatrix.Inc(MatrixKey(issue.Assignee, issue.Status))
			if isOverdue(issue, today) {
				m.OverdueCount++
			}
			m.TotalIssues++
		}
	}
	return m
}

func isOverdue(issue model.Issue, today time.Time) bool {
	due, ok := parseDate(issue.DueDate)
	if !ok {
		return false
	}
	return due.Before(today) && !model.TerminalStatuses[issue.Status]
}
