// Package model defines the core project-status data types.
package model

// Kind is the bucket an issue is categorized into.
type Kind string

const (
	KindEpic  Kind = "epic"
	KindStory Kind = "story"
	KindTask  Kind = "task"
)

// Defaults applied when the tracker omits a field.
const (
	Unassigned      = "Unassigned"
	UnknownStatus   = "Unknown"
	DefaultPriority = "Medium"
)

// TerminalStatuses are workflow states that never count as overdue.
var TerminalStatuses = map[string]bool{
	"Done":     true,
	"Closed":   true,
	"Resolved": true,
}

// NotStartedStatuses mark an epic as not started on the roadmap.
var NotStartedStatuses = map[string]bool{
	"To Do":   true,
	"Backlog": true,
}

// Issue is a tracker issue reduced to the fields the assistant reasons about.
type Issue struct {
	Key         string `json:"key"`
	Kind        Kind   `json:"kind"`
	Summary     string `json:"summary"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
	EpicName    string `json:"epic_name,omitempty"`
	URL         string `json:"url"`
}

// DisplayName returns the epic name when present, otherwise the summary.
func (i Issue) DisplayName() string {
	if i.EpicName != "" {
		return i.EpicName
	}
	return i.Summary
}

// TypeCounts holds bucket cardinalities.
type TypeCounts struct {
	Epics   int `json:"epics"`
	Stories int `json:"stories"`
	Tasks   int `json:"tasks"`
}

// Metrics are derived counts over all categorized issues.
type Metrics struct {
	StatusCounts         *Counter   `json:"status_counts"`
	AssigneeCounts       *Counter   `json:"assignee_counts"`
	TypeCounts           TypeCounts `json:"type_counts"`
	StatusAssigneeMatrix *Counter   `json:"status_assignee_matrix"`
	OverdueCount         int        `json:"overdue_count"`
	TotalIssues          int        `json:"total_issues"`
}

// ProjectData is the categorized view of one project's issues.
type ProjectData struct {
	ProjectKey  string  `json:"project_key"`
	Epics       []Issue `json:"epics"`
	Stories     []Issue `json:"stories"`
	Tasks       []Issue `json:"tasks"`
	Metrics     Metrics `json:"metrics"`
	TotalIssues int     `json:"total_issues"`
}

// All returns epics, stories and tasks concatenated in that order.
func (p *ProjectData) All() []Issue {
	all := make([]Issue, 0, len(p.Epics)+len(p.Stories)+len(p.Tasks))
	all = append(all, p.Epics...)
	all = append(all, p.Stories...)
	all = append(all, p.Tasks...)
	return all
}
