// Package project turns raw tracker issues into categorized buckets and
// metrics, and renders the deterministic status summary and roadmap.
package project

import (
	"strings"
	"time"

	"github.com/rcliao/helios/internal/jira"
	"github.com/rcliao/helios/internal/model"
)

// Classify maps a tracker issue-type name to a bucket by case-insensitive
// substring match, checked epic, then story, then task/subtask. ok is false
// for types that belong to no bucket (e.g. "Bug"); such issues are dropped.
func Classify(issueType string) (model.Kind, bool) {
	t := strings.ToLower(issueType)
	switch {
	case strings.Contains(t, "epic"):
		return model.KindEpic, true
	case strings.Contains(t, "story"):
		return model.KindStory, true
	case strings.Contains(t, "task"), strings.Contains(t, "subtask"):
		return model.KindTask, true
	}
	return "", false
}

// toIssue never fails: missing fields fall back to their documented defaults.
func toIssue(raw jira.RawIssue, kind model.Kind, browseURL func(string) string) model.Issue {
	f := raw.Fields

	status := model.UnknownStatus
	if f.Status != nil && f.Status.Name != "" {
		status = f.Status.Name
	}
	assignee := model.Unassigned
	if f.Assignee != nil && f.Assignee.DisplayName != "" {
		assignee = f.Assignee.DisplayName
	}
	priority := model.DefaultPriority
	if f.Priority != nil && f.Priority.Name != "" {
		priority = f.Priority.Name
	}

	issue := model.Issue{
		Key:         raw.Key,
		Kind:        kind,
		Summary:     f.Summary,
		Status:      status,
		Assignee:    assignee,
		Priority:    priority,
		Created:     f.Created,
		Updated:     f.Updated,
		DueDate:     f.DueDate,
		Description: jira.FlattenADF(f.Description),
	}
	if browseURL != nil && raw.Key != "" {
		issue.URL = browseURL(raw.Key)
	}
	if kind == model.KindEpic {
		issue.EpicName = f.EpicName
	}
	return issue
}

// Categorize buckets raw issues and computes metrics against today.
// The input is not modified; unrecognized issue types are left out of
// every bucket and every count.
func Categorize(projectKey string, raw []jira.RawIssue, browseURL func(string) string, today time.Time) *model.ProjectData {
	data := &model.ProjectData{
		ProjectKey: projectKey,
		Epics:      []model.Issue{},
		Stories:    []model.Issue{},
		Tasks:      []model.Issue{},
	}

	for _, r := range raw {
		kind, ok := Classify(r.Fields.IssueType.Name)
		if !ok {
			continue
		}
		issue := toIssue(r, kind, browseURL)
		switch kind {
		case model.KindEpic:
			data.Epics = append(data.Epics, issue)
		case model.KindStory:
			data.Stories = append(data.Stories, issue)
		case model.KindTask:
			data.Tasks = append(data.Tasks, issue)
		}
	}

	data.Metrics = ComputeMetrics(data.Epics, data.Stories, data.Tasks, today)
	data.TotalIssues = len(data.Epics) + len(data.Stories) + len(data.Tasks)
	return data
}
