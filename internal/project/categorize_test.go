package project

import (
	"encoding/json"
	"testing"

	"github.com/rcliao/helios/internal/jira"
	"github.com/rcliao/helios/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		issueType string
		want      model.Kind
		ok        bool
	}{
		{"Epic", model.KindEpic, true},
		{"Epic ", model.KindEpic, true},
		{"epic", model.KindEpic, true},
		{"Story", model.KindStory, true},
		{"User Story", model.KindStory, true},
		{"Task", model.KindTask, true},
		{"Sub-task", model.KindTask, true},
		{"Subtask", model.KindTask, true},
		{"Bug", "", false},
		{"Improvement", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.issueType, func(t *testing.T) {
			got, ok := Classify(tt.issueType)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.issueType, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCategorizeBucketsAndTotals(t *testing.T) {
	issues := []jira.RawIssue{
		raw("A-1", "Epic", "In Progress", "Ada", ""),
		raw("A-2", "Story", "To Do", "", ""),
		raw("A-3", "Sub-task", "Done", "Bob", ""),
		raw("A-4", "Bug", "Open", "Ada", ""),
		raw("A-5", "Task", "", "", ""),
	}
	data := Categorize("A", issues, (&fakeTracker{}).BrowseURL, fixedToday)

	if len(data.Epics) != 1 || len(data.Stories) != 1 || len(data.Tasks) != 2 {
		t.Fatalf("unexpected buckets: epics=%d stories=%d tasks=%d", len(data.Epics), len(data.Stories), len(data.Tasks))
	}
	if data.TotalIssues != len(data.Epics)+len(data.Stories)+len(data.Tasks) {
		t.Errorf("total %d does not match bucket sum", data.TotalIssues)
	}
	if data.TotalIssues != 4 {
		t.Errorf("expected the Bug to be dropped, total=%d", data.TotalIssues)
	}
	if data.Metrics.TotalIssues != data.TotalIssues {
		t.Errorf("metrics total %d != %d", data.Metrics.TotalIssues, data.TotalIssues)
	}

	story := data.Stories[0]
	if story.Assignee != model.Unassigned {
		t.Errorf("expected Unassigned default, got %q", story.Assignee)
	}
	if story.Priority != model.DefaultPriority {
		t.Errorf("expected Medium default, got %q", story.Priority)
	}
	if story.URL != "https://acme.atlassian.net/browse/A-2" {
		t.Errorf("unexpected url %q", story.URL)
	}
	if data.Tasks[1].Status != model.UnknownStatus {
		t.Errorf("expected Unknown status default, got %q", data.Tasks[1].Status)
	}
}

func TestCategorizeEpicNameAndDescription(t *testing.T) {
	r := raw("A-1", "Epic", "To Do", "Ada", "")
	r.Fields.EpicName = "Payments revamp"
	r.Fields.Description = json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Move to v2 API"}]}]}`)
	s := raw("A-2", "Story", "To Do", "Ada", "")
	s.Fields.EpicName = "ignored for stories"

	data := Categorize("A", []jira.RawIssue{r, s}, nil, fixedToday)
	if data.Epics[0].EpicName != "Payments revamp" {
		t.Errorf("expected epic name, got %q", data.Epics[0].EpicName)
	}
	if data.Epics[0].Description != "Move to v2 API" {
		t.Errorf("expected flattened description, got %q", data.Epics[0].Description)
	}
	if data.Stories[0].EpicName != "" {
		t.Error("epic name should only be set on epics")
	}
}

func TestCategorizeDoesNotMutateInput(t *testing.T) {
	issues := []jira.RawIssue{raw("A-1", "Epic", "Done", "Ada", "")}
	before, _ := json.Marshal(issues)
	Categorize("A", issues, nil, fixedToday)
	after, _ := json.Marshal(issues)
	if string(before) != string(after) {
		t.Error("input was modified")
	}
}

func TestCategorizeEmpty(t *testing.T) {
	data := Categorize("A", nil, nil, fixedToday)
	if data.TotalIssues != 0 || data.Epics == nil || data.Metrics.StatusCounts.Len() != 0 {
		t.Errorf("unexpected empty result %+v", data)
	}
}
