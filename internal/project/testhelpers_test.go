package project

import (
	"context"
	"time"

	"github.com/rcliao/helios/internal/jira"
)

// fixedToday is the reference day for date-sensitive tests.
var fixedToday = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func raw(key, issueType, status, assignee, due string) jira.RawIssue {
	r := jira.RawIssue{Key: key}
	r.Fields.Summary = "summary of " + key
	r.Fields.IssueType.Name = issueType
	if status != "" {
		r.Fields.Status = &jira.Named{Name: status}
	}
	if assignee != "" {
		r.Fields.Assignee = &jira.User{DisplayName: assignee}
	}
	r.Fields.DueDate = due
	return r
}

type fakeTracker struct {
	issues      []jira.RawIssue
	keys        []string
	keysErr     error
	searchErr   error
	lastJQL     string
	lastMax     int
	searchCalls int
}

func (f *fakeTracker) SearchIssues(ctx context.Context, jql string, maxResults int) ([]jira.RawIssue, error) {
	f.searchCalls++
	f.lastJQL = jql
	f.lastMax = maxResults
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := f.issues
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (f *fakeTracker) ProjectKeys(ctx context.Context) ([]string, error) {
	return f.keys, f.keysErr
}

func (f *fakeTracker) BrowseURL(key string) string {
	return "https://acme.atlassian.net/browse/" + key
}
