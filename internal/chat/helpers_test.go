package chat

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/helios/internal/jira"
	"github.com/rcliao/helios/internal/model"
	"github.com/rcliao/helios/internal/project"
)

var fixedToday = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedToday }

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

func sampleIssues() []jira.RawIssue {
	return []jira.RawIssue{
		raw("ABC-1", "Epic", "In Progress", "Ana", "2025-03-01"),
		raw("ABC-2", "Story", "To Do", "", ""),
		raw("ABC-3", "Task", "Done", "Bo", "2025-01-01"),
		raw("ABC-4", "Sub-task", "In Progress", "Ana", ""),
		raw("ABC-5", "Story", "In Progress", "Bo", "2025-03-12"),
	}
}

type fakeJira struct {
	issues      []jira.RawIssue
	keys        []string
	searchErr   error
	searchCalls int
	keyCalls    int
}

func (f *fakeJira) SearchIssues(_ context.Context, _ string, maxResults int) ([]jira.RawIssue, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := f.issues
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (f *fakeJira) ProjectKeys(context.Context) ([]string, error) {
	f.keyCalls++
	return f.keys, nil
}

func (f *fakeJira) BrowseURL(key string) string {
	return "https://acme.atlassian.net/browse/" + key
}

func newTestEngine(fj *fakeJira, opts ...Option) *Engine {
	fetcher := project.NewFetcher(fj, project.WithClock(clock))
	return NewEngine(fetcher, append([]Option{WithClock(clock)}, opts...)...)
}

type stubLLM struct {
	answer     string
	answerErr  error
	summary    string
	summaryErr error
	prompts    []string
	summaries  int
}

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) Summarize(_ context.Context, _ string, _ int) (string, error) {
	s.summaries++
	return s.summary, s.summaryErr
}

func (s *stubLLM) Answer(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.answerErr
}

type fakeNotes struct {
	notes []model.MeetingNote
	err   error
}

func (f fakeNotes) FindRelatedNotes(context.Context, string) ([]model.MeetingNote, error) {
	return f.notes, f.err
}

var errBoom = errors.New("boom")
