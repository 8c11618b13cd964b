// Package jira is a small client for the Jira Cloud REST v3 API: issue
// search, project listing and flattening of rich-text descriptions.
package jira

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrProjectNotFound is returned when a project key is not among the
// projects visible to the configured account.
var ErrProjectNotFound = errors.New("project not found")

// Named is the {"name": ...} shape used by issuetype, status and priority.
type Named struct {
	Name string `json:"name"`
}

// User is an assignee or reporter.
type User struct {
	DisplayName string `json:"displayName"`
}

// Fields holds the issue fields requested by SearchIssues.
type Fields struct {
	Summary     string          `json:"summary"`
	IssueType   Named           `json:"issuetype"`
	Status      *Named          `json:"status"`
	Assignee    *User           `json:"assignee"`
	Priority    *Named          `json:"priority"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	DueDate     string          `json:"duedate"`
	Description json.RawMessage `json:"description"`
	EpicName    string          `json:"customfield_10011"`
}

// RawIssue is an issue exactly as returned by the search endpoint.
type RawIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// UnmarshalJSON tolerates non-string values in optional string fields
// (e.g. a custom field configured with a different type on some sites).
func (f *Fields) UnmarshalJSON(data []byte) error {
	type plain struct {
		Summary     json.RawMessage `json:"summary"`
		IssueType   Named           `json:"issuetype"`
		Status      *Named          `json:"status"`
		Assignee    *User           `json:"assignee"`
		Priority    *Named          `json:"priority"`
		Created     json.RawMessage `json:"created"`
		Updated     json.RawMessage `json:"updated"`
		DueDate     json.RawMessage `json:"duedate"`
		Description json.RawMessage `json:"description"`
		EpicName    json.RawMessage `json:"customfield_10011"`
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Fields{
		Summary:     rawString(p.Summary),
		IssueType:   p.IssueType,
		Status:      p.Status,
		Assignee:    p.Assignee,
		Priority:    p.Priority,
		Created:     rawString(p.Created),
		Updated:     rawString(p.Updated),
		DueDate:     rawString(p.DueDate),
		Description: p.Description,
		EpicName:    rawString(p.EpicName),
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Project is an entry from the project listing endpoints.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// APIError is a non-2xx response from Jira.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("jira error %d: %s", e.StatusCode, body)
}

type searchResponse struct {
	Issues        []RawIssue `json:"issues"`
	NextPageToken string     `json:"nextPageToken"`
	IsLast        *bool      `json:"isLast"`
}

type projectSearchResponse struct {
	Values []Project `json:"values"`
	Total  int       `json:"total"`
	IsLast *bool     `json:"isLast"`
}
