package model

import "time"

// MeetingNote is a document from the document service that mentions a project.
type MeetingNote struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Content      string `json:"content"`
	ModifiedTime string `json:"modified_time"`
}

// Turn is one exchange in a session's conversation log.
type Turn struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	ProjectKey string    `json:"project_key,omitempty"`
	Response   string    `json:"response"`
	CreatedAt  time.Time `json:"created_at"`
}
