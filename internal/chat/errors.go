package chat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed query.
type ErrorKind string

const (
	KindNoProject              ErrorKind = "no_project"
	KindFetchFailed            ErrorKind = "fetch_failed"
	KindCategorizationMismatch ErrorKind = "categorization_mismatch"
)

var (
	ErrNoProject              = errors.New("could not identify project")
	ErrFetchFailed            = errors.New("failed to fetch tracker data")
	ErrCategorizationMismatch = errors.New("categorization mismatch")
)

// QueryError is a terminal query failure. Detail is the diagnostic
// message; Response is what the user is shown.
type QueryError struct {
	Kind       ErrorKind
	ProjectKey string
	Detail     string
	Response   string
	Err        error
}

func (e *QueryError) Error() string { return e.Detail }

// Unwrap exposes the kind's sentinel and the underlying cause.
func (e *QueryError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *QueryError) sentinel() error {
	switch e.Kind {
	case KindNoProject:
		return ErrNoProject
	case KindFetchFailed:
		return ErrFetchFailed
	default:
		return ErrCategorizationMismatch
	}
}

// MaxErrorDetail bounds the technical detail quoted in an apology.
const MaxErrorDetail = 500

func noProjectError() *QueryError {
	return &QueryError{
		Kind:     KindNoProject,
		Detail:   "Could not identify project. Please mention the project name (e.g., 'What is the status of Project ABC?')",
		Response: "I couldn't identify which project you're asking about. Please mention the project name in your question.",
	}
}

func fetchError(key string, err error) *QueryError {
	return &QueryError{
		Kind:       KindFetchFailed,
		ProjectKey: key,
		Detail:     "Failed to fetch Jira data: " + err.Error(),
		Response: fmt.Sprintf("I encountered an error while fetching data from Jira for %s.\n\nDetails: %s",
			key, truncate(err.Error(), MaxErrorDetail)),
		Err: err,
	}
}

func mismatchError(key string, found int, types []string, breakdown string) *QueryError {
	return &QueryError{
		Kind:       KindCategorizationMismatch,
		ProjectKey: key,
		Detail: fmt.Sprintf("Found %d issues from API but categorization returned 0. Issue types found: %s",
			found, breakdown),
		Response: fmt.Sprintf("I found %d issues from Jira API, but they weren't categorized correctly. Issue types: %s. This may indicate a problem with issue type matching.",
			found, strings.Join(types, ", ")),
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
