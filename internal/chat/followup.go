package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rcliao/helios/internal/extract"
	"github.com/rcliao/helios/internal/llm"
	"github.com/rcliao/helios/internal/model"
)

// AnswerFollowup answers query in the context of a previous result. It
// never fails: without a model it returns an invitation to narrow the
// question, and model errors become an apologetic answer.
func (e *Engine) AnswerFollowup(ctx context.Context, query string, previous *Result) string {
	key := "the project"
	if previous != nil && previous.ProjectKey != "" {
		key = previous.ProjectKey
	}
	if !llm.Available(e.llm) {
		return fmt.Sprintf("Based on the previous context about %s, I can help you understand the status, roadmap, and progress. What specific aspect would you like to know more about?", key)
	}

	answer, err := e.llm.Answer(ctx, followupPrompt(query, previous))
	if err != nil {
		e.log.Warn("follow-up answer failed", "project", key, "err", err)
		return "I encountered an error while processing your question: " + err.Error()
	}
	return answer
}

func followupPrompt(query string, prev *Result) string {
	if prev == nil {
		prev = &Result{}
	}
	return fmt.Sprintf(`You are Helios, a project management assistant. Answer the follow-up question based on the previous context.

Previous Project: %s
Previous Status Summary: %s
Previous Roadmap: %s
Previous Response: %s

Current Question: %s

Provide a clear, helpful answer.`, prev.ProjectKey, prev.StatusSummary, prev.Roadmap, prev.Response, query)
}

// ErrNoContext is returned by Followup when the session has no current
// result to follow up on.
var ErrNoContext = errors.New("no previous result in this session")

// Followup answers query against the session's current result and records
// the exchange.
func (e *Engine) Followup(ctx context.Context, sess *Session, query string) (string, error) {
	if sess.Current == nil {
		return "", ErrNoContext
	}
	answer := e.AnswerFollowup(ctx, query, sess.Current)
	e.record(ctx, sess, model.Turn{Query: query, ProjectKey: sess.Current.ProjectKey, Response: answer})
	return answer, nil
}

// Ask is the conversational entry point. A query that names no project
// while the session has a current result is answered as a follow-up;
// anything else goes through ProcessQuery. The returned text is what the
// user sees, including on failure.
func (e *Engine) Ask(ctx context.Context, sess *Session, query string) (string, *Result, error) {
	if sess.Current != nil && !e.namesProject(ctx, query) {
		answer, err := e.Followup(ctx, sess, query)
		return answer, sess.Current, err
	}

	res, err := e.ProcessQuery(ctx, sess, query, "")
	if err != nil {
		var qe *QueryError
		if errors.As(err, &qe) {
			return qe.Response, nil, err
		}
		return err.Error(), nil, err
	}
	return res.Response, res, nil
}

// namesProject reports whether query mentions a project. When the tracker's
// project list is readable a candidate must be a known key; otherwise only
// the explicit rules count, since the bare-token rule matches most words.
func (e *Engine) namesProject(ctx context.Context, query string) bool {
	cands := e.extractor.Candidates(query)
	if len(cands) == 0 {
		return false
	}
	known, err := e.tracker.KnownProjects(ctx)
	if err == nil && len(known) > 0 {
		for _, c := range cands {
			if slices.Contains(known, c.Key) {
				return true
			}
		}
		return false
	}
	for _, c := range cands {
		if c.Rule != extract.RuleBare {
			return true
		}
	}
	return false
}
