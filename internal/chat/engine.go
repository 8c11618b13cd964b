// Package chat answers natural-language questions about a tracker
// project. It extracts the project key, fetches and categorizes issues,
// builds the deterministic summary and roadmap, and optionally phrases
// the answer through a language model whose output is checked against
// the data.
package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rcliao/helios/internal/chunker"
	"github.com/rcliao/helios/internal/extract"
	"github.com/rcliao/helios/internal/llm"
	"github.com/rcliao/helios/internal/logging"
	"github.com/rcliao/helios/internal/model"
	"github.com/rcliao/helios/internal/project"
)

const (
	// MaxMeetingNotes is how many related notes are quoted in an answer.
	MaxMeetingNotes = 3
	// MaxExcerpt is the longest note quoted verbatim.
	MaxExcerpt = 500
	// SummaryWords is the target length of an LLM note summary.
	SummaryWords = 150
	// ProbeLimit caps the diagnostic search run when categorization is empty.
	ProbeLimit = 10
)

// Closing lines appended to the deterministic answer.
const (
	ClosingMoreDetails = "Would you like more details about any specific aspect of this project?"
	ClosingAnything    = "Is there anything specific you'd like to know more about?"
	ClosingLLMFailed   = "(Note: AI processing encountered an issue, but here's the data we found)"
)

// Answer sources reported in Result.Source.
const (
	SourceData       = "data"
	SourceLLM        = "llm"
	SourceOverridden = "overridden"
	SourceFallback   = "fallback"
)

// StatusPhrases mark a query as a status query answered from data alone.
var StatusPhrases = []string{
	"status", "what is", "show me", "tell me about", "overview",
	"summary", "how many", "count", "progress",
}

// NoDataPhrases in an LLM answer contradict a project that has issues.
var NoDataPhrases = []string{
	"no issues", "no data", "no information", "not found",
	"does not exist", "cannot find", "unable to find",
	"there are no", "no issues associated", "within the what project",
}

var (
	errContradiction = errors.New("answer contradicts tracker data")
	errEmptyAnswer   = errors.New("empty answer")
)

// Tracker is the project data source.
type Tracker interface {
	FetchProjectIssues(ctx context.Context, key string) (*model.ProjectData, error)
	ProbeIssueTypes(ctx context.Context, key string, limit int) (*project.Probe, error)
	KnownProjects(ctx context.Context) ([]string, error)
}

// NoteFinder looks up meeting notes mentioning a project.
type NoteFinder interface {
	FindRelatedNotes(ctx context.Context, projectKey string) ([]model.MeetingNote, error)
}

// Result is the outcome of a successful query.
type Result struct {
	ProjectKey    string              `json:"project_key"`
	Response      string              `json:"response"`
	StatusSummary string              `json:"status_summary"`
	Roadmap       string              `json:"roadmap"`
	MeetingNotes  []model.MeetingNote `json:"meeting_notes"`
	ChartsData    ChartsData          `json:"charts_data"`
	JiraData      *model.ProjectData  `json:"jira_data"`
	Source        string              `json:"source"`
}

// Engine runs queries. It holds no per-session state and is safe for
// concurrent use when its collaborators are.
type Engine struct {
	tracker   Tracker
	notes     NoteFinder
	llm       llm.Provider
	log       *logging.Logger
	now       func() time.Time
	extractor *extract.Extractor
	validate  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotes sets the meeting-note source.
func WithNotes(f NoteFinder) Option {
	return func(e *Engine) { e.notes = f }
}

// WithLLM sets the language model. Nil selects llm.Null.
func WithLLM(p llm.Provider) Option {
	return func(e *Engine) {
		if p == nil {
			p = llm.Null{}
		}
		e.llm = p
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock sets the clock used for roadmap risks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithExtractor replaces the default project-name extractor.
func WithExtractor(x *extract.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithProjectValidation makes extraction prefer candidates that are
// known tracker projects.
func WithProjectValidation(on bool) Option {
	return func(e *Engine) { e.validate = on }
}

// NewEngine creates an engine over tracker.
func NewEngine(tracker Tracker, opts ...Option) *Engine {
	e := &Engine{
		tracker:   tracker,
		llm:       llm.Null{},
		log:       logging.Discard(),
		now:       time.Now,
		extractor: extract.Default,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ProcessQuery answers query about projectKey, or about the project named
// in query when projectKey is empty. Both outcomes are appended to the
// session log; a successful result also becomes the session's current
// context. Failures are returned as *QueryError.
func (e *Engine) ProcessQuery(ctx context.Context, sess *Session, query, projectKey string) (*Result, error) {
	res, qerr := e.process(ctx, query, projectKey)

	turn := model.Turn{Query: query}
	if qerr != nil {
		turn.ProjectKey = qerr.ProjectKey
		turn.Response = qerr.Response
		e.log.Info("query failed", "kind", qerr.Kind, "project", qerr.ProjectKey, "err", qerr.Detail)
	} else {
		turn.ProjectKey = res.ProjectKey
		turn.Response = res.Response
		e.log.Info("query answered", "project", res.ProjectKey, "total", res.JiraData.TotalIssues, "source", res.Source)
	}
	if sess != nil {
		e.record(ctx, sess, turn)
		if res != nil {
			sess.Current = res
		}
	}

	if qerr != nil {
		return nil, qerr
	}
	return res, nil
}

func (e *Engine) process(ctx context.Context, query, projectKey string) (*Result, *QueryError) {
	key := strings.ToUpper(strings.TrimSpace(projectKey))
	if key == "" {
		var ok bool
		key, ok = e.resolveProject(ctx, query)
		if !ok {
			return nil, noProjectError()
		}
	}

	data, err := e.tracker.FetchProjectIssues(ctx, key)
	if err != nil {
		return nil, fetchError(key, err)
	}
	if data.TotalIssues == 0 {
		if qerr := e.diagnoseEmpty(ctx, key); qerr != nil {
			return nil, qerr
		}
	}

	today := e.now()
	status := project.StatusSummary(data)
	roadmap := project.Roadmap(data.Epics, today)
	notes := e.findNotes(ctx, key)
	meeting := e.meetingContext(ctx, notes)

	deterministic := func(closing string) string {
		return templatedAnswer(key, status, roadmap, meeting, closing)
	}

	var answer, source string
	switch {
	case IsStatusQuery(query) || data.TotalIssues == 0:
		answer, source = deterministic(ClosingMoreDetails), SourceData
	case !llm.Available(e.llm):
		answer, source = deterministic(ClosingAnything), SourceData
	default:
		prompt := answerPrompt(key, data, status, roadmap, meeting, query)
		answer, err = enhance(deterministic(ClosingLLMFailed), func() (string, error) {
			out, err := e.llm.Answer(ctx, prompt)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(out) == "" {
				return "", errEmptyAnswer
			}
			if data.TotalIssues > 0 && ContradictsData(out) {
				return "", errContradiction
			}
			return out, nil
		})
		switch {
		case err == nil:
			source = SourceLLM
		case errors.Is(err, errContradiction):
			e.log.Warn("llm answer contradicted tracker data", "project", key)
			answer, source = deterministic(ClosingMoreDetails), SourceOverridden
		default:
			e.log.Warn("llm answer failed", "project", key, "err", err)
			source = SourceFallback
		}
	}

	if notes == nil {
		notes = []model.MeetingNote{}
	}
	return &Result{
		ProjectKey:    key,
		Response:      answer,
		StatusSummary: status,
		Roadmap:       roadmap,
		MeetingNotes:  notes,
		ChartsData:    BuildCharts(data),
		JiraData:      data,
		Source:        source,
	}, nil
}

// resolveProject extracts a key from query. With validation enabled and a
// readable project list, the first candidate that is a known project wins.
func (e *Engine) resolveProject(ctx context.Context, query string) (string, bool) {
	cands := e.extractor.Candidates(query)
	if len(cands) == 0 {
		return "", false
	}
	if !e.validate {
		return cands[0].Key, true
	}
	known, err := e.tracker.KnownProjects(ctx)
	if err != nil || len(known) == 0 {
		e.log.Debug("project validation skipped", "err", err)
		return cands[0].Key, true
	}
	for _, c := range cands {
		if slices.Contains(known, c.Key) {
			return c.Key, true
		}
	}
	return cands[0].Key, true
}

// diagnoseEmpty runs a direct search when categorization found nothing. If
// the tracker does hold issues, their types did not map to any bucket.
func (e *Engine) diagnoseEmpty(ctx context.Context, key string) *QueryError {
	probe, err := e.tracker.ProbeIssueTypes(ctx, key, ProbeLimit)
	if err != nil {
		e.log.Debug("issue type probe failed", "project", key, "err", err)
		return nil
	}
	if probe.Count == 0 {
		return nil
	}
	types := probe.Types.Keys()
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s: %d", t, probe.Types.Get(t)))
	}
	return mismatchError(key, probe.Count, types, strings.Join(parts, ", "))
}

func (e *Engine) findNotes(ctx context.Context, key string) []model.MeetingNote {
	if e.notes == nil {
		return nil
	}
	notes, err := e.notes.FindRelatedNotes(ctx, key)
	if err != nil {
		e.log.Debug("meeting notes unavailable", "project", key, "err", err)
		return nil
	}
	return notes
}

func (e *Engine) meetingContext(ctx context.Context, notes []model.MeetingNote) string {
	if len(notes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("**Recent Meeting Notes:**\n")
	for _, n := range notes[:min(len(notes), MaxMeetingNotes)] {
		fmt.Fprintf(&sb, "- %s: %s\n", n.Name, e.excerpt(ctx, n.Content))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (e *Engine) excerpt(ctx context.Context, content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= MaxExcerpt {
		return content
	}
	cut, _ := chunker.Excerpt(content, MaxExcerpt)
	cut += "..."
	if !llm.Available(e.llm) {
		return cut
	}
	out, err := enhance(cut, func() (string, error) {
		s, err := e.llm.Summarize(ctx, content, SummaryWords)
		if err == nil && strings.TrimSpace(s) == "" {
			err = errEmptyAnswer
		}
		return s, err
	})
	if err != nil {
		e.log.Debug("note summary failed", "err", err)
	}
	return out
}

func (e *Engine) record(ctx context.Context, sess *Session, turn model.Turn) {
	if _, err := sess.Log.Append(ctx, turn); err != nil {
		e.log.Warn("conversation log append failed", "session", sess.ID, "err", err)
	}
}

// enhance returns the result of try, or baseline together with try's
// error when it fails.
func enhance[T any](baseline T, try func() (T, error)) (T, error) {
	v, err := try()
	if err != nil {
		return baseline, err
	}
	return v, nil
}

// IsStatusQuery reports whether query asks for a plain status overview.
func IsStatusQuery(query string) bool {
	return containsAny(strings.ToLower(query), StatusPhrases)
}

// ContradictsData reports whether an answer claims the project has no data.
func ContradictsData(answer string) bool {
	return containsAny(strings.ToLower(answer), NoDataPhrases)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func templatedAnswer(key, status, roadmap, meeting, closing string) string {
	parts := []string{fmt.Sprintf("**Project %s Status:**", key), status, roadmap}
	if meeting != "" {
		parts = append(parts, meeting)
	}
	parts = append(parts, closing)
	return strings.Join(parts, "\n\n")
}

func answerPrompt(key string, data *model.ProjectData, status, roadmap, meeting, query string) string {
	return fmt.Sprintf(`You are Helios, a project management assistant. Answer the user's question about project %[1]s.

CRITICAL: The project %[1]s has %[2]d total issues. This is a FACT.

PROJECT DATA:
Project Key: %[1]s
Total Issues: %[2]d
Epics: %[3]d
Stories: %[4]d
Tasks: %[5]d

STATUS SUMMARY:
%[6]s

ROADMAP:
%[7]s

%[8]s

USER QUESTION: %[9]s

INSTRUCTIONS:
- The project %[1]s DEFINITELY has %[2]d issues
- NEVER say there are no issues or that the project doesn't exist
- Reference the specific numbers from the data above
- Be accurate and helpful`,
		key, data.TotalIssues, len(data.Epics), len(data.Stories), len(data.Tasks),
		status, roadmap, meeting, query)
}
