package project

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rcliao/helios/internal/jira"
	"github.com/rcliao/helios/internal/logging"
	"github.com/rcliao/helios/internal/model"
)

// DefaultMaxResults bounds how many issues one project fetch pulls.
const DefaultMaxResults = 500

// Tracker is the subset of the Jira client the fetcher needs.
type Tracker interface {
	SearchIssues(ctx context.Context, jql string, maxResults int) ([]jira.RawIssue, error)
	ProjectKeys(ctx context.Context) ([]string, error)
	BrowseURL(key string) string
}

// Probe is the outcome of a direct minimal query: how many raw issues the
// tracker holds and which issue-type names they carry.
type Probe struct {
	Count int
	Types *model.Counter
}

// Fetcher loads and categorizes a project's issues.
type Fetcher struct {
	tracker    Tracker
	maxResults int
	log        *logging.Logger
	now        func() time.Time
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxResults overrides DefaultMaxResults.
func WithMaxResults(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxResults = n
		}
	}
}

// WithFetchLogger sets the fetcher's logger.
func WithFetchLogger(l *logging.Logger) FetcherOption {
	return func(f *Fetcher) { f.log = l }
}

// WithClock sets the clock used for overdue computation.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher creates a fetcher over the given tracker.
func NewFetcher(t Tracker, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		tracker:    t,
		maxResults: DefaultMaxResults,
		log:        logging.Discard(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func projectJQL(key string) string {
	return fmt.Sprintf("project = %q", key)
}

// FetchProjectIssues verifies the project exists (when the project listing
// is readable), searches all of its issues and categorizes them.
func (f *Fetcher) FetchProjectIssues(ctx context.Context, key string) (*model.ProjectData, error) {
	keys, err := f.tracker.ProjectKeys(ctx)
	if err != nil {
		// A restricted account may be unable to list projects yet still search.
		f.log.Debug("project listing unavailable", "err", err)
	} else if len(keys) > 0 && !slices.Contains(keys, key) {
		return nil, notFound(key, keys)
	}

	raw, err := f.tracker.SearchIssues(ctx, projectJQL(key), f.maxResults)
	if err != nil {
		return nil, fmt.Errorf("fetch issues for %s: %w", key, err)
	}

	data := Categorize(key, raw, f.tracker.BrowseURL, f.now())
	f.log.Debug("categorized issues", "project", key, "raw", len(raw), "total", data.TotalIssues)
	return data, nil
}

// ProbeIssueTypes runs a small direct search and tallies raw issue types.
func (f *Fetcher) ProbeIssueTypes(ctx context.Context, key string, limit int) (*Probe, error) {
	raw, err := f.tracker.SearchIssues(ctx, projectJQL(key), limit)
	if err != nil {
		return nil, fmt.Errorf("probe issues for %s: %w", key, err)
	}
	p := &Probe{Count: len(raw), Types: model.NewCounter()}
	for _, r := range raw {
		name := r.Fields.IssueType.Name
		if name == "" {
			name = "Unknown"
		}
		p.Types.Inc(name)
	}
	return p, nil
}

// KnownProjects returns the keys of every visible project.
func (f *Fetcher) KnownProjects(ctx context.Context) ([]string, error) {
	return f.tracker.ProjectKeys(ctx)
}

func notFound(key string, keys []string) error {
	shown := keys
	if len(shown) > 10 {
		shown = shown[:10]
	}
	msg := fmt.Sprintf("%q: available projects: %s", key, strings.Join(shown, ", "))
	if len(keys) > 10 {
		msg += fmt.Sprintf(" (and %d more)", len(keys)-10)
	}
	return fmt.Errorf("%w: %s", jira.ErrProjectNotFound, msg)
}
