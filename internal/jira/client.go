package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// searchFields are the issue fields requested from the search endpoint.
const searchFields = "key,summary,issuetype,status,assignee,created,updated,priority,description,duedate,customfield_10011"

// Config holds connection settings for a Jira Cloud site.
type Config struct {
	BaseURL    string
	Email      string
	APIToken   string
	MaxRetries int
	Timeout    time.Duration
}

// Client talks to the Jira REST v3 API using basic auth.
type Client struct {
	baseURL    string
	email      string
	token      string
	maxRetries int
	backoff    time.Duration
	client     *http.Client
}

// NewClient creates a client for the given site.
func NewClient(cfg Config) *Client {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		email:      cfg.Email,
		token:      cfg.APIToken,
		maxRetries: retries,
		backoff:    2 * time.Second,
		client:     &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the site URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// BrowseURL returns the browsable link for an issue key.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// SearchIssues runs a JQL search and follows nextPageToken pagination until
// the last page or maxResults issues have been collected.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]RawIssue, error) {
	if maxResults <= 0 {
		maxResults = 50
	}
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("fields", searchFields)
	q.Set("expand", "names,schema")

	var issues []RawIssue
	for {
		var page searchResponse
		if err := c.get(ctx, "search/jql?"+q.Encode(), &page); err != nil {
			return nil, fmt.Errorf("search issues: %w", err)
		}
		issues = append(issues, page.Issues...)

		last := page.IsLast == nil || *page.IsLast
		if last || page.NextPageToken == "" || len(issues) >= maxResults || len(page.Issues) == 0 {
			break
		}
		q.Set("nextPageToken", page.NextPageToken)
	}
	if len(issues) > maxResults {
		issues = issues[:maxResults]
	}
	return issues, nil
}

// Projects returns every project visible to the account. It tries the flat
// /project listing first, then the paginated /project/search endpoint. If
// both fail the error of the second attempt is returned.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var flat []Project
	if err := c.get(ctx, "project", &flat); err == nil {
		return flat, nil
	}

	var all []Project
	startAt := 0
	for {
		var page projectSearchResponse
		path := "project/search"
		if startAt > 0 {
			path += "?startAt=" + strconv.Itoa(startAt)
		}
		if err := c.get(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		all = append(all, page.Values...)
		startAt += len(page.Values)
		last := page.IsLast == nil || *page.IsLast
		if last || len(page.Values) == 0 || (page.Total > 0 && startAt >= page.Total) {
			break
		}
	}
	return all, nil
}

// ProjectKeys returns the keys of all visible projects.
func (c *Client) ProjectKeys(ctx context.Context) ([]string, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(projects))
	for _, p := range projects {
		keys = append(keys, p.Key)
	}
	return keys, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	u := c.baseURL + "/rest/api/3/" + endpoint

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		err := c.do(ctx, u, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type transportError struct{ err error }

func (e *transportError) Error() string { return "jira request failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// retryable reports whether a failed request is worth another attempt:
// transport errors, rate limiting and server errors.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	var tErr *transportError
	return errors.As(err, &tErr)
}
