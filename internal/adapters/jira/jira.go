// Package jira implements the tracker boundary on top of the Jira REST API.
package jira

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/config"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/tracker"
	jira "github.com/andygrunwald/go-jira"
)

const (
	trackerName  = "jira"
	pageSize     = 100
	validateWarn = "warn"
)

var searchFields = []string{"summary", "status", "priority", "issuetype", "assignee"}

// Dialer opens Jira sessions from the static configuration.
type Dialer struct {
	cfg config.Jira
	log *slog.Logger
}

func NewDialer(cfg config.Jira, log *slog.Logger) *Dialer {
	return &Dialer{
		cfg: cfg,
		log: log,
	}
}

var _ tracker.Dialer = (*Dialer)(nil)

// Dial builds an authenticated client and fetches the configured project to
// prove the credentials and the base URL work.
func (d *Dialer) Dial(ctx context.Context) (tracker.Session, error) {
	const op = "internal.adapters.jira.Dial"
	log := d.log.With(slog.String("op", op), slog.String("base_url", d.cfg.BaseURL))

	if d.cfg.BaseURL == "" {
		return nil, &apperrors.ConnectionError{Tracker: trackerName, Err: fmt.Errorf("base url is not configured")}
	}

	transport := jira.BasicAuthTransport{
		Username: d.cfg.Username,
		Password: d.cfg.Password,
	}

	httpClient := transport.Client()
	httpClient.Timeout = d.cfg.Timeout

	client, err := jira.NewClient(httpClient, d.cfg.BaseURL)
	if err != nil {
		return nil, &apperrors.ConnectionError{Tracker: trackerName, Err: err}
	}

	if _, resp, err := client.Project.GetWithContext(ctx, d.cfg.Project); err != nil {
		return nil, &apperrors.ConnectionError{Tracker: trackerName, Err: jira.NewJiraError(resp, err)}
	}

	log.Debug("jira session opened", slog.String("project", d.cfg.Project))

	maxResults := d.cfg.MaxResults
	if maxResults <= 0 {
		maxResults = pageSize
	}

	return &Session{
		client:     client,
		log:        d.log,
		maxResults: maxResults,
	}, nil
}

// Session is a connected Jira client, valid for one job run.
type Session struct {
	client     *jira.Client
	log        *slog.Logger
	maxResults int
}

var _ tracker.Session = (*Session)(nil)

// SearchByKeys fetches the given keys of project. Keys Jira does not know
// (deleted, moved or mistyped tickets) are left out of the result instead of
// failing the whole query. Pages when the server caps the page size below
// len(keys).
func (s *Session) SearchByKeys(ctx context.Context, project string, keys []string) ([]domain.ExternalIssue, error) {
	const op = "internal.adapters.jira.SearchByKeys"

	result := make([]domain.ExternalIssue, 0, len(keys))
	jql := KeysJQL(project, keys)

	for startAt := 0; startAt < len(keys); {
		issues, resp, err := s.client.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
			StartAt:       startAt,
			MaxResults:    len(keys) - startAt,
			Fields:        searchFields,
			ValidateQuery: validateWarn,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: search failed at %d: %w", op, startAt, jira.NewJiraError(resp, err))
		}

		result = append(result, toExternalIssues(issues)...)
		startAt += len(issues)

		if len(issues) == 0 || (resp != nil && startAt >= resp.Total) {
			break
		}
	}

	return result, nil
}

// SearchProject returns up to the configured maximum of project issues,
// paging through the search.
func (s *Session) SearchProject(ctx context.Context, project string) ([]domain.ExternalIssue, error) {
	const op = "internal.adapters.jira.SearchProject"
	log := s.log.With(slog.String("op", op), slog.String("project", project))

	jql := ProjectJQL(project)
	result := []domain.ExternalIssue{}

	for startAt := 0; len(result) < s.maxResults; {
		limit := min(pageSize, s.maxResults-len(result))

		issues, resp, err := s.client.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
			StartAt:    startAt,
			MaxResults: limit,
			Fields:     searchFields,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: search failed at %d: %w", op, startAt, jira.NewJiraError(resp, err))
		}

		result = append(result, toExternalIssues(issues)...)
		startAt += len(issues)

		if len(issues) < limit || (resp != nil && startAt >= resp.Total) {
			break
		}
	}

	log.Debug("project search finished", slog.Int("issues", len(result)))

	return result, nil
}

// KeysJQL selects the given keys inside project, ordered so that pages are
// stable.
func KeysJQL(project string, keys []string) string {
	quoted := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = quote(key)
	}

	return fmt.Sprintf("project = %s AND issuekey in (%s) ORDER BY key ASC", quote(project), strings.Join(quoted, ","))
}

// ProjectJQL selects every issue of project.
func ProjectJQL(project string) string {
	return fmt.Sprintf("project = %s ORDER BY key ASC", quote(project))
}

func quote(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)

	return `"` + value + `"`
}

func toExternalIssues(issues []jira.Issue) []domain.ExternalIssue {
	result := make([]domain.ExternalIssue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, toExternalIssue(issue))
	}

	return result
}

func toExternalIssue(issue jira.Issue) domain.ExternalIssue {
	ext := domain.ExternalIssue{Key: issue.Key}

	f := issue.Fields
	if f == nil {
		return ext
	}

	if f.Assignee != nil {
		ext.Assignee = nonEmpty(f.Assignee.Name)
	}

	if f.Priority != nil {
		ext.Priority = nonEmpty(f.Priority.Name)
	}

	if f.Status != nil {
		ext.Status = nonEmpty(f.Status.Name)
	}

	ext.IssueType = nonEmpty(f.Type.Name)
	ext.Summary = nonEmpty(f.Summary)

	return ext
}

func nonEmpty(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
