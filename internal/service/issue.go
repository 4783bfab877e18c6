package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/repository"
)

type IssueService interface {
	LinkIssue(ctx context.Context, userID int64, key string) (*domain.Issue, bool, error)
	ListUserIssues(ctx context.Context, userID int64) (*domain.UserIssues, error)
}

type IssueServiceImpl struct {
	BaseService
	issues  repository.IssueRepository
	project string
}

func NewIssueService(db DB, log *slog.Logger, issues repository.IssueRepository, project string) *IssueServiceImpl {
	return &IssueServiceImpl{
		BaseService: NewBaseService(db, log),
		issues:      issues,
		project:     project,
	}
}

// LinkIssue registers a ticket by key for userID so it can be attached to key
// results. An existing issue is returned unchanged; created reports whether a
// new row was written.
func (s *IssueServiceImpl) LinkIssue(ctx context.Context, userID int64, key string) (*domain.Issue, bool, error) {
	const op = "internal.service.issue.LinkIssue"

	key = s.NormalizeKey(key)
	if key == "" {
		return nil, false, fmt.Errorf("%w: issue key is empty", apperrors.ErrValidation)
	}

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", userID), slog.String("key", key))

	issue, created, err := s.issues.GetOrCreateIssue(ctx, s.db, &domain.Issue{
		Key:      key,
		Priority: domain.PriorityLow,
		Type:     domain.IssueTypeTask,
		UserID:   &userID,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to get or create issue: %w", op, err)
	}

	if created {
		log.Info("issue linked")
	}

	return issue, created, nil
}

// NormalizeKey upper-cases key and prefixes the project when it is missing,
// so "123" becomes "SUM-123".
func (s *IssueServiceImpl) NormalizeKey(key string) string {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return ""
	}

	prefix := strings.ToUpper(s.project) + "-"
	if strings.HasPrefix(key, prefix) {
		return key
	}

	return prefix + key
}

// ListUserIssues splits the user's issues into complete and incomplete.
func (s *IssueServiceImpl) ListUserIssues(ctx context.Context, userID int64) (*domain.UserIssues, error) {
	const op = "internal.service.issue.ListUserIssues"

	issues, err := s.issues.ListIssuesByUser(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list issues: %w", op, err)
	}

	result := &domain.UserIssues{
		Complete:   []domain.Issue{},
		Incomplete: []domain.Issue{},
	}

	for _, issue := range issues {
		if issue.Status {
			result.Complete = append(result.Complete, issue)
		} else {
			result.Incomplete = append(result.Incomplete, issue)
		}
	}

	return result, nil
}
