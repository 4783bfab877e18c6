package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/repository"
	"github.com/YusovID/okr-service/internal/tracker"
	"github.com/jmoiron/sqlx"
)

type EstimateService interface {
	StartSession(ctx context.Context, teamID int64) ([]domain.Issue, error)
	AssignPoints(ctx context.Context, teamID, userID int64, issueKey string, value float64) (*domain.Issue, error)
}

// EstimateServiceImpl runs planning poker. Each team has at most one working
// set of issues, kept in memory until the next session replaces it.
type EstimateServiceImpl struct {
	BaseService
	dialer  tracker.Dialer
	teams   repository.TeamRepository
	issues  repository.IssueRepository
	votes   repository.EstimateVoteRepository
	project string

	mu       sync.Mutex
	sessions map[int64]map[string]domain.Issue
}

func NewEstimateService(
	db DB,
	log *slog.Logger,
	dialer tracker.Dialer,
	teams repository.TeamRepository,
	issues repository.IssueRepository,
	votes repository.EstimateVoteRepository,
	project string,
) *EstimateServiceImpl {
	return &EstimateServiceImpl{
		BaseService: NewBaseService(db, log),
		dialer:      dialer,
		teams:       teams,
		issues:      issues,
		votes:       votes,
		project:     project,
		sessions:    make(map[int64]map[string]domain.Issue),
	}
}

// StartSession pulls the whole project from the tracker, makes sure every
// issue exists locally and makes the result the team's working set.
func (s *EstimateServiceImpl) StartSession(ctx context.Context, teamID int64) ([]domain.Issue, error) {
	const op = "internal.service.estimate.StartSession"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID))

	if _, err := s.teams.GetTeamWithMembers(ctx, s.db, teamID); err != nil {
		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	session, err := s.dialer.Dial(ctx)
	if err != nil {
		var connErr *apperrors.ConnectionError
		if !errors.As(err, &connErr) {
			err = &apperrors.ConnectionError{Tracker: "tracker", Err: err}
		}

		return nil, err
	}

	records, err := session.SearchProject(ctx, s.project)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to search project: %w", op, err)
	}

	issues := make([]domain.Issue, 0, len(records))
	workingSet := make(map[string]domain.Issue, len(records))

	for _, record := range records {
		issue, failures := fromExternal(record)
		for _, f := range failures {
			log.Warn("issue field defaulted", slog.String("failure", f.String()))
		}

		stored, _, err := s.issues.GetOrCreateIssue(ctx, s.db, &issue)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to store issue '%s': %w", op, record.Key, err)
		}

		issues = append(issues, *stored)
		workingSet[stored.Key] = *stored
	}

	s.mu.Lock()
	s.sessions[teamID] = workingSet
	s.mu.Unlock()

	log.Info("estimate session started", slog.Int("issues", len(issues)))

	return issues, nil
}

// AssignPoints stores the estimate of one issue of the team's working set and
// records the vote.
func (s *EstimateServiceImpl) AssignPoints(ctx context.Context, teamID, userID int64, issueKey string, value float64) (*domain.Issue, error) {
	const op = "internal.service.estimate.AssignPoints"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.String("key", issueKey))

	if !domain.IsEstimateCard(value) {
		return nil, fmt.Errorf("%w: %v is not a card of the deck %v", apperrors.ErrValidation, value, domain.EstimateCards)
	}

	issue, err := s.sessionIssue(teamID, issueKey)
	if err != nil {
		return nil, err
	}

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.issues.SetStoryPoints(ctx, tx, issue.ID, value); err != nil {
			return fmt.Errorf("%s: failed to set story points: %w", op, err)
		}

		vote := &domain.EstimateVote{IssueID: issue.ID, UserID: userID, Value: value}
		if err := s.votes.CreateVote(ctx, tx, vote); err != nil {
			return fmt.Errorf("%s: failed to record vote: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	issue.StoryPoints = value

	s.mu.Lock()
	if set, ok := s.sessions[teamID]; ok {
		if _, ok := set[issue.Key]; ok {
			set[issue.Key] = issue
		}
	}
	s.mu.Unlock()

	log.Info("story points assigned", slog.Float64("points", value))

	return &issue, nil
}

// sessionIssue looks key up in the team's working set.
func (s *EstimateServiceImpl) sessionIssue(teamID int64, key string) (domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sessions[teamID]
	if !ok {
		return domain.Issue{}, fmt.Errorf("%w: team %d", apperrors.ErrNoSession, teamID)
	}

	issue, ok := set[key]
	if !ok {
		return domain.Issue{}, fmt.Errorf("%w: %s", apperrors.ErrIssueNotInSession, key)
	}

	return issue, nil
}

// fromExternal builds a new local issue from a tracker record. Fields that
// fail to map take their defaults and are returned as failures.
func fromExternal(record domain.ExternalIssue) (domain.Issue, []domain.FieldFailure) {
	issue := domain.Issue{Key: record.Key}

	var (
		failures []domain.FieldFailure
		failure  *domain.FieldFailure
	)

	collect := func() {
		if failure != nil {
			failure.IssueKey = record.Key
			failures = append(failures, *failure)
		}
	}

	issue.Priority, failure = domain.MapPriority(record.Priority)
	collect()
	issue.Status, failure = domain.MapStatus(record.Status)
	collect()
	issue.Type, failure = domain.MapType(record.IssueType)
	collect()
	issue.Summary, failure = domain.MapSummary(record.Summary)
	collect()

	return issue, failures
}
