package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

const (
	msgBothProgressSources      = "cannot select both manual progress bar and JIRA issue(s)"
	msgMissingProgressSource    = "must select either a manual progress bar or JIRA issue(s)"
	msgIssuesOwnedBySomeoneElse = "linked JIRA issue(s) must be assigned to you"
)

type ResultInput struct {
	ObjectiveID int64
	Result      string
	ManualBar   bool
	IssueIDs    []int64
}

type ResultService interface {
	CreateResult(ctx context.Context, ownerID int64, input ResultInput) (*domain.Result, error)
	UpdateResult(ctx context.Context, ownerID, resultID int64, input ResultInput) (*domain.Result, error)
	StepProgress(ctx context.Context, userID, resultID int64, direction domain.ProgressDirection) (*domain.Result, error)
}

// ResultServiceImpl handles key result submission and the manual progress
// control. Every write recomputes the parent objective in the same
// transaction.
type ResultServiceImpl struct {
	BaseService
	rollup     *RollupServiceImpl
	okr        repository.OKRRepository
	issues     repository.IssueRepository
	activities repository.ActivityRepository
	locks      repository.LockRepository
}

func NewResultService(
	db DB,
	log *slog.Logger,
	rollup *RollupServiceImpl,
	okr repository.OKRRepository,
	issues repository.IssueRepository,
	activities repository.ActivityRepository,
	locks repository.LockRepository,
) *ResultServiceImpl {
	return &ResultServiceImpl{
		BaseService: NewBaseService(db, log),
		rollup:      rollup,
		okr:         okr,
		issues:      issues,
		activities:  activities,
		locks:       locks,
	}
}

// ValidateSubmission enforces that a key result tracks progress either
// manually or through linked issues, never both and never neither.
func ValidateSubmission(input ResultInput) error {
	hasIssues := len(input.IssueIDs) > 0

	switch {
	case input.ManualBar && hasIssues:
		return &apperrors.SubmissionError{Message: msgBothProgressSources}
	case !input.ManualBar && !hasIssues:
		return &apperrors.SubmissionError{Message: msgMissingProgressSource}
	}

	return nil
}

// CreateResult validates the submission, stores the key result under the
// owner's objective and recomputes the objective.
func (s *ResultServiceImpl) CreateResult(ctx context.Context, ownerID int64, input ResultInput) (*domain.Result, error) {
	const op = "internal.service.result.CreateResult"
	log := s.log.With(slog.String("op", op), slog.Int64("owner_id", ownerID), slog.Int64("objective_id", input.ObjectiveID))

	if err := ValidateSubmission(input); err != nil {
		return nil, err
	}

	var created *domain.Result

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.locks.XactLock(ctx, tx, lockObjective, input.ObjectiveID); err != nil {
			return err
		}

		objective, err := s.okr.GetObjective(ctx, tx, input.ObjectiveID)
		if err != nil {
			return fmt.Errorf("%s: failed to get objective: %w", op, err)
		}

		if objective.UserID != ownerID {
			return fmt.Errorf("%w: objective %s belongs to another user", apperrors.ErrForbidden, objective.Key())
		}

		issueIDs := uniqueIDs(input.IssueIDs)
		if err := s.checkIssueOwnership(ctx, tx, ownerID, issueIDs); err != nil {
			return err
		}

		created, err = s.okr.CreateResult(ctx, tx, &domain.Result{
			ObjectiveID: input.ObjectiveID,
			OwnerID:     ownerID,
			Result:      input.Result,
			ManualBar:   input.ManualBar,
			IssueIDs:    issueIDs,
		})
		if err != nil {
			return fmt.Errorf("%s: failed to create result: %w", op, err)
		}

		if err := s.refresh(ctx, tx, objective, created); err != nil {
			return err
		}

		return s.record(ctx, tx, domain.ActivityCreatedKeyResult, ownerID, created)
	})
	if err != nil {
		return nil, err
	}

	log.Info("key result created", slog.Int64("result_id", created.ID))

	return created, nil
}

// UpdateResult replaces the text, bar and issue links of the owner's key result.
func (s *ResultServiceImpl) UpdateResult(ctx context.Context, ownerID, resultID int64, input ResultInput) (*domain.Result, error) {
	const op = "internal.service.result.UpdateResult"
	log := s.log.With(slog.String("op", op), slog.Int64("owner_id", ownerID), slog.Int64("result_id", resultID))

	if err := ValidateSubmission(input); err != nil {
		return nil, err
	}

	var result *domain.Result

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		result, err = s.getOwnedResult(ctx, tx, ownerID, resultID)
		if err != nil {
			return err
		}

		issueIDs := uniqueIDs(input.IssueIDs)
		if err := s.checkIssueOwnership(ctx, tx, ownerID, issueIDs); err != nil {
			return err
		}

		result.Result = input.Result
		result.ManualBar = input.ManualBar
		result.IssueIDs = issueIDs

		if err := s.okr.UpdateResult(ctx, tx, result); err != nil {
			return fmt.Errorf("%s: failed to update result: %w", op, err)
		}

		objective, err := s.okr.GetObjective(ctx, tx, result.ObjectiveID)
		if err != nil {
			return fmt.Errorf("%s: failed to get objective: %w", op, err)
		}

		if err := s.refresh(ctx, tx, objective, result); err != nil {
			return err
		}

		return s.record(ctx, tx, domain.ActivityModifiedKeyResult, ownerID, result)
	})
	if err != nil {
		return nil, err
	}

	log.Info("key result updated")

	return result, nil
}

// StepProgress moves a manual key result one step along {0, 50, 75, 100}.
func (s *ResultServiceImpl) StepProgress(ctx context.Context, userID, resultID int64, direction domain.ProgressDirection) (*domain.Result, error) {
	const op = "internal.service.result.StepProgress"
	log := s.log.With(slog.String("op", op), slog.Int64("result_id", resultID), slog.String("direction", string(direction)))

	var result *domain.Result

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		result, err = s.getOwnedResult(ctx, tx, userID, resultID)
		if err != nil {
			return err
		}

		if !result.ManualBar {
			return fmt.Errorf("%w: %s", apperrors.ErrNotManual, result.Key())
		}

		next, err := domain.StepProgress(result.Percentage, direction)
		if err != nil {
			return err
		}

		if err := s.okr.SetResultPercentage(ctx, tx, result.ID, next); err != nil {
			return fmt.Errorf("%s: failed to store progress: %w", op, err)
		}

		result.Percentage = next

		objective, err := s.okr.GetObjective(ctx, tx, result.ObjectiveID)
		if err != nil {
			return fmt.Errorf("%s: failed to get objective: %w", op, err)
		}

		if err := s.refreshObjective(ctx, tx, objective); err != nil {
			return err
		}

		if result.IsComplete() {
			return s.record(ctx, tx, domain.ActivityCompletedKeyResult, userID, result)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("progress stepped", slog.Float64("percentage", result.Percentage))

	return result, nil
}

// getOwnedResult takes the objective lock of the result, loads it and checks
// that userID owns the objective.
func (s *ResultServiceImpl) getOwnedResult(ctx context.Context, tx *sqlx.Tx, userID, resultID int64) (*domain.Result, error) {
	const op = "internal.service.result.getOwnedResult"

	result, err := s.okr.GetResult(ctx, tx, resultID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get result: %w", op, err)
	}

	if err := s.locks.XactLock(ctx, tx, lockObjective, result.ObjectiveID); err != nil {
		return nil, err
	}

	// Read again under the lock, a concurrent writer may have committed in between.
	result, err = s.okr.GetResult(ctx, tx, resultID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to reload result: %w", op, err)
	}

	if result.OwnerID != userID {
		return nil, fmt.Errorf("%w: key result %s belongs to another user", apperrors.ErrForbidden, result.Key())
	}

	return result, nil
}

// checkIssueOwnership rejects the submission unless every issue belongs to ownerID.
func (s *ResultServiceImpl) checkIssueOwnership(ctx context.Context, tx *sqlx.Tx, ownerID int64, issueIDs []int64) error {
	if len(issueIDs) == 0 {
		return nil
	}

	owned, err := s.issues.CountIssuesOwnedBy(ctx, tx, ownerID, issueIDs)
	if err != nil {
		return fmt.Errorf("failed to check issue ownership: %w", err)
	}

	if owned != len(issueIDs) {
		return &apperrors.SubmissionError{Message: msgIssuesOwnedBySomeoneElse}
	}

	return nil
}

// refresh recomputes the result from its links and then its objective.
func (s *ResultServiceImpl) refresh(ctx context.Context, tx *sqlx.Tx, objective *domain.Objective, result *domain.Result) error {
	percentage, err := s.rollup.recomputeResult(ctx, tx, result)
	if err != nil {
		return err
	}

	result.Percentage = percentage

	return s.refreshObjective(ctx, tx, objective)
}

func (s *ResultServiceImpl) refreshObjective(ctx context.Context, tx *sqlx.Tx, objective *domain.Objective) error {
	results, err := s.okr.ListResultsByObjective(ctx, tx, objective.ID)
	if err != nil {
		return fmt.Errorf("failed to list results of objective %d: %w", objective.ID, err)
	}

	_, err = s.rollup.recomputeObjective(ctx, tx, objective, results)

	return err
}

func (s *ResultServiceImpl) record(ctx context.Context, tx *sqlx.Tx, activityType domain.ActivityType, userID int64, result *domain.Result) error {
	activity := &domain.Activity{
		Type:   activityType,
		UserID: &userID,
		Public: true,
		Data:   fmt.Sprintf("%s: %s", result.Key(), result.Result),
	}

	if err := s.activities.CreateActivity(ctx, tx, activity); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
