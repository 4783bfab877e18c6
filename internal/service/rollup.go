package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

// Advisory lock namespaces. Writers of a node's children lock the node first.
const (
	lockObjective       int32 = 1
	lockGlobalKeyResult int32 = 2
)

type RollupService interface {
	RecomputeResult(ctx context.Context, resultID int64) (float64, error)
	RecomputeObjective(ctx context.Context, objectiveID int64) (float64, error)
	RecomputeGlobalKeyResult(ctx context.Context, gkrID int64) (float64, error)
	RecomputeHierarchy(ctx context.Context, gkrID int64) (*domain.HierarchyReport, error)
	RecomputeAll(ctx context.Context) error
}

// RollupServiceImpl recomputes completion percentages bottom-up:
// issues -> key results -> objectives -> global key results.
type RollupServiceImpl struct {
	BaseService
	okr   repository.OKRRepository
	locks repository.LockRepository
}

func NewRollupService(db DB, log *slog.Logger, okr repository.OKRRepository, locks repository.LockRepository) *RollupServiceImpl {
	return &RollupServiceImpl{
		BaseService: NewBaseService(db, log),
		okr:         okr,
		locks:       locks,
	}
}

// RecomputeResult refreshes a linked key result from its issues. Manual
// results are returned untouched.
func (s *RollupServiceImpl) RecomputeResult(ctx context.Context, resultID int64) (float64, error) {
	const op = "internal.service.rollup.RecomputeResult"

	var percentage float64

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		result, err := s.okr.GetResult(ctx, tx, resultID)
		if err != nil {
			return fmt.Errorf("%s: failed to get result: %w", op, err)
		}

		if err := s.locks.XactLock(ctx, tx, lockObjective, result.ObjectiveID); err != nil {
			return err
		}

		percentage, err = s.recomputeResult(ctx, tx, result)

		return err
	})
	if err != nil {
		return 0, err
	}

	return percentage, nil
}

// RecomputeObjective averages the objective's key results. An objective
// without key results keeps its stored value.
func (s *RollupServiceImpl) RecomputeObjective(ctx context.Context, objectiveID int64) (float64, error) {
	const op = "internal.service.rollup.RecomputeObjective"

	var percentage float64

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.locks.XactLock(ctx, tx, lockObjective, objectiveID); err != nil {
			return err
		}

		objective, err := s.okr.GetObjective(ctx, tx, objectiveID)
		if err != nil {
			return fmt.Errorf("%s: failed to get objective: %w", op, err)
		}

		results, err := s.okr.ListResultsByObjective(ctx, tx, objectiveID)
		if err != nil {
			return fmt.Errorf("%s: failed to list results: %w", op, err)
		}

		percentage, err = s.recomputeObjective(ctx, tx, objective, results)

		return err
	})
	if err != nil {
		return 0, err
	}

	return percentage, nil
}

// RecomputeGlobalKeyResult averages the objectives under the global key
// result. Without objectives the stored value is kept.
func (s *RollupServiceImpl) RecomputeGlobalKeyResult(ctx context.Context, gkrID int64) (float64, error) {
	const op = "internal.service.rollup.RecomputeGlobalKeyResult"

	var percentage float64

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.locks.XactLock(ctx, tx, lockGlobalKeyResult, gkrID); err != nil {
			return err
		}

		gkr, err := s.okr.GetGlobalKeyResult(ctx, tx, gkrID)
		if err != nil {
			return fmt.Errorf("%s: failed to get global key result: %w", op, err)
		}

		objectives, err := s.okr.ListObjectivesByGlobalKeyResult(ctx, tx, gkrID)
		if err != nil {
			return fmt.Errorf("%s: failed to list objectives: %w", op, err)
		}

		percentage, err = s.recomputeGlobalKeyResult(ctx, tx, gkr, objectives)

		return err
	})
	if err != nil {
		return 0, err
	}

	return percentage, nil
}

// RecomputeHierarchy recomputes every key result and objective under the
// global key result and then the global key result itself, in one transaction.
func (s *RollupServiceImpl) RecomputeHierarchy(ctx context.Context, gkrID int64) (*domain.HierarchyReport, error) {
	const op = "internal.service.rollup.RecomputeHierarchy"
	log := s.log.With(slog.String("op", op), slog.Int64("global_key_result_id", gkrID))

	report := &domain.HierarchyReport{GlobalKeyResultID: gkrID}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		report.Percentage, report.Objectives, report.Results, err = s.recomputeHierarchy(ctx, tx, gkrID)

		return err
	})
	if err != nil {
		return nil, err
	}

	log.Debug("hierarchy recomputed",
		slog.Float64("percentage", report.Percentage),
		slog.Int("objectives", report.Objectives),
		slog.Int("results", report.Results),
	)

	return report, nil
}

// RecomputeAll walks every global key result in id order. The first error
// aborts the walk; hierarchies already committed stay committed.
func (s *RollupServiceImpl) RecomputeAll(ctx context.Context) error {
	const op = "internal.service.rollup.RecomputeAll"
	log := s.log.With(slog.String("op", op))

	ids, err := s.okr.ListGlobalKeyResultIDs(ctx, s.db)
	if err != nil {
		return fmt.Errorf("%s: failed to list global key results: %w", op, err)
	}

	log.Info("recomputing all hierarchies", slog.Int("global_key_results", len(ids)))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := s.RecomputeHierarchy(ctx, id); err != nil {
			return fmt.Errorf("%s: global key result %d: %w", op, id, err)
		}
	}

	log.Info("all hierarchies recomputed")

	return nil
}

// recomputeHierarchy expects the global key result lock to be held.
func (s *RollupServiceImpl) recomputeHierarchy(ctx context.Context, tx *sqlx.Tx, gkrID int64) (percentage float64, objectiveCount, resultCount int, err error) {
	const op = "internal.service.rollup.recomputeHierarchy"

	if err := s.locks.XactLock(ctx, tx, lockGlobalKeyResult, gkrID); err != nil {
		return 0, 0, 0, err
	}

	gkr, err := s.okr.GetGlobalKeyResult(ctx, tx, gkrID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%s: failed to get global key result: %w", op, err)
	}

	objectives, err := s.okr.ListObjectivesByGlobalKeyResult(ctx, tx, gkrID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%s: failed to list objectives: %w", op, err)
	}

	for i := range objectives {
		objective := &objectives[i]

		if err := s.locks.XactLock(ctx, tx, lockObjective, objective.ID); err != nil {
			return 0, 0, 0, err
		}

		results, err := s.okr.ListResultsByObjective(ctx, tx, objective.ID)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%s: failed to list results: %w", op, err)
		}

		for j := range results {
			results[j].Percentage, err = s.recomputeResult(ctx, tx, &results[j])
			if err != nil {
				return 0, 0, 0, err
			}
		}

		resultCount += len(results)

		objective.Percentage, err = s.recomputeObjective(ctx, tx, objective, results)
		if err != nil {
			return 0, 0, 0, err
		}
	}

	percentage, err = s.recomputeGlobalKeyResult(ctx, tx, gkr, objectives)
	if err != nil {
		return 0, 0, 0, err
	}

	return percentage, len(objectives), resultCount, nil
}

// recomputeResult expects the parent objective lock to be held.
func (s *RollupServiceImpl) recomputeResult(ctx context.Context, tx *sqlx.Tx, result *domain.Result) (float64, error) {
	const op = "internal.service.rollup.recomputeResult"

	if result.ManualBar {
		return result.Percentage, nil
	}

	stats, err := s.okr.GetResultIssueStats(ctx, tx, result.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count issues of result %d: %w", op, result.ID, err)
	}

	percentage := domain.CompletionPercentage(stats)

	if err := s.okr.SetResultPercentage(ctx, tx, result.ID, percentage); err != nil {
		return 0, fmt.Errorf("%s: failed to store result %d: %w", op, result.ID, err)
	}

	return percentage, nil
}

func (s *RollupServiceImpl) recomputeObjective(ctx context.Context, tx *sqlx.Tx, objective *domain.Objective, results []domain.Result) (float64, error) {
	const op = "internal.service.rollup.recomputeObjective"

	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.Percentage
	}

	percentage, ok := domain.AveragePercentage(values)
	if !ok {
		return objective.Percentage, nil
	}

	if err := s.okr.SetObjectivePercentage(ctx, tx, objective.ID, percentage); err != nil {
		return 0, fmt.Errorf("%s: failed to store objective %d: %w", op, objective.ID, err)
	}

	return percentage, nil
}

func (s *RollupServiceImpl) recomputeGlobalKeyResult(ctx context.Context, tx *sqlx.Tx, gkr *domain.GlobalKeyResult, objectives []domain.Objective) (float64, error) {
	const op = "internal.service.rollup.recomputeGlobalKeyResult"

	values := make([]float64, len(objectives))
	for i, o := range objectives {
		values[i] = o.Percentage
	}

	percentage, ok := domain.AveragePercentage(values)
	if !ok {
		return gkr.Percentage, nil
	}

	if err := s.okr.SetGlobalKeyResultPercentage(ctx, tx, gkr.ID, percentage); err != nil {
		return 0, fmt.Errorf("%s: failed to store global key result %d: %w", op, gkr.ID, err)
	}

	return percentage, nil
}
