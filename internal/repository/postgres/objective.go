package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

var objectiveColumns = []string{"o.id", "o.global_key_result_id", "o.user_id", "o.objective", "o.percentage"}

func (r *OKRRepository) GetObjective(ctx context.Context, ext sqlx.ExtContext, objectiveID int64) (*domain.Objective, error) {
	const op = "internal.repository.postgres.GetObjective"

	query, args, err := r.sq.Select(objectiveColumns...).
		From("objectives o").
		Where(sq.Eq{"o.id": objectiveID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var objective domain.Objective
	if err := sqlx.GetContext(ctx, ext, &objective, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: objective with id '%d'", apperrors.ErrNotFound, objectiveID)
		}

		return nil, fmt.Errorf("%s: failed to get objective: %w", op, err)
	}

	return &objective, nil
}

func (r *OKRRepository) SetObjectivePercentage(ctx context.Context, ext sqlx.ExtContext, objectiveID int64, percentage float64) error {
	return r.setPercentage(ctx, ext, "internal.repository.postgres.SetObjectivePercentage", "objectives", objectiveID, percentage)
}

func (r *OKRRepository) ListObjectivesByGlobalKeyResult(ctx context.Context, ext sqlx.ExtContext, gkrID int64) ([]domain.Objective, error) {
	const op = "internal.repository.postgres.ListObjectivesByGlobalKeyResult"

	query, args, err := r.sq.Select(objectiveColumns...).
		From("objectives o").
		Where(sq.Eq{"o.global_key_result_id": gkrID}).
		OrderBy("o.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	objectives := []domain.Objective{}
	if err := sqlx.SelectContext(ctx, ext, &objectives, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list objectives: %w", op, err)
	}

	return objectives, nil
}

// ListObjectivesByUserAndQuarter returns the user's objectives of one quarter
// ordered by id.
func (r *OKRRepository) ListObjectivesByUserAndQuarter(ctx context.Context, ext sqlx.ExtContext, userID, quarterID int64) ([]domain.Objective, error) {
	const op = "internal.repository.postgres.ListObjectivesByUserAndQuarter"

	query, args, err := r.sq.Select(objectiveColumns...).
		From("objectives o").
		Join("global_key_results gkr ON gkr.id = o.global_key_result_id").
		Join("global_objectives gobj ON gobj.id = gkr.global_objective_id").
		Where(sq.Eq{"o.user_id": userID, "gobj.quarter_id": quarterID}).
		OrderBy("o.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	objectives := []domain.Objective{}
	if err := sqlx.SelectContext(ctx, ext, &objectives, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list objectives: %w", op, err)
	}

	return objectives, nil
}
