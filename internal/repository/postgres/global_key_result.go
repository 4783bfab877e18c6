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

func (r *OKRRepository) GetGlobalKeyResult(ctx context.Context, ext sqlx.ExtContext, gkrID int64) (*domain.GlobalKeyResult, error) {
	const op = "internal.repository.postgres.GetGlobalKeyResult"

	query, args, err := r.sq.Select("id", "global_objective_id", "key_result", "percentage").
		From("global_key_results").
		Where(sq.Eq{"id": gkrID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var gkr domain.GlobalKeyResult
	if err := sqlx.GetContext(ctx, ext, &gkr, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: global key result with id '%d'", apperrors.ErrNotFound, gkrID)
		}

		return nil, fmt.Errorf("%s: failed to get global key result: %w", op, err)
	}

	return &gkr, nil
}

func (r *OKRRepository) SetGlobalKeyResultPercentage(ctx context.Context, ext sqlx.ExtContext, gkrID int64, percentage float64) error {
	return r.setPercentage(ctx, ext, "internal.repository.postgres.SetGlobalKeyResultPercentage", "global_key_results", gkrID, percentage)
}

// ListGlobalKeyResultIDs returns every global key result id in ascending order.
func (r *OKRRepository) ListGlobalKeyResultIDs(ctx context.Context, ext sqlx.ExtContext) ([]int64, error) {
	const op = "internal.repository.postgres.ListGlobalKeyResultIDs"

	query, args, err := r.sq.Select("id").
		From("global_key_results").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	ids := []int64{}
	if err := sqlx.SelectContext(ctx, ext, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list ids: %w", op, err)
	}

	return ids, nil
}
