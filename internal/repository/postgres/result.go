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

func (r *OKRRepository) selectResults() sq.SelectBuilder {
	return r.sq.Select("r.id", "r.objective_id", "o.user_id AS owner_id", "r.result", "r.manual_bar", "r.percentage").
		From("results r").
		Join("objectives o ON o.id = r.objective_id")
}

func (r *OKRRepository) GetResult(ctx context.Context, ext sqlx.ExtContext, resultID int64) (*domain.Result, error) {
	const op = "internal.repository.postgres.GetResult"

	query, args, err := r.selectResults().
		Where(sq.Eq{"r.id": resultID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var result domain.Result
	if err := sqlx.GetContext(ctx, ext, &result, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: result with id '%d'", apperrors.ErrNotFound, resultID)
		}

		return nil, fmt.Errorf("%s: failed to get result: %w", op, err)
	}

	queryLinks, args, err := r.sq.Select("issue_id").
		From("result_issues").
		Where(sq.Eq{"result_id": resultID}).
		OrderBy("issue_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build links query: %w", op, err)
	}

	result.IssueIDs = []int64{}
	if err := sqlx.SelectContext(ctx, ext, &result.IssueIDs, queryLinks, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to get result links: %w", op, err)
	}

	return &result, nil
}

// GetResultIssueStats counts the linked issues of a result and how many are done.
func (r *OKRRepository) GetResultIssueStats(ctx context.Context, ext sqlx.ExtContext, resultID int64) (domain.IssueStats, error) {
	const op = "internal.repository.postgres.GetResultIssueStats"

	query, args, err := r.sq.Select("COUNT(*) AS total", "COUNT(*) FILTER (WHERE i.status) AS completed").
		From("result_issues ri").
		Join("issues i ON i.id = ri.issue_id").
		Where(sq.Eq{"ri.result_id": resultID}).
		ToSql()
	if err != nil {
		return domain.IssueStats{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var stats domain.IssueStats
	if err := sqlx.GetContext(ctx, ext, &stats, query, args...); err != nil {
		return domain.IssueStats{}, fmt.Errorf("%s: failed to count issues: %w", op, err)
	}

	return stats, nil
}

func (r *OKRRepository) SetResultPercentage(ctx context.Context, ext sqlx.ExtContext, resultID int64, percentage float64) error {
	return r.setPercentage(ctx, ext, "internal.repository.postgres.SetResultPercentage", "results", resultID, percentage)
}

func (r *OKRRepository) ListResultsByObjective(ctx context.Context, ext sqlx.ExtContext, objectiveID int64) ([]domain.Result, error) {
	const op = "internal.repository.postgres.ListResultsByObjective"

	query, args, err := r.selectResults().
		Where(sq.Eq{"r.objective_id": objectiveID}).
		OrderBy("r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	results := []domain.Result{}
	if err := sqlx.SelectContext(ctx, ext, &results, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list results: %w", op, err)
	}

	return results, nil
}

// CreateResult inserts the result together with its issue links.
func (r *OKRRepository) CreateResult(ctx context.Context, tx *sqlx.Tx, result *domain.Result) (*domain.Result, error) {
	const op = "internal.repository.postgres.CreateResult"

	query, args, err := r.sq.Insert("results").
		Columns("objective_id", "result", "manual_bar", "percentage").
		Values(result.ObjectiveID, result.Result, result.ManualBar, result.Percentage).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	created := *result
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&created.ID); err != nil {
		if pqCode(err) == foreignKeyViolation {
			return nil, fmt.Errorf("%w: objective with id '%d'", apperrors.ErrNotFound, result.ObjectiveID)
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	if err := r.insertLinks(ctx, tx, created.ID, created.IssueIDs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

// UpdateResult stores the new text and manual bar and replaces the issue links.
func (r *OKRRepository) UpdateResult(ctx context.Context, tx *sqlx.Tx, result *domain.Result) error {
	const op = "internal.repository.postgres.UpdateResult"

	query, args, err := r.sq.Update("results").
		Set("result", result.Result).
		Set("manual_bar", result.ManualBar).
		Where(sq.Eq{"id": result.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	} else if affected == 0 {
		return fmt.Errorf("%w: result with id '%d'", apperrors.ErrNotFound, result.ID)
	}

	queryDelete, args, err := r.sq.Delete("result_issues").
		Where(sq.Eq{"result_id": result.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete links query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, queryDelete, args...); err != nil {
		return fmt.Errorf("%s: failed to delete links: %w", op, err)
	}

	if err := r.insertLinks(ctx, tx, result.ID, result.IssueIDs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *OKRRepository) insertLinks(ctx context.Context, tx *sqlx.Tx, resultID int64, issueIDs []int64) error {
	if len(issueIDs) == 0 {
		return nil
	}

	insertBuilder := r.sq.Insert("result_issues").
		Columns("result_id", "issue_id")

	for _, issueID := range issueIDs {
		insertBuilder = insertBuilder.Values(resultID, issueID)
	}

	query, args, err := insertBuilder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build links insert query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("%w: linked issue", apperrors.ErrNotFound)
		}

		return fmt.Errorf("failed to insert links: %w", err)
	}

	return nil
}
