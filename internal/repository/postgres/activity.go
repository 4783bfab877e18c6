package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

// ActivityRepository holds the activity feed, planning poker votes and
// quarters: small append-only or read-only tables.
type ActivityRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewActivityRepository(db *sqlx.DB, log *slog.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateActivity inserts activity and fills its id and creation time.
func (r *ActivityRepository) CreateActivity(ctx context.Context, ext sqlx.ExtContext, activity *domain.Activity) error {
	const op = "internal.repository.postgres.CreateActivity"

	query, args, err := r.sq.Insert("activities").
		Columns("type", "user_id", "public", "data").
		Values(activity.Type, activity.UserID, activity.Public, activity.Data).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := ext.QueryRowxContext(ctx, query, args...).Scan(&activity.ID, &activity.CreatedAt); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

// CreateVote records one planning poker vote.
func (r *ActivityRepository) CreateVote(ctx context.Context, ext sqlx.ExtContext, vote *domain.EstimateVote) error {
	const op = "internal.repository.postgres.CreateVote"

	query, args, err := r.sq.Insert("estimate_votes").
		Columns("issue_id", "user_id", "value").
		Values(vote.IssueID, vote.UserID, vote.Value).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := ext.QueryRowxContext(ctx, query, args...).Scan(&vote.ID, &vote.CreatedAt); err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("%w: user with id '%d'", apperrors.ErrNotFound, vote.UserID)
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

// GetQuarterByDay returns the quarter whose date range contains day.
func (r *ActivityRepository) GetQuarterByDay(ctx context.Context, ext sqlx.ExtContext, day time.Time) (*domain.Quarter, error) {
	const op = "internal.repository.postgres.GetQuarterByDay"

	date := day.Format(time.DateOnly)

	query, args, err := r.sq.Select("id", "name", "start_date", "end_date").
		From("quarters").
		Where(sq.LtOrEq{"start_date": date}).
		Where(sq.GtOrEq{"end_date": date}).
		OrderBy("start_date DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var quarter domain.Quarter
	if err := sqlx.GetContext(ctx, ext, &quarter, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: quarter containing %s", apperrors.ErrNotFound, date)
		}

		return nil, fmt.Errorf("%s: failed to get quarter: %w", op, err)
	}

	return &quarter, nil
}
