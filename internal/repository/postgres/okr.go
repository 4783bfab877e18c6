package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/jmoiron/sqlx"
)

// OKRRepository stores the roll-up hierarchy: global key results, objectives
// and key results.
type OKRRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewOKRRepository(db *sqlx.DB, log *slog.Logger) *OKRRepository {
	return &OKRRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *OKRRepository) setPercentage(ctx context.Context, ext sqlx.ExtContext, op, table string, id int64, percentage float64) error {
	query, args, err := r.sq.Update(table).
		Set("percentage", percentage).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s with id '%d'", apperrors.ErrNotFound, table, id)
	}

	return nil
}
