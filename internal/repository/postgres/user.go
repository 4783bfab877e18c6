package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(db *sqlx.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (ur *UserRepository) CreateUser(ctx context.Context, tx *sqlx.Tx, user *domain.User, profile *domain.Profile) (*domain.User, error) {
	const op = "internal.repository.postgres.CreateUser"

	query, args, err := ur.sq.Insert("users").
		Columns("username", "email", "is_staff").
		Values(user.Username, user.Email, user.IsStaff).
		Suffix("RETURNING id, username, email, is_staff, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build user insert query: %w", op, err)
	}

	var created domain.User
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqCode(err) == uniqueViolation {
			return nil, &apperrors.UserAlreadyExistsError{Username: user.Username}
		}

		return nil, fmt.Errorf("%s: failed to execute user insert: %w", op, err)
	}

	queryProfile, args, err := ur.sq.Insert("profiles").
		Columns("user_id", "name", "team_id").
		Values(created.ID, profile.Name, profile.TeamID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build profile insert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, queryProfile, args...); err != nil {
		if pqCode(err) == foreignKeyViolation {
			return nil, fmt.Errorf("%w: team for user '%s'", apperrors.ErrNotFound, user.Username)
		}

		return nil, fmt.Errorf("%s: failed to execute profile insert: %w", op, err)
	}

	return &created, nil
}

// GetUserIDByUsername resolves a tracker assignee name to a local user id.
func (ur *UserRepository) GetUserIDByUsername(ctx context.Context, ext sqlx.ExtContext, username string) (int64, error) {
	const op = "internal.repository.postgres.GetUserIDByUsername"

	query, args, err := ur.sq.Select("id").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, ext, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: user with username '%s'", apperrors.ErrNotFound, username)
		}

		return 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return id, nil
}

// SetTeam moves the user to teamID, or out of any team when teamID is nil.
func (ur *UserRepository) SetTeam(ctx context.Context, ext sqlx.ExtContext, userID int64, teamID *int64) error {
	const op = "internal.repository.postgres.SetTeam"

	query, args, err := ur.sq.Update("profiles").
		Set("team_id", teamID).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("%w: team with id '%d'", apperrors.ErrNotFound, *teamID)
		}

		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: profile of user '%d'", apperrors.ErrNotFound, userID)
	}

	return nil
}
