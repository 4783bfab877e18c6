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

type TeamRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTeamRepository(db *sqlx.DB, log *slog.Logger) *TeamRepository {
	return &TeamRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (tr *TeamRepository) CreateTeam(ctx context.Context, ext sqlx.ExtContext, name string) (*domain.Team, error) {
	const op = "internal.repository.postgres.CreateTeam"
	log := tr.log.With(slog.String("op", op), slog.String("team_name", name))
	log.Info("creating team")

	query, args, err := tr.sq.Insert("teams").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build team insert query: %w", op, err)
	}

	var team domain.Team
	if err := ext.QueryRowxContext(ctx, query, args...).StructScan(&team); err != nil {
		if pqCode(err) == uniqueViolation {
			return nil, &apperrors.TeamAlreadyExistsError{TeamName: name}
		}

		return nil, fmt.Errorf("%s: failed to execute team insert: %w", op, err)
	}

	log.Info("team created successfully", slog.Int64("team_id", team.ID))

	return &team, nil
}

// GetTeamWithMembers loads the team with its members and managers.
func (tr *TeamRepository) GetTeamWithMembers(ctx context.Context, ext sqlx.ExtContext, teamID int64) (*domain.TeamWithMembers, error) {
	const op = "internal.repository.postgres.GetTeamWithMembers"

	query, args, err := tr.sq.Select("id", "name", "created_at").
		From("teams").
		Where(sq.Eq{"id": teamID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select team query: %w", op, err)
	}

	var team domain.Team
	if err := sqlx.GetContext(ctx, ext, &team, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: team with id '%d'", apperrors.ErrNotFound, teamID)
		}

		return nil, fmt.Errorf("%s: failed to get team: %w", op, err)
	}

	queryMembers, args, err := tr.sq.Select("u.id", "u.username", "u.email", "u.is_staff", "u.created_at").
		From("users u").
		Join("profiles p ON p.user_id = u.id").
		Where(sq.Eq{"p.team_id": teamID}).
		OrderBy("u.username").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select members query: %w", op, err)
	}

	members := []domain.User{}
	if err := sqlx.SelectContext(ctx, ext, &members, queryMembers, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to get team members: %w", op, err)
	}

	queryManager, args, err := tr.sq.Select("manager_id").
		From("managers").
		Where(sq.Eq{"team_id": teamID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select manager query: %w", op, err)
	}

	var managerID *int64

	var id int64
	err = sqlx.GetContext(ctx, ext, &id, queryManager, args...)
	switch {
	case err == nil:
		managerID = &id
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("%s: failed to get team manager: %w", op, err)
	}

	return &domain.TeamWithMembers{
		ID:        team.ID,
		Name:      team.Name,
		ManagerID: managerID,
		Members:   members,
	}, nil
}

// AddManager is idempotent.
func (tr *TeamRepository) AddManager(ctx context.Context, ext sqlx.ExtContext, teamID, userID int64) error {
	const op = "internal.repository.postgres.AddManager"

	query, args, err := tr.sq.Insert("managers").
		Columns("team_id", "manager_id").
		Values(teamID, userID).
		Suffix("ON CONFLICT (team_id, manager_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := ext.ExecContext(ctx, query, args...); err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("%w: team '%d' or user '%d'", apperrors.ErrNotFound, teamID, userID)
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}
