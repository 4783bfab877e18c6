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

type TeamService interface {
	CreateTeam(ctx context.Context, name string) (*domain.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*domain.TeamWithMembers, error)
	AddMember(ctx context.Context, teamID int64, username string) (*domain.TeamWithMembers, error)
	RemoveMember(ctx context.Context, teamID int64, username string) (*domain.TeamWithMembers, error)
	AddManager(ctx context.Context, teamID, userID int64) (*domain.TeamWithMembers, error)
}

type TeamServiceImpl struct {
	BaseService
	teams repository.TeamRepository
	users repository.UserRepository
}

func NewTeamService(db DB, log *slog.Logger, teams repository.TeamRepository, users repository.UserRepository) *TeamServiceImpl {
	return &TeamServiceImpl{
		BaseService: NewBaseService(db, log),
		teams:       teams,
		users:       users,
	}
}

func (s *TeamServiceImpl) CreateTeam(ctx context.Context, name string) (*domain.Team, error) {
	team, err := s.teams.CreateTeam(ctx, s.db, name)
	if err != nil {
		return nil, fmt.Errorf("repo.CreateTeam failed: %w", err)
	}

	return team, nil
}

func (s *TeamServiceImpl) GetTeam(ctx context.Context, teamID int64) (*domain.TeamWithMembers, error) {
	team, err := s.teams.GetTeamWithMembers(ctx, s.db, teamID)
	if err != nil {
		return nil, fmt.Errorf("repo.GetTeamWithMembers failed: %w", err)
	}

	return team, nil
}

// AddMember moves the user into the team. A user belongs to at most one team.
func (s *TeamServiceImpl) AddMember(ctx context.Context, teamID int64, username string) (*domain.TeamWithMembers, error) {
	const op = "internal.service.team.AddMember"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.String("username", username))

	var team *domain.TeamWithMembers

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if _, err := s.teams.GetTeamWithMembers(ctx, tx, teamID); err != nil {
			return fmt.Errorf("%s: failed to get team: %w", op, err)
		}

		userID, err := s.users.GetUserIDByUsername(ctx, tx, username)
		if err != nil {
			return fmt.Errorf("%s: failed to get user: %w", op, err)
		}

		if err := s.users.SetTeam(ctx, tx, userID, &teamID); err != nil {
			return fmt.Errorf("%s: failed to set team: %w", op, err)
		}

		team, err = s.teams.GetTeamWithMembers(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("%s: failed to reload team: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("member added")

	return team, nil
}

// RemoveMember takes the user out of the team and returns the updated team.
func (s *TeamServiceImpl) RemoveMember(ctx context.Context, teamID int64, username string) (*domain.TeamWithMembers, error) {
	const op = "internal.service.team.RemoveMember"
	log := s.log.With(slog.String("op", op), slog.Int64("team_id", teamID), slog.String("username", username))

	var team *domain.TeamWithMembers

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		current, err := s.teams.GetTeamWithMembers(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("%s: failed to get team: %w", op, err)
		}

		member := findMember(current.Members, username)
		if member == nil {
			return fmt.Errorf("%w: user '%s' in team %d", apperrors.ErrNotFound, username, teamID)
		}

		if err := s.users.SetTeam(ctx, tx, member.ID, nil); err != nil {
			return fmt.Errorf("%s: failed to clear team: %w", op, err)
		}

		team, err = s.teams.GetTeamWithMembers(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("%s: failed to reload team: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("member removed")

	return team, nil
}

// AddManager is idempotent. The most recently added manager is the one
// reported for the team.
func (s *TeamServiceImpl) AddManager(ctx context.Context, teamID, userID int64) (*domain.TeamWithMembers, error) {
	const op = "internal.service.team.AddManager"

	if err := s.teams.AddManager(ctx, s.db, teamID, userID); err != nil {
		return nil, fmt.Errorf("%s: failed to add manager: %w", op, err)
	}

	return s.GetTeam(ctx, teamID)
}

func findMember(members []domain.User, username string) *domain.User {
	for i := range members {
		if members[i].Username == username {
			return &members[i]
		}
	}

	return nil
}
