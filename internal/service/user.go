package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

type CreateUserInput struct {
	Username string
	Email    string
	IsStaff  bool
	Name     string
	TeamID   *int64
}

type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
}

type UserServiceImpl struct {
	BaseService
	repo repository.UserRepository
}

func NewUserService(db DB, log *slog.Logger, repo repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{
		BaseService: NewBaseService(db, log),
		repo:        repo,
	}
}

// CreateUser writes the user and its profile in one transaction.
func (s *UserServiceImpl) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	const op = "internal.service.user.CreateUser"
	log := s.log.With(slog.String("op", op), slog.String("username", input.Username))

	var created *domain.User

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		created, err = s.repo.CreateUser(ctx, tx,
			&domain.User{Username: input.Username, Email: input.Email, IsStaff: input.IsStaff},
			&domain.Profile{Name: input.Name, TeamID: input.TeamID},
		)
		if err != nil {
			return fmt.Errorf("%s: repo.CreateUser failed: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("user created", slog.Int64("user_id", created.ID))

	return created, nil
}
