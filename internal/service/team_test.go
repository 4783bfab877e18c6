package service

import (
	"context"
	"errors"
	"testing"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamServiceImpl_CreateTeam(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		setupMock     func(repoMock *TeamRepositoryMock)
		expectedTeam  *domain.Team
		expectedError error
	}{
		{
			name: "Success: Team is created",
			setupMock: func(repoMock *TeamRepositoryMock) {
				repoMock.On("CreateTeam", ctx, mock.Anything, "backend").Return(&domain.Team{ID: 1, Name: "backend"}, nil).Once()
			},
			expectedTeam: &domain.Team{ID: 1, Name: "backend"},
		},
		{
			name: "Failure: Team already exists",
			setupMock: func(repoMock *TeamRepositoryMock) {
				repoMock.On("CreateTeam", ctx, mock.Anything, "backend").Return(nil, &apperrors.TeamAlreadyExistsError{TeamName: "backend"}).Once()
			},
			expectedError: apperrors.ErrAlreadyExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repoMock := new(TeamRepositoryMock)
			tc.setupMock(repoMock)

			service := NewTeamService(new(TransactorMock), newTestLogger(), repoMock, new(UserRepositoryMock))

			team, err := service.CreateTeam(ctx, "backend")

			assert.Equal(t, tc.expectedTeam, team)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}

			repoMock.AssertExpectations(t)
		})
	}
}

func TestTeamServiceImpl_GetTeam(t *testing.T) {
	ctx := context.Background()

	team := &domain.TeamWithMembers{
		ID:        1,
		Name:      "backend",
		ManagerID: int64Ptr(2),
		Members:   []domain.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}},
	}

	testCases := []struct {
		name          string
		setupMock     func(repoMock *TeamRepositoryMock)
		expectedTeam  *domain.TeamWithMembers
		expectedError error
	}{
		{
			name: "Success: Team is found",
			setupMock: func(repoMock *TeamRepositoryMock) {
				repoMock.On("GetTeamWithMembers", ctx, mock.Anything, int64(1)).Return(team, nil).Once()
			},
			expectedTeam: team,
		},
		{
			name: "Failure: Team not found",
			setupMock: func(repoMock *TeamRepositoryMock) {
				repoMock.On("GetTeamWithMembers", ctx, mock.Anything, int64(1)).Return(nil, apperrors.ErrNotFound).Once()
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repoMock := new(TeamRepositoryMock)
			tc.setupMock(repoMock)

			service := NewTeamService(new(TransactorMock), newTestLogger(), repoMock, new(UserRepositoryMock))

			result, err := service.GetTeam(ctx, 1)

			assert.Equal(t, tc.expectedTeam, result)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}

			repoMock.AssertExpectations(t)
		})
	}
}

func TestTeamServiceImpl_AddMember(t *testing.T) {
	ctx := context.Background()

	before := &domain.TeamWithMembers{ID: 1, Name: "backend"}
	after := &domain.TeamWithMembers{ID: 1, Name: "backend", Members: []domain.User{{ID: 3, Username: "carol"}}}

	testCases := []struct {
		name          string
		setupMocks    func(t *testing.T, transactor *TransactorMock, teams *TeamRepositoryMock, users *UserRepositoryMock)
		expectedTeam  *domain.TeamWithMembers
		expectedError error
	}{
		{
			name: "Success: user moved into the team",
			setupMocks: func(t *testing.T, transactor *TransactorMock, teams *TeamRepositoryMock, users *UserRepositoryMock) {
				tx := expectTx(t, transactor, true)
				teams.On("GetTeamWithMembers", ctx, tx, int64(1)).Return(before, nil).Once()
				users.On("GetUserIDByUsername", ctx, tx, "carol").Return(int64(3), nil).Once()
				users.On("SetTeam", ctx, tx, int64(3), int64Ptr(1)).Return(nil).Once()
				teams.On("GetTeamWithMembers", ctx, tx, int64(1)).Return(after, nil).Once()
			},
			expectedTeam: after,
		},
		{
			name: "Failure: unknown user",
			setupMocks: func(t *testing.T, transactor *TransactorMock, teams *TeamRepositoryMock, users *UserRepositoryMock) {
				tx := expectTx(t, transactor, false)
				teams.On("GetTeamWithMembers", ctx, tx, int64(1)).Return(before, nil).Once()
				users.On("GetUserIDByUsername", ctx, tx, "carol").Return(int64(0), apperrors.ErrNotFound).Once()
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name: "Failure: begin transaction",
			setupMocks: func(t *testing.T, transactor *TransactorMock, teams *TeamRepositoryMock, users *UserRepositoryMock) {
				transactor.On("BeginTxx", mock.Anything, mock.Anything).Return(nil, errors.New("cannot begin tx")).Once()
			},
			expectedError: errors.New("cannot begin tx"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			transactor := new(TransactorMock)
			teams := new(TeamRepositoryMock)
			users := new(UserRepositoryMock)
			tc.setupMocks(t, transactor, teams, users)

			team, err := NewTeamService(transactor, newTestLogger(), teams, users).AddMember(ctx, 1, "carol")

			assert.Equal(t, tc.expectedTeam, team)
			if tc.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tc.expectedError, apperrors.ErrNotFound) {
					assert.ErrorIs(t, err, apperrors.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
			}

			transactor.AssertExpectations(t)
			teams.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestTeamServiceImpl_RemoveMember(t *testing.T) {
	ctx := context.Background()

	current := &domain.TeamWithMembers{ID: 1, Members: []domain.User{{ID: 3, Username: "carol"}}}

	t.Run("Success: user leaves the team", func(t *testing.T) {
		transactor := new(TransactorMock)
		teams := new(TeamRepositoryMock)
		users := new(UserRepositoryMock)

		tx := expectTx(t, transactor, true)
		teams.On("GetTeamWithMembers", ctx, tx, int64(1)).Return(current, nil).Once()
		users.On("SetTeam", ctx, tx, int64(3), (*int64)(nil)).Return(nil).Once()
		teams.On("GetTeamWithMembers", ctx, tx, int64(1)).Return(&domain.TeamWithMembers{ID: 1}, nil).Once()

		team, err := NewTeamService(transactor, newTestLogger(), teams, users).RemoveMember(ctx, 1, "carol")
		require.NoError(t, err)
		assert.Empty(t, team.Members)
		users.AssertExpectations(t)
	})

	t.Run("Failure: user is not a member", func(t *testing.T) {
		transactor := new(TransactorMock)
		teams := new(TeamRepositoryMock)
		users := new(UserRepositoryMock)

		tx := expectTx(t, transactor, false)
		teams.On("GetTeamWithMembers", ctx, tx, int64(1)).Return(current, nil).Once()

		_, err := NewTeamService(transactor, newTestLogger(), teams, users).RemoveMember(ctx, 1, "dave")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		users.AssertNotCalled(t, "SetTeam", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTeamServiceImpl_AddManager(t *testing.T) {
	ctx := context.Background()

	teams := new(TeamRepositoryMock)
	teams.On("AddManager", ctx, mock.Anything, int64(1), int64(2)).Return(nil).Once()
	teams.On("GetTeamWithMembers", ctx, mock.Anything, int64(1)).Return(&domain.TeamWithMembers{ID: 1, ManagerID: int64Ptr(2)}, nil).Once()

	team, err := NewTeamService(new(TransactorMock), newTestLogger(), teams, new(UserRepositoryMock)).AddManager(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64Ptr(2), team.ManagerID)

	teams.AssertExpectations(t)
}
