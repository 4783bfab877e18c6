package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/repository"
	"github.com/YusovID/okr-service/internal/tracker"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type OKRRepositoryMock struct {
	mock.Mock
}

var _ repository.OKRRepository = (*OKRRepositoryMock)(nil)

func (m *OKRRepositoryMock) GetResult(ctx context.Context, ext sqlx.ExtContext, resultID int64) (*domain.Result, error) {
	args := m.Called(ctx, ext, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Result), args.Error(1)
}

func (m *OKRRepositoryMock) GetResultIssueStats(ctx context.Context, ext sqlx.ExtContext, resultID int64) (domain.IssueStats, error) {
	args := m.Called(ctx, ext, resultID)
	return args.Get(0).(domain.IssueStats), args.Error(1)
}

func (m *OKRRepositoryMock) SetResultPercentage(ctx context.Context, ext sqlx.ExtContext, resultID int64, percentage float64) error {
	args := m.Called(ctx, ext, resultID, percentage)
	return args.Error(0)
}

func (m *OKRRepositoryMock) ListResultsByObjective(ctx context.Context, ext sqlx.ExtContext, objectiveID int64) ([]domain.Result, error) {
	args := m.Called(ctx, ext, objectiveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Result), args.Error(1)
}

func (m *OKRRepositoryMock) CreateResult(ctx context.Context, tx *sqlx.Tx, result *domain.Result) (*domain.Result, error) {
	args := m.Called(ctx, tx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Result), args.Error(1)
}

func (m *OKRRepositoryMock) UpdateResult(ctx context.Context, tx *sqlx.Tx, result *domain.Result) error {
	args := m.Called(ctx, tx, result)
	return args.Error(0)
}

func (m *OKRRepositoryMock) GetObjective(ctx context.Context, ext sqlx.ExtContext, objectiveID int64) (*domain.Objective, error) {
	args := m.Called(ctx, ext, objectiveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Objective), args.Error(1)
}

func (m *OKRRepositoryMock) SetObjectivePercentage(ctx context.Context, ext sqlx.ExtContext, objectiveID int64, percentage float64) error {
	args := m.Called(ctx, ext, objectiveID, percentage)
	return args.Error(0)
}

func (m *OKRRepositoryMock) ListObjectivesByGlobalKeyResult(ctx context.Context, ext sqlx.ExtContext, gkrID int64) ([]domain.Objective, error) {
	args := m.Called(ctx, ext, gkrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Objective), args.Error(1)
}

func (m *OKRRepositoryMock) ListObjectivesByUserAndQuarter(ctx context.Context, ext sqlx.ExtContext, userID, quarterID int64) ([]domain.Objective, error) {
	args := m.Called(ctx, ext, userID, quarterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Objective), args.Error(1)
}

func (m *OKRRepositoryMock) GetGlobalKeyResult(ctx context.Context, ext sqlx.ExtContext, gkrID int64) (*domain.GlobalKeyResult, error) {
	args := m.Called(ctx, ext, gkrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.GlobalKeyResult), args.Error(1)
}

func (m *OKRRepositoryMock) SetGlobalKeyResultPercentage(ctx context.Context, ext sqlx.ExtContext, gkrID int64, percentage float64) error {
	args := m.Called(ctx, ext, gkrID, percentage)
	return args.Error(0)
}

func (m *OKRRepositoryMock) ListGlobalKeyResultIDs(ctx context.Context, ext sqlx.ExtContext) ([]int64, error) {
	args := m.Called(ctx, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]int64), args.Error(1)
}

type IssueRepositoryMock struct {
	mock.Mock
}

var _ repository.IssueRepository = (*IssueRepositoryMock)(nil)

func (m *IssueRepositoryMock) ListNotDoneKeys(ctx context.Context, ext sqlx.ExtContext) ([]string, error) {
	args := m.Called(ctx, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

func (m *IssueRepositoryMock) GetIssueByKeyForUpdate(ctx context.Context, tx *sqlx.Tx, key string) (*domain.Issue, error) {
	args := m.Called(ctx, tx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *IssueRepositoryMock) UpdateIssue(ctx context.Context, tx *sqlx.Tx, issue *domain.Issue) error {
	args := m.Called(ctx, tx, issue)
	return args.Error(0)
}

func (m *IssueRepositoryMock) GetOrCreateIssue(ctx context.Context, ext sqlx.ExtContext, issue *domain.Issue) (*domain.Issue, bool, error) {
	args := m.Called(ctx, ext, issue)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}

	return args.Get(0).(*domain.Issue), args.Bool(1), args.Error(2)
}

func (m *IssueRepositoryMock) ListIssuesByUser(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.Issue, error) {
	args := m.Called(ctx, ext, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *IssueRepositoryMock) CountIssuesOwnedBy(ctx context.Context, ext sqlx.ExtContext, userID int64, issueIDs []int64) (int, error) {
	args := m.Called(ctx, ext, userID, issueIDs)
	return args.Int(0), args.Error(1)
}

func (m *IssueRepositoryMock) SetStoryPoints(ctx context.Context, ext sqlx.ExtContext, issueID int64, points float64) error {
	args := m.Called(ctx, ext, issueID, points)
	return args.Error(0)
}

type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) CreateUser(ctx context.Context, tx *sqlx.Tx, user *domain.User, profile *domain.Profile) (*domain.User, error) {
	args := m.Called(ctx, tx, user, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserIDByUsername(ctx context.Context, ext sqlx.ExtContext, username string) (int64, error) {
	args := m.Called(ctx, ext, username)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepositoryMock) SetTeam(ctx context.Context, ext sqlx.ExtContext, userID int64, teamID *int64) error {
	args := m.Called(ctx, ext, userID, teamID)
	return args.Error(0)
}

type TeamRepositoryMock struct {
	mock.Mock
}

var _ repository.TeamRepository = (*TeamRepositoryMock)(nil)

func (m *TeamRepositoryMock) CreateTeam(ctx context.Context, ext sqlx.ExtContext, name string) (*domain.Team, error) {
	args := m.Called(ctx, ext, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *TeamRepositoryMock) GetTeamWithMembers(ctx context.Context, ext sqlx.ExtContext, teamID int64) (*domain.TeamWithMembers, error) {
	args := m.Called(ctx, ext, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.TeamWithMembers), args.Error(1)
}

func (m *TeamRepositoryMock) AddManager(ctx context.Context, ext sqlx.ExtContext, teamID, userID int64) error {
	args := m.Called(ctx, ext, teamID, userID)
	return args.Error(0)
}

// ActivityRepositoryMock also stands in for the vote and quarter stores, the
// postgres implementation serves all three.
type ActivityRepositoryMock struct {
	mock.Mock
}

var (
	_ repository.ActivityRepository     = (*ActivityRepositoryMock)(nil)
	_ repository.EstimateVoteRepository = (*ActivityRepositoryMock)(nil)
	_ repository.QuarterRepository      = (*ActivityRepositoryMock)(nil)
)

func (m *ActivityRepositoryMock) CreateActivity(ctx context.Context, ext sqlx.ExtContext, activity *domain.Activity) error {
	args := m.Called(ctx, ext, activity)
	return args.Error(0)
}

func (m *ActivityRepositoryMock) CreateVote(ctx context.Context, ext sqlx.ExtContext, vote *domain.EstimateVote) error {
	args := m.Called(ctx, ext, vote)
	return args.Error(0)
}

func (m *ActivityRepositoryMock) GetQuarterByDay(ctx context.Context, ext sqlx.ExtContext, day time.Time) (*domain.Quarter, error) {
	args := m.Called(ctx, ext, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Quarter), args.Error(1)
}

type LockRepositoryMock struct {
	mock.Mock
}

var _ repository.LockRepository = (*LockRepositoryMock)(nil)

func (m *LockRepositoryMock) XactLock(ctx context.Context, tx *sqlx.Tx, namespace int32, id int64) error {
	args := m.Called(ctx, tx, namespace, id)
	return args.Error(0)
}

func (m *LockRepositoryMock) TryJobLock(ctx context.Context, job string) (func(), bool, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}

	return args.Get(0).(func()), args.Bool(1), args.Error(2)
}

type DialerMock struct {
	mock.Mock
}

var _ tracker.Dialer = (*DialerMock)(nil)

func (m *DialerMock) Dial(ctx context.Context) (tracker.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(tracker.Session), args.Error(1)
}

type SessionMock struct {
	mock.Mock
}

var _ tracker.Session = (*SessionMock)(nil)

func (m *SessionMock) SearchByKeys(ctx context.Context, project string, keys []string) ([]domain.ExternalIssue, error) {
	args := m.Called(ctx, project, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ExternalIssue), args.Error(1)
}

func (m *SessionMock) SearchProject(ctx context.Context, project string) ([]domain.ExternalIssue, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ExternalIssue), args.Error(1)
}

// TransactorMock is the service DB in tests. Plain queries go to the mocked
// repositories, so the embedded ExtContext is never called.
type TransactorMock struct {
	mock.Mock
	sqlx.ExtContext
}

var _ DB = (*TransactorMock)(nil)

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}
