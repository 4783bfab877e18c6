package http

import (
	"context"

	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type TeamServiceMock struct {
	mock.Mock
}

func (m *TeamServiceMock) team(args mock.Arguments) (*domain.TeamWithMembers, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.TeamWithMembers), args.Error(1)
}

func (m *TeamServiceMock) CreateTeam(ctx context.Context, name string) (*domain.Team, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *TeamServiceMock) GetTeam(ctx context.Context, teamID int64) (*domain.TeamWithMembers, error) {
	return m.team(m.Called(ctx, teamID))
}

func (m *TeamServiceMock) AddMember(ctx context.Context, teamID int64, username string) (*domain.TeamWithMembers, error) {
	return m.team(m.Called(ctx, teamID, username))
}

func (m *TeamServiceMock) RemoveMember(ctx context.Context, teamID int64, username string) (*domain.TeamWithMembers, error) {
	return m.team(m.Called(ctx, teamID, username))
}

func (m *TeamServiceMock) AddManager(ctx context.Context, teamID, userID int64) (*domain.TeamWithMembers, error) {
	return m.team(m.Called(ctx, teamID, userID))
}

type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) CreateUser(ctx context.Context, input service.CreateUserInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

type ResultServiceMock struct {
	mock.Mock
}

func (m *ResultServiceMock) result(args mock.Arguments) (*domain.Result, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Result), args.Error(1)
}

func (m *ResultServiceMock) CreateResult(ctx context.Context, ownerID int64, input service.ResultInput) (*domain.Result, error) {
	return m.result(m.Called(ctx, ownerID, input))
}

func (m *ResultServiceMock) UpdateResult(ctx context.Context, ownerID, resultID int64, input service.ResultInput) (*domain.Result, error) {
	return m.result(m.Called(ctx, ownerID, resultID, input))
}

func (m *ResultServiceMock) StepProgress(ctx context.Context, userID, resultID int64, direction domain.ProgressDirection) (*domain.Result, error) {
	return m.result(m.Called(ctx, userID, resultID, direction))
}

type IssueServiceMock struct {
	mock.Mock
}

func (m *IssueServiceMock) LinkIssue(ctx context.Context, userID int64, key string) (*domain.Issue, bool, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}

	return args.Get(0).(*domain.Issue), args.Bool(1), args.Error(2)
}

func (m *IssueServiceMock) ListUserIssues(ctx context.Context, userID int64) (*domain.UserIssues, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserIssues), args.Error(1)
}

type EstimateServiceMock struct {
	mock.Mock
}

func (m *EstimateServiceMock) StartSession(ctx context.Context, teamID int64) ([]domain.Issue, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *EstimateServiceMock) AssignPoints(ctx context.Context, teamID, userID int64, issueKey string, value float64) (*domain.Issue, error) {
	args := m.Called(ctx, teamID, userID, issueKey, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Issue), args.Error(1)
}

type ReportServiceMock struct {
	mock.Mock
}

func (m *ReportServiceMock) UserProgress(ctx context.Context, userID int64) (*domain.UserProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

type RollupServiceMock struct {
	mock.Mock
}

func (m *RollupServiceMock) RecomputeResult(ctx context.Context, resultID int64) (float64, error) {
	args := m.Called(ctx, resultID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *RollupServiceMock) RecomputeObjective(ctx context.Context, objectiveID int64) (float64, error) {
	args := m.Called(ctx, objectiveID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *RollupServiceMock) RecomputeGlobalKeyResult(ctx context.Context, gkrID int64) (float64, error) {
	args := m.Called(ctx, gkrID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *RollupServiceMock) RecomputeHierarchy(ctx context.Context, gkrID int64) (*domain.HierarchyReport, error) {
	args := m.Called(ctx, gkrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.HierarchyReport), args.Error(1)
}

func (m *RollupServiceMock) RecomputeAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type JobRunnerMock struct {
	mock.Mock
}

func (m *JobRunnerMock) Sync(ctx context.Context) (*domain.SyncReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.SyncReport), args.Error(1)
}

func (m *JobRunnerMock) Recompute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type serviceMocks struct {
	teams     *TeamServiceMock
	users     *UserServiceMock
	results   *ResultServiceMock
	issues    *IssueServiceMock
	estimates *EstimateServiceMock
	reports   *ReportServiceMock
	rollup    *RollupServiceMock
	jobs      *JobRunnerMock
}

func newServiceMocks() *serviceMocks {
	return &serviceMocks{
		teams:     new(TeamServiceMock),
		users:     new(UserServiceMock),
		results:   new(ResultServiceMock),
		issues:    new(IssueServiceMock),
		estimates: new(EstimateServiceMock),
		reports:   new(ReportServiceMock),
		rollup:    new(RollupServiceMock),
		jobs:      new(JobRunnerMock),
	}
}

func (m *serviceMocks) services() Services {
	return Services{
		Teams:     m.teams,
		Users:     m.users,
		Results:   m.results,
		Issues:    m.issues,
		Estimates: m.estimates,
		Reports:   m.reports,
		Rollup:    m.rollup,
		Jobs:      m.jobs,
	}
}

func (m *serviceMocks) assertExpectations(t mock.TestingT) {
	m.teams.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.results.AssertExpectations(t)
	m.issues.AssertExpectations(t)
	m.estimates.AssertExpectations(t)
	m.reports.AssertExpectations(t)
	m.rollup.AssertExpectations(t)
	m.jobs.AssertExpectations(t)
}
