// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
//
// Most methods accept an sqlx.ExtContext so they can run either on the
// connection pool (*sqlx.DB) or inside a caller-owned transaction (*sqlx.Tx).
package repository

import (
	"context"
	"time"

	"github.com/YusovID/okr-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

// ResultRepository covers key results and their issue links.
type ResultRepository interface {
	// GetResult returns a key result with OwnerID taken from its objective and
	// IssueIDs filled from the link table.
	// It returns apperrors.ErrNotFound if the result does not exist.
	GetResult(ctx context.Context, ext sqlx.ExtContext, resultID int64) (*domain.Result, error)

	// GetResultIssueStats counts linked issues and those of them that are done.
	GetResultIssueStats(ctx context.Context, ext sqlx.ExtContext, resultID int64) (domain.IssueStats, error)

	SetResultPercentage(ctx context.Context, ext sqlx.ExtContext, resultID int64, percentage float64) error

	// ListResultsByObjective returns the objective's key results ordered by id.
	ListResultsByObjective(ctx context.Context, ext sqlx.ExtContext, objectiveID int64) ([]domain.Result, error)

	// CreateResult inserts the result and its issue links.
	CreateResult(ctx context.Context, tx *sqlx.Tx, result *domain.Result) (*domain.Result, error)

	// UpdateResult updates the result row and replaces its issue links.
	UpdateResult(ctx context.Context, tx *sqlx.Tx, result *domain.Result) error
}

// OKRRepository is the whole roll-up hierarchy.
type OKRRepository interface {
	ResultRepository
	ObjectiveRepository
	GlobalKeyResultRepository
}

type ObjectiveRepository interface {
	// GetObjective returns apperrors.ErrNotFound if the objective does not exist.
	GetObjective(ctx context.Context, ext sqlx.ExtContext, objectiveID int64) (*domain.Objective, error)

	SetObjectivePercentage(ctx context.Context, ext sqlx.ExtContext, objectiveID int64, percentage float64) error

	// ListObjectivesByGlobalKeyResult returns the child objectives ordered by id.
	ListObjectivesByGlobalKeyResult(ctx context.Context, ext sqlx.ExtContext, gkrID int64) ([]domain.Objective, error)

	// ListObjectivesByUserAndQuarter returns the user's objectives whose global
	// key result belongs to a global objective of the quarter.
	ListObjectivesByUserAndQuarter(ctx context.Context, ext sqlx.ExtContext, userID, quarterID int64) ([]domain.Objective, error)
}

type GlobalKeyResultRepository interface {
	// GetGlobalKeyResult returns apperrors.ErrNotFound if the row does not exist.
	GetGlobalKeyResult(ctx context.Context, ext sqlx.ExtContext, gkrID int64) (*domain.GlobalKeyResult, error)

	SetGlobalKeyResultPercentage(ctx context.Context, ext sqlx.ExtContext, gkrID int64, percentage float64) error

	// ListGlobalKeyResultIDs returns every id in ascending order.
	ListGlobalKeyResultIDs(ctx context.Context, ext sqlx.ExtContext) ([]int64, error)
}

// IssueRepository is the local cache of tracker tickets.
type IssueRepository interface {
	// ListNotDoneKeys returns the keys of all issues with status false, ordered by key.
	ListNotDoneKeys(ctx context.Context, ext sqlx.ExtContext) ([]string, error)

	// GetIssueByKeyForUpdate reads an issue and locks its row ("FOR UPDATE")
	// until the transaction ends.
	// It returns apperrors.ErrNotFound if no issue has that key.
	GetIssueByKeyForUpdate(ctx context.Context, tx *sqlx.Tx, key string) (*domain.Issue, error)

	// UpdateIssue writes every mutable field of the issue identified by issue.ID.
	UpdateIssue(ctx context.Context, tx *sqlx.Tx, issue *domain.Issue) error

	// GetOrCreateIssue inserts the issue unless its key exists and returns the
	// stored row. created reports whether a new row was written.
	GetOrCreateIssue(ctx context.Context, ext sqlx.ExtContext, issue *domain.Issue) (stored *domain.Issue, created bool, err error)

	// ListIssuesByUser returns the user's issues ordered by key.
	ListIssuesByUser(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.Issue, error)

	// CountIssuesOwnedBy counts how many of issueIDs belong to userID.
	CountIssuesOwnedBy(ctx context.Context, ext sqlx.ExtContext, userID int64, issueIDs []int64) (int, error)

	// SetStoryPoints returns apperrors.ErrNotFound if the issue does not exist.
	SetStoryPoints(ctx context.Context, ext sqlx.ExtContext, issueID int64, points float64) error
}

type UserRepository interface {
	// CreateUser inserts the user and its profile.
	// It returns *apperrors.UserAlreadyExistsError if the username is taken.
	CreateUser(ctx context.Context, tx *sqlx.Tx, user *domain.User, profile *domain.Profile) (*domain.User, error)

	// GetUserIDByUsername returns apperrors.ErrNotFound if there is no such user.
	GetUserIDByUsername(ctx context.Context, ext sqlx.ExtContext, username string) (int64, error)

	// SetTeam changes the team of the user's profile. A nil teamID removes the
	// user from any team.
	// It returns apperrors.ErrNotFound if the user has no profile.
	SetTeam(ctx context.Context, ext sqlx.ExtContext, userID int64, teamID *int64) error
}

type TeamRepository interface {
	// CreateTeam returns *apperrors.TeamAlreadyExistsError if the name is taken.
	CreateTeam(ctx context.Context, ext sqlx.ExtContext, name string) (*domain.Team, error)

	// GetTeamWithMembers returns the team, its members ordered by username and
	// its most recently assigned manager.
	// It returns apperrors.ErrNotFound if the team does not exist.
	GetTeamWithMembers(ctx context.Context, ext sqlx.ExtContext, teamID int64) (*domain.TeamWithMembers, error)

	// AddManager records userID as a manager of the team. Adding an existing
	// manager again is a no-op.
	// It returns apperrors.ErrNotFound if the team or the user does not exist.
	AddManager(ctx context.Context, ext sqlx.ExtContext, teamID, userID int64) error
}

type ActivityRepository interface {
	CreateActivity(ctx context.Context, ext sqlx.ExtContext, activity *domain.Activity) error
}

type EstimateVoteRepository interface {
	CreateVote(ctx context.Context, ext sqlx.ExtContext, vote *domain.EstimateVote) error
}

type QuarterRepository interface {
	// GetQuarterByDay returns the quarter containing day. When quarters overlap
	// the one that started last wins.
	// It returns apperrors.ErrNotFound if no quarter contains day.
	GetQuarterByDay(ctx context.Context, ext sqlx.ExtContext, day time.Time) (*domain.Quarter, error)
}

// LockRepository serializes work that must not run concurrently.
type LockRepository interface {
	// XactLock takes a transaction-scoped advisory lock on (namespace, id).
	// The lock is released when tx commits or rolls back.
	XactLock(ctx context.Context, tx *sqlx.Tx, namespace int32, id int64) error

	// TryJobLock takes a session advisory lock for a named job on a dedicated
	// connection. ok is false if another session holds it. release must be
	// called when acquired.
	TryJobLock(ctx context.Context, job string) (release func(), ok bool, err error)
}
