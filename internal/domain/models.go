package domain

import (
	"fmt"
	"time"
)

type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	IsStaff   bool      `db:"is_staff"`
	CreatedAt time.Time `db:"created_at"`
}

// Profile is created together with its user. The gamification counters are
// stored but not used by any roll-up logic.
type Profile struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Name   string `db:"name"`
	Coins  int    `db:"coins"`
	Gems   int    `db:"gems"`
	Karma  int    `db:"karma"`
	Energy int    `db:"energy"`
	XP     int    `db:"xp"`
	Rights int    `db:"rights"`
	TeamID *int64 `db:"team_id"`
}

type Team struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type TeamWithMembers struct {
	ID        int64
	Name      string
	ManagerID *int64
	Members   []User
}

type Manager struct {
	ID        int64     `db:"id"`
	TeamID    int64     `db:"team_id"`
	ManagerID int64     `db:"manager_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Quarter struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

// Contains reports whether day falls inside the quarter, both ends included.
func (q Quarter) Contains(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(q.StartDate)) && !d.After(truncateDay(q.EndDate))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type GlobalObjective struct {
	ID        int64  `db:"id"`
	QuarterID int64  `db:"quarter_id"`
	UserID    *int64 `db:"user_id"`
	Objective string `db:"objective"`
}

func (g GlobalObjective) Key() string { return displayKey("GOKR", g.ID) }

type GlobalKeyResult struct {
	ID                int64   `db:"id"`
	GlobalObjectiveID int64   `db:"global_objective_id"`
	KeyResult         string  `db:"key_result"`
	Percentage        float64 `db:"percentage"`
}

func (g GlobalKeyResult) Key() string { return displayKey("GRST", g.ID) }

type Objective struct {
	ID                int64   `db:"id"`
	GlobalKeyResultID int64   `db:"global_key_result_id"`
	UserID            int64   `db:"user_id"`
	Objective         string  `db:"objective"`
	Percentage        float64 `db:"percentage"`
}

func (o Objective) Key() string { return displayKey("OKR", o.ID) }

// Result is a user's key result. OwnerID is the owner of the parent
// objective and is filled by joins, it is not a column of results.
type Result struct {
	ID          int64   `db:"id"`
	ObjectiveID int64   `db:"objective_id"`
	OwnerID     int64   `db:"owner_id"`
	Result      string  `db:"result"`
	ManualBar   bool    `db:"manual_bar"`
	Percentage  float64 `db:"percentage"`
	IssueIDs    []int64 `db:"-"`
}

func (r Result) Key() string { return displayKey("RST", r.ID) }

func (r Result) IsComplete() bool { return r.Percentage >= 100 }

type Issue struct {
	ID          int64     `db:"id"`
	Key         string    `db:"key"`
	Priority    Priority  `db:"priority"`
	Status      bool      `db:"status"`
	Type        IssueType `db:"type"`
	Summary     string    `db:"summary"`
	StoryPoints float64   `db:"story_points"`
	UserID      *int64    `db:"user_id"`
}

// UserIssues splits a user's issues by status.
type UserIssues struct {
	Complete   []Issue
	Incomplete []Issue
}

type Activity struct {
	ID        int64        `db:"id"`
	Type      ActivityType `db:"type"`
	UserID    *int64       `db:"user_id"`
	Public    bool         `db:"public"`
	Data      string       `db:"data"`
	CreatedAt time.Time    `db:"created_at"`
}

type EstimateVote struct {
	ID        int64     `db:"id"`
	IssueID   int64     `db:"issue_id"`
	UserID    int64     `db:"user_id"`
	Value     float64   `db:"value"`
	CreatedAt time.Time `db:"created_at"`
}

// ExternalIssue is a ticket as returned by the issue tracker. Nil fields were
// absent in the tracker response.
type ExternalIssue struct {
	Key       string
	Assignee  *string
	Priority  *string
	Status    *string
	IssueType *string
	Summary   *string
}

// IssueStats counts the issues linked to a key result.
type IssueStats struct {
	Total     int `db:"total"`
	Completed int `db:"completed"`
}

type SyncReport struct {
	Batches       int
	FailedBatches int
	Fetched       int
	Updated       int
	Completed     int
	Skipped       int
	FailedRecords int
	Failures      []FieldFailure
}

type HierarchyReport struct {
	GlobalKeyResultID int64
	Percentage        float64
	Objectives        int
	Results           int
}

type ObjectiveProgress struct {
	Objective Objective
	Results   []Result
}

// IsComplete is true when the objective has key results and all of them are
// at 100%.
func (o ObjectiveProgress) IsComplete() bool {
	if len(o.Results) == 0 {
		return false
	}

	for _, r := range o.Results {
		if !r.IsComplete() {
			return false
		}
	}

	return true
}

type UserProgress struct {
	UserID     int64
	Quarter    *Quarter
	Percentage float64
	Objectives []ObjectiveProgress
}

func displayKey(prefix string, id int64) string {
	return fmt.Sprintf("%s-%03d", prefix, id)
}
