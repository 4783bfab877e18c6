package http

import (
	"time"

	"github.com/YusovID/okr-service/internal/domain"
)

type errorCode string

const (
	codeValidation         errorCode = "VALIDATION_FAILED"
	codeInvalidSubmission  errorCode = "INVALID_SUBMISSION"
	codeUnauthorized       errorCode = "UNAUTHORIZED"
	codeForbidden          errorCode = "FORBIDDEN"
	codeNotFound           errorCode = "NOT_FOUND"
	codeTeamExists         errorCode = "TEAM_EXISTS"
	codeUserExists         errorCode = "USER_EXISTS"
	codeNotManual          errorCode = "NOT_MANUAL"
	codeProgressAtMax      errorCode = "PROGRESS_AT_MAX"
	codeProgressAtMin      errorCode = "PROGRESS_AT_MIN"
	codeNoSession          errorCode = "NO_SESSION"
	codeNotInSession       errorCode = "NOT_IN_SESSION"
	codeJobRunning         errorCode = "JOB_RUNNING"
	codeTrackerUnavailable errorCode = "TRACKER_UNAVAILABLE"
)

type errorBody struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsStaff: u.IsStaff}
}

type teamResponse struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	ManagerID *int64         `json:"manager_id"`
	Members   []userResponse `json:"members"`
}

func toTeamResponse(t *domain.TeamWithMembers) teamResponse {
	members := make([]userResponse, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, toUserResponse(m))
	}

	return teamResponse{ID: t.ID, Name: t.Name, ManagerID: t.ManagerID, Members: members}
}

type resultResponse struct {
	ID          int64   `json:"id"`
	Key         string  `json:"key"`
	ObjectiveID int64   `json:"objective_id"`
	Result      string  `json:"result"`
	ManualBar   bool    `json:"manual_bar"`
	Percentage  float64 `json:"percentage"`
	IssueIDs    []int64 `json:"issue_ids"`
}

func toResultResponse(r domain.Result) resultResponse {
	ids := r.IssueIDs
	if ids == nil {
		ids = []int64{}
	}

	return resultResponse{
		ID:          r.ID,
		Key:         r.Key(),
		ObjectiveID: r.ObjectiveID,
		Result:      r.Result,
		ManualBar:   r.ManualBar,
		Percentage:  r.Percentage,
		IssueIDs:    ids,
	}
}

type issueResponse struct {
	ID          int64   `json:"id"`
	Key         string  `json:"key"`
	Summary     string  `json:"summary"`
	Priority    string  `json:"priority"`
	Type        string  `json:"type"`
	Done        bool    `json:"done"`
	StoryPoints float64 `json:"story_points"`
	UserID      *int64  `json:"user_id"`
}

func toIssueResponse(i domain.Issue) issueResponse {
	return issueResponse{
		ID:          i.ID,
		Key:         i.Key,
		Summary:     i.Summary,
		Priority:    string(i.Priority),
		Type:        string(i.Type),
		Done:        i.Status,
		StoryPoints: i.StoryPoints,
		UserID:      i.UserID,
	}
}

func toIssueResponses(issues []domain.Issue) []issueResponse {
	out := make([]issueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, toIssueResponse(i))
	}

	return out
}

type userIssuesResponse struct {
	Complete   []issueResponse `json:"complete"`
	Incomplete []issueResponse `json:"incomplete"`
}

type quarterResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type objectiveProgressResponse struct {
	ID         int64            `json:"id"`
	Key        string           `json:"key"`
	Objective  string           `json:"objective"`
	Percentage float64          `json:"percentage"`
	Complete   bool             `json:"complete"`
	Results    []resultResponse `json:"results"`
}

type userProgressResponse struct {
	UserID     int64                       `json:"user_id"`
	Quarter    *quarterResponse            `json:"quarter"`
	Percentage float64                     `json:"percentage"`
	Objectives []objectiveProgressResponse `json:"objectives"`
}

func toUserProgressResponse(p *domain.UserProgress) userProgressResponse {
	resp := userProgressResponse{
		UserID:     p.UserID,
		Percentage: p.Percentage,
		Objectives: make([]objectiveProgressResponse, 0, len(p.Objectives)),
	}

	if p.Quarter != nil {
		resp.Quarter = &quarterResponse{
			ID:        p.Quarter.ID,
			Name:      p.Quarter.Name,
			StartDate: p.Quarter.StartDate.Format(time.DateOnly),
			EndDate:   p.Quarter.EndDate.Format(time.DateOnly),
		}
	}

	for _, o := range p.Objectives {
		results := make([]resultResponse, 0, len(o.Results))
		for _, r := range o.Results {
			results = append(results, toResultResponse(r))
		}

		resp.Objectives = append(resp.Objectives, objectiveProgressResponse{
			ID:         o.Objective.ID,
			Key:        o.Objective.Key(),
			Objective:  o.Objective.Objective,
			Percentage: o.Objective.Percentage,
			Complete:   o.IsComplete(),
			Results:    results,
		})
	}

	return resp
}

type fieldFailureResponse struct {
	IssueKey string `json:"issue_key"`
	Field    string `json:"field"`
	Kind     string `json:"kind"`
	Value    string `json:"value"`
}

type syncReportResponse struct {
	Batches       int                    `json:"batches"`
	FailedBatches int                    `json:"failed_batches"`
	Fetched       int                    `json:"fetched"`
	Updated       int                    `json:"updated"`
	Completed     int                    `json:"completed"`
	Skipped       int                    `json:"skipped"`
	FailedRecords int                    `json:"failed_records"`
	Failures      []fieldFailureResponse `json:"failures"`
}

func toSyncReportResponse(r *domain.SyncReport) syncReportResponse {
	failures := make([]fieldFailureResponse, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, fieldFailureResponse{
			IssueKey: f.IssueKey,
			Field:    f.Field,
			Kind:     string(f.Kind),
			Value:    f.Value,
		})
	}

	return syncReportResponse{
		Batches:       r.Batches,
		FailedBatches: r.FailedBatches,
		Fetched:       r.Fetched,
		Updated:       r.Updated,
		Completed:     r.Completed,
		Skipped:       r.Skipped,
		FailedRecords: r.FailedRecords,
		Failures:      failures,
	}
}

type hierarchyReportResponse struct {
	GlobalKeyResultID int64   `json:"global_key_result_id"`
	Percentage        float64 `json:"percentage"`
	Objectives        int     `json:"objectives"`
	Results           int     `json:"results"`
}
