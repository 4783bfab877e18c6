package http

type createUserRequest struct {
	Username string `json:"username" validate:"required,custom_id,min=2,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	IsStaff  bool   `json:"is_staff"`
	TeamID   *int64 `json:"team_id" validate:"omitempty,gt=0"`
}

type createTeamRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type addManagerRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type resultRequest struct {
	ObjectiveID int64   `json:"objective_id" validate:"required,gt=0"`
	Result      string  `json:"result" validate:"required,min=1,max=255"`
	ManualBar   bool    `json:"manual_bar"`
	IssueIDs    []int64 `json:"issue_ids" validate:"omitempty,dive,gt=0"`
}

type linkIssueRequest struct {
	IssueKey string `json:"issue_key" validate:"required,issue_key"`
}

type voteRequest struct {
	IssueKey string   `json:"issue_key" validate:"required,issue_key"`
	Points   *float64 `json:"points" validate:"required"`
}
