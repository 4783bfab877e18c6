package http

import (
	"context"
	"net/http"

	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/service"
	"github.com/YusovID/okr-service/internal/validation"
	"github.com/go-chi/chi/v5"
)

func (s *Server) PostUsers(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostUsers"

	var req createUserRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	user, err := s.svc.Users.CreateUser(r.Context(), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		IsStaff:  req.IsStaff,
		Name:     req.Name,
		TeamID:   req.TeamID,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]userResponse{"user": toUserResponse(*user)})
}

func (s *Server) PostTeams(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostTeams"

	var req createTeamRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	team, err := s.svc.Teams.CreateTeam(r.Context(), req.Name)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]teamResponse{
		"team": toTeamResponse(&domain.TeamWithMembers{ID: team.ID, Name: team.Name}),
	})
}

func (s *Server) GetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetTeam"

	teamID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	team, err := s.svc.Teams.GetTeam(r.Context(), teamID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]teamResponse{"team": toTeamResponse(team)})
}

func (s *Server) PutTeamMember(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PutTeamMember"

	s.changeMembership(w, r, op, s.svc.Teams.AddMember)
}

func (s *Server) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.DeleteTeamMember"

	s.changeMembership(w, r, op, s.svc.Teams.RemoveMember)
}

func (s *Server) changeMembership(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	change func(ctx context.Context, teamID int64, username string) (*domain.TeamWithMembers, error),
) {
	teamID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	username := chi.URLParam(r, "username")
	if err := validation.ValidateStruct(struct {
		Username string `validate:"required,custom_id"`
	}{username}); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	team, err := change(r.Context(), teamID, username)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]teamResponse{"team": toTeamResponse(team)})
}

func (s *Server) PostTeamManager(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostTeamManager"

	teamID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req addManagerRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	team, err := s.svc.Teams.AddManager(r.Context(), teamID, req.UserID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]teamResponse{"team": toTeamResponse(team)})
}

func (s *Server) PostTeamEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostTeamEstimate"

	teamID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	issues, err := s.svc.Estimates.StartSession(r.Context(), teamID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"team_id": teamID,
		"cards":   domain.EstimateCards,
		"issues":  toIssueResponses(issues),
	})
}

func (s *Server) PostTeamEstimateVote(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostTeamEstimateVote"

	userID, err := callerID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	teamID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req voteRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	issue, err := s.svc.Estimates.AssignPoints(r.Context(), teamID, userID, req.IssueKey, *req.Points)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]issueResponse{"issue": toIssueResponse(*issue)})
}

func (s *Server) PostIssuesLink(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostIssuesLink"

	userID, err := callerID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req linkIssueRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	issue, created, err := s.svc.Issues.LinkIssue(r.Context(), userID, req.IssueKey)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}

	s.respond(w, code, map[string]any{"issue": toIssueResponse(*issue), "created": created})
}

func (s *Server) GetUserIssues(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetUserIssues"

	userID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	issues, err := s.svc.Issues.ListUserIssues(r.Context(), userID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, userIssuesResponse{
		Complete:   toIssueResponses(issues.Complete),
		Incomplete: toIssueResponses(issues.Incomplete),
	})
}

func (s *Server) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetUserProgress"

	userID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	progress, err := s.svc.Reports.UserProgress(r.Context(), userID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, toUserProgressResponse(progress))
}
