package http

import (
	"fmt"
	"net/http"

	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/service"
	"github.com/YusovID/okr-service/internal/validation"
	"github.com/go-chi/chi/v5"
)

func (req resultRequest) toInput() service.ResultInput {
	return service.ResultInput{
		ObjectiveID: req.ObjectiveID,
		Result:      req.Result,
		ManualBar:   req.ManualBar,
		IssueIDs:    req.IssueIDs,
	}
}

func (s *Server) PostResults(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostResults"

	userID, err := callerID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req resultRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.svc.Results.CreateResult(r.Context(), userID, req.toInput())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]resultResponse{"result": toResultResponse(*result)})
}

func (s *Server) PutResult(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PutResult"

	userID, err := callerID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resultID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req resultRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.svc.Results.UpdateResult(r.Context(), userID, resultID, req.toInput())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]resultResponse{"result": toResultResponse(*result)})
}

func (s *Server) PostResultProgress(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostResultProgress"

	userID, err := callerID(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resultID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	direction := domain.ProgressDirection(chi.URLParam(r, "direction"))
	if direction != domain.ProgressIncrease && direction != domain.ProgressDecrease {
		s.handleServiceError(w, r, op, &validation.ValidationError{
			Errors: []string{fmt.Sprintf("direction must be '%s' or '%s'", domain.ProgressIncrease, domain.ProgressDecrease)},
		})
		return
	}

	result, err := s.svc.Results.StepProgress(r.Context(), userID, resultID, direction)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]resultResponse{"result": toResultResponse(*result)})
}
