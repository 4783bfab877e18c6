// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service methods,
// and encodes the responses.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/jobs"
	"github.com/YusovID/okr-service/internal/service"
	"github.com/YusovID/okr-service/internal/validation"
	"github.com/YusovID/okr-service/pkg/logger/sl"
	"github.com/YusovID/okr-service/swagger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// JobRunner runs the periodic jobs on demand.
type JobRunner interface {
	Sync(ctx context.Context) (*domain.SyncReport, error)
	Recompute(ctx context.Context) error
}

// Services groups the use cases exposed over HTTP.
type Services struct {
	Teams     service.TeamService
	Users     service.UserService
	Results   service.ResultService
	Issues    service.IssueService
	Estimates service.EstimateService
	Reports   service.ReportService
	Rollup    service.RollupService
	Jobs      JobRunner
}

// Server holds the dependencies for the HTTP server, including the logger and service interfaces.
type Server struct {
	log        *slog.Logger
	adminToken string
	svc        Services
}

func NewServer(log *slog.Logger, adminToken string, svc Services) *Server {
	return &Server{
		log:        log,
		adminToken: adminToken,
		svc:        svc,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	swaggerHandler, err := swagger.GetHandler()
	if err != nil {
		s.log.Error("failed to get swagger handler", sl.Err(err))
	} else {
		mux.Mount("/swagger", http.StripPrefix("/swagger", swaggerHandler))
	}

	mux.Handle("/metrics", promhttp.Handler())

	mux.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)

		r.Post("/jobs/sync", s.PostJobsSync)
		r.Post("/jobs/recompute", s.PostJobsRecompute)
		r.Post("/global-key-results/{id}/recompute", s.PostGlobalKeyResultRecompute)
	})

	mux.Post("/users", s.PostUsers)
	mux.Get("/users/{id}/issues", s.GetUserIssues)
	mux.Get("/users/{id}/progress", s.GetUserProgress)

	mux.Route("/teams", func(r chi.Router) {
		r.Post("/", s.PostTeams)
		r.Get("/{id}", s.GetTeam)
		r.Put("/{id}/members/{username}", s.PutTeamMember)
		r.Delete("/{id}/members/{username}", s.DeleteTeamMember)
		r.Post("/{id}/managers", s.PostTeamManager)
		r.Post("/{id}/estimate", s.PostTeamEstimate)
		r.Post("/{id}/estimate/votes", s.PostTeamEstimateVote)
	})

	mux.Route("/results", func(r chi.Router) {
		r.Post("/", s.PostResults)
		r.Put("/{id}", s.PutResult)
		r.Post("/{id}/progress/{direction}", s.PostResultProgress)
	})

	mux.Post("/issues/link", s.PostIssuesLink)

	return mux
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// respondAPIError sends an error with a machine readable code.
func (s *Server) respondAPIError(w http.ResponseWriter, code int, apiCode errorCode, message string) {
	s.respond(w, code, errorResponse{Error: errorBody{Code: apiCode, Message: message}})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v any) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v any) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op), slog.String("request_id", getRequestID(r.Context())))

	var (
		validationErr *validation.ValidationError
		submissionErr *apperrors.SubmissionError
		connErr       *apperrors.ConnectionError
		teamExistsErr *apperrors.TeamAlreadyExistsError
		userExistsErr *apperrors.UserAlreadyExistsError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn("request rejected", sl.Err(err))
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.As(err, &submissionErr):
		log.Warn("submission rejected", sl.Err(err))
		s.respondAPIError(w, http.StatusBadRequest, codeInvalidSubmission, submissionErr.Message)
	case errors.Is(err, apperrors.ErrInvalidRequest):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrValidation):
		log.Warn("request rejected", sl.Err(err))
		s.respondAPIError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.As(err, &connErr):
		log.Error("issue tracker unavailable", sl.Err(err))
		s.respondAPIError(w, http.StatusServiceUnavailable, codeTrackerUnavailable, apperrors.ErrConnection.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		s.respondAPIError(w, http.StatusUnauthorized, codeUnauthorized, apperrors.ErrUnauthorized.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("forbidden", sl.Err(err))
		s.respondAPIError(w, http.StatusForbidden, codeForbidden, apperrors.ErrForbidden.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondAPIError(w, http.StatusNotFound, codeNotFound, "resource not found")
	case errors.As(err, &teamExistsErr):
		s.respondAPIError(w, http.StatusConflict, codeTeamExists, "team with this name already exists")
	case errors.As(err, &userExistsErr):
		s.respondAPIError(w, http.StatusConflict, codeUserExists, "user with this username already exists")
	case errors.Is(err, apperrors.ErrNotManual):
		s.respondAPIError(w, http.StatusConflict, codeNotManual, apperrors.ErrNotManual.Error())
	case errors.Is(err, apperrors.ErrProgressAtMax):
		s.respondAPIError(w, http.StatusConflict, codeProgressAtMax, apperrors.ErrProgressAtMax.Error())
	case errors.Is(err, apperrors.ErrProgressAtMin):
		s.respondAPIError(w, http.StatusConflict, codeProgressAtMin, apperrors.ErrProgressAtMin.Error())
	case errors.Is(err, apperrors.ErrNoSession):
		s.respondAPIError(w, http.StatusConflict, codeNoSession, apperrors.ErrNoSession.Error())
	case errors.Is(err, apperrors.ErrIssueNotInSession):
		s.respondAPIError(w, http.StatusConflict, codeNotInSession, apperrors.ErrIssueNotInSession.Error())
	case errors.Is(err, jobs.ErrJobRunning):
		s.respondAPIError(w, http.StatusConflict, codeJobRunning, jobs.ErrJobRunning.Error())
	default:
		log.Error("service error occurred", sl.Err(err))
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
