package http

import (
	"net/http"
)

func (s *Server) PostJobsSync(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostJobsSync"

	report, err := s.svc.Jobs.Sync(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]syncReportResponse{"report": toSyncReportResponse(report)})
}

func (s *Server) PostJobsRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostJobsRecompute"

	if err := s.svc.Jobs.Recompute(r.Context()); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "done"})
}

func (s *Server) PostGlobalKeyResultRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostGlobalKeyResultRecompute"

	gkrID, err := pathID(r, "id")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	report, err := s.svc.Rollup.RecomputeHierarchy(r.Context(), gkrID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]hierarchyReportResponse{"report": {
		GlobalKeyResultID: report.GlobalKeyResultID,
		Percentage:        report.Percentage,
		Objectives:        report.Objectives,
		Results:           report.Results,
	}})
}
