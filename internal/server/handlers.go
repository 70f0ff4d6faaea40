package server

import (
	"net/http"
	"time"

	"github.com/candidatelabs/talentsync/internal/report"
	"github.com/candidatelabs/talentsync/internal/server/response"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/jobs"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.engine.Roster(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Roster load failed")
		response.InternalError(w, err)
		return
	}
	response.OK(w, map[string]any{
		"candidates": roster.List(),
		"count":      roster.Len(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	roster, err := s.engine.Roster(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Roster load failed")
		response.InternalError(w, err)
		return
	}

	format := report.Format(r.URL.Query().Get("format"))
	if format == report.FormatJSON {
		out, err := report.JSON(roster)
		if err != nil {
			response.InternalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
		return
	}

	out, err := report.Render(roster, format)
	if err != nil {
		response.BadRequest(w, "unknown report format", string(format))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleCheckIns(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"checkins": s.engine.LastCheckIns(),
	})
}

// handleJobStart launches a background job. Returns 202 with the initial
// job state, or 409 when a job of that kind is already running.
func (s *Server) handleJobStart(w http.ResponseWriter, r *http.Request) {
	kind := jobs.Kind(r.PathValue("kind"))
	if !kind.IsValid() {
		response.BadRequest(w, "unknown job kind", string(kind))
		return
	}

	// The job must outlive the request; it inherits the server logger,
	// not the request context.
	if err := s.engine.StartJob(s.jobContext(), kind); err != nil {
		if errors.IsAlreadyRunning(err) {
			response.Conflict(w, "job already running", string(kind))
			return
		}
		s.logger.Error().Err(err).Str("kind", string(kind)).Msg("Job start failed")
		response.InternalError(w, err)
		return
	}

	status, _ := s.engine.PollJob(kind)
	response.Accepted(w, status)
}

// handleJobPoll reports the latest execution state without side effects.
func (s *Server) handleJobPoll(w http.ResponseWriter, r *http.Request) {
	kind := jobs.Kind(r.PathValue("kind"))
	if !kind.IsValid() {
		response.BadRequest(w, "unknown job kind", string(kind))
		return
	}

	status, ok := s.engine.PollJob(kind)
	if !ok {
		response.NotFound(w, "job has never run", string(kind))
		return
	}
	response.OK(w, status)
}

func (s *Server) handleJobCancel(w http.ResponseWriter, r *http.Request) {
	kind := jobs.Kind(r.PathValue("kind"))
	if !kind.IsValid() {
		response.BadRequest(w, "unknown job kind", string(kind))
		return
	}

	if !s.engine.CancelJob(kind) {
		response.NotFound(w, "no running job to cancel", string(kind))
		return
	}
	response.OK(w, map[string]any{"canceled": string(kind)})
}
