// Package server provides the HTTP surface for triggering and polling
// reconciliation jobs and reading the reconciled roster.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/candidatelabs/talentsync"
	"github.com/candidatelabs/talentsync/pkg/logging"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine talentsync.TalentSync
	logger *zerolog.Logger
	addr   string
	http   *http.Server
}

// New creates a server exposing the engine on addr.
func New(engine talentsync.TalentSync, addr string, logger *zerolog.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		addr:   addr,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("HTTP server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.engine.Wait()
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// jobContext is the context background jobs inherit. Jobs outlive the
// triggering request, so this derives from the process, not the request.
func (s *Server) jobContext() context.Context {
	return logging.WithLogger(context.Background(), s.logger)
}

// routes builds the request mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/v1/roster", s.handleRoster)
	mux.HandleFunc("GET /api/v1/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/checkins", s.handleCheckIns)
	mux.HandleFunc("POST /api/v1/jobs/{kind}", s.handleJobStart)
	mux.HandleFunc("GET /api/v1/jobs/{kind}", s.handleJobPoll)
	mux.HandleFunc("DELETE /api/v1/jobs/{kind}", s.handleJobCancel)

	return s.withLogging(mux)
}

// withLogging attaches the server logger to each request context and logs
// completions.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithLogger(r.Context(), s.logger)
		next.ServeHTTP(w, r.WithContext(ctx))
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	})
}
