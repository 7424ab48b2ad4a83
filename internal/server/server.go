// Package server exposes analysis, reports, chat and feedback over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"scholarcheck/internal/explainer"
	"scholarcheck/internal/feedback"
	"scholarcheck/internal/pipeline"
)

const defaultMaxUpload = 25 << 20

type Options struct {
	Addr           string
	Workspace      string
	DBPath         string
	AllowedOrigins []string
	MaxUploadBytes int64
	CachedReports  int // in-memory reports kept in front of the db
}

type Server struct {
	opts     Options
	analyzer *pipeline.Analyzer
	sessions *explainer.Sessions
	feedback feedback.Sink
	log      zerolog.Logger

	reports *reportCache

	srv *http.Server
}

func New(opts Options, analyzer *pipeline.Analyzer, sessions *explainer.Sessions, sink feedback.Sink, log zerolog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if sessions == nil {
		sessions = explainer.NewSessions(nil)
	}
	s := &Server{
		opts:     opts,
		analyzer: analyzer,
		sessions: sessions,
		feedback: sink,
		log:      log.With().Str("component", "http").Logger(),
		reports:  newReportCache(opts.CachedReports),
	}
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the router with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		recoverJSON(s.log),
		accessLog(s.log, 5*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		}),
		middleware.NoCache,
	)

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/reports/{id}", s.handleReport)
	r.Get("/chat/greeting", s.handleGreeting)
	r.Post("/chat", s.handleChat)
	r.Post("/feedback", s.handleFeedback)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, errStatus(http.StatusNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, errStatus(http.StatusMethodNotAllowed, "method not allowed"))
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.sweepSessions(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("http listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("http shutting down")
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweepSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Evict(); n > 0 {
				s.log.Debug().Int("evicted", n).Msg("idle chat sessions evicted")
			}
		}
	}
}
