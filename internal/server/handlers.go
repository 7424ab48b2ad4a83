package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"scholarcheck/internal/db"
	"scholarcheck/internal/explainer"
	"scholarcheck/internal/feedback"
	"scholarcheck/internal/pipeline"
	"scholarcheck/internal/report"
	"scholarcheck/internal/workspace"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, errStatus(http.StatusRequestEntityTooLarge, "upload too large"))
			return
		}
		respondError(w, r, errStatus(http.StatusBadRequest, "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, errStatus(http.StatusBadRequest, "read upload: "+err.Error()))
		return
	}
	sub, err := workspace.CreateSubmission(s.opts.Workspace, hdr.Filename, data)
	if err != nil {
		s.log.Error().Err(err).Msg("store upload")
		respondError(w, r, err)
		return
	}

	rep, err := s.analyzer.AnalyzeFile(r.Context(), sub.SourcePath)
	if err != nil {
		var ee *pipeline.ExtractionError
		if errors.As(err, &ee) {
			respondError(w, r, errStatus(http.StatusUnprocessableEntity, ee.Detail))
			return
		}
		respondError(w, r, err)
		return
	}
	rep.File = filepath.Base(sub.SourcePath)
	s.store(rep)
	respondOK(w, r, rep)
}

// store caches rep and persists it; persistence failures are logged only.
func (s *Server) store(rep *report.AnalysisReport) {
	s.reports.put(rep)

	if s.opts.DBPath != "" {
		if err := db.PersistReport(s.opts.DBPath, rep); err != nil {
			s.log.Error().Err(err).Str("id", rep.ID).Msg("persist report")
		}
	}
	if s.opts.Workspace != "" {
		if err := report.Save(workspace.ReportPath(s.opts.Workspace, rep.ID), rep); err != nil {
			s.log.Error().Err(err).Str("id", rep.ID).Msg("save report file")
		}
	}
}

func (s *Server) lookup(id string) (*report.AnalysisReport, error) {
	if rep, ok := s.reports.get(id); ok {
		return rep, nil
	}
	if s.opts.DBPath == "" {
		return nil, errStatus(http.StatusNotFound, "report not found")
	}
	rep, err := db.LoadReport(s.opts.DBPath, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, errStatus(http.StatusNotFound, "report not found")
	}
	if err != nil {
		return nil, err
	}
	s.reports.put(rep)
	return rep, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, r, rep)
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]string{"message": explainer.Greeting()})
}

type chatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	Message   string `json:"message" validate:"required,max=4000"`
	ReportID  string `json:"report_id" validate:"omitempty,max=128"`
}

type chatResponse struct {
	SessionID string             `json:"session_id"`
	Response  explainer.Response `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[chatRequest](r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var analysis *report.AnalysisReport
	if req.ReportID != "" {
		if analysis, err = s.lookup(req.ReportID); err != nil {
			respondError(w, r, err)
			return
		}
	}
	id, resp := s.sessions.Chat(req.SessionID, req.Message, analysis)
	respondOK(w, r, chatResponse{SessionID: id, Response: resp})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := decodeJSON[feedback.Feedback](r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if s.feedback == nil {
		respondError(w, r, errStatus(http.StatusServiceUnavailable, "feedback is not enabled"))
		return
	}
	switch err := s.feedback.Submit(fb); {
	case errors.Is(err, feedback.ErrInvalid):
		respondError(w, r, errStatus(http.StatusBadRequest, err.Error()))
		return
	case errors.Is(err, feedback.ErrClosed):
		respondError(w, r, errStatus(http.StatusServiceUnavailable, err.Error()))
		return
	case err != nil:
		respondError(w, r, err)
		return
	}
	respondOK(w, r, map[string]string{"status": "received", "message": feedback.Received})
}
