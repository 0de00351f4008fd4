// Package api exposes the dashboard endpoints: submit an analysis, poll its
// job, list finished reports.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
	"github.com/MikeSquared-Agency/recap/internal/report"
)

// Runner is what the server needs from the analysis pipeline.
type Runner interface {
	Run(ctx context.Context, inputPath, channelName string, window chatlog.PeriodWindow) (*report.Report, error)
}

type Server struct {
	router    *chi.Mux
	runner    Runner
	jobs      *jobStore
	outputDir string
	logger    *slog.Logger
}

func NewServer(apiToken string, runner Runner, outputDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		runner:    runner,
		jobs:      newJobStore(),
		outputDir: outputDir,
		logger:    logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/analyze", s.analyze)
		r.Get("/jobs/{id}", s.jobStatus)
		r.Get("/reports", s.listReports)
	})

	return s
}

// Handler exposes the router for embedding in an http.Server; the caller owns
// listening and shutdown.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AnalyzeRequest is the payload for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Input   string `json:"input"`
	Channel string `json:"channel,omitempty"`
	Year    int    `json:"year"`
	Quarter int    `json:"quarter,omitempty"` // 0 means the whole year
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	window := chatlog.PeriodWindow{Year: req.Year, Quarter: req.Quarter}
	if err := window.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := s.jobs.create(req.Channel, window.String())
	s.logger.Info("analysis submitted", "job", job.ID, "input", req.Input, "window", window.String())

	// The run outlives the HTTP request, so it gets its own context.
	go s.runJob(context.Background(), job.ID, req.Input, req.Channel, window)

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID.String()})
}

func (s *Server) runJob(ctx context.Context, id uuid.UUID, input, channel string, window chatlog.PeriodWindow) {
	rep, err := s.runner.Run(ctx, input, channel, window)
	if err != nil {
		s.logger.Error("analysis failed", "job", id, "error", err)
		s.jobs.fail(id, err.Error())
		return
	}
	jsonPath, err := rep.WriteJSON(s.outputDir)
	if err != nil {
		s.jobs.fail(id, err.Error())
		return
	}
	htmlPath, err := rep.WriteHTML(s.outputDir)
	if err != nil {
		s.jobs.fail(id, err.Error())
		return
	}
	s.logger.Info("analysis finished", "job", id, "json", jsonPath, "html", htmlPath)
	s.jobs.finish(id, rep, jsonPath, htmlPath)
}

func (s *Server) jobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, ok := s.jobs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	matches, err := filepath.Glob(filepath.Join(s.outputDir, "*_Report_*.json"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{"reports": names, "count": len(names)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
