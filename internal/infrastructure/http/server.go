// Package httpserver carries the thin HTTP route handlers. They only
// parse query parameters, call into the application service and shape
// the JSON response; nothing here touches providers or the store
// directly.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"token-portfolio/internal/application"
)

type Server struct {
	svc *application.PortfolioService
	env map[string]any
	loc *time.Location
	log *zap.Logger
}

func NewServer(svc *application.PortfolioService, env map[string]any, loc *time.Location, log *zap.Logger) *Server {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, env: env, loc: loc, log: log}
}

// Daily returns the priced rows for one set. The read path never fails:
// whatever goes wrong internally degrades to zeroed rows inside the
// service, and the response stays 200.
func (s *Server) Daily(w http.ResponseWriter, r *http.Request) {
	setID := r.URL.Query().Get("set")
	res := s.svc.Daily(r.Context(), setID)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, res)
}

type refreshResponse struct {
	OK bool `json:"ok"`
	application.RefreshResult
}

// Refresh runs the batch refresher for a set (or "all"), optionally
// gated by a scheduled-occasion tag.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	setID := r.URL.Query().Get("set")
	occasion := r.URL.Query().Get("occasion")

	res, err := s.svc.Refresh(r.Context(), setID, occasion)
	if err != nil {
		if errors.Is(err, application.ErrUnknownBucket) || errors.Is(err, application.ErrBadOccasion) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{OK: true, RefreshResult: res})
}

type diagResponse struct {
	OK bool `json:"ok"`
	application.DiagResult
}

// Diag probes one symbol and summarizes configuration; unlike the daily
// path it is allowed to surface internal detail, that is its job.
func (s *Server) Diag(w http.ResponseWriter, r *http.Request) {
	setID := r.URL.Query().Get("set")
	res := s.svc.Diag(r.Context(), setID, s.env, time.Now().In(s.loc).Format(time.RFC3339))
	writeJSON(w, http.StatusOK, diagResponse{OK: true, DiagResult: res})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
