package web

import (
	"net/http"

	"github.com/JonMunkholm/xlselect/internal/core"
)

// handleStatus reports service health and ingest slot usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:   "ok",
		Sessions: s.service.SessionCount(),
		Ingests:  s.service.LimiterStatus(),
	})
}

// handleCreateSession starts a session with no document.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := withRequestMetadata(r.Context(), r)

	id, err := s.service.CreateSession(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	info, err := s.service.Session(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Session(sessionID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(r.Context(), sessionID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireDocument returns core.ErrNoDocument if e has nothing loaded.
func requireDocument(e *core.Engine) error {
	if e.Document() == nil {
		return core.ErrNoDocument
	}
	return nil
}
