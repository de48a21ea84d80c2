package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docoutline/internal/workspace"
)

// handleSetActive switches the document shown in the panel. An empty doc_id
// clears the panel.
func (s *Server) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocID string `json:"doc_id"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.tracker.SetActive(req.DocID); err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Active())
}

// handleGetActive returns the current panel view.
func (s *Server) handleGetActive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Active())
}

// handleActivePanel renders the current panel view as an HTML fragment page.
func (s *Server) handleActivePanel(w http.ResponseWriter, r *http.Request) {
	page, err := renderPanel(s.tracker.Active())
	if err != nil {
		s.log.Error("render panel", "error", err)
		jsonError(w, "failed to render panel", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
