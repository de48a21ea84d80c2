package api

import (
	"net/http"
)

func (s *Server) handleExtractionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"latency":     s.tracker.Latency(),
		"queue_depth": s.tracker.QueueDepth(),
		"documents":   len(s.tracker.List()),
		"active":      s.tracker.ActiveID(),
	})
}
