package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/sections"
	"github.com/dgallion1/docoutline/internal/workspace"
	"github.com/go-chi/chi/v5"
)

// handlePutDocument records a new full text for a tracked document. The
// outline is recomputed asynchronously; the response carries the revision
// the change was assigned.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	req, ok := s.decodeOutlineRequest(w, r)
	if !ok {
		return
	}
	d, err := resolveDialect(req.Dialect, req.LanguageID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rev, err := s.tracker.Submit(workspace.Change{
		DocID:   docID,
		Title:   req.Title,
		Text:    req.Text,
		Dialect: d,
	})
	if err != nil {
		if errors.Is(err, workspace.ErrQueueFull) || errors.Is(err, workspace.ErrStopped) {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"doc_id":   docID,
		"revision": rev,
		"poll_url": fmt.Sprintf("/api/documents/%s", docID),
	})
}

// handleListDocuments lists all tracked documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": s.tracker.List(),
		"active":    s.tracker.ActiveID(),
	})
}

// handleGetDocument returns the latest applied outline of a document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tracker.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if notModified(w, r, snap) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document": snap,
		"lines":    outline.FormatList(snap.Headings),
	})
}

// handleDeleteDocument stops tracking a document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.tracker.Delete(docID); err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}

// handleDocumentSections splits a document at its headings.
func (s *Server) handleDocumentSections(w http.ResponseWriter, r *http.Request) {
	snap, text, err := s.tracker.Content(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if notModified(w, r, snap) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":   snap.ID,
		"revision": snap.Revision,
		"sections": sections.Split(text, snap.Headings),
	})
}

// handleDocumentTree returns the headings of a document nested by level.
func (s *Server) handleDocumentTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tracker.Get(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if notModified(w, r, snap) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":   snap.ID,
		"revision": snap.Revision,
		"tree":     doctree.Build(snap.Title, snap.Headings),
	})
}

// notModified sets the ETag for snap and reports whether the client already
// holds it. The tag covers the applied revision, its text and the dialect it
// was read with; a title-only edit still produces a new revision.
func notModified(w http.ResponseWriter, r *http.Request, snap workspace.Snapshot) bool {
	if snap.ContentHash == "" {
		return false
	}
	etag := fmt.Sprintf(`"%s-%d-%s"`, snap.ContentHash[:16], snap.Revision, snap.Dialect)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}
