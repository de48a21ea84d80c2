package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
)

type outlineRequest struct {
	Text       string `json:"text"`
	Title      string `json:"title,omitempty"`
	Dialect    string `json:"dialect,omitempty"`
	LanguageID string `json:"language_id,omitempty"`
}

type outlineResponse struct {
	Title     string                  `json:"title,omitempty"`
	Dialect   outline.Dialect         `json:"dialect"`
	Headings  []outline.HeadingRecord `json:"headings"`
	Lines     []string                `json:"lines"`
	WordCount int                     `json:"word_count"`
}

// resolveDialect picks the dialect for a request. An explicit dialect wins
// over a language id; with neither, the prefix dialect is used.
func resolveDialect(dialect, languageID string) (outline.Dialect, error) {
	if dialect != "" {
		return outline.ParseDialect(dialect)
	}
	d, _ := parser.DialectForLanguage(languageID)
	return d, nil
}

func buildOutline(title, text string, d outline.Dialect) outlineResponse {
	headings := outline.Extract(d, text)
	if headings == nil {
		headings = []outline.HeadingRecord{}
	}
	return outlineResponse{
		Title:     title,
		Dialect:   d,
		Headings:  headings,
		Lines:     outline.FormatList(headings),
		WordCount: outline.CountWords(text),
	}
}

// handleOutline computes an outline for text in the request body without
// tracking it.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeOutlineRequest(w, r)
	if !ok {
		return
	}
	d, err := resolveDialect(req.Dialect, req.LanguageID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, buildOutline(req.Title, parser.NormalizeNewlines(req.Text), d))
}

// handleOutlineFile computes an outline for an uploaded file.
func (s *Server) handleOutlineFile(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := s.parseFile(file, filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	d := doc.Dialect
	if v := r.FormValue("dialect"); v != "" {
		if d, err = outline.ParseDialect(v); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	title := doc.Title
	if v := r.FormValue("title"); v != "" {
		title = v
	}

	writeJSON(w, http.StatusOK, buildOutline(title, doc.Text, d))
}

func (s *Server) parseFile(f io.Reader, filename string) (*parser.Document, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}
	doc, err := p.Parse(f, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

func (s *Server) decodeOutlineRequest(w http.ResponseWriter, r *http.Request) (outlineRequest, bool) {
	var req outlineRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return req, false
		}
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
