package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

// Document is source text ready for outline extraction.
type Document struct {
	Title   string          `json:"title"`
	Text    string          `json:"-"`
	Dialect outline.Dialect `json:"dialect"`
}

// Parser converts raw document bytes into outline-ready text.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".rst":      true,
	".adoc":     true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".txt", ".rst", ".adoc":
		return &TextParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// NormalizeNewlines rewrites CRLF and lone CR line endings to LF. The
// extractors split on '\n' only, so every text source passes through here.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// DialectForLanguage maps a host language identifier or MIME type to the
// heading dialect used by documents of that kind. ok is false for unknown
// identifiers, in which case the prefix dialect is returned.
func DialectForLanguage(languageID string) (d outline.Dialect, ok bool) {
	id := strings.ToLower(strings.TrimSpace(languageID))
	if i := strings.IndexByte(id, ';'); i >= 0 {
		id = strings.TrimSpace(id[:i])
	}
	switch id {
	case "markdown", "md", "text/markdown", "text/x-markdown", "html", "text/html":
		return outline.DialectPrefix, true
	case "restructuredtext", "rst", "text/x-rst", "asciidoc", "text/asciidoc",
		"plaintext", "text", "text/plain":
		return outline.DialectUnderline, true
	default:
		return outline.DialectPrefix, false
	}
}

func stripExt(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
