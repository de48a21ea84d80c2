// Package outline extracts heading outlines and word counts from document text.
//
// Every function here is a pure transformation of its input string. Nothing is
// cached between calls and each call returns a freshly allocated slice.
package outline

import (
	"fmt"
	"strings"
)

// HeadingRecord is one recognized heading.
type HeadingRecord struct {
	Title string `json:"title"`
	Line  int    `json:"line"`  // zero-based line of the title text
	Level int    `json:"level"` // 1 is the most significant
}

// Dialect selects the heading convention a document uses.
type Dialect int

const (
	// DialectPrefix recognizes "# Title" style headings.
	DialectPrefix Dialect = iota
	// DialectUnderline recognizes a title line followed by a "====" style line.
	DialectUnderline
)

func (d Dialect) String() string {
	switch d {
	case DialectPrefix:
		return "prefix"
	case DialectUnderline:
		return "underline"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// MarshalText lets Dialect appear as a string in JSON bodies.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Dialect) UnmarshalText(b []byte) error {
	parsed, err := ParseDialect(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDialect accepts the dialect names used in config, flags and requests.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix", "atx", "markdown", "md":
		return DialectPrefix, nil
	case "underline", "setext":
		return DialectUnderline, nil
	default:
		return DialectPrefix, fmt.Errorf("unknown dialect: %q", s)
	}
}

// Extract runs the extractor for the given dialect.
func Extract(d Dialect, text string) []HeadingRecord {
	switch d {
	case DialectUnderline:
		return ExtractUnderline(text)
	default:
		return ExtractPrefix(text)
	}
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
