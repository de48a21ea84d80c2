package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

// TextParser handles plain text, reStructuredText and AsciiDoc-style files,
// whose section titles are underlined.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// bufio.ScanLines drops a trailing '\r', which normalizes CRLF input.
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Document{
		Title:   stripExt(filename),
		Text:    NormalizeNewlines(strings.Join(lines, "\n")),
		Dialect: outline.DialectUnderline,
	}, nil
}
