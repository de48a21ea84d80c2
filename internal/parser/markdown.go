package parser

import (
	"bytes"
	"io"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The dialect is chosen by counting
// which heading style the document actually uses.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body := NormalizeNewlines(string(src))

	return &Document{
		Title:   stripExt(filename),
		Text:    body,
		Dialect: DetectDialect([]byte(body)),
	}, nil
}

// DetectDialect parses src with goldmark and returns DialectUnderline when
// setext headings outnumber ATX headings, DialectPrefix otherwise.
func DetectDialect(src []byte) outline.Dialect {
	atx, setext := countHeadingStyles(src)
	if setext > atx {
		return outline.DialectUnderline
	}
	return outline.DialectPrefix
}

func countHeadingStyles(src []byte) (atx, setext int) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			// Empty ATX heading such as a lone "#".
			atx++
			return ast.WalkSkipChildren, nil
		}
		if isATXLine(lineAt(src, lines.At(0).Start)) {
			atx++
		} else {
			setext++
		}
		return ast.WalkSkipChildren, nil
	})
	return atx, setext
}

// lineAt returns the full source line containing offset.
func lineAt(src []byte, offset int) []byte {
	if offset > len(src) {
		offset = len(src)
	}
	start := bytes.LastIndexByte(src[:offset], '\n') + 1
	end := bytes.IndexByte(src[offset:], '\n')
	if end < 0 {
		return src[start:]
	}
	return src[start : offset+end]
}

// isATXLine reports whether line opens with an ATX marker, ignoring
// indentation and blockquote markers.
func isATXLine(line []byte) bool {
	line = bytes.TrimLeft(line, " \t>")
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return false
	}
	return n == len(line) || line[n] == ' ' || line[n] == '\t'
}
