package api

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/workspace"
)

const lineAnchorPrefix = "#L"

var panelMarkdown = goldmark.New(
	goldmark.WithParserOptions(
		gmparser.WithASTTransformers(util.Prioritized(lineAttrTransformer{}, 100)),
	),
)

// lineAttrTransformer tags outline links with the zero-based source line they
// point at, so a host can navigate without parsing the href.
type lineAttrTransformer struct{}

func (lineAttrTransformer) Transform(doc *ast.Document, _ text.Reader, _ gmparser.Context) {
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if line, ok := strings.CutPrefix(string(link.Destination), lineAnchorPrefix); ok {
			if _, err := strconv.Atoi(line); err == nil {
				link.SetAttributeString("data-line", []byte(line))
			}
		}
		return ast.WalkContinue, nil
	})
}

// panelSource builds the markdown list behind the panel. Nesting follows
// outline.Depths so skipped levels still produce a well-formed list.
func panelSource(records []outline.HeadingRecord) string {
	var b strings.Builder
	for i, depth := range outline.Depths(records) {
		r := records[i]
		fmt.Fprintf(&b, "%s- [%s](%s%d)\n", strings.Repeat("  ", depth), escapeMarkdown(r.Title), lineAnchorPrefix, r.Line)
	}
	return b.String()
}

func renderPanel(v workspace.View) ([]byte, error) {
	var body bytes.Buffer
	if err := panelMarkdown.Convert([]byte(panelSource(v.Headings)), &body); err != nil {
		return nil, fmt.Errorf("convert outline: %w", err)
	}

	title := v.Title
	if title == "" {
		title = v.DocID
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html>\n<html>\n<head><meta charset=\"utf-8\"><title>Outline</title></head>\n<body>\n")
	if title != "" {
		fmt.Fprintf(&page, "<h1>%s</h1>\n", html.EscapeString(title))
	}
	page.Write(body.Bytes())
	fmt.Fprintf(&page, "<p class=\"word-count\">Word count: %d</p>\n", v.WordCount)
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`&`, `\&`,
	`!`, `\!`,
)

// escapeMarkdown makes a heading title safe to use as link text.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
