// Package sections splits a document into heading-owned line ranges with
// breadcrumbs and per-section word counts.
package sections

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
)

// Split partitions text into sections using the given heading records, which
// must come from an extractor run over the same text. Each heading owns the
// lines from its own line up to the line before the next heading. Lines above
// the first heading form an untitled preamble, emitted only when it holds
// words. Section word counts add up to outline.CountWords(text).
func Split(text string, records []outline.HeadingRecord) []doctree.Section {
	lines := strings.Split(text, "\n")
	out := make([]doctree.Section, 0, len(records)+1)

	first := len(lines)
	if len(records) > 0 {
		first = records[0].Line
	}
	if first > 0 {
		if words := countLines(lines, 0, first-1); words > 0 {
			out = append(out, doctree.Section{
				Breadcrumb: []string{},
				LineStart:  0,
				LineEnd:    first - 1,
				Words:      words,
			})
		}
	}

	var stack []crumb

	for i, r := range records {
		if r.Line < 0 || r.Line >= len(lines) {
			continue
		}
		end := len(lines) - 1
		if i+1 < len(records) && records[i+1].Line-1 < end {
			end = records[i+1].Line - 1
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= r.Level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, crumb{title: r.Title, level: r.Level})

		out = append(out, doctree.Section{
			Title:      r.Title,
			Level:      r.Level,
			Breadcrumb: breadcrumb(stack),
			LineStart:  r.Line,
			LineEnd:    end,
			Words:      countLines(lines, r.Line, end),
		})
	}

	return out
}

func countLines(lines []string, start, end int) int {
	n := 0
	for i := start; i <= end && i < len(lines); i++ {
		n += outline.CountWords(lines[i])
	}
	return n
}

type crumb struct {
	title string
	level int
}

func breadcrumb(stack []crumb) []string {
	out := make([]string, len(stack))
	for i, c := range stack {
		out[i] = c.title
	}
	return out
}
