package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/docoutline/internal/doctree"
)

type styles struct {
	header  lipgloss.Style
	heading lipgloss.Style
	dim     lipgloss.Style
}

// newStyles builds styles for w. Colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AFFF")),
		heading: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		dim: r.NewStyle().
			Foreground(lipgloss.Color("#888888")),
	}
}

// writeOutline prints a header line followed by one indented entry per
// heading with its 1-based line number.
func (s styles) writeOutline(w io.Writer, name string, fo fileOutline) {
	fmt.Fprintf(w, "%s %s\n",
		s.header.Render(name),
		s.dim.Render(fmt.Sprintf("(%s, %d words)", fo.Dialect, fo.WordCount)),
	)
	if len(fo.Headings) == 0 {
		fmt.Fprintln(w, s.dim.Render("  (no headings)"))
		return
	}

	words := sectionWords(fo.Sections)
	doctree.Build(fo.Title, fo.Headings).Walk(func(n *doctree.DocNode, depth int) {
		suffix := fmt.Sprintf("L%d", n.Line+1)
		if c, ok := words[n.Line]; ok {
			suffix += fmt.Sprintf(", %d words", c)
		}
		fmt.Fprintf(w, "  %s- %s  %s\n",
			strings.Repeat("  ", depth),
			s.heading.Render(n.Title),
			s.dim.Render(suffix),
		)
	})
}

// sectionWords maps each heading line to the word count of its section.
func sectionWords(secs []doctree.Section) map[int]int {
	if len(secs) == 0 {
		return nil
	}
	out := make(map[int]int, len(secs))
	for _, sec := range secs {
		if sec.Level == 0 {
			continue
		}
		out[sec.LineStart] = sec.Words
	}
	return out
}
