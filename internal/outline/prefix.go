package outline

import (
	"regexp"
	"strings"
	"unicode"
)

// prefixRe matches one to six '#' markers, whitespace, then the title.
// Whitespace includes Unicode spaces such as NBSP and the BOM, not only ASCII.
var prefixRe = regexp.MustCompile(`^(#{1,6})[\s\p{Zs}\x{2028}\x{2029}\x{FEFF}]+(.+)`)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ExtractPrefix returns the ATX-style headings of text in document order.
//
// Lines are split on '\n' only; callers normalize CRLF input first. The title
// is trimmed on both sides, and a marker followed only by whitespace yields no
// record.
func ExtractPrefix(text string) []HeadingRecord {
	var records []HeadingRecord
	for i, line := range splitLines(text) {
		if line == "" || line[0] != '#' {
			continue
		}
		m := prefixRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimFunc(m[2], isSpace)
		if title == "" {
			continue
		}
		records = append(records, HeadingRecord{
			Title: title,
			Line:  i,
			Level: len(m[1]),
		})
	}
	return records
}
