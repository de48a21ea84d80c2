package outline

import (
	"strings"
	"unicode/utf8"
)

// DefaultUnderlineChars are the characters that may form an underline.
const DefaultUnderlineChars = "=-~"

// UnderlineExtractor recognizes setext-style headings: a title line followed
// directly by a line made of one repeated underline character.
//
// The format carries no numeric depth, so levels are ranked by first
// appearance: the first underline character that completes a heading is level
// 1, the next distinct one level 2, and so on. Ranks are per call.
type UnderlineExtractor struct {
	// Chars is the accepted underline set. Empty means DefaultUnderlineChars.
	Chars string
}

// ExtractUnderline runs an UnderlineExtractor with the default character set.
func ExtractUnderline(text string) []HeadingRecord {
	return UnderlineExtractor{}.Extract(text)
}

// Extract returns the headings of text in document order. A title line at the
// end of input with no underline after it yields nothing.
func (e UnderlineExtractor) Extract(text string) []HeadingRecord {
	chars := e.Chars
	if chars == "" {
		chars = DefaultUnderlineChars
	}

	var (
		records   []HeadingRecord
		ranks     = make(map[rune]int)
		prev      string
		prevIsBar bool
	)
	for i, line := range splitLines(text) {
		r, isBar := underlineRune(line, chars)
		if isBar && i > 0 && !prevIsBar {
			if title := strings.TrimSpace(prev); title != "" {
				level, ok := ranks[r]
				if !ok {
					level = len(ranks) + 1
					ranks[r] = level
				}
				records = append(records, HeadingRecord{
					Title: title,
					Line:  i - 1,
					Level: level,
				})
			}
		}
		prev, prevIsBar = line, isBar
	}
	return records
}

// underlineRune reports whether line consists solely of one repeated rune
// from chars, and which rune that is.
func underlineRune(line, chars string) (rune, bool) {
	if line == "" {
		return 0, false
	}
	first, size := utf8.DecodeRuneInString(line)
	if first == utf8.RuneError || !strings.ContainsRune(chars, first) {
		return 0, false
	}
	for _, r := range line[size:] {
		if r != first {
			return 0, false
		}
	}
	return first, true
}
