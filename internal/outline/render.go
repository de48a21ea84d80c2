package outline

import "strings"

// FormatList renders records as indented list items, one space of indent per
// level below 1: "- Title", " - Child", "  - Grandchild".
func FormatList(records []HeadingRecord) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		indent := r.Level - 1
		if indent < 0 {
			indent = 0
		}
		lines = append(lines, strings.Repeat(" ", indent)+"- "+r.Title)
	}
	return lines
}

// Depths returns the nesting depth of each record, counting only the
// headings actually open above it. A level 1 heading followed by a level 4
// heading yields depths 0 and 1, so skipped levels never leave gaps.
func Depths(records []HeadingRecord) []int {
	depths := make([]int, len(records))
	var open []int
	for i, r := range records {
		for len(open) > 0 && open[len(open)-1] >= r.Level {
			open = open[:len(open)-1]
		}
		depths[i] = len(open)
		open = append(open, r.Level)
	}
	return depths
}
