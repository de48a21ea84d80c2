package doctree

import "github.com/dgallion1/docoutline/internal/outline"

// DocTree is the nested outline of a document.
type DocTree struct {
	Title    string     `json:"title"`    // Document title (from metadata or filename)
	Children []*DocNode `json:"children"` // Top-level headings
}

// DocNode is one heading and the headings nested beneath it.
type DocNode struct {
	Title    string     `json:"title"`
	Level    int        `json:"level"`
	Line     int        `json:"line"` // Zero-based source line of the heading
	Children []*DocNode `json:"children,omitempty"`
}

// Section is a contiguous run of lines owned by one heading, with its
// structural context.
type Section struct {
	Title      string   `json:"title"`      // Empty for the preamble before the first heading
	Level      int      `json:"level"`      // 0 for the preamble
	Breadcrumb []string `json:"breadcrumb"` // Heading hierarchy, e.g. ["Guide", "Install", "Linux"]
	LineStart  int      `json:"line_start"`
	LineEnd    int      `json:"line_end"` // Inclusive
	Words      int      `json:"words"`
}

// Build nests flat heading records into a tree. A heading becomes the child of
// the nearest preceding heading with a lower level, so skipped levels nest
// under whatever is open.
func Build(title string, records []outline.HeadingRecord) *DocTree {
	type stackEntry struct {
		node  *DocNode
		level int
	}

	// Root is level 0; all headings nest under it.
	root := &DocNode{Title: title}
	stack := []stackEntry{{node: root, level: 0}}

	for _, r := range records {
		n := &DocNode{Title: r.Title, Level: r.Level, Line: r.Line}

		// Pop stack until we find a parent with lower level.
		for len(stack) > 1 && stack[len(stack)-1].level >= r.Level {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, stackEntry{node: n, level: r.Level})
	}

	tree := &DocTree{Title: title, Children: root.Children}
	if tree.Children == nil {
		tree.Children = []*DocNode{}
	}
	return tree
}

// Walk visits every node depth-first in document order.
func (t *DocTree) Walk(fn func(n *DocNode, depth int)) {
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 0)
}
