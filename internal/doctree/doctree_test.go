package doctree

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/outline"
)

func TestBuild_HeadingHierarchy(t *testing.T) {
	records := outline.ExtractPrefix(`# Title

Intro text.

## Section A

### Subsection A1

## Section B
`)
	tree := Build("doc", records)

	if tree.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child (h1), got %d", len(tree.Children))
	}

	h1 := tree.Children[0]
	if h1.Title != "Title" || h1.Line != 0 {
		t.Errorf("unexpected h1: %+v", h1)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}

	secA := h1.Children[0]
	if secA.Title != "Section A" || secA.Line != 4 {
		t.Errorf("unexpected section A: %+v", secA)
	}
	if len(secA.Children) != 1 || secA.Children[0].Title != "Subsection A1" {
		t.Fatalf("expected Subsection A1 under Section A, got %+v", secA.Children)
	}

	if h1.Children[1].Title != "Section B" {
		t.Errorf("expected %q, got %q", "Section B", h1.Children[1].Title)
	}
}

func TestBuild_SkippedLevelsNestUnderOpenHeading(t *testing.T) {
	tree := Build("doc", []outline.HeadingRecord{
		{Title: "Top", Level: 1, Line: 0},
		{Title: "Deep", Level: 4, Line: 1},
		{Title: "Mid", Level: 2, Line: 2},
	})

	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(tree.Children))
	}
	top := tree.Children[0]
	if len(top.Children) != 2 {
		t.Fatalf("expected Deep and Mid under Top, got %d children", len(top.Children))
	}
	if top.Children[0].Title != "Deep" || top.Children[1].Title != "Mid" {
		t.Errorf("unexpected children order: %q, %q", top.Children[0].Title, top.Children[1].Title)
	}
}

func TestBuild_LeadingDeepHeadingIsTopLevel(t *testing.T) {
	tree := Build("doc", []outline.HeadingRecord{
		{Title: "Deep", Level: 3, Line: 0},
		{Title: "Top", Level: 1, Line: 5},
	})
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 top-level children, got %d", len(tree.Children))
	}
}

func TestBuild_Empty(t *testing.T) {
	tree := Build("empty", nil)
	if tree.Children == nil || len(tree.Children) != 0 {
		t.Errorf("expected empty non-nil children, got %#v", tree.Children)
	}
}

func TestWalk_DocumentOrder(t *testing.T) {
	tree := Build("doc", outline.ExtractUnderline("A\n===\nB\n---\nC\n---\nD\n===\n"))

	var titles []string
	var depths []int
	tree.Walk(func(n *DocNode, depth int) {
		titles = append(titles, n.Title)
		depths = append(depths, depth)
	})

	wantTitles := []string{"A", "B", "C", "D"}
	wantDepths := []int{0, 1, 1, 0}
	for i := range wantTitles {
		if titles[i] != wantTitles[i] || depths[i] != wantDepths[i] {
			t.Errorf("node %d: expected %s@%d, got %s@%d", i, wantTitles[i], wantDepths[i], titles[i], depths[i])
		}
	}
}
