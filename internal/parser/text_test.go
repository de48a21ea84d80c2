package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/outline"
)

func TestTextParser_UnderlinedSections(t *testing.T) {
	input := "Project Notes\n=============\n\nFirst paragraph.\n\nDetails\n-------\nMore text."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if doc.Dialect != outline.DialectUnderline {
		t.Errorf("expected underline dialect, got %s", doc.Dialect)
	}

	records := outline.Extract(doc.Dialect, doc.Text)
	want := []outline.HeadingRecord{
		{Title: "Project Notes", Line: 0, Level: 1},
		{Title: "Details", Line: 5, Level: 2},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d headings, got %d", len(want), len(records))
	}
	for i, w := range want {
		if records[i] != w {
			t.Errorf("heading[%d]: expected %+v, got %+v", i, w, records[i])
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}

func TestTextParser_CRLFInput(t *testing.T) {
	// Windows line endings must not hide the underline.
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader("Title\r\n=====\r\nbody\r\n"), "win.rst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "win" {
		t.Errorf("expected title %q, got %q", "win", doc.Title)
	}
	records := outline.Extract(doc.Dialect, doc.Text)
	if len(records) != 1 || records[0].Title != "Title" {
		t.Fatalf("expected one Title heading, got %+v", records)
	}
}

func TestTextParser_LoneCarriageReturns(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader("A\r===\rB"), "mac.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "A\n===\nB" {
		t.Errorf("expected normalized text, got %q", doc.Text)
	}
}
