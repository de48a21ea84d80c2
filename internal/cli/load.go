package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/sections"
)

type loadOpts struct {
	Workers     int
	PDFFallback bool
	// Dialect overrides the parser's choice when set.
	Dialect  *outline.Dialect
	Sections bool
}

// fileOutline is the outline of one file on disk.
type fileOutline struct {
	Path      string                  `json:"path"`
	Title     string                  `json:"title,omitempty"`
	Dialect   outline.Dialect         `json:"dialect"`
	Headings  []outline.HeadingRecord `json:"headings"`
	WordCount int                     `json:"word_count"`
	Sections  []doctree.Section       `json:"sections,omitempty"`
}

func parseFile(path string, opts loadOpts) (*parser.Document, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = opts.PDFFallback
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if opts.Dialect != nil {
		doc.Dialect = *opts.Dialect
	}
	return doc, nil
}

func loadOutline(path string, opts loadOpts) (fileOutline, error) {
	doc, err := parseFile(path, opts)
	if err != nil {
		return fileOutline{}, err
	}
	headings := outline.Extract(doc.Dialect, doc.Text)
	if headings == nil {
		headings = []outline.HeadingRecord{}
	}
	fo := fileOutline{
		Path:      path,
		Title:     doc.Title,
		Dialect:   doc.Dialect,
		Headings:  headings,
		WordCount: outline.CountWords(doc.Text),
	}
	if opts.Sections {
		fo.Sections = sections.Split(doc.Text, headings)
	}
	return fo, nil
}

// loadAll parses paths concurrently and returns their outlines in argument
// order. The first error cancels the rest.
func loadAll(ctx context.Context, paths []string, opts loadOpts) ([]fileOutline, error) {
	results := make([]fileOutline, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fo, err := loadOutline(path, opts)
			if err != nil {
				return err
			}
			results[i] = fo
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
