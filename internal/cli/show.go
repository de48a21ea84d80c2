package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/outline"
)

var (
	showDialect string
	showJSON    bool
	showWords   bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show FILE...",
	Short: "Print the heading outline of documents",
	Long: `Show prints the outline of each file: one entry per heading, indented
by nesting, with the line it starts on.

Examples:
  # Outline a markdown file
  docoutline show README.md

  # Treat a text file as markdown and include per-section word counts
  docoutline show --dialect prefix --words notes.txt

  # Machine-readable output
  docoutline show --json docs/*.md
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showDialect, "dialect", "d", "", "heading dialect: prefix or underline (default: by file type)")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	showCmd.Flags().BoolVarP(&showWords, "words", "w", false, "include word counts per section")
}

func runShow(cmd *cobra.Command, args []string) error {
	opts := loadOptions()
	if showDialect != "" {
		d, err := outline.ParseDialect(showDialect)
		if err != nil {
			return err
		}
		opts.Dialect = &d
	}
	opts.Sections = showWords
	return executeShow(cmd.Context(), cmd.OutOrStdout(), args, opts, showJSON)
}

func executeShow(ctx context.Context, w io.Writer, paths []string, opts loadOpts, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	outlines, err := loadAll(ctx, paths, opts)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outlines)
	}

	st := newStyles(w)
	for i, fo := range outlines {
		if i > 0 {
			io.WriteString(w, "\n")
		}
		st.writeOutline(w, fo.Path, fo)
	}
	return nil
}
