package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// countCmd represents the count command
var countCmd = &cobra.Command{
	Use:   "count FILE...",
	Short: "Print word counts",
	Long: `Count prints the number of whitespace-separated words in each file,
followed by a total when more than one file is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeCount(cmd.Context(), cmd.OutOrStdout(), args, loadOptions())
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func executeCount(ctx context.Context, w io.Writer, paths []string, opts loadOpts) error {
	if ctx == nil {
		ctx = context.Background()
	}
	outlines, err := loadAll(ctx, paths, opts)
	if err != nil {
		return err
	}
	total := 0
	for _, fo := range outlines {
		fmt.Fprintf(w, "%8d %s\n", fo.WordCount, fo.Path)
		total += fo.WordCount
	}
	if len(outlines) > 1 {
		fmt.Fprintf(w, "%8d total\n", total)
	}
	return nil
}
