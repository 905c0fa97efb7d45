package ctlgrepcli

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"ctlgrep/internal/core/pattern"
	"ctlgrep/internal/core/report"
	"ctlgrep/internal/core/search"
	"ctlgrep/internal/model"
)

func newQCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "q <search>",
		Short: "Search text controls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(cmd)
			if opts == nil {
				return fmt.Errorf("options missing")
			}

			buffers, err := resolveBuffers(opts)
			if err != nil {
				return err
			}

			items, err := search.Collect(buffers, search.Options{
				Pattern:     args[0],
				PatternMode: opts.PatternMode,
			})
			if err != nil {
				return printIfSyntaxError(cmd, args[0], err)
			}

			logSearchSummary(args[0], opts.PatternMode, len(buffers), items)

			if opts.Jsonl {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), RenderJSONL(items))
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderReport(items, opts.PatternMode))
			return nil
		},
	}
}

// renderReport rebuilds the rendered report from the structured items.
// Report and items come from one scan, so they cannot disagree.
func renderReport(items []model.ResultItem, patternMode bool) string {
	b := report.NewBuilder()
	for _, item := range items {
		b.AppendSummary(item.Count, item.Label)
		for i, occ := range item.Occurrences {
			b.AppendOccurrence(i+1, occ)
		}
	}
	return b.Render(patternMode)
}

// logSearchSummary writes the one-line diagnostic copy of the result to
// the log channel (stderr), separate from the report on stdout.
func logSearchSummary(expr string, patternMode bool, buffers int, items []model.ResultItem) {
	total := 0
	for _, item := range items {
		total += item.Count
	}
	log.Printf("q %q patternMode=%t: %d occurrences in %d of %d buffers", expr, patternMode, total, len(items), buffers)
}

// printIfSyntaxError sends a malformed-pattern diagnostic to stdout,
// the same sink the report uses, so callers see exactly one output
// stream. Any other error propagates as usual.
func printIfSyntaxError(cmd *cobra.Command, expr string, err error) error {
	var serr *pattern.SyntaxError
	if !errors.As(err, &serr) {
		return err
	}

	log.Printf("q %q: malformed pattern: %v", expr, serr.Err)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), report.InvalidPattern(serr))
	return nil
}
