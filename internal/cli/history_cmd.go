package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sentencemine/internal/cli/formatter"
)

var errHistoryDisabled = errors.New("run history is disabled (LEDGER_DISABLED=true)")

func newHistoryCmd(a *App) *cobra.Command {
	var limit int
	var failed bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs or items that failed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.History == nil {
				return errHistoryDisabled
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			if failed {
				entries, err := a.History.FailedItems(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("reading failed items: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFailures(entries, a.now()))
				return nil
			}

			runs, err := a.History.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("reading runs: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRuns(runs, a.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of rows")
	cmd.Flags().BoolVar(&failed, "failed", false, "List skipped and halted items instead of runs")

	return cmd
}
