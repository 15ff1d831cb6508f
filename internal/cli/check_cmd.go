package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sentencemine/internal/cli/formatter"
)

func newCheckCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that AnkiConnect and the LLM backend are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if a.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Checking services...")
			}
			results := a.Checker(cmd.Context())
			stop()

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCheck(results))

			var down []string
			for _, r := range results {
				if !r.OK {
					down = append(down, r.Name)
				}
			}
			if len(down) > 0 {
				return fmt.Errorf("unreachable: %s", strings.Join(down, ", "))
			}
			return nil
		},
	}
}
