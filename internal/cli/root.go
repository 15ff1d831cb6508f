package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sentencemine/internal/app"
	"github.com/alexanderramin/sentencemine/internal/config"
	"github.com/alexanderramin/sentencemine/internal/ledger"
	"github.com/alexanderramin/sentencemine/internal/pipeline"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Summary, error)
}

// HistoryStore reads past runs from the ledger.
type HistoryStore interface {
	RecentRuns(ctx context.Context, limit int) ([]ledger.Run, error)
	FailedItems(ctx context.Context, limit int) ([]ledger.Entry, error)
}

// App holds what the commands need from the wiring layer.
type App struct {
	// Pipelines builds a runner for the chosen options.
	Pipelines func(opts app.RunOptions) (Runner, error)

	// History is nil when the ledger is disabled.
	History HistoryStore

	Checker func(ctx context.Context) []app.CheckResult

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	Now func() time.Time
}

// NewRootCmd creates the top-level "sentencemine" command. Run without a
// subcommand it processes the selected source.
func NewRootCmd(a *App) *cobra.Command {
	var flags runFlags

	root := &cobra.Command{
		Use:   "sentencemine",
		Short: "Turn collected vocabulary into Anki cloze cards",
		Long: `sentencemine reads words from Todoist, a CSV file or a text file, asks an
LLM for a definition and an example sentence, builds cloze cards and adds them
to Anki through AnkiConnect.

Configuration is read from CONFIG_PATH (or ./.env) and the environment:

` + config.Usage(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, a, &flags)
		},
	}
	bindRunFlags(root.Flags(), &flags)

	root.AddCommand(
		newHistoryCmd(a),
		newCheckCmd(a),
	)

	return root
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
