package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/sentencemine/internal/app"
	"github.com/alexanderramin/sentencemine/internal/cli/formatter"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/pipeline"
)

type runFlags struct {
	source         string
	csvFile        string
	textFile       string
	tags           []string
	multipleChoice bool
	interactive    bool
	dryRun         bool
}

func bindRunFlags(fs *pflag.FlagSet, f *runFlags) {
	fs.StringVar(&f.source, "source", string(domain.SourceTodoist), "Where to read words from: todoist, csv or text_file")
	fs.StringVar(&f.csvFile, "csv-file", "words.csv", "CSV file used by --source csv")
	fs.StringVar(&f.textFile, "text-file", "sentences.txt", "Text file used by --source text_file")
	fs.StringSliceVarP(&f.tags, "tags", "t", nil, "Extra tags added to every card (comma separated)")
	fs.BoolVar(&f.multipleChoice, "multiple-choice", false, "Add a shuffled list of options to each card")
	fs.BoolVar(&f.interactive, "interactive", false, "Review each card before it is added")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Build and print cards without touching Anki or the source")
}

func runPipeline(cmd *cobra.Command, a *App, f *runFlags) error {
	kind, ok := domain.ParseSourceKind(strings.ToLower(strings.TrimSpace(f.source)))
	if !ok {
		return fmt.Errorf("unknown source %q (want todoist, csv or text_file)", f.source)
	}

	out := cmd.OutOrStdout()
	opts := app.RunOptions{
		Source:         kind,
		CSVPath:        f.csvFile,
		TextPath:       f.textFile,
		Tags:           f.tags,
		MultipleChoice: f.multipleChoice,
		DryRun:         f.dryRun,
		Observer:       progressObserver{w: out, showCards: f.dryRun && !f.interactive},
	}
	if f.interactive {
		if !a.interactive() {
			return errors.New("--interactive needs a terminal on stdin")
		}
		opts.Reviewer = newHuhReviewer(cmd.InOrStdin(), out)
	}

	runner, err := a.Pipelines(opts)
	if err != nil {
		return err
	}

	summary, err := runner.Run(cmd.Context())
	if summary != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, formatter.FormatSummary(summary))
	}
	return err
}

// progressObserver prints one line per item as the run advances.
type progressObserver struct {
	w         io.Writer
	showCards bool
}

func (o progressObserver) ObserveItem(_ context.Context, r pipeline.ItemResult) {
	if o.showCards && r.Card != nil {
		fmt.Fprintln(o.w, formatter.FormatCard(r.Card))
	}
	fmt.Fprint(o.w, formatter.FormatItem(r))
}
