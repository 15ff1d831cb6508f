package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/sentencemine/internal/app"
	"github.com/alexanderramin/sentencemine/internal/applog"
	"github.com/alexanderramin/sentencemine/internal/cli"
	"github.com/alexanderramin/sentencemine/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := applog.New(cfg.Log, os.Stderr)

	core, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer core.Close()

	cliApp := &cli.App{
		Pipelines: func(opts app.RunOptions) (cli.Runner, error) {
			p, err := core.Pipeline(opts)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		Checker: core.Check,
	}
	if core.Ledger != nil {
		cliApp.History = core.Ledger
	}

	// Review prompts need a terminal on stdin.
	cliApp.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(cliApp).ExecuteContext(ctx)
}
