// Package source lists work items and reports their outcome back to where
// they came from.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/alexanderramin/sentencemine/internal/domain"
)

// Provider is a source of work items.
type Provider interface {
	// ListItems returns the open items in source order.
	ListItems(ctx context.Context) ([]domain.SourceItem, error)
	// Complete marks an item as done at its origin.
	Complete(ctx context.Context, id string) error
	// Fail annotates an item for manual review, leaving it open.
	Fail(ctx context.Context, id, reason string) error
	Name() string
}

// Options selects and configures a provider.
type Options struct {
	Kind     domain.SourceKind
	CSVPath  string
	TextPath string
	Todoist  TodoistOptions
}

// New builds the provider for opts.Kind.
func New(opts Options, tasks TaskAPI, logger *slog.Logger) (Provider, error) {
	switch opts.Kind {
	case domain.SourceTodoist:
		if tasks == nil {
			return nil, fmt.Errorf("todoist source needs an api client")
		}
		return NewTodoist(tasks, opts.Todoist, logger), nil
	case domain.SourceCSV:
		return NewCSV(opts.CSVPath, logger), nil
	case domain.SourceTextFile:
		return NewTextFile(opts.TextPath, logger), nil
	default:
		return nil, fmt.Errorf("unknown source %q", opts.Kind)
	}
}

// fileOutcomes logs outcomes for sources that have nowhere to write them.
type fileOutcomes struct {
	name   string
	logger *slog.Logger
}

func (f fileOutcomes) Complete(_ context.Context, id string) error {
	f.logger.Info("item completed", slog.String("source", f.name), slog.String("item_id", id))
	return nil
}

func (f fileOutcomes) Fail(_ context.Context, id, reason string) error {
	f.logger.Warn("item needs review", slog.String("source", f.name), slog.String("item_id", id), slog.String("reason", reason))
	return nil
}

func withTag(tags []string, tag string) []string {
	if slices.Contains(tags, tag) {
		return tags
	}
	return append(tags, tag)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
