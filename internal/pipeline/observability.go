package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/ledger"
)

// ItemObserver is notified after each item reaches a terminal state.
type ItemObserver interface {
	ObserveItem(ctx context.Context, r ItemResult)
}

// NoopItemObserver ignores all events.
type NoopItemObserver struct{}

func (NoopItemObserver) ObserveItem(context.Context, ItemResult) {}

type logItemObserver struct {
	logger *slog.Logger
}

// NewLogItemObserver logs every item outcome. Skips and halts log at warn level.
func NewLogItemObserver(logger *slog.Logger) ItemObserver {
	if logger == nil {
		return NoopItemObserver{}
	}
	return &logItemObserver{logger: logger}
}

func (o *logItemObserver) ObserveItem(ctx context.Context, r ItemResult) {
	attrs := []any{
		"item_id", r.ItemID,
		"word", r.Word,
		"outcome", string(r.Outcome),
		"duration_ms", r.Duration.Milliseconds(),
	}
	if r.NoteID != 0 {
		attrs = append(attrs, "note_id", r.NoteID)
	}
	switch r.Outcome {
	case domain.OutcomeSkipped, domain.OutcomeHalted:
		attrs = append(attrs, "reason", r.Reason)
		o.logger.WarnContext(ctx, "item_processed", attrs...)
	default:
		o.logger.InfoContext(ctx, "item_processed", attrs...)
	}
}

// NoopRecorder keeps no history. StartRun still hands out a run id.
type NoopRecorder struct{}

func (NoopRecorder) StartRun(_ context.Context, source string, dryRun bool) (*ledger.Run, error) {
	return &ledger.Run{ID: uuid.NewString(), Source: source, DryRun: dryRun, StartedAt: time.Now().UTC()}, nil
}

func (NoopRecorder) Record(context.Context, ledger.Entry) error { return nil }

func (NoopRecorder) FinishRun(context.Context, string, bool, string) error { return nil }

func (NoopRecorder) KnownWords(context.Context, int) ([]string, error) { return nil, nil }

type multiObserver []ItemObserver

// MultiObserver fans each result out to every non-nil observer in order.
func MultiObserver(observers ...ItemObserver) ItemObserver {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) ObserveItem(ctx context.Context, r ItemResult) {
	for _, o := range m {
		o.ObserveItem(ctx, r)
	}
}
