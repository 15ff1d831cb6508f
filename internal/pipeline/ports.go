package pipeline

import (
	"context"

	"github.com/alexanderramin/sentencemine/internal/anki"
	"github.com/alexanderramin/sentencemine/internal/card"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/ledger"
)

// Source lists work and receives the outcome of each item.
type Source interface {
	Name() string
	ListItems(ctx context.Context) ([]domain.SourceItem, error)
	Complete(ctx context.Context, id string) error
	Fail(ctx context.Context, id, reason string) error
}

// Store is prepared once before any item is processed.
type Store interface {
	Initialize(ctx context.Context, s anki.Session) error
}

// Enricher generates the definition and the extra example sentence.
type Enricher interface {
	Define(ctx context.Context, word, passage string) (string, error)
	Sentence(ctx context.Context, word, definition, passage string) (string, error)
}

// DistractorGenerator invents wrong answers for multiple-choice cards.
type DistractorGenerator interface {
	Distractors(ctx context.Context, word, definition string, n int) ([]string, error)
}

// Cards builds and submits cards.
type Cards interface {
	Build(ctx context.Context, in card.Input) (*domain.Card, error)
	Submit(ctx context.Context, c *domain.Card) (card.SubmitResult, error)
}

// Recorder keeps the run history. Failures are logged by the pipeline and
// never stop a run.
type Recorder interface {
	StartRun(ctx context.Context, source string, dryRun bool) (*ledger.Run, error)
	Record(ctx context.Context, e ledger.Entry) error
	FinishRun(ctx context.Context, runID string, halted bool, reason string) error
	KnownWords(ctx context.Context, limit int) ([]string, error)
}

// Reviewer approves or rejects a built card before submission.
type Reviewer interface {
	Review(ctx context.Context, c *domain.Card) (bool, error)
}

var _ Recorder = (*ledger.SQLiteLedger)(nil)
