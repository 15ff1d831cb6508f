// Package pipeline drives source items through word extraction, enrichment,
// cloze synthesis and submission, one item at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/alexanderramin/sentencemine/internal/anki"
	"github.com/alexanderramin/sentencemine/internal/card"
	"github.com/alexanderramin/sentencemine/internal/cloze"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/extract"
	"github.com/alexanderramin/sentencemine/internal/ledger"
)

// Config holds the per-run settings.
type Config struct {
	Session        anki.Session
	Tags           []string
	DryRun         bool
	MultipleChoice bool
}

// Deps are the collaborators of a Pipeline. Source, Store, Enricher and
// Cards are required; the rest may be nil.
type Deps struct {
	Source      Source
	Store       Store
	Enricher    Enricher
	Distractors DistractorGenerator
	Cards       Cards
	Extractor   *extract.Extractor
	Recorder    Recorder
	Reviewer    Reviewer
	Observer    ItemObserver
	Logger      *slog.Logger
}

// ItemResult is the terminal state of one item.
type ItemResult struct {
	ItemID   string
	Word     string
	Outcome  domain.Outcome
	Reason   string
	NoteID   int64
	Card     *domain.Card
	Duration time.Duration
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Source     string
	DryRun     bool
	StartedAt  time.Time
	Duration   time.Duration
	Total      int
	Completed  int
	Duplicates int
	Skipped    int
	Halted     bool
	HaltReason string
	Items      []ItemResult
}

// Pipeline processes the items of one source. It is not safe for concurrent use.
type Pipeline struct {
	cfg         Config
	source      Source
	store       Store
	enricher    Enricher
	distractors DistractorGenerator
	cards       Cards
	extractor   *extract.Extractor
	recorder    Recorder
	reviewer    Reviewer
	observer    ItemObserver
	logger      *slog.Logger

	now     func() time.Time
	shuffle func([]string)

	// seen holds the words extracted so far in the run, in order.
	seen []string
}

// New creates a Pipeline.
func New(cfg Config, deps Deps) *Pipeline {
	p := &Pipeline{
		cfg:         cfg,
		source:      deps.Source,
		store:       deps.Store,
		enricher:    deps.Enricher,
		distractors: deps.Distractors,
		cards:       deps.Cards,
		extractor:   deps.Extractor,
		recorder:    deps.Recorder,
		reviewer:    deps.Reviewer,
		observer:    deps.Observer,
		logger:      deps.Logger,
		now:         func() time.Time { return time.Now().UTC() },
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
	if p.extractor == nil {
		p.extractor = extract.New(extract.DefaultPrefix)
	}
	if p.recorder == nil {
		p.recorder = NoopRecorder{}
	}
	if p.observer == nil {
		p.observer = NoopItemObserver{}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Run processes every listed item in order. A store that cannot be prepared
// fails the run before any item is listed. When an item halts the run, the
// summary is still returned together with an error wrapping ErrHalted.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	started := p.now()

	if !p.cfg.DryRun {
		if err := p.store.Initialize(ctx, p.cfg.Session); err != nil {
			return nil, fmt.Errorf("preparing anki: %w", err)
		}
	}

	items, err := p.source.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", p.source.Name(), err)
	}

	summary := &Summary{Source: p.source.Name(), DryRun: p.cfg.DryRun, StartedAt: started}
	recording := true
	run, err := p.recorder.StartRun(ctx, summary.Source, summary.DryRun)
	if err != nil {
		p.logger.WarnContext(ctx, "ledger unavailable, run history disabled", "error", err)
		recording = false
		run, _ = NoopRecorder{}.StartRun(ctx, summary.Source, summary.DryRun)
	}
	summary.RunID = run.ID

	p.logger.InfoContext(ctx, "run started",
		"run_id", run.ID, "source", summary.Source, "items", len(items), "dry_run", summary.DryRun)

	runTags := MergeTags(RunTags(started), p.cfg.Tags)
	var haltErr error
	for _, item := range items {
		res, cause := p.process(ctx, item, runTags)
		summary.add(res)
		p.observer.ObserveItem(ctx, res)
		if recording {
			p.record(ctx, run.ID, summary.Source, res)
		}
		if res.Outcome == domain.OutcomeHalted {
			haltErr = cause
			break
		}
	}

	summary.Duration = p.now().Sub(started)
	if recording {
		if err := p.recorder.FinishRun(context.WithoutCancel(ctx), run.ID, summary.Halted, summary.HaltReason); err != nil {
			p.logger.WarnContext(ctx, "finishing run in ledger failed", "run_id", run.ID, "error", err)
		}
	}

	p.logger.InfoContext(ctx, "run finished",
		"run_id", run.ID,
		"total", summary.Total,
		"completed", summary.Completed,
		"duplicates", summary.Duplicates,
		"skipped", summary.Skipped,
		"halted", summary.Halted,
	)

	if summary.Halted {
		return summary, fmt.Errorf("%w: %w", ErrHalted, haltErr)
	}
	return summary, nil
}

// process moves one item to a terminal state. The returned error is the
// cause of a halt and is nil for every other outcome.
func (p *Pipeline) process(ctx context.Context, item domain.SourceItem, runTags []string) (ItemResult, error) {
	start := p.now()
	res := ItemResult{ItemID: item.ID}
	finish := func(outcome domain.Outcome, reason string) ItemResult {
		res.Outcome = outcome
		res.Reason = reason
		res.Duration = p.now().Sub(start)
		return res
	}
	halt := func(err error) (ItemResult, error) {
		return finish(domain.OutcomeHalted, err.Error()), err
	}
	skip := func(err error) (ItemResult, error) {
		p.annotate(ctx, item.ID, err.Error())
		return finish(domain.OutcomeSkipped, err.Error()), nil
	}

	if err := ctx.Err(); err != nil {
		return halt(err)
	}

	word := card.CleanWord(p.extractor.Word(item.EntryText))
	res.Word = word
	if word == "" {
		return skip(errNoWord)
	}
	p.seen = append(p.seen, word)

	passage := strings.TrimSpace(item.Sentence)
	definition, err := p.enricher.Define(ctx, word, passage)
	if err != nil {
		if ctx.Err() != nil {
			return halt(ctx.Err())
		}
		return skip(fmt.Errorf("definition failed: %w", err))
	}

	generated, err := p.enricher.Sentence(ctx, word, definition, passage)
	if err != nil {
		if ctx.Err() != nil {
			return halt(ctx.Err())
		}
		return skip(fmt.Errorf("sentence generation failed: %w", err))
	}

	var sentences []string
	if item.HasContext() {
		sentences = append(sentences, passage)
	}
	sentences = append(sentences, generated)

	in := card.Input{
		Word:       word,
		Definition: definition,
		Context:    passage,
		Sentences:  sentences,
		Tags:       MergeTags(runTags, item.Tags),
	}
	if p.cfg.MultipleChoice {
		in.Options = p.choices(ctx, word, definition)
	}

	c, err := p.cards.Build(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return halt(ctx.Err())
		}
		if errors.Is(err, cloze.ErrNoMatch) {
			return skip(fmt.Errorf("cloze construction failed: %w", err))
		}
		return skip(fmt.Errorf("building card: %w", err))
	}
	res.Card = c

	if p.reviewer != nil {
		ok, err := p.reviewer.Review(ctx, c)
		switch {
		case errors.Is(err, ErrReviewAborted) || ctx.Err() != nil:
			return halt(ErrReviewAborted)
		case err != nil:
			return skip(fmt.Errorf("review failed: %w", err))
		case !ok:
			return skip(errors.New("rejected in review"))
		}
	}

	if p.cfg.DryRun {
		return finish(domain.OutcomeCompleted, "dry run"), nil
	}

	submitted, err := p.cards.Submit(ctx, c)
	if err != nil {
		if errors.Is(err, anki.ErrUnavailable) || ctx.Err() != nil {
			return halt(fmt.Errorf("submitting card: %w", err))
		}
		return skip(fmt.Errorf("submitting card: %w", err))
	}

	outcome := domain.OutcomeCompleted
	reason := ""
	switch submitted.Status {
	case card.SubmitAdded:
		res.NoteID = submitted.NoteID
	case card.SubmitDuplicate, card.SubmitReset:
		outcome = domain.OutcomeDuplicate
		reason = string(submitted.Status)
		if len(submitted.Existing) > 0 {
			res.NoteID = submitted.Existing[0]
		}
	}

	if err := p.source.Complete(ctx, item.ID); err != nil {
		return halt(fmt.Errorf("completing item %s: %w", item.ID, err))
	}
	return finish(outcome, reason), nil
}

// annotate reports a skipped item back to the source. Failures are logged
// only; the item stays open in the source.
func (p *Pipeline) annotate(ctx context.Context, id, reason string) {
	if p.cfg.DryRun {
		return
	}
	if err := p.source.Fail(ctx, id, reason); err != nil {
		p.logger.WarnContext(ctx, "annotating item failed", "item_id", id, "reason", reason, "error", err)
	}
}

func (p *Pipeline) record(ctx context.Context, runID, source string, r ItemResult) {
	e := ledger.Entry{
		RunID:   runID,
		ItemID:  r.ItemID,
		Source:  source,
		Word:    r.Word,
		Outcome: r.Outcome,
		Reason:  r.Reason,
	}
	if r.NoteID != 0 {
		id := r.NoteID
		e.NoteID = &id
	}
	if err := p.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		p.logger.WarnContext(ctx, "recording outcome failed", "item_id", r.ItemID, "error", err)
	}
}

func (s *Summary) add(r ItemResult) {
	s.Total++
	s.Items = append(s.Items, r)
	switch r.Outcome {
	case domain.OutcomeCompleted:
		s.Completed++
	case domain.OutcomeDuplicate:
		s.Duplicates++
	case domain.OutcomeSkipped:
		s.Skipped++
	case domain.OutcomeHalted:
		s.Halted = true
		s.HaltReason = r.Reason
	}
}
