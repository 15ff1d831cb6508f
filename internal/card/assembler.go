// Package card turns a word, its definition and example sentences into a
// cloze card and submits it to Anki.
package card

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/sentencemine/internal/anki"
	"github.com/alexanderramin/sentencemine/internal/cloze"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/extract"
)

// DuplicateMode decides what happens when a card for the word already exists.
type DuplicateMode string

const (
	DuplicateSkip  DuplicateMode = "skip"
	DuplicateReset DuplicateMode = "reset"
)

// DuplicateScope decides which fields identify an existing card.
type DuplicateScope string

const (
	ScopeWord           DuplicateScope = "word"
	ScopeWordDefinition DuplicateScope = "word_definition"
)

// Store is the subset of the Anki client the assembler needs.
type Store interface {
	FindNotes(ctx context.Context, query string) ([]int64, error)
	NotesInfo(ctx context.Context, noteIDs []int64) ([]anki.NoteInfo, error)
	ForgetCards(ctx context.Context, cardIDs []int64) error
	AddNote(ctx context.Context, note anki.Note) (int64, error)
}

// Options configures duplicate handling.
type Options struct {
	Mode  DuplicateMode
	Scope DuplicateScope
}

// Input is everything needed to build one card.
type Input struct {
	Word       string
	Definition string
	Context    string
	Sentences  []string
	Options    string
	Tags       []string
}

// Assembler builds cards with a cloze.Synthesizer and submits them to a Store.
type Assembler struct {
	synth   *cloze.Synthesizer
	store   Store
	session anki.Session
	opts    Options
	logger  *slog.Logger
}

// NewAssembler creates an Assembler writing into session's deck and model.
func NewAssembler(synth *cloze.Synthesizer, store Store, session anki.Session, opts Options, logger *slog.Logger) *Assembler {
	if opts.Mode == "" {
		opts.Mode = DuplicateSkip
	}
	if opts.Scope == "" {
		opts.Scope = ScopeWord
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{synth: synth, store: store, session: session, opts: opts, logger: logger}
}

// CleanWord removes cloze markers and markdown emphasis from a word.
func CleanWord(word string) string {
	return strings.TrimSpace(extract.StripMarkdown(cloze.Strip(word)))
}

// Build masks each non-empty sentence, numbering blanks 1, 2, ... in the order
// given. Sentences that cannot be masked are dropped; if none can be, Build
// returns a *BuildError and no card.
func (a *Assembler) Build(ctx context.Context, in Input) (*domain.Card, error) {
	word := CleanWord(in.Word)

	var masked []string
	var last error
	attempted := 0
	for _, sentence := range in.Sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		attempted++
		res, err := a.synth.MakeCloze(ctx, word, sentence, attempted)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil || !res.OK {
			last = err
			a.logger.Warn("sentence dropped from card",
				slog.String("word", word),
				slog.Int("index", attempted),
				slog.String("reason", errString(err)))
			continue
		}
		masked = append(masked, res.Text)
	}

	if len(masked) == 0 {
		if last == nil {
			last = ErrNoSentences
		}
		return nil, &BuildError{Word: word, Attempted: attempted, Last: last}
	}

	return &domain.Card{
		Word:       word,
		Text:       strings.Join(masked, domain.CardSeparator),
		Definition: strings.TrimSpace(in.Definition),
		Context:    in.Context,
		Options:    in.Options,
		Tags:       append([]string(nil), in.Tags...),
	}, nil
}

// SubmitStatus is the outcome of Submit.
type SubmitStatus string

const (
	SubmitAdded     SubmitStatus = "added"
	SubmitDuplicate SubmitStatus = "duplicate"
	SubmitReset     SubmitStatus = "reset"
)

// SubmitResult describes what Submit did.
type SubmitResult struct {
	Status     SubmitStatus
	NoteID     int64
	Existing   []int64
	ResetCards int
}

// DuplicateQuery is the Anki search used to find an existing card for c.
func (a *Assembler) DuplicateQuery(c *domain.Card) string {
	terms := []string{
		anki.SearchTerm("deck", a.session.Deck),
		anki.SearchTerm("note", a.session.Model),
		anki.SearchTerm(anki.FieldWord, c.Word),
	}
	if a.opts.Scope == ScopeWordDefinition {
		terms = append(terms, anki.SearchTerm(anki.FieldDefinition, c.Definition))
	}
	return strings.Join(terms, " ")
}

// Submit looks for an existing card for the word and either reports it,
// resets its review history, or adds the new note.
func (a *Assembler) Submit(ctx context.Context, c *domain.Card) (SubmitResult, error) {
	if !cloze.HasAnyMarker(c.Text) {
		return SubmitResult{}, fmt.Errorf("card for %q has no cloze marker", c.Word)
	}

	existing, err := a.store.FindNotes(ctx, a.DuplicateQuery(c))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("looking up duplicates for %q: %w", c.Word, err)
	}

	if len(existing) > 0 {
		if a.opts.Mode != DuplicateReset {
			a.logger.Info("duplicate card skipped", slog.String("word", c.Word), slog.Int("notes", len(existing)))
			return SubmitResult{Status: SubmitDuplicate, Existing: existing}, nil
		}
		n, err := a.reset(ctx, existing)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("resetting duplicates for %q: %w", c.Word, err)
		}
		a.logger.Info("duplicate card reset", slog.String("word", c.Word), slog.Int("cards", n))
		return SubmitResult{Status: SubmitReset, Existing: existing, ResetCards: n}, nil
	}

	id, err := a.store.AddNote(ctx, a.note(c))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("adding note for %q: %w", c.Word, err)
	}
	return SubmitResult{Status: SubmitAdded, NoteID: id}, nil
}

func (a *Assembler) reset(ctx context.Context, noteIDs []int64) (int, error) {
	infos, err := a.store.NotesInfo(ctx, noteIDs)
	if err != nil {
		return 0, err
	}
	var cards []int64
	for _, info := range infos {
		cards = append(cards, info.Cards...)
	}
	if len(cards) == 0 {
		return 0, nil
	}
	if err := a.store.ForgetCards(ctx, cards); err != nil {
		return 0, err
	}
	return len(cards), nil
}

func (a *Assembler) note(c *domain.Card) anki.Note {
	return anki.Note{
		DeckName:  a.session.Deck,
		ModelName: a.session.Model,
		Fields: map[string]string{
			anki.FieldWord:       c.Word,
			anki.FieldText:       c.Text,
			anki.FieldDefinition: c.Definition,
			anki.FieldContext:    c.Context,
			anki.FieldOptions:    c.Options,
		},
		Tags:    c.Tags,
		Options: anki.NoteOptions{AllowDuplicate: false, DuplicateScope: "deck"},
	}
}

func errString(err error) string {
	if err == nil {
		return "no marker"
	}
	return err.Error()
}
