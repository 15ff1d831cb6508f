// Package cloze rewrites sentences so that a target word is wrapped in a
// numbered cloze marker such as {{c2::word}}.
package cloze

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Fallback rewrites a sentence with a generative model when no deterministic
// strategy finds the word. Implementations are asked to emit {{c1::...}}.
type Fallback interface {
	CreateCloze(ctx context.Context, word, sentence string) (string, error)
}

// Result is the outcome of masking one sentence. When OK is false, Text is
// the original sentence and must not be submitted as a cloze.
type Result struct {
	Text     string
	Index    int
	Strategy Strategy
	OK       bool
}

// Synthesizer runs the masking strategies in their fixed order.
type Synthesizer struct {
	fallback Fallback
	logger   *slog.Logger
}

// NewSynthesizer creates a Synthesizer. A nil fallback disables the
// generative step; a nil logger discards output.
func NewSynthesizer(fallback Fallback, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synthesizer{fallback: fallback, logger: logger}
}

// MakeCloze masks word in sentence with the given index. Bold and plain
// matching are tried first; the fallback runs once, and only when both
// deterministic steps matched nothing. A failed synthesis returns a *Error.
func (s *Synthesizer) MakeCloze(ctx context.Context, word, sentence string, index int) (Result, error) {
	if index < 1 {
		return Result{}, fmt.Errorf("mask index must be positive, got %d", index)
	}
	failed := Result{Text: sentence, Index: index, Strategy: StrategyNone}

	word = strings.TrimSpace(NormalizeHyphens(word))
	normalized := NormalizeHyphens(sentence)
	if word == "" || strings.TrimSpace(normalized) == "" {
		return failed, &Error{Word: word, Sentence: sentence}
	}

	for _, st := range deterministicSteps {
		masked, count := st.match(word, normalized, index)
		if count > 0 && HasMarker(masked, index) {
			return Result{Text: masked, Index: index, Strategy: st.name, OK: true}, nil
		}
	}

	if s.fallback == nil {
		return failed, &Error{Word: word, Sentence: sentence}
	}

	raw, err := s.fallback.CreateCloze(ctx, word, normalized)
	if err != nil {
		s.logger.WarnContext(ctx, "cloze fallback failed", "word", word, "error", err)
		return failed, &Error{Word: word, Sentence: sentence, Cause: err}
	}

	text := cleanFallbackText(raw)
	if !strings.Contains(text, canonicalOpen) {
		s.logger.WarnContext(ctx, "cloze fallback returned no marker", "word", word, "response", text)
		return failed, &Error{Word: word, Sentence: sentence}
	}
	text = renumber(text, index)
	if !HasMarker(text, index) {
		return failed, &Error{Word: word, Sentence: sentence}
	}
	return Result{Text: text, Index: index, Strategy: StrategyFallback, OK: true}, nil
}

// renumber rewrites the canonical {{c1:: prefix to the requested index.
func renumber(text string, index int) string {
	if index == 1 {
		return text
	}
	return strings.ReplaceAll(text, canonicalOpen, fmt.Sprintf("{{c%d::", index))
}

// cleanFallbackText trims whitespace and one pair of wrapping quotes or backticks.
func cleanFallbackText(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{"```", "`", `"`, "'"} {
		if len(s) > 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return s
}
