package pipeline

import (
	"context"
	"strings"
)

const (
	distractorCount = 2
	knownWordsLimit = 200
)

// choices returns the formatted multiple-choice options for word, or "" when
// not enough distractors could be found.
func (p *Pipeline) choices(ctx context.Context, word, definition string) string {
	picked := p.pickDistractors(ctx, word, definition)
	if len(picked) < distractorCount {
		p.logger.WarnContext(ctx, "not enough distractors", "word", word, "found", len(picked))
		return ""
	}
	opts := append([]string{word}, picked...)
	p.shuffle(opts)
	return "(" + strings.Join(opts, ", ") + ")"
}

func (p *Pipeline) pickDistractors(ctx context.Context, word, definition string) []string {
	exclude := map[string]struct{}{strings.ToLower(word): {}}
	var picked []string
	take := func(candidates []string) {
		for _, c := range candidates {
			if len(picked) == distractorCount {
				return
			}
			c = strings.TrimSpace(c)
			key := strings.ToLower(c)
			if c == "" {
				continue
			}
			if _, ok := exclude[key]; ok {
				continue
			}
			exclude[key] = struct{}{}
			picked = append(picked, c)
		}
	}

	// Most recent words of this run first.
	recent := make([]string, 0, len(p.seen))
	for i := len(p.seen) - 1; i >= 0; i-- {
		recent = append(recent, p.seen[i])
	}
	take(recent)

	if len(picked) < distractorCount {
		known, err := p.recorder.KnownWords(ctx, knownWordsLimit)
		if err != nil {
			p.logger.WarnContext(ctx, "reading known words failed", "error", err)
		}
		take(known)
	}

	if len(picked) < distractorCount && p.distractors != nil {
		generated, err := p.distractors.Distractors(ctx, word, definition, distractorCount-len(picked))
		if err != nil {
			p.logger.WarnContext(ctx, "generating distractors failed", "word", word, "error", err)
		}
		take(generated)
	}
	return picked
}
