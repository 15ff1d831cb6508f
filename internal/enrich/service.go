// Package enrich turns the generative backend into the card-level operations
// the pipeline needs: definitions, example sentences, cloze rewrites and
// multiple-choice distractors.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sentencemine/internal/llm"
)

// Service wraps an LLMClient with the prompts for each enrichment task.
type Service struct {
	client llm.LLMClient
}

// NewService creates a Service backed by client.
func NewService(client llm.LLMClient) *Service {
	return &Service{client: client}
}

// Define returns a concise definition of word. passage is the surrounding text and may be empty.
func (s *Service) Define(ctx context.Context, word, passage string) (string, error) {
	user := fmt.Sprintf(defineWithoutContextPrompt, word, word)
	if strings.TrimSpace(passage) != "" {
		user = fmt.Sprintf(defineWithContextPrompt, word, passage, word)
	}
	text, err := s.ask(ctx, llm.TaskDefine, defineSystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("defining %q: %w", word, err)
	}
	return text, nil
}

// Sentence generates one new example sentence for word. passage is the surrounding text and may be empty.
func (s *Service) Sentence(ctx context.Context, word, definition, passage string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, sentenceHeaderPrompt, word, definition)
	if strings.TrimSpace(passage) != "" {
		fmt.Fprintf(&b, sentenceContextPrompt, passage)
	}
	fmt.Fprintf(&b, sentenceInstructionPrompt, word)

	text, err := s.ask(ctx, llm.TaskSentence, sentenceSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("generating sentence for %q: %w", word, err)
	}
	return text, nil
}

// CreateCloze asks the model to wrap word, or an inflected form of it, in a
// {{c1::...}} marker. The caller validates the result.
func (s *Service) CreateCloze(ctx context.Context, word, sentence string) (string, error) {
	text, err := s.ask(ctx, llm.TaskCloze, clozeSystemPrompt, fmt.Sprintf(clozeUserPrompt, word, sentence))
	if err != nil {
		return "", fmt.Errorf("cloze rewrite for %q: %w", word, err)
	}
	return text, nil
}

type distractorsPayload struct {
	Distractors []string `json:"distractors"`
}

func validateDistractors(p distractorsPayload) error {
	if len(p.Distractors) == 0 {
		return errors.New("distractors list is empty")
	}
	return nil
}

// Distractors returns up to n words a learner could confuse with word.
// The word itself and repeats are removed.
func (s *Service) Distractors(ctx context.Context, word, definition string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	text, err := s.ask(ctx, llm.TaskDistractors, distractorsSystemPrompt,
		fmt.Sprintf(distractorsUserPrompt, word, definition, n))
	if err != nil {
		return nil, fmt.Errorf("distractors for %q: %w", word, err)
	}

	payload, err := llm.ExtractJSON(text, validateDistractors)
	if err != nil {
		return nil, fmt.Errorf("distractors for %q: %w", word, err)
	}

	seen := map[string]bool{strings.ToLower(word): true}
	out := make([]string, 0, n)
	for _, d := range payload.Distractors {
		d = strings.TrimSpace(d)
		key := strings.ToLower(d)
		if d == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func (s *Service) ask(ctx context.Context, task llm.TaskType, system, user string) (string, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         task,
		SystemPrompt: system,
		UserPrompt:   user,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}
