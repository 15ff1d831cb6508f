package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/sentencemine/internal/domain"
)

var (
	ErrMissingLLMKey     = errors.New("LLM_API_KEY is required")
	ErrMissingTodoistKey = errors.New("TODOIST_API_KEY is required for the todoist source")
)

var (
	llmProviders    = []string{"openai", "anthropic"}
	duplicateModes  = []string{"skip", "reset"}
	duplicateScopes = []string{"word", "word_definition"}
	logLevels       = []string{"debug", "info", "warn", "error"}
	logFormats      = []string{"text", "json"}
)

// Validate checks enum values and numeric ranges. Load calls it automatically.
// Credentials are checked per command by RequireRun.
func (c *Config) Validate() error {
	c.LLM.Provider = normalize(c.LLM.Provider)
	c.Anki.DuplicateMode = normalize(c.Anki.DuplicateMode)
	c.Anki.DuplicateScope = normalize(c.Anki.DuplicateScope)
	c.Log.Level = normalize(c.Log.Level)
	c.Log.Format = normalize(c.Log.Format)

	if err := oneOf("llm.provider", c.LLM.Provider, llmProviders); err != nil {
		return err
	}
	if err := oneOf("anki.duplicate_mode", c.Anki.DuplicateMode, duplicateModes); err != nil {
		return err
	}
	if err := oneOf("anki.duplicate_scope", c.Anki.DuplicateScope, duplicateScopes); err != nil {
		return err
	}
	if err := oneOf("log.level", c.Log.Level, logLevels); err != nil {
		return err
	}
	if err := oneOf("log.format", c.Log.Format, logFormats); err != nil {
		return err
	}

	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must be >= 0 (got %d)", c.LLM.MaxRetries)
	}
	if c.LLM.RetryMin > c.LLM.RetryMax {
		return fmt.Errorf("llm.retry_min (%s) must not exceed llm.retry_max (%s)", c.LLM.RetryMin, c.LLM.RetryMax)
	}
	if c.LLM.RateLimit < 0 {
		return fmt.Errorf("llm.rate_limit must be >= 0 (got %v)", c.LLM.RateLimit)
	}
	if c.Anki.MaxRetries < 1 {
		return fmt.Errorf("anki.max_retries must be >= 1 (got %d)", c.Anki.MaxRetries)
	}
	if strings.TrimSpace(c.Anki.DeckName) == "" || strings.TrimSpace(c.Anki.ModelName) == "" {
		return errors.New("anki.deck_name and anki.model_name must not be empty")
	}
	return nil
}

// RequireRun checks the credentials a pipeline run over source needs.
func (c *Config) RequireRun(source domain.SourceKind) error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingLLMKey
	}
	if source == domain.SourceTodoist && strings.TrimSpace(c.Todoist.APIKey) == "" {
		return ErrMissingTodoistKey
	}
	return nil
}

func oneOf(name, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s (got %q)", name, strings.Join(allowed, ", "), value)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
