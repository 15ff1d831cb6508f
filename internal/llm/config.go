package llm

import "time"

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskDefine      TaskType = "define"
	TaskSentence    TaskType = "sentence"
	TaskCloze       TaskType = "cloze"
	TaskDistractors TaskType = "distractors"
)

// Provider names a generation backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const (
	DefaultBaseURL        = "https://api.tokenfactory.nebius.com/v1/"
	DefaultModel          = "openai/gpt-oss-20b"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryMin   time.Duration
	RetryMax   time.Duration
	// RateLimit is the request budget per second. Zero disables pacing.
	RateLimit float64
	LogCalls  bool
	Tasks     map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig pointed at the default OpenAI-compatible endpoint.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOpenAI,
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		Timeout:    60 * time.Second,
		MaxRetries: 5,
		RetryMin:   time.Second,
		RetryMax:   60 * time.Second,
		Tasks: map[TaskType]TaskConfig{
			TaskDefine:      {Temperature: 0.2, MaxTokens: 512},
			TaskSentence:    {Temperature: 0.7, MaxTokens: 512},
			TaskCloze:       {Temperature: 0.1, MaxTokens: 512},
			TaskDistractors: {Temperature: 0.8, MaxTokens: 256},
		},
	}
}

// TaskTimeout returns the effective per-attempt timeout for a given task type.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.Timeout > 0 {
		return tc.Timeout
	}
	return c.Timeout
}

// ResolvedModel returns the configured model or the provider's default.
func (c LLMConfig) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderAnthropic {
		return DefaultAnthropicModel
	}
	return DefaultModel
}
