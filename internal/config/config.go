// Package config loads sentencemine settings from an optional file and the
// environment.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Todoist        TodoistConfig `yaml:"todoist"`
	LLM            LLMConfig     `yaml:"llm"`
	Anki           AnkiConfig    `yaml:"anki"`
	Ledger         LedgerConfig  `yaml:"ledger"`
	Log            LogConfig     `yaml:"log"`
	LanguagePrefix string        `yaml:"language_prefix" env:"LANGUAGE_PREFIX" env-default:"english"`
}

// TodoistConfig holds the task-list source settings.
type TodoistConfig struct {
	APIKey      string `yaml:"api_key"      env:"TODOIST_API_KEY"`
	ProjectName string `yaml:"project_name" env:"TODOIST_PROJECT_NAME" env-default:"english-words"`
	ErrorTag    string `yaml:"error_tag"    env:"TODOIST_ERROR_TAG"    env-default:"needs_review"`
	BaseURL     string `yaml:"base_url"     env:"TODOIST_BASE_URL"     env-default:"https://api.todoist.com/rest/v2"`
}

// LLMConfig holds the generative backend settings. Empty BaseURL and Model
// select the provider defaults.
type LLMConfig struct {
	Provider   string        `yaml:"provider"    env:"LLM_PROVIDER"    env-default:"openai"`
	APIKey     string        `yaml:"api_key"     env:"LLM_API_KEY"`
	BaseURL    string        `yaml:"base_url"    env:"LLM_BASE_URL"`
	Model      string        `yaml:"model"       env:"LLM_MODEL"`
	Timeout    time.Duration `yaml:"timeout"     env:"LLM_TIMEOUT"     env-default:"60s"`
	MaxRetries int           `yaml:"max_retries" env:"LLM_MAX_RETRIES" env-default:"5"`
	RetryMin   time.Duration `yaml:"retry_min"   env:"LLM_RETRY_MIN"   env-default:"1s"`
	RetryMax   time.Duration `yaml:"retry_max"   env:"LLM_RETRY_MAX"   env-default:"60s"`
	RateLimit  float64       `yaml:"rate_limit"  env:"LLM_RATE_LIMIT"  env-default:"0"`
	LogCalls   bool          `yaml:"log_calls"   env:"LLM_LOG_CALLS"   env-default:"false"`
}

// AnkiConfig holds the AnkiConnect settings.
type AnkiConfig struct {
	URL            string        `yaml:"url"             env:"ANKICONNECT_URL"         env-default:"http://localhost:8765"`
	Timeout        time.Duration `yaml:"timeout"         env:"ANKICONNECT_TIMEOUT"     env-default:"20s"`
	MaxRetries     int           `yaml:"max_retries"     env:"ANKICONNECT_MAX_RETRIES" env-default:"3"`
	RetryDelay     time.Duration `yaml:"retry_delay"     env:"ANKICONNECT_RETRY_DELAY" env-default:"3s"`
	DeckName       string        `yaml:"deck_name"       env:"ANKI_DECK_NAME"          env-default:"sentence-mining"`
	ModelName      string        `yaml:"model_name"      env:"ANKI_MODEL_NAME"         env-default:"English sentence-mining Model"`
	DuplicateMode  string        `yaml:"duplicate_mode"  env:"ANKI_DUPLICATE_MODE"     env-default:"skip"`
	DuplicateScope string        `yaml:"duplicate_scope" env:"ANKI_DUPLICATE_SCOPE"    env-default:"word"`
}

// LedgerConfig holds the run history settings. An empty Path resolves to
// ~/.sentencemine/ledger.db.
type LedgerConfig struct {
	Path     string `yaml:"path"     env:"SENTENCEMINE_DB"`
	Disabled bool   `yaml:"disabled" env:"LEDGER_DISABLED" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
