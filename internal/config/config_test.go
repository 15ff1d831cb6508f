package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sentencemine/internal/domain"
)

// isolate points the loader away from any ./.env in the working directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "english-words", cfg.Todoist.ProjectName)
	assert.Equal(t, "needs_review", cfg.Todoist.ErrorTag)
	assert.Equal(t, "https://api.todoist.com/rest/v2", cfg.Todoist.BaseURL)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.LLM.MaxRetries)
	assert.Equal(t, time.Second, cfg.LLM.RetryMin)
	assert.Equal(t, 60*time.Second, cfg.LLM.RetryMax)
	assert.Zero(t, cfg.LLM.RateLimit)
	assert.False(t, cfg.LLM.LogCalls)
	assert.Equal(t, "http://localhost:8765", cfg.Anki.URL)
	assert.Equal(t, 20*time.Second, cfg.Anki.Timeout)
	assert.Equal(t, 3, cfg.Anki.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.Anki.RetryDelay)
	assert.Equal(t, "sentence-mining", cfg.Anki.DeckName)
	assert.Equal(t, "English sentence-mining Model", cfg.Anki.ModelName)
	assert.Equal(t, "skip", cfg.Anki.DuplicateMode)
	assert.Equal(t, "word", cfg.Anki.DuplicateScope)
	assert.Equal(t, "english", cfg.LanguagePrefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Ledger.Disabled)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".sentencemine", "ledger.db"), cfg.Ledger.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("LLM_RATE_LIMIT", "2.5")
	t.Setenv("ANKI_DUPLICATE_MODE", "reset")
	t.Setenv("ANKI_DUPLICATE_SCOPE", "word_definition")
	t.Setenv("SENTENCEMINE_DB", "~/data/history.db")
	t.Setenv("LEDGER_DISABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.InDelta(t, 2.5, cfg.LLM.RateLimit, 1e-9)
	assert.Equal(t, "reset", cfg.Anki.DuplicateMode)
	assert.Equal(t, "word_definition", cfg.Anki.DuplicateScope)
	assert.True(t, cfg.Ledger.Disabled)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "history.db"), cfg.Ledger.Path)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "sentencemine.yaml", `
todoist:
  project_name: "inbox-words"
llm:
  model: "gpt-4o-mini"
  max_retries: 2
anki:
  deck_name: "Vocab"
ledger:
  path: "/tmp/ledger.db"
log:
  format: "json"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ANKI_DECK_NAME", "FromEnv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "inbox-words", cfg.Todoist.ProjectName)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, "FromEnv", cfg.Anki.DeckName, "env wins over file")
	assert.Equal(t, "/tmp/ledger.db", cfg.Ledger.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "skip", cfg.Anki.DuplicateMode, "defaults fill the rest")
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)
	// Registered so the values the .env file exports are restored afterwards.
	t.Setenv("TODOIST_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")
	require.NoError(t, os.WriteFile(".env", []byte("TODOIST_API_KEY=todo-secret\nLLM_API_KEY=llm-secret\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "todo-secret", cfg.Todoist.APIKey)
	assert.Equal(t, "llm-secret", cfg.LLM.APIKey)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LLM_PROVIDER":            "ollama",
		"ANKI_DUPLICATE_MODE":     "merge",
		"ANKI_DUPLICATE_SCOPE":    "deck",
		"LOG_LEVEL":               "verbose",
		"LOG_FORMAT":              "xml",
		"LLM_MAX_RETRIES":         "-1",
		"LLM_RATE_LIMIT":          "-3",
		"ANKICONNECT_MAX_RETRIES": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate")
		})
	}
}

func TestLoad_RetryBoundsOrdered(t *testing.T) {
	isolate(t)
	t.Setenv("LLM_RETRY_MIN", "2m")
	t.Setenv("LLM_RETRY_MAX", "1m")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry_min")
}

func TestRequireRun(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.RequireRun(domain.SourceCSV), ErrMissingLLMKey)

	cfg.LLM.APIKey = "k"
	assert.NoError(t, cfg.RequireRun(domain.SourceCSV))
	assert.NoError(t, cfg.RequireRun(domain.SourceTextFile))
	assert.ErrorIs(t, cfg.RequireRun(domain.SourceTodoist), ErrMissingTodoistKey)

	cfg.Todoist.APIKey = "t"
	assert.NoError(t, cfg.RequireRun(domain.SourceTodoist))
}

func TestUsageListsVariables(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "ANKICONNECT_URL")
	assert.Contains(t, usage, "LLM_API_KEY")
}
