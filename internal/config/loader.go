package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultFile = "./.env"

// Load reads configuration from a file and environment variables.
// Priority: ENV > file > defaults (via env-default tags).
// The file path comes from CONFIG_PATH (fallback "./.env"); .env, .yaml and
// .toml files are accepted. A missing fallback file is not an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = defaultFile
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.resolveLedgerPath(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolveLedgerPath() error {
	path := strings.TrimSpace(c.Ledger.Path)
	if path != "" && path != "~" && !strings.HasPrefix(path, "~/") {
		c.Ledger.Path = path
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}
	if path == "" {
		c.Ledger.Path = filepath.Join(home, ".sentencemine", "ledger.db")
		return nil
	}
	c.Ledger.Path = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	return nil
}

// Usage returns the environment variable help text for the CLI.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
