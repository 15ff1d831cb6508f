// Package app wires configuration into the clients, sources and pipeline.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/sentencemine/internal/anki"
	"github.com/alexanderramin/sentencemine/internal/card"
	"github.com/alexanderramin/sentencemine/internal/cloze"
	"github.com/alexanderramin/sentencemine/internal/config"
	"github.com/alexanderramin/sentencemine/internal/db"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/enrich"
	"github.com/alexanderramin/sentencemine/internal/extract"
	"github.com/alexanderramin/sentencemine/internal/ledger"
	"github.com/alexanderramin/sentencemine/internal/llm"
	"github.com/alexanderramin/sentencemine/internal/pipeline"
	"github.com/alexanderramin/sentencemine/internal/source"
	"github.com/alexanderramin/sentencemine/internal/todoist"
)

// RunOptions are the per-invocation choices made on the command line.
type RunOptions struct {
	Source         domain.SourceKind
	CSVPath        string
	TextPath       string
	Tags           []string
	MultipleChoice bool
	DryRun         bool
	Reviewer       pipeline.Reviewer
	Observer       pipeline.ItemObserver
}

// App owns the long-lived resources of one process.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Anki   *anki.Client

	// Ledger is nil when history is disabled.
	Ledger *ledger.SQLiteLedger

	database *sql.DB
}

// New opens the ledger and builds the AnkiConnect client. No network call
// is made.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		Config: cfg,
		Logger: logger,
		Anki:   anki.NewClient(AnkiConfig(cfg), logger),
	}
	if !cfg.Ledger.Disabled {
		database, err := db.OpenDB(cfg.Ledger.Path)
		if err != nil {
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
		a.database = database
		a.Ledger = ledger.New(database)
	}
	return a, nil
}

// Close releases the ledger database.
func (a *App) Close() error {
	if a.database == nil {
		return nil
	}
	return a.database.Close()
}

// Session is the deck and note model cards are written to.
func (a *App) Session() anki.Session {
	return anki.Session{Deck: a.Config.Anki.DeckName, Model: a.Config.Anki.ModelName}
}

// LLM builds the generative backend client with call logging when enabled.
func (a *App) LLM() (llm.LLMClient, error) {
	var observer llm.Observer = llm.NoopObserver{}
	if a.Config.LLM.LogCalls {
		observer = llm.NewLogObserver(a.Logger)
	}
	return llm.New(LLMConfig(a.Config), observer)
}

// Pipeline assembles a pipeline for one run.
func (a *App) Pipeline(opts RunOptions) (*pipeline.Pipeline, error) {
	if err := a.Config.RequireRun(opts.Source); err != nil {
		return nil, err
	}

	client, err := a.LLM()
	if err != nil {
		return nil, err
	}
	enricher := enrich.NewService(client)

	var tasks source.TaskAPI
	if opts.Source == domain.SourceTodoist {
		tasks = todoist.NewClient(TodoistConfig(a.Config))
	}
	src, err := source.New(source.Options{
		Kind:     opts.Source,
		CSVPath:  opts.CSVPath,
		TextPath: opts.TextPath,
		Todoist: source.TodoistOptions{
			Project:    a.Config.Todoist.ProjectName,
			ErrorLabel: a.Config.Todoist.ErrorTag,
		},
	}, tasks, a.Logger)
	if err != nil {
		return nil, err
	}

	synth := cloze.NewSynthesizer(enricher, a.Logger)
	cards := card.NewAssembler(synth, a.Anki, a.Session(), card.Options{
		Mode:  card.DuplicateMode(a.Config.Anki.DuplicateMode),
		Scope: card.DuplicateScope(a.Config.Anki.DuplicateScope),
	}, a.Logger)

	deps := pipeline.Deps{
		Source:      src,
		Store:       a.Anki,
		Enricher:    enricher,
		Distractors: enricher,
		Cards:       cards,
		Extractor:   extract.New(a.Config.LanguagePrefix),
		Reviewer:    opts.Reviewer,
		Observer:    pipeline.MultiObserver(pipeline.NewLogItemObserver(a.Logger), opts.Observer),
		Logger:      a.Logger,
	}
	if a.Ledger != nil {
		deps.Recorder = a.Ledger
	}

	return pipeline.New(pipeline.Config{
		Session:        a.Session(),
		Tags:           opts.Tags,
		DryRun:         opts.DryRun,
		MultipleChoice: opts.MultipleChoice,
	}, deps), nil
}

// CheckResult is the reachability of one external service.
type CheckResult struct {
	Name   string
	Target string
	OK     bool
	Detail string
}

// Check probes AnkiConnect and the generative backend.
func (a *App) Check(ctx context.Context) []CheckResult {
	ankiResult := CheckResult{Name: "AnkiConnect", Target: a.Config.Anki.URL}
	if v, err := a.Anki.Version(ctx); err != nil {
		ankiResult.Detail = err.Error()
	} else {
		ankiResult.OK = true
		ankiResult.Detail = fmt.Sprintf("api version %d", v)
	}

	llmCfg := LLMConfig(a.Config)
	llmResult := CheckResult{
		Name:   "LLM (" + string(llmCfg.Provider) + ")",
		Target: llmCfg.ResolvedModel(),
	}
	switch client, err := a.LLM(); {
	case strings.TrimSpace(llmCfg.APIKey) == "":
		llmResult.Detail = config.ErrMissingLLMKey.Error()
	case err != nil:
		llmResult.Detail = err.Error()
	case client.Available(ctx):
		llmResult.OK = true
		llmResult.Detail = "reachable"
	default:
		llmResult.Detail = "unreachable"
	}
	return []CheckResult{ankiResult, llmResult}
}

// AnkiConfig maps configuration onto the AnkiConnect client settings.
func AnkiConfig(cfg *config.Config) anki.Config {
	return anki.Config{
		URL:        cfg.Anki.URL,
		Timeout:    cfg.Anki.Timeout,
		MaxRetries: cfg.Anki.MaxRetries,
		RetryDelay: cfg.Anki.RetryDelay,
	}
}

// LLMConfig maps configuration onto the generative backend settings,
// keeping the per-task defaults.
func LLMConfig(cfg *config.Config) llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Provider = llm.Provider(cfg.LLM.Provider)
	out.APIKey = cfg.LLM.APIKey
	out.BaseURL = cfg.LLM.BaseURL
	out.Model = cfg.LLM.Model
	out.Timeout = cfg.LLM.Timeout
	out.MaxRetries = cfg.LLM.MaxRetries
	out.RetryMin = cfg.LLM.RetryMin
	out.RetryMax = cfg.LLM.RetryMax
	out.RateLimit = cfg.LLM.RateLimit
	out.LogCalls = cfg.LLM.LogCalls
	return out
}

// TodoistConfig maps configuration onto the Todoist client settings.
func TodoistConfig(cfg *config.Config) todoist.Config {
	return todoist.Config{
		BaseURL: cfg.Todoist.BaseURL,
		Token:   cfg.Todoist.APIKey,
	}
}
