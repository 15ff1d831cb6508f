package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sentencemine/internal/app"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/ledger"
	"github.com/alexanderramin/sentencemine/internal/pipeline"
)

type fakeRunner struct {
	summary *pipeline.Summary
	err     error
}

func (r *fakeRunner) Run(context.Context) (*pipeline.Summary, error) {
	return r.summary, r.err
}

type fakeHistory struct {
	runs    []ledger.Run
	entries []ledger.Entry
	err     error
	limit   int
}

func (h *fakeHistory) RecentRuns(_ context.Context, limit int) ([]ledger.Run, error) {
	h.limit = limit
	return h.runs, h.err
}

func (h *fakeHistory) FailedItems(_ context.Context, limit int) ([]ledger.Entry, error) {
	h.limit = limit
	return h.entries, h.err
}

var testNow = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

// testApp returns an App whose runner reports the given summary and records
// the options it was built with.
func testApp(runner *fakeRunner, got *app.RunOptions) *App {
	return &App{
		Pipelines: func(opts app.RunOptions) (Runner, error) {
			*got = opts
			return runner, nil
		},
		Checker:       func(context.Context) []app.CheckResult { return nil },
		IsInteractive: func() bool { return false },
		Now:           func() time.Time { return testNow },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func okSummary() *pipeline.Summary {
	return &pipeline.Summary{RunID: "run-1", Source: "todoist", Total: 2, Completed: 1, Duplicates: 1}
}

func TestRootCmd_DefaultFlags(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{summary: okSummary()}, &opts)

	out, err := executeCmd(t, a)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceTodoist, opts.Source)
	assert.Equal(t, "words.csv", opts.CSVPath)
	assert.Equal(t, "sentences.txt", opts.TextPath)
	assert.Empty(t, opts.Tags)
	assert.False(t, opts.DryRun)
	assert.False(t, opts.MultipleChoice)
	assert.Nil(t, opts.Reviewer)
	assert.NotNil(t, opts.Observer)
	assert.Contains(t, out, "RUN SUMMARY")
	assert.Contains(t, out, "1 added")
}

func TestRootCmd_SourceAndTags(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{summary: okSummary()}, &opts)

	_, err := executeCmd(t, a,
		"--source", "csv", "--csv-file", "mine.csv",
		"-t", "book,chapter-3", "--tags", "extra",
		"--multiple-choice", "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceCSV, opts.Source)
	assert.Equal(t, "mine.csv", opts.CSVPath)
	assert.Equal(t, []string{"book", "chapter-3", "extra"}, opts.Tags)
	assert.True(t, opts.MultipleChoice)
	assert.True(t, opts.DryRun)
}

func TestRootCmd_TextFileSource(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{summary: okSummary()}, &opts)

	_, err := executeCmd(t, a, "--source", "TEXT_FILE", "--text-file", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTextFile, opts.Source)
	assert.Equal(t, "notes.txt", opts.TextPath)
}

func TestRootCmd_UnknownSource(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)

	_, err := executeCmd(t, a, "--source", "notion")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source "notion"`)
}

func TestRootCmd_RejectsPositionalArgs(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{summary: okSummary()}, &opts)

	_, err := executeCmd(t, a, "words.csv")
	assert.Error(t, err)
}

func TestRootCmd_InteractiveNeedsTerminal(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{summary: okSummary()}, &opts)

	_, err := executeCmd(t, a, "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

func TestRootCmd_InteractiveInstallsReviewer(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{summary: okSummary()}, &opts)
	a.IsInteractive = func() bool { return true }

	_, err := executeCmd(t, a, "--interactive")
	require.NoError(t, err)
	assert.IsType(t, &huhReviewer{}, opts.Reviewer)
}

func TestRootCmd_PipelineBuildError(t *testing.T) {
	a := &App{
		Pipelines: func(app.RunOptions) (Runner, error) {
			return nil, errors.New("LLM_API_KEY is required")
		},
	}

	_, err := executeCmd(t, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestRootCmd_HaltPrintsSummaryAndFails(t *testing.T) {
	var opts app.RunOptions
	summary := &pipeline.Summary{Source: "todoist", Total: 2, Completed: 1, Halted: true, HaltReason: "anki unavailable"}
	a := testApp(&fakeRunner{
		summary: summary,
		err:     fmt.Errorf("%w: %w", pipeline.ErrHalted, errors.New("anki unavailable")),
	}, &opts)

	out, err := executeCmd(t, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrHalted)
	assert.Contains(t, out, "HALTED: anki unavailable")
}

func TestRootCmd_StartupFailureHasNoSummary(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{err: errors.New("preparing anki: unavailable")}, &opts)

	out, err := executeCmd(t, a)
	require.Error(t, err)
	assert.NotContains(t, out, "SUMMARY")
}

func TestHistoryCmd_Disabled(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)

	_, err := executeCmd(t, a, "history")
	assert.ErrorIs(t, err, errHistoryDisabled)
}

func TestHistoryCmd_ListsRuns(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)
	finished := testNow.Add(-time.Hour)
	h := &fakeHistory{runs: []ledger.Run{
		{ID: "abcdef0123", Source: "csv", StartedAt: testNow.Add(-2 * time.Hour), FinishedAt: &finished, Total: 3, Completed: 3},
	}}
	a.History = h

	out, err := executeCmd(t, a, "history", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, h.limit)
	assert.Contains(t, out, "RECENT RUNS")
	assert.Contains(t, out, "abcdef01")
	assert.Contains(t, out, "2h ago")
}

func TestHistoryCmd_Failed(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)
	h := &fakeHistory{entries: []ledger.Entry{
		{ItemID: "9", Source: "todoist", Word: "adagio", Outcome: domain.OutcomeSkipped, Reason: "definition failed", RecordedAt: testNow},
	}}
	a.History = h

	out, err := executeCmd(t, a, "history", "--failed")
	require.NoError(t, err)
	assert.Equal(t, 20, h.limit)
	assert.Contains(t, out, "FAILED ITEMS")
	assert.Contains(t, out, "adagio")
}

func TestHistoryCmd_Errors(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)
	a.History = &fakeHistory{err: errors.New("disk I/O error")}

	_, err := executeCmd(t, a, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading runs")

	_, err = executeCmd(t, a, "history", "--limit", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}

func TestCheckCmd(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)
	a.Checker = func(context.Context) []app.CheckResult {
		return []app.CheckResult{
			{Name: "AnkiConnect", Target: "http://localhost:8765", OK: true, Detail: "api version 6"},
			{Name: "LLM (openai)", Target: "gpt-4o-mini", OK: true, Detail: "reachable"},
		}
	}

	out, err := executeCmd(t, a, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "api version 6")
	assert.Contains(t, out, "reachable")
}

func TestCheckCmd_FailsWhenServiceDown(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)
	a.Checker = func(context.Context) []app.CheckResult {
		return []app.CheckResult{
			{Name: "AnkiConnect", Target: "http://localhost:8765", Detail: "connection refused"},
			{Name: "LLM (openai)", OK: true, Detail: "reachable"},
		}
	}

	out, err := executeCmd(t, a, "check")
	require.Error(t, err)
	assert.Equal(t, "unreachable: AnkiConnect", err.Error())
	assert.Contains(t, out, "connection refused")
}

func TestRootCmd_HelpListsEnvironment(t *testing.T) {
	var opts app.RunOptions
	a := testApp(&fakeRunner{}, &opts)

	out, err := executeCmd(t, a, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "ANKICONNECT_URL")
	assert.Contains(t, out, "--multiple-choice")
	assert.Contains(t, out, "history")
}
