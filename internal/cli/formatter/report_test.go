package formatter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/sentencemine/internal/app"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/ledger"
	"github.com/alexanderramin/sentencemine/internal/pipeline"
)

func TestFormatSummary(t *testing.T) {
	s := &pipeline.Summary{
		RunID:      "5f0c1a2b-0000-0000-0000-000000000000",
		Source:     "todoist",
		Duration:   2 * time.Second,
		Total:      3,
		Completed:  1,
		Duplicates: 1,
		Skipped:    1,
		Items: []pipeline.ItemResult{
			{ItemID: "1", Word: "lento", Outcome: domain.OutcomeCompleted},
			{ItemID: "2", Word: "presto", Outcome: domain.OutcomeDuplicate},
			{ItemID: "3", Word: "adagio", Outcome: domain.OutcomeSkipped, Reason: "cloze construction failed"},
		},
	}

	got := FormatSummary(s)
	assert.Contains(t, got, "RUN SUMMARY")
	assert.Contains(t, got, "5f0c1a2b")
	assert.Contains(t, got, "2/3")
	assert.Contains(t, got, "1 added")
	assert.Contains(t, got, "1 duplicate")
	assert.Contains(t, got, "1 skipped")
	assert.Contains(t, got, "adagio")
	assert.Contains(t, got, "cloze construction failed")
	assert.NotContains(t, got, "HALTED")
}

func TestFormatSummary_HaltedAndDryRun(t *testing.T) {
	s := &pipeline.Summary{
		Source:     "csv",
		DryRun:     true,
		Total:      1,
		Halted:     true,
		HaltReason: "anki unavailable",
	}

	got := FormatSummary(s)
	assert.Contains(t, got, "DRY RUN SUMMARY")
	assert.Contains(t, got, "HALTED: anki unavailable")
}

func TestFormatSummary_Empty(t *testing.T) {
	got := FormatSummary(&pipeline.Summary{Source: "text"})
	assert.Contains(t, got, "Nothing to do")
}

func TestFormatItem(t *testing.T) {
	got := FormatItem(pipeline.ItemResult{ItemID: "42", Word: "lento", Outcome: domain.OutcomeSkipped, Reason: "rejected in review"})
	assert.Contains(t, got, "SKIPPED")
	assert.Contains(t, got, "lento")
	assert.Contains(t, got, "rejected in review")

	got = FormatItem(pipeline.ItemResult{ItemID: "43", Outcome: domain.OutcomeCompleted, Reason: "dry run"})
	assert.Contains(t, got, "ADDED")
	assert.Contains(t, got, "--")
	assert.NotContains(t, got, "dry run")
}

func TestFormatCard(t *testing.T) {
	c := &domain.Card{
		Word:       "lento",
		Text:       "The river was {{c1::lento}}.<br>A {{c2::lento}} tempo.",
		Definition: "slow",
		Context:    "The river was lento.",
		Options:    "(lento, presto, vivace)",
		Tags:       []string{"Month::03", "Year::2025"},
	}

	got := FormatCard(c)
	assert.Contains(t, got, "LENTO")
	assert.Contains(t, got, "[1: lento]")
	assert.Contains(t, got, "[2: lento]")
	assert.Contains(t, got, "slow")
	assert.Contains(t, got, "(lento, presto, vivace)")
	assert.Contains(t, got, "Year::2025")
	assert.NotContains(t, got, "<br>")
}

func TestFormatRuns(t *testing.T) {
	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	finished := now.Add(-time.Hour)
	runs := []ledger.Run{
		{ID: "aaaaaaaa-1111", Source: "todoist", StartedAt: now.Add(-2 * time.Hour), FinishedAt: &finished, Total: 4, Completed: 3, Skipped: 1},
		{ID: "bbbbbbbb-2222", Source: "csv", DryRun: true, StartedAt: now.Add(-26 * time.Hour), FinishedAt: &finished, Halted: true, HaltReason: "anki unavailable"},
	}

	got := FormatRuns(runs, now)
	assert.Contains(t, got, "RECENT RUNS")
	assert.Contains(t, got, "aaaaaaaa")
	assert.Contains(t, got, "2h ago")
	assert.Contains(t, got, "Yesterday")
	assert.Contains(t, got, "(dry)")
	assert.Contains(t, got, "halted")
	assert.Contains(t, got, "anki unavailable")

	assert.Contains(t, FormatRuns(nil, now), "No runs recorded yet.")
}

func TestFormatFailures(t *testing.T) {
	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	entries := []ledger.Entry{
		{ItemID: "7", Source: "todoist", Word: "adagio", Outcome: domain.OutcomeSkipped, Reason: "definition failed", RecordedAt: now.Add(-5 * time.Minute)},
	}

	got := FormatFailures(entries, now)
	assert.Contains(t, got, "FAILED ITEMS")
	assert.Contains(t, got, "adagio")
	assert.Contains(t, got, "5m ago")
	assert.Contains(t, got, "definition failed")

	assert.Contains(t, FormatFailures(nil, now), "No failed items.")
}

func TestFormatCheck(t *testing.T) {
	got := FormatCheck([]app.CheckResult{
		{Name: "AnkiConnect", Target: "http://localhost:8765", OK: true, Detail: "api version 6"},
		{Name: "LLM (openai)", Target: "gpt-4o-mini", Detail: errors.New("connection refused").Error()},
	})
	assert.Contains(t, got, "CONNECTIVITY")
	assert.Contains(t, got, "up")
	assert.Contains(t, got, "down")
	assert.Contains(t, got, "api version 6")
	assert.Contains(t, got, "connection refused")
}

func TestRenderTable(t *testing.T) {
	got := RenderTable([]string{"A", "B"}, [][]string{{"one", "two"}})
	assert.Contains(t, got, "A")
	assert.Contains(t, got, "one")
	assert.Contains(t, got, "two")
	assert.Empty(t, RenderTable(nil, nil))
}
