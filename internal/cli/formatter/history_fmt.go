package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sentencemine/internal/ledger"
)

// FormatRuns renders recent runs, newest first.
func FormatRuns(runs []ledger.Run, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No runs recorded yet.") + "\n"
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		source := r.Source
		if r.DryRun {
			source += Dim(" (dry)")
		}
		status := StyleGreen.Render("ok")
		switch {
		case r.Halted:
			status = StyleRed.Render("halted")
		case r.FinishedAt == nil:
			status = StyleYellow.Render("unfinished")
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			HumanTimestampFrom(r.StartedAt, now),
			source,
			fmt.Sprintf("%d", r.Total),
			StyleGreen.Render(fmt.Sprintf("%d", r.Completed)),
			StyleBlue.Render(fmt.Sprintf("%d", r.Duplicates)),
			StyleYellow.Render(fmt.Sprintf("%d", r.Skipped)),
			status,
		})
	}

	var b strings.Builder
	b.WriteString(Header("Recent runs") + "\n")
	b.WriteString(RenderTable([]string{"RUN", "STARTED", "SOURCE", "ITEMS", "ADDED", "DUP", "SKIPPED", "STATUS"}, rows))
	for _, r := range runs {
		if r.Halted && r.HaltReason != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", TruncID(r.ID), StyleRed.Render(Truncate(r.HaltReason, 100))))
		}
	}
	return b.String()
}

// FormatFailures renders skipped and halted items for follow-up.
func FormatFailures(entries []ledger.Entry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No failed items.") + "\n"
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			HumanTimestampFrom(e.RecordedAt, now),
			e.Source,
			e.ItemID,
			Bold(e.Word),
			OutcomeIndicator(e.Outcome),
			Dim(Truncate(e.Reason, 60)),
		})
	}

	var b strings.Builder
	b.WriteString(Header("Failed items") + "\n")
	b.WriteString(RenderTable([]string{"WHEN", "SOURCE", "ITEM", "WORD", "OUTCOME", "REASON"}, rows))
	return b.String()
}
