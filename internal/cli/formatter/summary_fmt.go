package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/pipeline"
)

const summaryBarWidth = 16

// FormatItem renders the one-line progress entry of a processed item.
func FormatItem(r pipeline.ItemResult) string {
	word := r.Word
	if word == "" {
		word = "--"
	}
	line := fmt.Sprintf("  %s  %s  %s", OutcomeIndicator(r.Outcome), Bold(word), Dim(r.ItemID))
	if r.Reason != "" && r.Outcome != domain.OutcomeCompleted {
		line += "  " + Dim(Truncate(r.Reason, 80))
	}
	return line + "\n"
}

// FormatSummary renders the end-of-run report.
func FormatSummary(s *pipeline.Summary) string {
	var b strings.Builder

	title := "Run summary"
	if s.DryRun {
		title = "Dry run summary"
	}

	handled := s.Completed + s.Duplicates
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Source  "), StyleFg.Render(s.Source)))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Run     "), TruncID(s.RunID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Took    "), StyleFg.Render(FormatDuration(s.Duration))))
	b.WriteString(fmt.Sprintf("%s  %s\n\n", Dim("Progress"), RenderProgress(handled, s.Total, summaryBarWidth)))

	parts := []string{
		StyleGreen.Render(fmt.Sprintf("%d added", s.Completed)),
		StyleBlue.Render(fmt.Sprintf("%d duplicate", s.Duplicates)),
		StyleYellow.Render(fmt.Sprintf("%d skipped", s.Skipped)),
	}
	b.WriteString(strings.Join(parts, Dim(" · ")) + "\n")

	if s.Total == 0 {
		b.WriteString("\n" + Dim("Nothing to do: the source listed no items.") + "\n")
	}

	var skipped []pipeline.ItemResult
	for _, r := range s.Items {
		if r.Outcome == domain.OutcomeSkipped {
			skipped = append(skipped, r)
		}
	}
	if len(skipped) > 0 {
		rows := make([][]string, 0, len(skipped))
		for _, r := range skipped {
			rows = append(rows, []string{r.ItemID, Bold(r.Word), Dim(Truncate(r.Reason, 60))})
		}
		b.WriteString("\n" + RenderTable([]string{"ITEM", "WORD", "REASON"}, rows))
	}

	if s.Halted {
		b.WriteString("\n" + StyleRed.Render("HALTED: "+s.HaltReason) + "\n")
		b.WriteString(Dim("Remaining items were left untouched; rerun once the cause is fixed.") + "\n")
	}

	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}
