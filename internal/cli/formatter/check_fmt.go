package formatter

import (
	"strings"

	"github.com/alexanderramin/sentencemine/internal/app"
)

// FormatCheck renders service reachability results.
func FormatCheck(results []app.CheckResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := StyleGreen.Render("✔ up")
		if !r.OK {
			status = StyleRed.Render("✖ down")
		}
		rows = append(rows, []string{Bold(r.Name), Dim(r.Target), status, r.Detail})
	}
	return RenderBox("Connectivity", strings.TrimRight(RenderTable([]string{"SERVICE", "TARGET", "STATUS", "DETAIL"}, rows), "\n"))
}
