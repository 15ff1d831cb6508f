package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 3/8 for done out of total.
// The bar is green when everything is done, yellow past half, red otherwise.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	if total < 0 {
		total = 0
	}
	done = max(0, min(done, total))

	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleRed
	switch {
	case total > 0 && done == total:
		style = StyleGreen
	case total > 0 && done*2 >= total:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
