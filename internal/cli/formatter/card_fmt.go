package formatter

import (
	"strings"

	"github.com/alexanderramin/sentencemine/internal/domain"
)

// FormatCard renders a card preview for dry runs and interactive review.
func FormatCard(c *domain.Card) string {
	var b strings.Builder
	for i, s := range strings.Split(c.Text, domain.CardSeparator) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(HighlightCloze(s))
	}
	b.WriteString("\n\n")

	b.WriteString(Dim("Definition  ") + StyleFg.Render(c.Definition) + "\n")
	if strings.TrimSpace(c.Context) != "" {
		b.WriteString(Dim("Context     ") + StyleFg.Render(c.Context) + "\n")
	}
	if c.Options != "" {
		b.WriteString(Dim("Options     ") + StylePurple.Render(c.Options) + "\n")
	}
	if len(c.Tags) > 0 {
		b.WriteString(Dim("Tags        ") + Dim(strings.Join(c.Tags, " ")) + "\n")
	}
	return RenderBox(c.Word, strings.TrimRight(b.String(), "\n"))
}
