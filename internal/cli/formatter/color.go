package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sentencemine/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// OutcomeStyle returns the style for an item outcome.
func OutcomeStyle(o domain.Outcome) lipgloss.Style {
	switch o {
	case domain.OutcomeCompleted:
		return StyleGreen
	case domain.OutcomeDuplicate:
		return StyleBlue
	case domain.OutcomeSkipped:
		return StyleYellow
	case domain.OutcomeHalted:
		return StyleRed
	default:
		return StyleDim
	}
}

// OutcomeIndicator returns a colored marker such as "✔ ADDED".
func OutcomeIndicator(o domain.Outcome) string {
	style := OutcomeStyle(o)
	switch o {
	case domain.OutcomeCompleted:
		return style.Render("✔ ADDED")
	case domain.OutcomeDuplicate:
		return style.Render("= DUPLICATE")
	case domain.OutcomeSkipped:
		return style.Render("⊘ SKIPPED")
	case domain.OutcomeHalted:
		return style.Render("✖ HALTED")
	default:
		return style.Render("● " + strings.ToUpper(string(o)))
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
