package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sentencemine/internal/cli/formatter"
	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/pipeline"
)

func reviewTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// huhReviewer shows each card and asks whether to add it. Ctrl+C aborts
// the whole run.
type huhReviewer struct {
	out     io.Writer
	confirm func(ctx context.Context, c *domain.Card) (bool, error)
}

func newHuhReviewer(in io.Reader, out io.Writer) *huhReviewer {
	return &huhReviewer{
		out: out,
		confirm: func(ctx context.Context, c *domain.Card) (bool, error) {
			accept := true
			form := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Add %q?", c.Word)).
					Description("Ctrl+C stops the run").
					Affirmative("Add").
					Negative("Skip").
					Value(&accept),
			)).
				WithTheme(reviewTheme()).
				WithShowHelp(false).
				WithInput(in).
				WithOutput(out)
			if err := form.RunWithContext(ctx); err != nil {
				return false, err
			}
			return accept, nil
		},
	}
}

func (r *huhReviewer) Review(ctx context.Context, c *domain.Card) (bool, error) {
	fmt.Fprintln(r.out, formatter.FormatCard(c))
	ok, err := r.confirm(ctx, c)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, pipeline.ErrReviewAborted
	}
	return ok, err
}
