package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name       string
		done       int
		total      int
		width      int
		wantFilled int
		wantCount  string
	}{
		{"empty", 0, 8, 8, 0, "0/8"},
		{"half", 4, 8, 8, 4, "4/8"},
		{"full", 8, 8, 8, 8, "8/8"},
		{"over clamps", 12, 8, 8, 8, "8/8"},
		{"negative clamps", -3, 8, 8, 0, "0/8"},
		{"no items", 0, 0, 8, 0, "0/0"},
		{"tiny width", 1, 2, 1, 1, "1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.done, tt.total, tt.width)
			assert.True(t, strings.HasSuffix(got, tt.wantCount), got)
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
			width := max(tt.width, 2)
			assert.Equal(t, width, strings.Count(got, filledBlock)+strings.Count(got, emptyBlock))
		})
	}
}
