package source

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/extract"
)

// TextFile reads one item per non-blank line. The word is marked with
// **bold** in the line; the context sentence is the line without the markers.
type TextFile struct {
	fileOutcomes
	path string
}

func NewTextFile(path string, logger *slog.Logger) *TextFile {
	return &TextFile{fileOutcomes: fileOutcomes{name: string(domain.SourceTextFile), logger: orDiscard(logger)}, path: path}
}

func (s *TextFile) Name() string { return string(domain.SourceTextFile) }

func (s *TextFile) ListItems(_ context.Context) ([]domain.SourceItem, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening text source: %w", err)
	}
	defer f.Close()

	var items []domain.SourceItem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		items = append(items, domain.SourceItem{
			ID:        fmt.Sprintf("textfile-%d", line),
			EntryText: text,
			Sentence:  extract.StripBold(text),
			Tags:      []string{"Type::TextFile"},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return items, nil
}
