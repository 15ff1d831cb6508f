package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alexanderramin/sentencemine/internal/domain"
)

// CSV reads items from a comma-separated file. The layout is chosen per row
// by column count:
//
//	2 columns:  entry_text, sentence
//	3 columns:  id, entry_text, sentence
//	4+ columns: id, entry_text, sentence, tags (comma separated)
type CSV struct {
	fileOutcomes
	path string
}

func NewCSV(path string, logger *slog.Logger) *CSV {
	return &CSV{fileOutcomes: fileOutcomes{name: string(domain.SourceCSV), logger: orDiscard(logger)}, path: path}
}

func (s *CSV) Name() string { return string(domain.SourceCSV) }

func (s *CSV) ListItems(_ context.Context) ([]domain.SourceItem, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening csv source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var items []domain.SourceItem
	first, row := true, 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		row++

		item, ok := parseRecord(record, row)
		if !ok {
			line, _ := r.FieldPos(0)
			s.logger.Warn("skipping csv row", slog.String("path", s.path), slog.Int("line", line), slog.Int("columns", len(record)))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func isHeader(record []string) bool {
	for _, cell := range record {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "entry_text", "sentence":
			return true
		}
	}
	return false
}

func parseRecord(record []string, row int) (domain.SourceItem, bool) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	var item domain.SourceItem
	switch n := len(record); {
	case n < 2:
		return item, false
	case n == 2:
		item = domain.SourceItem{ID: fmt.Sprintf("csv-%d", row), EntryText: record[0], Sentence: record[1]}
	default:
		item = domain.SourceItem{ID: record[0], EntryText: record[1], Sentence: record[2]}
		if item.ID == "" {
			item.ID = fmt.Sprintf("csv-%d", row)
		}
		if n >= 4 {
			for _, tag := range strings.Split(record[3], ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					item.Tags = append(item.Tags, tag)
				}
			}
		}
	}
	if item.EntryText == "" {
		return item, false
	}
	item.Tags = withTag(item.Tags, "Type::CSV")
	return item, true
}
