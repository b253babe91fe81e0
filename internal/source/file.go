package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// FileSource reads inventory rows from a delimited file with a header row.
// Header names are matched case-insensitively against the Col* constants.
type FileSource struct {
	path string
}

// NewFile creates a file source for the given CSV path.
func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (s *FileSource) Name() string { return s.path }

// Rows implements Source.
func (s *FileSource) Rows(ctx context.Context) ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", s.path)
	}

	header := makeHeaderIndex(records[0])
	data := records[1:]
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: no data rows after header", s.path)
	}

	rows := make([]Row, 0, len(data))
	for _, rec := range data {
		if isEmptyRow(rec) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for name, pos := range header {
			if pos < len(rec) {
				row[name] = cleanCell(rec[pos])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// makeHeaderIndex maps lowercase header names to their column positions.
func makeHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(cleanCell(h))
		if key != "" {
			idx[key] = i
		}
	}
	return idx
}

// cleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace and a UTF-8 BOM
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return s
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
