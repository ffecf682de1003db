// Package history reads viewing-history logs into raw rows.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/watchlog/internal/model"
)

// Column names looked up in the header row, case-insensitively.
const (
	ColumnDate    = "date"
	ColumnTitle   = "title"
	ColumnEpisode = "episode"
)

const byteOrderMark = "\ufeff"

// ErrMissingColumn reports a header without a required column.
var ErrMissingColumn = errors.New("missing required column")

// LoadFile reads a CSV viewing log from path.
func LoadFile(path string) ([]model.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()
	return ReadCSV(file)
}

// ReadCSV reads a header-led CSV log. Only the header is validated: data rows
// with missing cells come back with empty fields so the store can count them.
func ReadCSV(r io.Reader) ([]model.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty history log")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []model.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// Keep the row so it is counted as skipped.
				rows = append(rows, model.RawRow{Line: perr.StartLine})
				continue
			}
			return nil, fmt.Errorf("failed to read history log: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, model.RawRow{
			Line:    line,
			Date:    cell(record, cols.date),
			Title:   cell(record, cols.title),
			Episode: cell(record, cols.episode),
		})
	}
	return rows, nil
}

type columns struct {
	date    int
	title   int
	episode int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{date: -1, title: -1, episode: -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, byteOrderMark)))
		switch name {
		case ColumnDate:
			cols.date = i
		case ColumnTitle:
			cols.title = i
		case ColumnEpisode:
			cols.episode = i
		}
	}
	var missing []string
	if cols.date < 0 {
		missing = append(missing, "Date")
	}
	if cols.title < 0 {
		missing = append(missing, "Title")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
