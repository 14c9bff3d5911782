package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// dateLayouts are tried in order when parsing cells of date-like columns.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"1/2/2006 15:04",
	"1/2/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
}

// dateHeaderHints mark a column as a timestamp candidate by name.
var dateHeaderHints = []string{"time", "date", "timestamp"}

// Load reads a CSV event log from path and builds the immutable table plus
// its key column bindings. Files are decoded as UTF-8 with a Latin-1
// fallback for legacy exports.
func Load(path string) (*Table, KeyColumns, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, KeyColumns{}, fmt.Errorf("read event log: %w", err)
	}
	table, err := parse(raw)
	if err != nil {
		return nil, KeyColumns{}, fmt.Errorf("parse event log %s: %w", path, err)
	}
	return table, BindKeyColumns(table), nil
}

// parse decodes and parses raw CSV bytes into a Table.
func parse(raw []byte) (*Table, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode latin-1: %w", err)
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("event log is empty")
	}

	headers := make([]string, len(records[0]))
	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		headers[i] = h
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	cells := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(rec))
		for i, v := range rec {
			row[i] = strings.TrimSpace(v)
		}
		cells = append(cells, row)
	}

	rows := make([]int, len(cells))
	for i := range rows {
		rows[i] = i
	}

	t := &Table{
		headers: headers,
		index:   index,
		cells:   cells,
		times:   make(map[int][]time.Time),
		rows:    rows,
	}
	parseDateColumns(t)
	return t, nil
}

// parseDateColumns parses every column whose header hints at timestamps.
// A column is kept as a date column only when at least one cell parses.
func parseDateColumns(t *Table) {
	for col, header := range t.headers {
		lower := strings.ToLower(header)
		hinted := false
		for _, hint := range dateHeaderHints {
			if strings.Contains(lower, hint) {
				hinted = true
				break
			}
		}
		if !hinted {
			continue
		}
		parsed := make([]time.Time, len(t.cells))
		any := false
		for i, row := range t.cells {
			if col >= len(row) {
				continue
			}
			if ts, ok := parseTime(row[col]); ok {
				parsed[i] = ts
				any = true
			}
		}
		if any {
			t.times[col] = parsed
		}
	}
}

// parseTime attempts each known layout against a cell value.
func parseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
