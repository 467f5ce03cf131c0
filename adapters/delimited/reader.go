// Package delimited parses tab-separated test data files into raw tables.
package delimited

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"celldata/domain/cell"
)

// Parse reads a tab-delimited file with a header row into a RawTable.
// The byte stream is decoded as UTF-8 with invalid sequences replaced.
// Header names are normalized, fully-empty rows are dropped, and at
// least one data row must remain.
func Parse(r io.Reader) (*cell.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "�")

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse tab-delimited data: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("data must have at least a header row and one data row")
	}

	headers := cell.NormalizeHeaders(records[0])
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return nil, fmt.Errorf("duplicate column name '%s' after normalization", h)
		}
		seen[h] = true
	}

	table := &cell.RawTable{Headers: headers}
	for i := 1; i < len(records); i++ {
		record := records[i]
		row := make(cell.RawRow, len(headers))
		empty := true
		for j, h := range headers {
			if j >= len(record) {
				break
			}
			value := strings.TrimSpace(record[j])
			row[h] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no data rows remain after dropping empty rows")
	}
	return table, nil
}
