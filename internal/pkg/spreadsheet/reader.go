// Package spreadsheet reads uploaded roster workbooks into header-keyed rows.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is the parsed first worksheet of an uploaded workbook
type Sheet struct {
	Header []string
	// Rows holds one map per data row, keyed by normalized header name.
	// Missing trailing cells are present as empty strings.
	Rows []map[string]string
}

// Read parses the first sheet of an xlsx workbook. The first row is the
// header; remaining rows become header-keyed maps with trimmed values.
func Read(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	sheet := &Sheet{Header: header}
	for _, raw := range rows[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			var value string
			if i < len(raw) {
				value = strings.TrimSpace(raw[i])
			}
			row[col] = value
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

// HasColumn reports whether the header contains the column
func (s *Sheet) HasColumn(name string) bool {
	for _, col := range s.Header {
		if col == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the header,
// preserving order.
func (s *Sheet) MissingColumns(required []string) []string {
	var missing []string
	for _, col := range required {
		if !s.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
