// Package tabular reads and writes the spreadsheet and CSV files exchanged with operators.
package tabular

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a header row followed by data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates an empty table with the given column names.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// Append adds a data row.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, matched case-insensitively after trimming.
func (t *Table) Index(column string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(column))
	for i, name := range t.Header {
		if strings.ToLower(strings.TrimSpace(name)) == want {
			return i, nil
		}
	}

	return -1, eris.Errorf("tabular: column %q not found", column)
}

// Columns resolves several column names at once.
func (t *Table) Columns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		pos, err := t.Index(name)
		if err != nil {
			return nil, err
		}
		idx[i] = pos
	}

	return idx, nil
}

// Cell returns the trimmed value at row and column, or "" when the row is short.
func (t *Table) Cell(row, column int) string {
	if row < 0 || row >= len(t.Rows) || column < 0 || column >= len(t.Rows[row]) {
		return ""
	}

	return strings.TrimSpace(t.Rows[row][column])
}

func fromRows(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}

	return &Table{Header: rows[0], Rows: rows[1:]}
}
