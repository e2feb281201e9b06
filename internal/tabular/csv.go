package tabular

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/rotisserie/eris"
)

// ReadCSV reads comma separated rows, treating the first row as the header.
// Rows may have a variable number of fields.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, record)
	}

	return fromRows(rows), nil
}

// WriteCSV writes the header and rows of the table.
func WriteCSV(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return eris.Wrap(err, "csv: write rows")
	}

	return nil
}
