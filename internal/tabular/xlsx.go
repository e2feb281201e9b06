package tabular

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadSheet reads the first worksheet of an XLSX file, treating its first row as the header.
func ReadSheet(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", path)
	}

	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("xlsx: %s has no sheets", path)
	}

	rows := make([][]string, 0, len(f.Sheets[0].Rows))
	for _, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}

	return fromRows(rows), nil
}

// WriteSheet saves the table as a single-sheet XLSX file, replacing any existing file.
func WriteSheet(path, sheetName string, table *Table) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %q", sheetName)
	}

	addRow(sheet, table.Header)
	for _, cells := range table.Rows {
		addRow(sheet, cells)
	}

	if err = f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}

	return nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, value := range cells {
		row.AddCell().SetString(value)
	}
}
