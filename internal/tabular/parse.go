package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Parse reads an uploaded file into a Table, dispatching on the file
// extension: .csv is read as delimited text, anything else is treated as a
// spreadsheet. The first row is the header.
func Parse(name string, r io.Reader) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".csv" {
		return ParseCSV(r)
	}
	return ParseSpreadsheet(r)
}

// ParseCSV reads delimited text with a header row. Ragged rows are
// tolerated and padded on access.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &Table{Columns: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// ParseSpreadsheet reads the first sheet of an xlsx workbook with a header
// row. Formats excelize cannot open (including legacy .xls) surface as a
// parse error for that one file.
func ParseSpreadsheet(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	return &Table{Columns: rows[0], Rows: rows[1:]}, nil
}
