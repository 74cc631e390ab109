// Package spreadsheet reads and writes the tabular artifacts the pipeline
// exchanges: job-posting inputs, summarized outputs and the candidate export.
// The format is chosen by file extension: .xlsx workbooks or .csv files.
// CSV inputs are decoded as ISO-8859-1 since the posting exports the pipeline
// receives use that legacy encoding.
package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Table is an in-memory tabular file: a header row plus data rows. Rows are
// padded to the header width on read.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at the given row for the named column, or the empty
// string when either is out of range.
func (t *Table) Cell(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][idx]
}

// AppendColumn adds a new column with one value per row.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}

	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// DropUnnamed removes index-artifact columns: headers that are empty or start
// with "Unnamed" after trimming.
func (t *Table) DropUnnamed() {
	keep := make([]int, 0, len(t.Columns))
	for i, col := range t.Columns {
		trimmed := strings.TrimSpace(col)
		if trimmed == "" || strings.HasPrefix(trimmed, "Unnamed") {
			continue
		}
		keep = append(keep, i)
	}

	if len(keep) == len(t.Columns) {
		return
	}

	columns := make([]string, 0, len(keep))
	for _, i := range keep {
		columns = append(columns, t.Columns[i])
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		newRow := make([]string, 0, len(keep))
		for _, i := range keep {
			newRow = append(newRow, row[i])
		}
		rows[r] = newRow
	}

	t.Columns = columns
	t.Rows = rows
}

// Read loads a table from the given path, dispatching on the file extension.
func Read(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format: %s", filepath.Ext(path))
	}
}

// Write stores the table at the given path, dispatching on the file extension.
func Write(path string, t *Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeXLSX(path, t)
	case ".csv":
		return writeCSV(path, t)
	default:
		return fmt.Errorf("unsupported spreadsheet format: %s", filepath.Ext(path))
	}
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return tableFromRows(rows)
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %q: %w", path, err)
	}

	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	table := &Table{Columns: rows[0], Rows: make([][]string, 0, len(rows)-1)}
	width := len(table.Columns)

	for _, row := range rows[1:] {
		padded := make([]string, width)
		copy(padded, row)
		table.Rows = append(table.Rows, padded)
	}

	return table, nil
}

func writeXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

func writeCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %q: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()

	return writer.Error()
}
