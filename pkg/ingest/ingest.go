// Package ingest reads stock tables from Excel workbooks or CSV files into
// an ordered header list plus per-row cell maps. It performs no validation
// beyond requiring a header row; schema checks belong to the engine.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw tabular input: column headers in source order and one
// cell map per data row.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// ReadFile loads a table from a path, dispatching on the file extension.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ReadWorkbook(f)
	case ".csv":
		return ReadCSV(f)
	}
	return nil, fmt.Errorf("unsupported input format %q (expected .xlsx or .csv)", filepath.Ext(path))
}

// ReadWorkbook reads the first sheet of an Excel workbook.
func ReadWorkbook(r io.Reader) (*Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = wb.Close()
	}()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tableFromRows(rows)
}

// ReadCSV reads a comma-separated table. Rows may be ragged; short rows
// are padded with empty cells.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.New("input has no header row")
	}

	columns := make([]string, 0, len(rows[0]))
	for _, header := range rows[0] {
		columns = append(columns, strings.TrimSpace(header))
	}

	table := &Table{Columns: columns}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		cells := make(map[string]string, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(row) {
				cells[col] = row[i]
			} else {
				cells[col] = ""
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
