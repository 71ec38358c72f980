package library

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Default export file per table, written to the export directory.
var exportFiles = map[Table]string{
	TableBook:       "allBooks.xlsx",
	TableClient:     "allClients.xlsx",
	TableOperations: "day_operations.xlsx",
}

// ExportNames are the user-facing names of the exportable tables.
var ExportNames = []string{"books", "clients", "operations"}

var exportNames = map[string]Table{
	"books":      TableBook,
	"clients":    TableClient,
	"operations": TableOperations,
}

// ExportTable resolves a user-facing name ("books", "clients", "operations")
// to its table. Matching ignores case.
func ExportTable(name string) (Table, error) {
	table, ok := exportNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("export %q: %w", name, ErrUnknownIdentifier)
	}
	return table, nil
}

// ExportFile returns the default spreadsheet name for table.
func ExportFile(table Table) (string, error) {
	name, ok := exportFiles[table]
	if !ok {
		return "", fmt.Errorf("export %s: %w", table, ErrUnknownIdentifier)
	}
	return name, nil
}

// Export writes every row of table to a one-sheet workbook at dest: the
// column names first, then each record with all values as text. An existing
// file is overwritten.
func Export(db *Database, table Table, dest string) error {
	cols, rows, err := db.Dump(table)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.Strings()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(dest); err != nil {
		return fmt.Errorf("save %s: %w", dest, err)
	}
	return nil
}

// ImportResult reports a bulk import.
type ImportResult struct {
	Imported int
	Errors   []string
}

// ImportBooks reads the first sheet of an allBooks.xlsx-shaped workbook and
// inserts one book per row. Columns are matched by header name, so sheets
// with only some of the book columns work too. Bad rows are reported in the
// result and skipped.
func ImportBooks(db *Database, path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet", path)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index["book_code"]; !ok {
		return nil, fmt.Errorf("%s: header has no book_code column", path)
	}
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := &ImportResult{Errors: []string{}}
	for n, row := range rows[1:] {
		line := n + 2
		if cell(row, "book_code") == "" && cell(row, "book_name") == "" {
			continue
		}

		book := Book{
			Code:        cell(row, "book_code"),
			Name:        cell(row, "book_name"),
			Description: cell(row, "book_description"),
			Category:    cell(row, "book_category"),
			Author:      cell(row, "book_author"),
			Publisher:   cell(row, "book_publisher"),
		}
		if raw := cell(row, "book_price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: price %q is not a number", line, raw))
				continue
			}
			book.Price = price
		}
		if err := Validate(book); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if _, err := db.Insert(TableBook, book.fields()); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}
