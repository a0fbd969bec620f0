package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook holding the export columns.
// The header row is the first row that contains every required column;
// anything above it (titles, account info) is ignored.
func ParseXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	headerRow := -1
	var columns map[string]int
	// closest is the row with the most required columns, used to name
	// the missing one when no full header exists
	var closest []string
	closestCount := -1
	for i, row := range cells {
		found := make(map[string]int)
		trimmed := make([]string, len(row))
		for j, cell := range row {
			trimmed[j] = strings.TrimSpace(cell)
			found[trimmed[j]] = j
		}
		if n := countColumns(found); n == len(RequiredColumns) {
			headerRow = i
			columns = found
			break
		} else if n > closestCount {
			closest, closestCount = trimmed, n
		}
	}
	if headerRow < 0 {
		return nil, &MissingColumnError{Column: firstMissingColumn(closest), Row: -1}
	}

	var rows []Row
	for _, cellRow := range cells[headerRow+1:] {
		if isBlankRecord(cellRow) {
			continue
		}
		row := make(Row, len(RequiredColumns))
		for _, col := range RequiredColumns {
			j := columns[col]
			if j < len(cellRow) {
				row[col] = cellRow[j]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func countColumns(found map[string]int) int {
	n := 0
	for _, col := range RequiredColumns {
		if _, ok := found[col]; ok {
			n++
		}
	}
	return n
}

func init() {
	RegisterParser("xlsx", ParserFunc(ParseXLSX), ".xlsx")
}
