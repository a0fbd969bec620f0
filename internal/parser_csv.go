package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ParseCSVFile reads a checking-account CSV export with a header row
func ParseCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV reads CSV records into rows keyed by the header cells.
// Short records get empty strings for their missing trailing cells.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow ragged records
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading CSV header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		header[i] = strings.TrimSpace(h)
	}
	if col := firstMissingColumn(header); col != "" {
		return nil, &MissingColumnError{Column: col, Row: -1}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}

		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// firstMissingColumn returns the first required column not in header
func firstMissingColumn(header []string) string {
	for _, col := range RequiredColumns {
		if !slices.Contains(header, col) {
			return col
		}
	}
	return ""
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func init() {
	RegisterParser("csv", ParserFunc(ParseCSVFile), ".csv")
}
