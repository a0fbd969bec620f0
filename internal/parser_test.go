package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func registerTestParser() {
	RegisterParser("test-format", ParserFunc(func(path string) ([]Row, error) {
		return nil, nil
	}))
}

func TestIsKnownParser(t *testing.T) {
	registerTestParser()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"known parser", "test-format", true},
		{"built-in csv", "csv", true},
		{"built-in json", "simple-json", true},
		{"built-in xlsx", "xlsx", true},
		{"unknown parser", "unknown-format", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsKnownParser(tt.input)
			if got != tt.expected {
				t.Errorf("IsKnownParser(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFileArg(t *testing.T) {
	registerTestParser()

	tests := []struct {
		name           string
		input          string
		expectedFormat string
		expectedPath   string
	}{
		{
			name:           "with known format prefix",
			input:          "test-format:data.json",
			expectedFormat: "test-format",
			expectedPath:   "data.json",
		},
		{
			name:           "with built-in format prefix",
			input:          "xlsx:bank.xlsx",
			expectedFormat: "xlsx",
			expectedPath:   "bank.xlsx",
		},
		{
			name:           "no prefix",
			input:          "data.csv",
			expectedFormat: "",
			expectedPath:   "data.csv",
		},
		{
			name:           "unknown prefix treated as path",
			input:          "unknown:data.json",
			expectedFormat: "",
			expectedPath:   "unknown:data.json",
		},
		{
			name:           "windows path with drive letter",
			input:          "C:\\Users\\test\\data.csv",
			expectedFormat: "",
			expectedPath:   "C:\\Users\\test\\data.csv",
		},
		{
			name:           "format prefix with absolute path",
			input:          "csv:/home/user/export.txt",
			expectedFormat: "csv",
			expectedPath:   "/home/user/export.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFormat, gotPath := ParseFileArg(tt.input)
			if gotFormat != tt.expectedFormat {
				t.Errorf("ParseFileArg(%q) format = %q, want %q", tt.input, gotFormat, tt.expectedFormat)
			}
			if gotPath != tt.expectedPath {
				t.Errorf("ParseFileArg(%q) path = %q, want %q", tt.input, gotPath, tt.expectedPath)
			}
		})
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name           string
		source         string
		fileArg        string
		expectedFormat string
		expectedPath   string
	}{
		{"extension csv", "", "usaa.csv", "csv", "usaa.csv"},
		{"extension json", "", "data.JSON", "simple-json", "data.JSON"},
		{"extension xlsx", "", "export.xlsx", "xlsx", "export.xlsx"},
		{"prefix beats extension", "", "simple-json:data.txt", "simple-json", "data.txt"},
		{"flag beats prefix", "csv", "xlsx:data.xlsx", "csv", "data.xlsx"},
		{"default", "", "export.txt", DefaultSource, "export.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, path := ResolveSource(tt.source, tt.fileArg)
			if format != tt.expectedFormat || path != tt.expectedPath {
				t.Errorf("ResolveSource(%q, %q) = (%q, %q), want (%q, %q)",
					tt.source, tt.fileArg, format, path, tt.expectedFormat, tt.expectedPath)
			}
		})
	}
}

func TestReadRows_UnknownSource(t *testing.T) {
	_, err := ReadRows("nope", "data.csv")
	if err == nil || !strings.Contains(err.Error(), "unknown source type") {
		t.Errorf("expected unknown source error, got %v", err)
	}
}

func TestParseCSV(t *testing.T) {
	input := "\ufeffDate,Description,Original Description,Category,Amount,Status\n" +
		"2025-01-15,Grocery Store,\"KROGER #123 ATLANTA, GA\",Food,-45.67,Posted\n" +
		"\n" +
		"2025-01-14,Paycheck,EMPLOYER DIRECT DEP,Paycheck,2500.00\n"

	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][ColDate] != "2025-01-15" {
		t.Errorf("BOM not stripped from header: %v", rows[0])
	}
	if rows[0][ColOriginalDescription] != "KROGER #123 ATLANTA, GA" {
		t.Errorf("quoted field = %q", rows[0][ColOriginalDescription])
	}
	status, ok := rows[1][ColStatus]
	if !ok || status != "" {
		t.Errorf("short record should have an empty status, got %q (present %v)", status, ok)
	}
}

func TestParseCSV_MissingColumn(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"with rows", "Date,Description,Category,Amount,Status\n2025-01-15,Store,Food,-1,Posted\n"},
		{"header only", "Date,Description,Category,Amount,Status\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMissingColumn) {
				t.Fatalf("expected ErrMissingColumn, got %v", err)
			}
			var mc *MissingColumnError
			if !errors.As(err, &mc) || mc.Column != ColOriginalDescription || mc.Row >= 0 {
				t.Errorf("unexpected error: %#v", err)
			}
			if !strings.Contains(err.Error(), "in header") {
				t.Errorf("message should point at the header: %v", err)
			}
		})
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParseSimpleJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.json")
	content := `{"transactions": [
		{"date": "2025-01-15", "description": "Grocery Store", "original_description": "KROGER #123", "category": "Food", "amount": "-45.67", "status": "Posted"},
		{"date": "2025-01-16", "description": "Coffee", "original_description": "STARBUCKS", "category": "Food", "amount": -5.25, "status": "Pending"},
		{"date": "2025-01-17", "description": "Odd", "original_description": "ODD", "category": "Misc", "amount": null, "status": "Posted"}
	]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := ParseSimpleJSON(path)
	if err != nil {
		t.Fatalf("ParseSimpleJSON: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][ColAmount] != "-45.67" || rows[1][ColAmount] != "-5.25" || rows[2][ColAmount] != "" {
		t.Errorf("unexpected amounts: %q %q %q", rows[0][ColAmount], rows[1][ColAmount], rows[2][ColAmount])
	}
	if rows[1][ColStatus] != "Pending" || rows[0][ColOriginalDescription] != "KROGER #123" {
		t.Errorf("unexpected row: %v", rows[1])
	}

	// the null amount is reported per row, not for the whole file
	result, err := LoadTransactions(rows)
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if len(result.Transactions) != 2 || len(result.Skipped) != 1 {
		t.Errorf("expected 2 loaded and 1 skipped, got %d and %d", len(result.Transactions), len(result.Skipped))
	}
}

func TestParseXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]any{
		{"Checking account export"},
		{},
		{"Status", "Date", "Description", "Original Description", "Category", "Amount"},
		{"Posted", "2025-01-15", "Grocery Store", "KROGER #123 ATLANTA GA", "Food", "-45.67"},
		{},
		{"Pending", "2025-01-16", "Coffee", "STARBUCKS 1234", "Food", "-5.25"},
	}
	for i, values := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rows, err := ParseXLSX(path)
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][ColOriginalDescription] != "KROGER #123 ATLANTA GA" || rows[0][ColAmount] != "-45.67" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1][ColStatus] != "Pending" {
		t.Errorf("columns matched by header name, got status %q", rows[1][ColStatus])
	}
}

func TestParseXLSX_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xlsx")
	f := excelize.NewFile()
	if err := f.SetCellValue(f.GetSheetName(0), "A1", "Date"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err := ParseXLSX(path)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var mc *MissingColumnError
	if !errors.As(err, &mc) || mc.Column != ColDescription {
		t.Errorf("expected %q to be reported, got %v", ColDescription, err)
	}
}
