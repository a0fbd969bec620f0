package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestMonthlyRecords(t *testing.T) {
	records := MonthlyRecords(sampleReport(t))

	if len(records) != 3 {
		t.Fatalf("expected header and 2 months, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != "Month,Deposits,Spending,Net,Transaction_Count" {
		t.Errorf("unexpected header: %v", records[0])
	}
	want := "2025-01,2500.00,50.92,2449.08,3"
	if got := strings.Join(records[1], ","); got != want {
		t.Errorf("January = %s, want %s", got, want)
	}
}

func TestDetailRecords(t *testing.T) {
	// TopMerchants is 2, but details list every merchant
	records := DetailRecords(sampleReport(t))

	if strings.Join(records[0], ",") != "Month,Merchant,Amount,Transaction_Count,Percentage_of_Month" {
		t.Errorf("unexpected header: %v", records[0])
	}
	want := []string{
		"2025-01,Kroger,45.67,1,89.7",
		"2025-01,Starbucks,5.25,1,10.3",
		"2025-02,Kroger,80.10,1,43.3",
		"2025-02,Starbucks,50.00,1,27.0",
		"2025-02,Shell Oil,35.00,1,18.9",
		"2025-02,Amazon,19.99,1,10.8",
	}
	if len(records) != len(want)+1 {
		t.Fatalf("expected %d records, got %d", len(want)+1, len(records))
	}
	for i, line := range want {
		if got := strings.Join(records[i+1], ","); got != line {
			t.Errorf("record %d = %s, want %s", i+1, got, line)
		}
	}
}

func TestWriteCSV_Quotes(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, [][]string{{"Month", "Merchant"}, {"2025-01", "Smith, Jones & Co"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"Smith, Jones & Co"`) {
		t.Errorf("expected quoted merchant, got %q", buf.String())
	}
}

func TestExportCSV(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "usaa_")
	if err := ExportCSV(sampleReport(t), prefix); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	monthlyPath, detailsPath := CSVExportPaths(prefix)
	if !strings.HasSuffix(monthlyPath, "usaa_monthly_summary.csv") || !strings.HasSuffix(detailsPath, "usaa_spending_details.csv") {
		t.Errorf("unexpected paths: %s %s", monthlyPath, detailsPath)
	}

	monthly, err := os.ReadFile(monthlyPath)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(monthly)), "\n"); len(lines) != 3 {
		t.Errorf("expected 3 lines in monthly summary, got %d", len(lines))
	}

	details, err := os.ReadFile(detailsPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(details), "Month,Merchant,Amount") {
		t.Errorf("unexpected details content: %q", details)
	}
}

func TestExportCSV_BadDirectory(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "missing", "dir", "x_")
	if err := ExportCSV(sampleReport(t), prefix); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := ExportXLSX(sampleReport(t), path); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SheetMonthly || sheets[1] != SheetDetails {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	rows, err := f.GetRows(SheetMonthly)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][0] != "Month" || rows[1][0] != "2025-01" {
		t.Errorf("unexpected monthly sheet: %v", rows)
	}

	deposits, err := f.GetCellValue(SheetMonthly, "B2")
	if err != nil {
		t.Fatal(err)
	}
	if deposits != "2500" {
		t.Errorf("deposits cell = %q, want numeric 2500", deposits)
	}

	details, err := f.GetRows(SheetDetails)
	if err != nil {
		t.Fatal(err)
	}
	if len(details) != 7 || details[3][1] != "Kroger" {
		t.Errorf("unexpected details sheet: %v", details)
	}
}
