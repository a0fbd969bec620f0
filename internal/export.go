package internal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

var (
	monthlyHeader = []string{"Month", "Deposits", "Spending", "Net", "Transaction_Count"}
	detailsHeader = []string{"Month", "Merchant", "Amount", "Transaction_Count", "Percentage_of_Month"}
)

// MonthlyRecords returns the monthly summary table, header first
func MonthlyRecords(r *Report) [][]string {
	records := [][]string{monthlyHeader}
	for _, m := range r.Monthly {
		records = append(records, []string{
			m.Month.ID(),
			m.Deposits.StringFixed(2),
			m.Spending.StringFixed(2),
			m.Net.StringFixed(2),
			fmt.Sprintf("%d", m.TransactionCount),
		})
	}
	return records
}

// DetailRecords returns one row per month and merchant, every merchant
// included, ordered by month and then by amount descending
func DetailRecords(r *Report) [][]string {
	records := [][]string{detailsHeader}
	for _, b := range r.Breakdowns {
		for _, ms := range r.Details[b.Month] {
			records = append(records, []string{
				b.Month.ID(),
				ms.Merchant,
				ms.TotalSpent.StringFixed(2),
				fmt.Sprintf("%d", ms.TransactionCount),
				Percent(ms.TotalSpent, b.TotalSpending).StringFixed(1),
			})
		}
	}
	return records
}

// CSVExportPaths returns the two files written for a prefix
func CSVExportPaths(prefix string) (monthly, details string) {
	return prefix + "monthly_summary.csv", prefix + "spending_details.csv"
}

// ExportCSV writes <prefix>monthly_summary.csv and <prefix>spending_details.csv
func ExportCSV(r *Report, prefix string) error {
	monthlyPath, detailsPath := CSVExportPaths(prefix)
	if err := writeCSVFile(monthlyPath, MonthlyRecords(r)); err != nil {
		return err
	}
	return writeCSVFile(detailsPath, DetailRecords(r))
}

func writeCSVFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func WriteCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

const (
	SheetMonthly = "Monthly Summary"
	SheetDetails = "Spending Details"
)

// ExportXLSX writes a workbook with the monthly summary and spending details sheets
func ExportXLSX(r *Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMonthly); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetDetails); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	if err := writeSheet(f, SheetMonthly, MonthlyRecords(r), 1); err != nil {
		return err
	}
	if err := writeSheet(f, SheetDetails, DetailRecords(r), 2); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// writeSheet stores records, converting every column after textCols to numbers
func writeSheet(f *excelize.File, sheet string, records [][]string, textCols int) error {
	for i, record := range records {
		row := make([]any, len(record))
		for j, cell := range record {
			row[j] = cell
			if i > 0 && j >= textCols {
				if v, err := ParseAmount(cell); err == nil {
					row[j], _ = v.Float64()
				}
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
