package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoadResult holds the typed transactions and the rows that were skipped
type LoadResult struct {
	Transactions []Transaction
	Skipped      []*MalformedRowError
}

// Warnings converts skipped rows to report warnings
func (r *LoadResult) Warnings() []Warning {
	var warnings []Warning
	for _, s := range r.Skipped {
		warnings = append(warnings, Warning{Kind: WarningMalformedRow, Row: s.Row, Message: s.Error()})
	}
	return warnings
}

// LoadTransactions turns raw rows into transactions.
// A missing column anywhere fails before any row is parsed. Rows with a bad
// date, amount or status are skipped and recorded; if none survive the
// result is ErrEmptyDataset.
func LoadTransactions(rows []Row) (*LoadResult, error) {
	for i, row := range rows {
		for _, col := range RequiredColumns {
			if _, ok := row[col]; !ok {
				return nil, &MissingColumnError{Column: col, Row: i}
			}
		}
	}

	result := &LoadResult{}
	for i, row := range rows {
		tx, err := parseRow(i, row)
		if err != nil {
			var malformed *MalformedRowError
			if errors.As(err, &malformed) {
				result.Skipped = append(result.Skipped, malformed)
				continue
			}
			return nil, err
		}
		result.Transactions = append(result.Transactions, tx)
	}

	if len(result.Transactions) == 0 {
		return nil, fmt.Errorf("%w (%d rows read, %d skipped)", ErrEmptyDataset, len(rows), len(result.Skipped))
	}
	return result, nil
}

func parseRow(i int, row Row) (Transaction, error) {
	dateStr := strings.TrimSpace(row[ColDate])
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return Transaction{}, &MalformedRowError{Row: i, Column: ColDate, Value: row[ColDate], Err: err}
	}

	amount, err := ParseAmount(row[ColAmount])
	if err != nil {
		return Transaction{}, &MalformedRowError{Row: i, Column: ColAmount, Value: row[ColAmount], Err: err}
	}

	status, err := ParseStatus(row[ColStatus])
	if err != nil {
		return Transaction{}, &MalformedRowError{Row: i, Column: ColStatus, Value: row[ColStatus], Err: err}
	}

	return Transaction{
		Row:                 i,
		Date:                date,
		Description:         strings.TrimSpace(row[ColDescription]),
		OriginalDescription: strings.TrimSpace(row[ColOriginalDescription]),
		Category:            strings.TrimSpace(row[ColCategory]),
		Amount:              amount,
		Status:              status,
	}, nil
}

// ParseAmount parses a signed decimal such as "-45.67", "$1,234.00" or "(12.50)"
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
