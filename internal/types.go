package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one raw input record keyed by column name
type Row map[string]string

// Column names of a checking-account export
const (
	ColDate                = "Date"
	ColDescription         = "Description"
	ColOriginalDescription = "Original Description"
	ColCategory            = "Category"
	ColAmount              = "Amount"
	ColStatus              = "Status"
)

// RequiredColumns lists every column the loader needs, in export order
var RequiredColumns = []string{
	ColDate,
	ColDescription,
	ColOriginalDescription,
	ColCategory,
	ColAmount,
	ColStatus,
}

type Status string

const (
	StatusPosted  Status = "Posted"
	StatusPending Status = "Pending"
)

// ParseStatus accepts Posted/Pending in any letter case
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "posted":
		return StatusPosted, nil
	case "pending":
		return StatusPending, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

type Transaction struct {
	Row                 int // zero-based index of the source row
	Date                time.Time
	Description         string
	OriginalDescription string
	Category            string
	Amount              decimal.Decimal // negative = spending, positive = deposit
	Status              Status
}

// Entry is a transaction annotated with its canonical merchant
type Entry struct {
	Transaction
	Merchant    string
	Provisional bool // pending with no posted counterpart
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of days between start and end
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// MonthKey identifies a calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Before reports whether k is chronologically earlier than other
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// String returns e.g. "January 2025"
func (k MonthKey) String() string {
	return fmt.Sprintf("%s %d", k.Month, k.Year)
}

// ID returns e.g. "2025-01"
func (k MonthKey) ID() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}
