package internal

import (
	"sort"

	"github.com/shopspring/decimal"
)

type MonthlySummary struct {
	Month            MonthKey
	Deposits         decimal.Decimal
	Spending         decimal.Decimal // absolute value of outflows
	Net              decimal.Decimal
	TransactionCount int
	ProvisionalCount int
}

// MonthlyAverages are means over the months present in the data
type MonthlyAverages struct {
	Deposits         decimal.Decimal
	Spending         decimal.Decimal
	Net              decimal.Decimal
	TransactionCount float64
}

type MonthlyTotals struct {
	Months  []MonthKey // chronological
	ByMonth map[MonthKey]*MonthlySummary
}

// AggregateMonthly buckets entries by calendar month in a single pass.
// Months without transactions are not synthesized.
func AggregateMonthly(entries []Entry) *MonthlyTotals {
	totals := &MonthlyTotals{ByMonth: make(map[MonthKey]*MonthlySummary)}

	for _, e := range entries {
		key := MonthOf(e.Date)
		sum, ok := totals.ByMonth[key]
		if !ok {
			sum = &MonthlySummary{Month: key}
			totals.ByMonth[key] = sum
			totals.Months = append(totals.Months, key)
		}
		switch e.Amount.Sign() {
		case 1:
			sum.Deposits = sum.Deposits.Add(e.Amount)
		case -1:
			sum.Spending = sum.Spending.Sub(e.Amount)
		}
		sum.TransactionCount++
		if e.Provisional {
			sum.ProvisionalCount++
		}
	}

	sort.Slice(totals.Months, func(i, j int) bool {
		return totals.Months[i].Before(totals.Months[j])
	})
	for _, sum := range totals.ByMonth {
		sum.Net = sum.Deposits.Sub(sum.Spending)
	}
	return totals
}

// Summaries returns copies of the monthly summaries in chronological order
func (t *MonthlyTotals) Summaries() []MonthlySummary {
	result := make([]MonthlySummary, 0, len(t.Months))
	for _, m := range t.Months {
		result = append(result, *t.ByMonth[m])
	}
	return result
}

// Total sums every month; Month is left zero
func (t *MonthlyTotals) Total() MonthlySummary {
	var total MonthlySummary
	for _, m := range t.Months {
		sum := t.ByMonth[m]
		total.Deposits = total.Deposits.Add(sum.Deposits)
		total.Spending = total.Spending.Add(sum.Spending)
		total.TransactionCount += sum.TransactionCount
		total.ProvisionalCount += sum.ProvisionalCount
	}
	total.Net = total.Deposits.Sub(total.Spending)
	return total
}

func (t *MonthlyTotals) Averages() MonthlyAverages {
	if len(t.Months) == 0 {
		return MonthlyAverages{}
	}
	total := t.Total()
	n := decimal.NewFromInt(int64(len(t.Months)))
	return MonthlyAverages{
		Deposits:         total.Deposits.Div(n),
		Spending:         total.Spending.Div(n),
		Net:              total.Net.Div(n),
		TransactionCount: float64(total.TransactionCount) / float64(len(t.Months)),
	}
}
