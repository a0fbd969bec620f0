package internal

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultTopMerchants is how many merchants a breakdown lists individually
const DefaultTopMerchants = 4

// percentPrecision is the number of fractional digits kept when dividing
const percentPrecision = 8

var hundred = decimal.NewFromInt(100)

type MerchantSpending struct {
	Merchant         string
	TotalSpent       decimal.Decimal // absolute value
	TransactionCount int
}

type MerchantShare struct {
	MerchantSpending
	Percent decimal.Decimal // of the month's spending, unrounded
}

// OthersBucket collapses every merchant beyond the top N
type OthersBucket struct {
	MerchantCount int
	TotalSpent    decimal.Decimal
	Percent       decimal.Decimal
}

func (o OthersBucket) Label() string {
	return fmt.Sprintf("... and %d others", o.MerchantCount)
}

type MerchantBreakdown struct {
	Month         MonthKey
	TotalSpending decimal.Decimal
	Top           []MerchantShare
	Others        *OthersBucket
}

type MerchantTotals struct {
	Months  []MonthKey                      // chronological, months with spending only
	ByMonth map[MonthKey][]MerchantSpending // sorted by SortMerchants order
}

// AggregateMerchants groups spending (amount < 0) by month and merchant
func AggregateMerchants(entries []Entry) *MerchantTotals {
	buckets := make(map[MonthKey]map[string]*MerchantSpending)
	for _, e := range FilterSpending(entries) {
		key := MonthOf(e.Date)
		month, ok := buckets[key]
		if !ok {
			month = make(map[string]*MerchantSpending)
			buckets[key] = month
		}
		ms, ok := month[e.Merchant]
		if !ok {
			ms = &MerchantSpending{Merchant: e.Merchant}
			month[e.Merchant] = ms
		}
		ms.TotalSpent = ms.TotalSpent.Sub(e.Amount)
		ms.TransactionCount++
	}

	totals := &MerchantTotals{ByMonth: make(map[MonthKey][]MerchantSpending)}
	for key, month := range buckets {
		totals.Months = append(totals.Months, key)
		totals.ByMonth[key] = sortedMerchants(month)
	}
	sort.Slice(totals.Months, func(i, j int) bool {
		return totals.Months[i].Before(totals.Months[j])
	})
	return totals
}

// FilterSpending returns only entries with negative amounts
func FilterSpending(entries []Entry) []Entry {
	var spending []Entry
	for _, e := range entries {
		if e.Amount.IsNegative() {
			spending = append(spending, e)
		}
	}
	return spending
}

func sortedMerchants(m map[string]*MerchantSpending) []MerchantSpending {
	result := make([]MerchantSpending, 0, len(m))
	for _, ms := range m {
		result = append(result, *ms)
	}
	SortMerchants(result)
	return result
}

// SortMerchants orders by total spent desc, then count desc, then name asc
func SortMerchants(ms []MerchantSpending) {
	sort.Slice(ms, func(i, j int) bool {
		if c := ms[i].TotalSpent.Cmp(ms[j].TotalSpent); c != 0 {
			return c > 0
		}
		if ms[i].TransactionCount != ms[j].TransactionCount {
			return ms[i].TransactionCount > ms[j].TransactionCount
		}
		return ms[i].Merchant < ms[j].Merchant
	})
}

// MonthSpending sums the merchants of a month
func (t *MerchantTotals) MonthSpending(key MonthKey) decimal.Decimal {
	total := decimal.Zero
	for _, ms := range t.ByMonth[key] {
		total = total.Add(ms.TotalSpent)
	}
	return total
}

// Breakdown lists the top N merchants of a month with their share of its
// spending and collapses the rest. topN <= 0 lists every merchant.
func (t *MerchantTotals) Breakdown(key MonthKey, topN int) MerchantBreakdown {
	merchants := t.ByMonth[key]
	total := t.MonthSpending(key)
	b := MerchantBreakdown{Month: key, TotalSpending: total}
	if len(merchants) == 0 {
		return b
	}

	n := len(merchants)
	if topN > 0 && topN < n {
		n = topN
	}

	sumPercent := decimal.Zero
	for _, ms := range merchants[:n] {
		pct := Percent(ms.TotalSpent, total)
		sumPercent = sumPercent.Add(pct)
		b.Top = append(b.Top, MerchantShare{MerchantSpending: ms, Percent: pct})
	}

	if rest := merchants[n:]; len(rest) > 0 {
		others := &OthersBucket{MerchantCount: len(rest), Percent: hundred.Sub(sumPercent)}
		for _, ms := range rest {
			others.TotalSpent = others.TotalSpent.Add(ms.TotalSpent)
		}
		b.Others = others
	}
	return b
}

// Breakdowns returns a breakdown for every month with spending
func (t *MerchantTotals) Breakdowns(topN int) []MerchantBreakdown {
	result := make([]MerchantBreakdown, 0, len(t.Months))
	for _, m := range t.Months {
		result = append(result, t.Breakdown(m, topN))
	}
	return result
}

// Percent returns part/whole*100, or zero when whole is zero
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, percentPrecision)
}

// OverallTop returns the merchant with the highest spending across all
// entries, using the same ordering as the monthly breakdowns.
func OverallTop(entries []Entry) (MerchantSpending, bool) {
	byMerchant := make(map[string]*MerchantSpending)
	for _, e := range FilterSpending(entries) {
		ms, ok := byMerchant[e.Merchant]
		if !ok {
			ms = &MerchantSpending{Merchant: e.Merchant}
			byMerchant[e.Merchant] = ms
		}
		ms.TotalSpent = ms.TotalSpent.Sub(e.Amount)
		ms.TransactionCount++
	}
	if len(byMerchant) == 0 {
		return MerchantSpending{}, false
	}
	return sortedMerchants(byMerchant)[0], true
}
