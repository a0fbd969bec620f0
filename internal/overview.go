package internal

import "sort"

// Overview is a quick profile of the loaded data, before status resolution
type Overview struct {
	Range       DateRange
	SpanDays    int
	Posted      int
	Pending     int
	Deposits    int
	Withdrawals int
	ZeroAmount  int
	Categories  int
	// TopCategories and TopMerchants hold at most 10 entries by frequency
	TopCategories []CategoryCount
	TopMerchants  []MerchantCount
}

type CategoryCount struct {
	Category string
	Count    int
}

type MerchantCount struct {
	Merchant string
	Count    int
}

const overviewTopN = 10

// CalculateDateRange returns the earliest and latest transaction dates
func CalculateDateRange(txs []Transaction) DateRange {
	if len(txs) == 0 {
		return DateRange{}
	}
	r := DateRange{Start: txs[0].Date, End: txs[0].Date}
	for _, tx := range txs[1:] {
		if tx.Date.Before(r.Start) {
			r.Start = tx.Date
		}
		if tx.Date.After(r.End) {
			r.End = tx.Date
		}
	}
	return r
}

// BuildOverview profiles every loaded entry, pending duplicates included
func BuildOverview(entries []Entry) Overview {
	txs := make([]Transaction, len(entries))
	for i, e := range entries {
		txs[i] = e.Transaction
	}
	o := Overview{Range: CalculateDateRange(txs)}
	o.SpanDays = o.Range.Days()

	categories := make(map[string]int)
	merchants := make(map[string]int)
	for _, e := range entries {
		if e.Status == StatusPending {
			o.Pending++
		} else {
			o.Posted++
		}
		switch e.Amount.Sign() {
		case 1:
			o.Deposits++
		case -1:
			o.Withdrawals++
		default:
			o.ZeroAmount++
		}
		if e.Category != "" {
			categories[e.Category]++
		}
		merchants[e.Merchant]++
	}

	o.Categories = len(categories)
	for _, nc := range topCounts(categories) {
		o.TopCategories = append(o.TopCategories, CategoryCount{Category: nc.name, Count: nc.count})
	}
	for _, nc := range topCounts(merchants) {
		o.TopMerchants = append(o.TopMerchants, MerchantCount{Merchant: nc.name, Count: nc.count})
	}
	return o
}

type nameCount struct {
	name  string
	count int
}

// topCounts returns the overviewTopN most frequent names, ties by name
func topCounts(counts map[string]int) []nameCount {
	sorted := make([]nameCount, 0, len(counts))
	for name, count := range counts {
		sorted = append(sorted, nameCount{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})
	if len(sorted) > overviewTopN {
		sorted = sorted[:overviewTopN]
	}
	return sorted
}
