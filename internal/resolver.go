package internal

import (
	"fmt"
	"sort"
)

// ResolveStats counts what the status resolver did
type ResolveStats struct {
	Posted         int
	PendingKept    int
	PendingDropped int
}

// ResolveStatus decides which entries take part in aggregation.
// Posted entries are always kept. A pending entry is dropped when a posted
// entry with the same amount and merchant is dated within windowDays on or
// after it; each posted entry absorbs at most one pending entry. Pending
// entries without a counterpart are kept and marked provisional.
// The result keeps the input order.
func ResolveStatus(entries []Entry, windowDays int) ([]Entry, ResolveStats, []Warning) {
	if windowDays < 0 {
		windowDays = 0
	}

	var stats ResolveStats
	var warnings []Warning
	var posted, pending []int
	for i, e := range entries {
		if e.Status == StatusPending {
			pending = append(pending, i)
		} else {
			posted = append(posted, i)
		}
	}
	stats.Posted = len(posted)

	byDate := func(idx []int) {
		sort.SliceStable(idx, func(a, b int) bool {
			ea, eb := entries[idx[a]], entries[idx[b]]
			if !ea.Date.Equal(eb.Date) {
				return ea.Date.Before(eb.Date)
			}
			return ea.Row < eb.Row
		})
	}
	byDate(posted)
	byDate(pending)

	absorbed := make(map[int]bool) // posted index -> already matched
	dropped := make(map[int]bool)  // pending index -> duplicate of a posted entry

	for k, pi := range pending {
		p := entries[pi]
		latest := p.Date.AddDate(0, 0, windowDays)

		var candidates []int
		for _, qi := range posted {
			q := entries[qi]
			if absorbed[qi] || q.Date.Before(p.Date) || q.Date.After(latest) {
				continue
			}
			if q.Amount.Equal(p.Amount) && q.Merchant == p.Merchant {
				candidates = append(candidates, qi)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		// posted is sorted, so the first candidate is the earliest
		match := candidates[0]
		if len(candidates) > competingPending(entries, pending[k:], candidates, windowDays) {
			warnings = append(warnings, Warning{
				Kind: WarningAmbiguousPendingMatch,
				Row:  p.Row,
				Message: fmt.Sprintf("pending %s %s on %s matches %d posted transactions, using row %d",
					p.Merchant, p.Amount.StringFixed(2), p.Date.Format("2006-01-02"), len(candidates), entries[match].Row),
			})
		}
		absorbed[match] = true
		dropped[pi] = true
	}

	result := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if dropped[i] {
			stats.PendingDropped++
			continue
		}
		if e.Status == StatusPending {
			e.Provisional = true
			stats.PendingKept++
		}
		result = append(result, e)
	}
	return result, stats, warnings
}

// competingPending counts the pending entries in rest (the current one
// first) that could claim one of the candidates. A match is ambiguous only
// when the candidates outnumber them.
func competingPending(entries []Entry, rest []int, candidates []int, windowDays int) int {
	p := entries[rest[0]]
	n := 0
	for _, oi := range rest {
		o := entries[oi]
		if !o.Amount.Equal(p.Amount) || o.Merchant != p.Merchant {
			continue
		}
		latest := o.Date.AddDate(0, 0, windowDays)
		for _, qi := range candidates {
			q := entries[qi].Date
			if !q.Before(o.Date) && !q.After(latest) {
				n++
				break
			}
		}
	}
	return n
}
