package internal

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Trend holds figures over the whole date range
type Trend struct {
	TopVendor           string
	TopVendorTotal      decimal.Decimal
	AverageMonthlySpend decimal.Decimal
}

// Stats counts rows and transactions at each pipeline stage
type Stats struct {
	RowsRead        int
	Loaded          int
	Skipped         int
	Posted          int
	PendingKept     int
	PendingDropped  int
	Merchants       int // distinct canonical merchants
	RawDescriptions int // distinct raw descriptions they came from
}

// Report is everything a renderer or exporter needs
type Report struct {
	Range      DateRange
	Monthly    []MonthlySummary
	Total      MonthlySummary
	Averages   MonthlyAverages
	Breakdowns []MerchantBreakdown
	// Details lists every merchant of every month, for exports
	Details  map[MonthKey][]MerchantSpending
	Trend    Trend
	Overview Overview
	Stats    Stats
	Warnings []Warning
}

type ReportOptions struct {
	TopMerchants int
}

// BuildReport aggregates eligible entries into a report.
// Overview, Stats and Warnings are left for the caller to fill in.
func BuildReport(entries []Entry, opts ReportOptions) *Report {
	monthly := AggregateMonthly(entries)
	merchants := AggregateMerchants(entries)
	averages := monthly.Averages()

	report := &Report{
		Monthly:    monthly.Summaries(),
		Total:      monthly.Total(),
		Averages:   averages,
		Breakdowns: merchants.Breakdowns(opts.TopMerchants),
		Details:    merchants.ByMonth,
		Trend:      Trend{AverageMonthlySpend: averages.Spending},
	}
	if top, ok := OverallTop(entries); ok {
		report.Trend.TopVendor = top.Merchant
		report.Trend.TopVendorTotal = top.TotalSpent
	}
	return report
}

// Options configures the whole pipeline
type Options struct {
	Normalizer        *Normalizer
	PendingWindowDays int
	TopMerchants      int
	Logger            *zerolog.Logger
}

// Summarize loads, normalizes, reconciles and aggregates raw rows
func Summarize(rows []Row, opts Options) (*Report, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	normalizer := opts.Normalizer
	if normalizer == nil {
		var err error
		normalizer, err = NewNormalizer(DefaultNormalizerConfig())
		if err != nil {
			return nil, fmt.Errorf("creating normalizer: %w", err)
		}
	}

	loaded, err := LoadTransactions(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range loaded.Skipped {
		log.Debug().Int("row", s.Row).Str("column", s.Column).Msg("skipping malformed row")
	}
	log.Debug().Int("rows", len(rows)).Int("loaded", len(loaded.Transactions)).Int("skipped", len(loaded.Skipped)).Msg("loaded transactions")

	entries := Annotate(loaded.Transactions, normalizer)

	eligible, resolved, resolveWarnings := ResolveStatus(entries, opts.PendingWindowDays)
	log.Debug().
		Int("posted", resolved.Posted).
		Int("pending_kept", resolved.PendingKept).
		Int("pending_dropped", resolved.PendingDropped).
		Msg("resolved pending transactions")

	report := BuildReport(eligible, ReportOptions{TopMerchants: opts.TopMerchants})
	report.Range = CalculateDateRange(loaded.Transactions)
	report.Overview = BuildOverview(entries)
	report.Warnings = append(loaded.Warnings(), resolveWarnings...)
	report.Stats = Stats{
		RowsRead:        len(rows),
		Loaded:          len(loaded.Transactions),
		Skipped:         len(loaded.Skipped),
		Posted:          resolved.Posted,
		PendingKept:     resolved.PendingKept,
		PendingDropped:  resolved.PendingDropped,
		Merchants:       countDistinct(entries, func(e Entry) string { return e.Merchant }),
		RawDescriptions: countDistinct(entries, func(e Entry) string { return sourceText(e.Transaction) }),
	}
	log.Debug().Int("months", len(report.Monthly)).Int("merchants", report.Stats.Merchants).Msg("built report")

	return report, nil
}

// Annotate attaches the canonical merchant to every transaction
func Annotate(txs []Transaction, n *Normalizer) []Entry {
	entries := make([]Entry, len(txs))
	for i, tx := range txs {
		entries[i] = Entry{
			Transaction: tx,
			Merchant:    n.Normalize(tx.OriginalDescription, tx.Description),
		}
	}
	return entries
}

// sourceText is the text the normalizer works from
func sourceText(tx Transaction) string {
	if tx.OriginalDescription != "" {
		return tx.OriginalDescription
	}
	return tx.Description
}

func countDistinct(entries []Entry, key func(Entry) string) int {
	seen := make(map[string]bool)
	for _, e := range entries {
		seen[key(e)] = true
	}
	return len(seen)
}
