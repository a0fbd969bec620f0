package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// OutputOptions controls how a report is displayed
type OutputOptions struct {
	Currency Currency
	Verbose  bool
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Currency           string                  `json:"currency"`
	DateRange          JSONDateRange           `json:"date_range"`
	MonthlySummaries   []JSONMonthlySummary    `json:"monthly_summaries"`
	Totals             JSONMonthlySummary      `json:"totals"`
	MonthlyAverages    JSONMonthlyAverages     `json:"monthly_averages"`
	MerchantBreakdowns []JSONMerchantBreakdown `json:"merchant_breakdowns"`
	Trend              JSONTrend               `json:"trend"`
	Overview           JSONOverview            `json:"overview"`
	Stats              JSONStats               `json:"stats"`
	Warnings           []JSONWarning           `json:"warnings"`
}

type JSONDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type JSONMonthlySummary struct {
	MonthKey         string      `json:"month_key,omitempty"`
	Deposits         json.Number `json:"deposits"`
	Spending         json.Number `json:"spending"`
	Net              json.Number `json:"net"`
	TransactionCount int         `json:"transaction_count"`
	ProvisionalCount int         `json:"provisional_count"`
}

type JSONMonthlyAverages struct {
	AvgDeposits         json.Number `json:"avg_deposits"`
	AvgSpending         json.Number `json:"avg_spending"`
	AvgNet              json.Number `json:"avg_net"`
	AvgTransactionCount json.Number `json:"avg_transaction_count"`
}

type JSONMerchantBreakdown struct {
	MonthKey      string             `json:"month_key"`
	TotalSpending json.Number        `json:"total_spending"`
	Merchants     []JSONMerchantLine `json:"merchants"`
}

// JSONMerchantLine is one merchant, or the trailing "others" bucket whose
// transaction count is null
type JSONMerchantLine struct {
	MerchantName     string      `json:"merchant_name"`
	TotalSpent       json.Number `json:"total_spent"`
	TransactionCount *int        `json:"transaction_count"`
	Percent          json.Number `json:"percent"`
}

type JSONTrend struct {
	TopVendorOverall    string      `json:"top_vendor_overall"`
	TopVendorTotalSpend json.Number `json:"top_vendor_total_spend"`
	AverageMonthlySpend json.Number `json:"average_monthly_spend"`
}

type JSONOverview struct {
	SpanDays      int            `json:"span_days"`
	Posted        int            `json:"posted"`
	Pending       int            `json:"pending"`
	Deposits      int            `json:"deposits"`
	Withdrawals   int            `json:"withdrawals"`
	ZeroAmount    int            `json:"zero_amount"`
	Categories    int            `json:"categories"`
	TopCategories []JSONCategory      `json:"top_categories"`
	TopMerchants  []JSONMerchantCount `json:"top_merchants"`
}

type JSONCategory struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type JSONMerchantCount struct {
	Merchant string `json:"merchant"`
	Count    int    `json:"count"`
}

type JSONStats struct {
	RowsRead        int `json:"rows_read"`
	Loaded          int `json:"loaded"`
	Skipped         int `json:"skipped"`
	Posted          int `json:"posted"`
	PendingKept     int `json:"pending_kept"`
	PendingDropped  int `json:"pending_dropped"`
	Merchants       int `json:"merchants"`
	RawDescriptions int `json:"raw_descriptions"`
}

type JSONWarning struct {
	Kind    string `json:"kind"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func percent(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(1))
}

func jsonMonthly(s MonthlySummary, key string) JSONMonthlySummary {
	return JSONMonthlySummary{
		MonthKey:         key,
		Deposits:         money(s.Deposits),
		Spending:         money(s.Spending),
		Net:              money(s.Net),
		TransactionCount: s.TransactionCount,
		ProvisionalCount: s.ProvisionalCount,
	}
}

// NewJSONOutput converts a report to its JSON shape
func NewJSONOutput(r *Report, currency Currency) JSONOutput {
	out := JSONOutput{
		Currency: currency.Code,
		DateRange: JSONDateRange{
			Start: r.Range.Start.Format("2006-01-02"),
			End:   r.Range.End.Format("2006-01-02"),
		},
		MonthlySummaries:   []JSONMonthlySummary{},
		Totals:             jsonMonthly(r.Total, ""),
		MerchantBreakdowns: []JSONMerchantBreakdown{},
		MonthlyAverages: JSONMonthlyAverages{
			AvgDeposits:         money(r.Averages.Deposits),
			AvgSpending:         money(r.Averages.Spending),
			AvgNet:              money(r.Averages.Net),
			AvgTransactionCount: json.Number(fmt.Sprintf("%.1f", r.Averages.TransactionCount)),
		},
		Trend: JSONTrend{
			TopVendorOverall:    r.Trend.TopVendor,
			TopVendorTotalSpend: money(r.Trend.TopVendorTotal),
			AverageMonthlySpend: money(r.Trend.AverageMonthlySpend),
		},
		Overview: JSONOverview{
			SpanDays:      r.Overview.SpanDays,
			Posted:        r.Overview.Posted,
			Pending:       r.Overview.Pending,
			Deposits:      r.Overview.Deposits,
			Withdrawals:   r.Overview.Withdrawals,
			ZeroAmount:    r.Overview.ZeroAmount,
			Categories:    r.Overview.Categories,
			TopCategories: []JSONCategory{},
			TopMerchants:  []JSONMerchantCount{},
		},
		Stats:    JSONStats(r.Stats),
		Warnings: []JSONWarning{},
	}

	for _, m := range r.Monthly {
		out.MonthlySummaries = append(out.MonthlySummaries, jsonMonthly(m, m.Month.ID()))
	}

	for _, b := range r.Breakdowns {
		jb := JSONMerchantBreakdown{
			MonthKey:      b.Month.ID(),
			TotalSpending: money(b.TotalSpending),
			Merchants:     []JSONMerchantLine{},
		}
		for _, ms := range b.Top {
			count := ms.TransactionCount
			jb.Merchants = append(jb.Merchants, JSONMerchantLine{
				MerchantName:     ms.Merchant,
				TotalSpent:       money(ms.TotalSpent),
				TransactionCount: &count,
				Percent:          percent(ms.Percent),
			})
		}
		if b.Others != nil {
			jb.Merchants = append(jb.Merchants, JSONMerchantLine{
				MerchantName: b.Others.Label(),
				TotalSpent:   money(b.Others.TotalSpent),
				Percent:      percent(b.Others.Percent),
			})
		}
		out.MerchantBreakdowns = append(out.MerchantBreakdowns, jb)
	}

	for _, c := range r.Overview.TopCategories {
		out.Overview.TopCategories = append(out.Overview.TopCategories, JSONCategory(c))
	}
	for _, m := range r.Overview.TopMerchants {
		out.Overview.TopMerchants = append(out.Overview.TopMerchants, JSONMerchantCount(m))
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, JSONWarning{Kind: string(w.Kind), Row: w.Row, Message: w.Message})
	}
	return out
}

// PrintReportJSON outputs the report in JSON format
func PrintReportJSON(w io.Writer, r *Report, currency Currency) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONOutput(r, currency))
}

func sectionHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// PrintReportTable outputs the report as formatted tables
func PrintReportTable(w io.Writer, r *Report, opts OutputOptions) {
	c := opts.Currency

	fmt.Fprintf(w, "Loaded %d transactions", r.Stats.Loaded)
	if r.Stats.Skipped > 0 {
		fmt.Fprintf(w, " (%d malformed rows skipped)", r.Stats.Skipped)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Data range: %s to %s\n", r.Range.Start.Format("2006-01-02"), r.Range.End.Format("2006-01-02"))
	fmt.Fprintf(w, "Posted: %d, pending kept: %d, pending matched to posted: %d\n",
		r.Stats.Posted, r.Stats.PendingKept, r.Stats.PendingDropped)
	fmt.Fprintf(w, "Merchants: %d (from %d distinct descriptions)\n", r.Stats.Merchants, r.Stats.RawDescriptions)

	if opts.Verbose {
		printOverview(w, r.Overview)
	}

	printMonthlyTotals(w, r, c)
	printSpendingDetails(w, r, c)

	sectionHeader(w, "TRENDS")
	if r.Trend.TopVendor != "" {
		fmt.Fprintf(w, "Top vendor overall:    %s (%s)\n", r.Trend.TopVendor, c.Format(r.Trend.TopVendorTotal))
	}
	fmt.Fprintf(w, "Average monthly spend: %s\n", c.Format(r.Trend.AverageMonthlySpend))

	if opts.Verbose {
		PrintWarnings(w, r.Warnings)
	}
}

func printOverview(w io.Writer, o Overview) {
	sectionHeader(w, "DATA OVERVIEW")
	fmt.Fprintf(w, "Span: %d days\n", o.SpanDays)
	fmt.Fprintf(w, "Status: %d posted, %d pending\n", o.Posted, o.Pending)
	fmt.Fprintf(w, "Amounts: %d deposits, %d withdrawals, %d zero\n", o.Deposits, o.Withdrawals, o.ZeroAmount)
	fmt.Fprintf(w, "Categories: %d\n", o.Categories)

	if len(o.TopCategories) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Category", "Transactions"})
		for _, cc := range o.TopCategories {
			t.AppendRow(table.Row{cc.Category, cc.Count})
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		t.Render()
	}

	if len(o.TopMerchants) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Merchant", "Transactions"})
		for _, mc := range o.TopMerchants {
			t.AppendRow(table.Row{mc.Merchant, mc.Count})
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		t.Render()
	}
}

func printMonthlyTotals(w io.Writer, r *Report, c Currency) {
	sectionHeader(w, "MONTHLY TOTALS")

	t := newTable(w)
	t.AppendHeader(table.Row{"Month", "Deposits", "Spending", "Net", "# Trans"})
	for _, m := range r.Monthly {
		count := fmt.Sprintf("%d", m.TransactionCount)
		if m.ProvisionalCount > 0 {
			count = fmt.Sprintf("%d (%d pending)", m.TransactionCount, m.ProvisionalCount)
		}
		t.AppendRow(table.Row{m.Month.String(), c.Format(m.Deposits), c.Format(m.Spending), formatNet(c, m.Net), count})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{
		text.Bold.Sprint("TOTAL"),
		c.Format(r.Total.Deposits),
		c.Format(r.Total.Spending),
		formatNet(c, r.Total.Net),
		fmt.Sprintf("%d", r.Total.TransactionCount),
	})
	t.AppendFooter(table.Row{
		text.Bold.Sprint("AVERAGE/MONTH"),
		c.Format(r.Averages.Deposits),
		c.Format(r.Averages.Spending),
		formatNet(c, r.Averages.Net),
		fmt.Sprintf("%.1f", r.Averages.TransactionCount),
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

func formatNet(c Currency, net decimal.Decimal) string {
	if net.IsNegative() {
		return text.FgRed.Sprint(c.Format(net))
	}
	return c.Format(net)
}

func printSpendingDetails(w io.Writer, r *Report, c Currency) {
	sectionHeader(w, "DETAILED SPENDING BY MERCHANT")
	if len(r.Breakdowns) == 0 {
		fmt.Fprintln(w, "No spending found.")
		return
	}

	for _, b := range r.Breakdowns {
		t := newTable(w)
		t.SetTitle("%s - Total spent: %s", b.Month, c.Format(b.TotalSpending))
		t.AppendHeader(table.Row{"Merchant", "Spent", "Count", "Share"})
		for _, ms := range b.Top {
			t.AppendRow(table.Row{ms.Merchant, c.Format(ms.TotalSpent), fmt.Sprintf("%dx", ms.TransactionCount), FormatPercent(ms.Percent)})
		}
		if b.Others != nil {
			t.AppendRow(table.Row{text.FgHiBlack.Sprint(b.Others.Label()), c.Format(b.Others.TotalSpent), "", FormatPercent(b.Others.Percent)})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		t.Render()
	}
}

// PrintWarnings lists non-fatal issues found while building the report
func PrintWarnings(w io.Writer, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}
	sectionHeader(w, fmt.Sprintf("WARNINGS (%d)", len(warnings)))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s\n", warning)
	}
}
