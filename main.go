package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/joho/godotenv"

	"github.com/gigurra/cashflow-summary/internal"
	"github.com/gigurra/cashflow-summary/internal/logger"
)

type Params struct {
	File          string `descr:"Path to the transaction file, optionally prefixed with its format (e.g. xlsx:export.xlsx)" positional:"true"`
	Source        string `descr:"Data source type (csv, simple-json, xlsx); detected from prefix or extension when omitted" optional:"true"`
	Config        string `descr:"Path to config file (default: $CASHFLOW_SUMMARY_CONFIG or ~/.cashflow-summary/config.yaml)" optional:"true"`
	Output        string `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	Top           int    `descr:"Merchants listed per month before 'others' (0 lists all, -1 uses config, default 4)" default:"-1"`
	PendingWindow int    `descr:"Days a posted transaction may trail its pending duplicate (-1 uses config, default 0)" default:"-1"`
	Currency      string `descr:"Display currency (default from config, USD)" optional:"true"`
	CsvPrefix     string `descr:"Export <prefix>monthly_summary.csv and <prefix>spending_details.csv" optional:"true"`
	Xlsx          string `descr:"Export the summary and spending details to this workbook" optional:"true"`
	SuggestRules  bool   `descr:"Print suggested merchant rules as YAML and exit" optional:"true"`
	Verbose       bool   `descr:"Debug logging, data overview and warnings" optional:"true"`
}

func main() {
	// A .env file may point CASHFLOW_SUMMARY_CONFIG somewhere else
	_ = godotenv.Load()

	boa.NewCmdT[Params]("cashflow-summary").
		WithShort("Summarize checking account transactions by month and merchant").
		WithLong("Reads a checking account export (Date, Description, Original Description, Category, Amount, Status), " +
			"normalizes merchant names, reconciles pending transactions with their posted counterparts and reports " +
			"monthly cash flow and per-merchant spending.").
		WithRunFunc(func(params *Params) {
			if err := run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params, w io.Writer) error {
	log := logger.New(params.Verbose)

	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}
	normalizer, err := cfg.NewNormalizer()
	if err != nil {
		return fmt.Errorf("creating merchant normalizer: %w", err)
	}

	rows, err := internal.ReadRows(params.Source, params.File)
	if err != nil {
		return err
	}
	log.Debug().Int("rows", len(rows)).Str("file", params.File).Msg("read input")

	if params.SuggestRules {
		return printSuggestions(w, rows, normalizer)
	}

	topN := cfg.GetTopMerchants()
	if params.Top >= 0 {
		topN = params.Top
	}
	window := cfg.GetPendingWindowDays()
	if params.PendingWindow >= 0 {
		window = params.PendingWindow
	}
	currencyCode := cfg.GetCurrency()
	if params.Currency != "" {
		currencyCode = params.Currency
	}
	currency := internal.GetCurrency(currencyCode)

	report, err := internal.Summarize(rows, internal.Options{
		Normalizer:        normalizer,
		PendingWindowDays: window,
		TopMerchants:      topN,
		Logger:            &log,
	})
	if err != nil {
		return err
	}

	if params.Output == "json" {
		if err := internal.PrintReportJSON(w, report, currency); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	} else {
		internal.PrintReportTable(w, report, internal.OutputOptions{Currency: currency, Verbose: params.Verbose})
	}

	if params.CsvPrefix != "" {
		if err := internal.ExportCSV(report, params.CsvPrefix); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
		monthlyPath, detailsPath := internal.CSVExportPaths(params.CsvPrefix)
		log.Info().Str("monthly", monthlyPath).Str("details", detailsPath).Msg("exported CSV files")
	}
	if params.Xlsx != "" {
		if err := internal.ExportXLSX(report, params.Xlsx); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}
		log.Info().Str("path", params.Xlsx).Msg("exported workbook")
	}
	return nil
}

// loadConfig reads an explicit config path strictly; the default path may be absent
func loadConfig(path string) (*internal.Config, error) {
	if path != "" {
		return internal.LoadConfig(path)
	}
	return internal.LoadConfigOrDefault(internal.DefaultConfigPath())
}

func printSuggestions(w io.Writer, rows []internal.Row, normalizer *internal.Normalizer) error {
	loaded, err := internal.LoadTransactions(rows)
	if err != nil {
		return err
	}
	suggestions := internal.SuggestRules(internal.Annotate(loaded.Transactions, normalizer), normalizer)
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "# No rule suggestions: every merchant is already distinct or matched by a rule.")
		return nil
	}

	fmt.Fprintf(w, "# %d suggested merchant rules, add them to your config file\n", len(suggestions))
	for _, s := range suggestions {
		fmt.Fprintf(w, "#   %s (%d transactions): %v\n", s.Name, s.Transactions, s.Names)
	}
	return internal.PrintSuggestionsYAML(w, suggestions)
}
