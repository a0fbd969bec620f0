package internal

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats amounts for display. It never converts between currencies.
type Currency struct {
	Code    string // "USD", "EUR", "SEK"
	unit    currency.Unit
	known   bool
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
}

// localeForCurrency picks a "home" locale for number formatting
var localeForCurrency = map[string]language.Tag{
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"SEK": language.Swedish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"CAD": language.MustParse("en-CA"),
	"AUD": language.MustParse("en-AU"),
	"JPY": language.Japanese,
}

// GetCurrency returns the Currency for a given code
func GetCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	known := err == nil
	if !known {
		unit = currency.USD // number formatting only
	}

	tag, ok := localeForCurrency[code]
	if !ok {
		tag = language.English
	}

	return Currency{
		Code:    code,
		unit:    unit,
		known:   known,
		printer: message.NewPrinter(tag),
	}
}

func (c Currency) symbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	if !c.known {
		return c.Code
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if the symbol goes before the amount.
// x/text does not expose CLDR symbol placement, so this list is kept by hand.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD":
		return true
	default:
		return false
	}
}

// Format renders an amount with two decimals and the currency symbol
func (c Currency) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	f, _ := amount.Round(2).Float64()
	formatted := c.printer.Sprint(number.Decimal(f, number.Scale(2)))

	if c.isPrefix() {
		return sign + c.symbol() + formatted
	}
	return sign + formatted + " " + c.symbol()
}

// FormatPercent renders a percentage rounded to one decimal, e.g. "12.5%"
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}
