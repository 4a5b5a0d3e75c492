// Package money formats amounts for display
package money

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts with a currency symbol and locale-aware grouping
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter creates a formatter. An unparseable locale falls back to en-US.
func NewFormatter(symbol, locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &Formatter{
		symbol:  strings.TrimSpace(symbol),
		printer: message.NewPrinter(tag),
	}
}

// Format renders amount to two decimal places, e.g. "$1,234.50" or "-$3.00"
func (f *Formatter) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return f.symbol + "?"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + f.symbol + f.printer.Sprint(number.Decimal(Round(amount), number.Scale(2)))
}

// Symbol returns the configured currency symbol
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Round rounds to the nearest cent, halves away from zero
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
