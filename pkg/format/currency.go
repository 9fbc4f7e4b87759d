// Package format renders amounts and dates for people to read.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formats money in one locale and currency.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	digits  int
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "en-IN" and
// an ISO 4217 currency code such as "INR". digits is the number of fraction
// digits shown.
func NewFormatter(locale, code string, digits int) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	if digits < 0 {
		return nil, fmt.Errorf("fraction digits must not be negative, got %d", digits)
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		tag:     tag,
		printer: p,
		unit:    unit,
		symbol:  strings.TrimSpace(p.Sprint(currency.NarrowSymbol(unit))),
		digits:  digits,
	}, nil
}

// Default returns the en-IN / INR formatter with whole rupees.
func Default() *Formatter {
	f, err := NewFormatter(constants.DefaultLocale, constants.DefaultCurrency, constants.DefaultFractionDigits)
	if err != nil {
		panic(err)
	}
	return f
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Unit returns the formatter's currency.
func (f *Formatter) Unit() currency.Unit {
	return f.unit
}

// Round rounds amount half away from zero to the formatter's fraction digits.
func (f *Formatter) Round(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(int32(f.digits))
}

// Number returns amount with locale grouping and no currency symbol.
func (f *Formatter) Number(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprint(amount)
	}
	rounded := f.Round(amount)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(f.digits)))
}

// Currency returns amount with the currency symbol, e.g. "₹1,00,000".
func (f *Formatter) Currency(amount float64) string {
	n := f.Number(amount)
	if strings.HasPrefix(n, "-") {
		return "-" + f.symbol + n[1:]
	}
	return f.symbol + n
}

// Debit renders an interest amount as "+₹1,000".
func (f *Formatter) Debit(amount float64) string {
	return "+" + f.Currency(amount)
}

// Credit renders a paid amount as "-₹1,000".
func (f *Formatter) Credit(amount float64) string {
	return "-" + f.Currency(amount)
}

// Date renders t as "2 Jan 2006".
func Date(t time.Time) string {
	return t.Format(constants.DisplayDateLayout)
}
