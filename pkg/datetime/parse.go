// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and is also the
	// machine-readable output date format.
	DateLayout = constants.DateLayout
)

// Frequency is the step size between two periods: interest compounding,
// ledger reporting or a recurring payment.
type Frequency int

const (
	Monthly Frequency = iota
	Yearly
)

// String returns the lowercase name of the frequency.
func (f Frequency) String() string {
	switch f {
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
}

// PeriodsPerYear returns how many periods of this frequency make one year.
func (f Frequency) PeriodsPerYear() float64 {
	if f == Monthly {
		return constants.MonthsPerYear
	}
	return 1
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) {
	if f != Monthly && f != Yearly {
		return nil, fmt.Errorf("unknown frequency %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFrequency parses "monthly" or "yearly", ignoring case and surrounding
// whitespace. "annual" and "annually" are accepted as yearly.
func ParseFrequency(value string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "monthly", "month":
		return Monthly, nil
	case "yearly", "year", "annual", "annually":
		return Yearly, nil
	default:
		return Monthly, fmt.Errorf("unknown frequency %q, expected monthly or yearly", value)
	}
}

// Advance returns t moved forward by exactly one calendar period. Month and
// year overflow follows time.Time.AddDate, so Jan 31 advanced by a month is
// normalized into early March.
func Advance(t time.Time, freq Frequency) time.Time {
	if freq == Yearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// SameCalendarDay reports whether a and b fall on the same year, month and
// day of month, with b viewed in a's location.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// MustParseDate is MustParseTime with DateLayout.
func MustParseDate(dateStr string) time.Time {
	return MustParseTime(DateLayout, dateStr)
}
