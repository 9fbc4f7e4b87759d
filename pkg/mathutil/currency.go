// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-ledger/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsPaidOff reports whether a balance is small enough to treat the loan as
// settled.
func IsPaidOff(balance float64) bool {
	return balance <= constants.CurrencyTolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// PeriodicRate converts an annual percentage into the rate for one of
// periodsPerYear periods.
func PeriodicRate(annualPercent, periodsPerYear float64) float64 {
	return annualPercent / constants.PercentageMultiplier / periodsPerYear
}

// Compound returns principal grown by rate over n periods.
func Compound(principal, rate float64, n int) float64 {
	return principal * math.Pow(1+rate, float64(n))
}
