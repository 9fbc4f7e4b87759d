// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/loans"
)

// FindRow finds the first ledger row with the given description.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []loans.LedgerRow, description string) *loans.LedgerRow {
	for i := range rows {
		if rows[i].Description == description {
			return &rows[i]
		}
	}
	return nil
}

// RowOn finds the first ledger row dated on the same calendar day as date.
func RowOn(rows []loans.LedgerRow, date time.Time) *loans.LedgerRow {
	for i := range rows {
		if datetime.SameCalendarDay(rows[i].Date, date) {
			return &rows[i]
		}
	}
	return nil
}

// Descriptions returns the description of every row, in order.
func Descriptions(rows []loans.LedgerRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Description)
	}
	return out
}
