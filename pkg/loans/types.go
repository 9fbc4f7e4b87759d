// Package loans simulates a loan from its start date up to an evaluation
// instant and produces a periodic ledger of balance changes.
package loans

import (
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/events"
)

// LoanInput holds the caller-validated parameters of one loan.
type LoanInput struct {
	Principal         float64
	AnnualRatePercent float64
	StartDate         time.Time
	InterestFrequency datetime.Frequency
	TableFrequency    datetime.Frequency
	Payments          []events.PaymentSpec
}

// LedgerRow is one line of the ledger. Debit is the interest accrued and
// Credit the principal paid during the row's period; Balance is the running
// balance as of Date.
type LedgerRow struct {
	Date        time.Time
	Description string
	Debit       float64
	Credit      float64
	Balance     float64
}

// Stats counts what happened while walking the timeline. It is diagnostic
// only and never feeds back into the balance.
type Stats struct {
	InterestEvents  int
	PaymentEvents   int
	ClampedPayments int
	SkippedPayments int
	TruncatedSeries []string
}

// SimulationResult is the outcome of one simulation.
type SimulationResult struct {
	OutstandingBalance float64
	TotalInterest      float64
	TotalPaid          float64
	Ledger             []LedgerRow
	Stats              Stats
}

// Status returns "Paid Off" once nothing is outstanding and "Active"
// otherwise.
func (r SimulationResult) Status() string {
	if r.OutstandingBalance <= 0 {
		return constants.StatusPaidOff
	}
	return constants.StatusActive
}

// LastRow returns the final ledger row, if any.
func (r SimulationResult) LastRow() (LedgerRow, bool) {
	if len(r.Ledger) == 0 {
		return LedgerRow{}, false
	}
	return r.Ledger[len(r.Ledger)-1], true
}
