package loans

import (
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"go.uber.org/zap"
)

// ledger is the running state of a single simulation.
type ledger struct {
	logger *zap.Logger

	now        time.Time
	tableFreq  datetime.Frequency
	periodRate float64

	balance       float64
	totalInterest float64
	totalPaid     float64

	periodEnd      time.Time
	periodInterest float64
	periodPaid     float64

	rows  []LedgerRow
	stats Stats
}

func newLedger(logger *zap.Logger, input LoanInput, now time.Time) *ledger {
	l := &ledger{
		logger:     logger,
		now:        now,
		tableFreq:  input.TableFrequency,
		periodRate: mathutil.PeriodicRate(input.AnnualRatePercent, input.InterestFrequency.PeriodsPerYear()),
		balance:    input.Principal,
		periodEnd:  datetime.Advance(input.StartDate, input.TableFrequency),
	}
	l.rows = append(l.rows, LedgerRow{
		Date:        input.StartDate,
		Description: constants.RowLoanStart,
		Balance:     input.Principal,
	})
	return l
}

func (l *ledger) pending() bool {
	return l.periodInterest != 0 || l.periodPaid != 0
}

// closePeriod emits the current period's row when it saw any activity and
// moves on to the next period.
func (l *ledger) closePeriod() {
	if l.pending() {
		l.rows = append(l.rows, LedgerRow{
			Date:        l.periodEnd,
			Description: constants.RowPeriodEnd,
			Debit:       l.periodInterest,
			Credit:      l.periodPaid,
			Balance:     l.balance,
		})
	}
	l.periodInterest = 0
	l.periodPaid = 0
	l.periodEnd = datetime.Advance(l.periodEnd, l.tableFreq)
}

// flushThrough closes every period that ends before date, never closing a
// period that ends after the evaluation instant.
func (l *ledger) flushThrough(date time.Time) {
	for date.After(l.periodEnd) && !l.periodEnd.After(l.now) {
		l.closePeriod()
	}
}

func (l *ledger) apply(e events.Event) {
	l.flushThrough(e.Date)

	switch e.Kind {
	case events.Interest:
		interest := l.balance * l.periodRate
		l.balance += interest
		l.totalInterest += interest
		l.periodInterest += interest
		l.stats.InterestEvents++

	case events.Payment:
		if mathutil.IsPaidOff(l.balance) {
			l.stats.SkippedPayments++
			l.logger.Debug("skipping payment on settled loan",
				zap.String("op", "loans.Simulate"),
				zap.Time("date", e.Date),
				zap.String("payment", e.Source),
				zap.Float64("amount", e.Amount),
			)
			return
		}
		if e.Amount > l.balance {
			l.stats.ClampedPayments++
			l.logger.Debug("capping payment to outstanding balance",
				zap.String("op", "loans.Simulate"),
				zap.Time("date", e.Date),
				zap.String("payment", e.Source),
				zap.Float64("requested", e.Amount),
				zap.Float64("capped_to_balance", l.balance),
			)
		}
		amount := mathutil.Min(e.Amount, l.balance)
		l.balance -= amount
		l.totalPaid += amount
		l.periodPaid += amount
		l.stats.PaymentEvents++
	}
}

// finish closes the remaining periods up to now and adds a "Today" row for
// activity that has not been reported yet.
func (l *ledger) finish() {
	for !l.periodEnd.After(l.now) {
		l.closePeriod()
	}

	last := l.rows[len(l.rows)-1]
	if l.pending() && !datetime.SameCalendarDay(last.Date, l.now) {
		l.rows = append(l.rows, LedgerRow{
			Date:        l.now,
			Description: constants.RowToday,
			Debit:       l.periodInterest,
			Credit:      l.periodPaid,
			Balance:     l.balance,
		})
	}
}

func (l *ledger) result() SimulationResult {
	return SimulationResult{
		OutstandingBalance: l.balance,
		TotalInterest:      l.totalInterest,
		TotalPaid:          l.totalPaid,
		Ledger:             l.rows,
		Stats:              l.stats,
	}
}
