package loans

import (
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"go.uber.org/zap"
)

// Options tunes a Simulator.
type Options struct {
	// MaxRecurringOccurrences caps the steps taken by one recurring payment
	// series. Zero selects constants.DefaultMaxRecurringOccurrences.
	MaxRecurringOccurrences int
}

// Simulator runs loan simulations. It holds no per-run state and may be
// shared between goroutines.
type Simulator struct {
	logger *zap.Logger
	opts   Options
}

// NewSimulator creates a new simulator. If logger is nil a no-op logger is used.
func NewSimulator(logger *zap.Logger, opts Options) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRecurringOccurrences <= 0 {
		opts.MaxRecurringOccurrences = constants.DefaultMaxRecurringOccurrences
	}
	return &Simulator{logger: logger, opts: opts}
}

// Simulate runs input with default options and no logging.
func Simulate(input LoanInput, now time.Time) SimulationResult {
	return NewSimulator(nil, Options{}).Simulate(input, now)
}

// Simulate walks the loan from its start date to now. The payments in input
// are only read. A start date after now yields the untouched principal and
// an empty ledger.
func (s *Simulator) Simulate(input LoanInput, now time.Time) SimulationResult {
	window := events.Window{Start: input.StartDate, End: now}
	if window.Empty() {
		s.logger.Debug("loan starts in the future, nothing to simulate",
			zap.String("op", "loans.Simulate"),
			zap.Time("startDate", input.StartDate),
			zap.Time("now", now),
		)
		return SimulationResult{
			OutstandingBalance: input.Principal,
			Ledger:             []LedgerRow{},
		}
	}

	generated := events.Generate(window, input.InterestFrequency, input.Payments, s.opts.MaxRecurringOccurrences)
	for _, label := range generated.Truncated {
		s.logger.Debug("recurring payment reached the occurrence cap",
			zap.String("op", "loans.Simulate"),
			zap.String("payment", label),
			zap.Int("cap", s.opts.MaxRecurringOccurrences),
		)
	}
	timeline := events.Schedule(generated.Events)

	l := newLedger(s.logger, input, now)
	for _, e := range timeline {
		l.apply(e)
	}
	l.finish()
	l.stats.TruncatedSeries = generated.Truncated

	result := l.result()
	s.logger.Debug("simulation complete",
		zap.String("op", "loans.Simulate"),
		zap.Int("events", len(timeline)),
		zap.Int("rows", len(result.Ledger)),
		zap.Float64("outstandingBalance", result.OutstandingBalance),
	)
	return result
}
