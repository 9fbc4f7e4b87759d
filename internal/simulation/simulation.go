// Package simulation defines the report produced for a configured loan and
// includes the function for computing it.
package simulation

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-ledger/internal/config"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/loans"
	"github.com/iwvelando/loan-ledger/pkg/mathutil"
	"go.uber.org/zap"
)

// Report holds everything known about one simulated loan.
type Report struct {
	Name        string
	Input       loans.LoanInput
	Result      loans.SimulationResult
	Warnings    []string
	EvaluatedAt time.Time
}

// Run converts conf into simulator input and walks the loan up to the
// configured evaluation date, or now when none is set.
func Run(logger *zap.Logger, conf config.Configuration, now time.Time) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	evaluatedAt, err := conf.EvaluationTime(now)
	if err != nil {
		return nil, err
	}

	input, err := conf.ToLoanInput()
	if err != nil {
		return nil, fmt.Errorf("invalid loan configuration: %w", err)
	}

	report := &Report{
		Name:        conf.Loan.Name,
		Input:       input,
		Warnings:    conf.ValidateConfiguration(now),
		EvaluatedAt: evaluatedAt,
	}

	simulator := loans.NewSimulator(logger, loans.Options{
		MaxRecurringOccurrences: conf.MaxRecurringOccurrences,
	})
	report.Result = simulator.Simulate(input, evaluatedAt)

	for _, label := range report.Result.Stats.TruncatedSeries {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Payment '%s' reached the limit of %d occurrences - later occurrences are ignored", label, simulatorCap(conf)))
	}

	logger.Info("simulated loan",
		zap.String("op", "simulation.Run"),
		zap.String("loan", report.Name),
		zap.Time("evaluatedAt", evaluatedAt),
		zap.Int("rows", len(report.Result.Ledger)),
		zap.Float64("outstandingBalance", mathutil.Round(report.Result.OutstandingBalance)),
		zap.String("status", report.Result.Status()),
	)
	return report, nil
}

func simulatorCap(conf config.Configuration) int {
	if conf.MaxRecurringOccurrences > 0 {
		return conf.MaxRecurringOccurrences
	}
	return constants.DefaultMaxRecurringOccurrences
}
