package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"github.com/iwvelando/loan-ledger/pkg/loans"
)

var (
	ErrNonPositivePrincipal = errors.New("principal must be greater than zero")
	ErrNegativeRate         = errors.New("interest rate must not be negative")
	ErrNonPositiveAmount    = errors.New("payment amount must be greater than zero")
	ErrMissingDate          = errors.New("date is required")
	ErrUnknownPaymentKind   = errors.New("unknown payment type")
	ErrUnknownFrequency     = errors.New("unknown frequency")
)

// ValidateLoanInput checks the invariants the simulator relies on. The first
// problem found is returned, wrapped around one of the sentinel errors above.
func ValidateLoanInput(input loans.LoanInput) error {
	if math.IsNaN(input.Principal) || input.Principal <= 0 {
		return fmt.Errorf("loan: %w, got %v", ErrNonPositivePrincipal, input.Principal)
	}
	if math.IsNaN(input.AnnualRatePercent) || input.AnnualRatePercent < 0 {
		return fmt.Errorf("loan: %w, got %v", ErrNegativeRate, input.AnnualRatePercent)
	}
	if input.StartDate.IsZero() {
		return fmt.Errorf("loan start: %w", ErrMissingDate)
	}
	if err := validateFrequency(input.InterestFrequency); err != nil {
		return fmt.Errorf("loan interest frequency: %w", err)
	}
	if err := validateFrequency(input.TableFrequency); err != nil {
		return fmt.Errorf("loan table frequency: %w", err)
	}
	for i, p := range input.Payments {
		if err := ValidatePayment(p); err != nil {
			return fmt.Errorf("payment %d (%s): %w", i+1, p.Label(), err)
		}
	}
	return nil
}

// ValidatePayment checks a single payment entry.
func ValidatePayment(p events.PaymentSpec) error {
	if p.Kind != events.OneTime && p.Kind != events.Recurring {
		return fmt.Errorf("%w %d", ErrUnknownPaymentKind, int(p.Kind))
	}
	if math.IsNaN(p.Amount) || p.Amount <= 0 {
		return fmt.Errorf("%w, got %v", ErrNonPositiveAmount, p.Amount)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("payment: %w", ErrMissingDate)
	}
	if p.Kind == events.Recurring {
		if err := validateFrequency(p.Frequency); err != nil {
			return fmt.Errorf("recurring payment: %w", err)
		}
	}
	return nil
}

func validateFrequency(f datetime.Frequency) error {
	if f != datetime.Monthly && f != datetime.Yearly {
		return fmt.Errorf("%w %d", ErrUnknownFrequency, int(f))
	}
	return nil
}
