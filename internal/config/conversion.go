package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"github.com/iwvelando/loan-ledger/pkg/loans"
	"github.com/iwvelando/loan-ledger/pkg/validation"
)

// ToLoanInput converts the configured loan and payments into simulator input.
func (c *Configuration) ToLoanInput() (loans.LoanInput, error) {
	return c.Loan.Input(c.Payments)
}

// Input converts the loan and the given payments into validated simulator
// input. Empty frequencies default to monthly.
func (loan Loan) Input(payments []Payment) (loans.LoanInput, error) {
	if strings.TrimSpace(loan.StartDate) == "" {
		return loans.LoanInput{}, fmt.Errorf("loan startDate: %w", validation.ErrMissingDate)
	}
	start, err := datetime.ParseDate(loan.StartDate)
	if err != nil {
		return loans.LoanInput{}, fmt.Errorf("loan startDate: %w", err)
	}
	interestFreq, err := parseFrequency(loan.InterestFrequency)
	if err != nil {
		return loans.LoanInput{}, fmt.Errorf("loan interestFrequency: %w", err)
	}
	tableFreq, err := parseFrequency(loan.TableFrequency)
	if err != nil {
		return loans.LoanInput{}, fmt.Errorf("loan tableFrequency: %w", err)
	}

	input := loans.LoanInput{
		Principal:         loan.Principal,
		AnnualRatePercent: loan.InterestRate,
		StartDate:         start,
		InterestFrequency: interestFreq,
		TableFrequency:    tableFreq,
		Payments:          make([]events.PaymentSpec, 0, len(payments)),
	}
	for i, p := range payments {
		spec, err := p.Spec()
		if err != nil {
			return loans.LoanInput{}, fmt.Errorf("payment %d: %w", i+1, err)
		}
		input.Payments = append(input.Payments, spec)
	}

	if err := validation.ValidateLoanInput(input); err != nil {
		return loans.LoanInput{}, err
	}
	return input, nil
}

// Spec converts a configured payment into a PaymentSpec.
func (p Payment) Spec() (events.PaymentSpec, error) {
	kind, err := events.ParsePaymentKind(p.Type)
	if err != nil {
		return events.PaymentSpec{}, fmt.Errorf("%w %q", validation.ErrUnknownPaymentKind, p.Type)
	}
	if strings.TrimSpace(p.Date) == "" {
		return events.PaymentSpec{}, fmt.Errorf("payment date: %w", validation.ErrMissingDate)
	}
	date, err := datetime.ParseDate(p.Date)
	if err != nil {
		return events.PaymentSpec{}, fmt.Errorf("payment date: %w", err)
	}
	freq, err := parseFrequency(p.Frequency)
	if err != nil {
		return events.PaymentSpec{}, fmt.Errorf("payment frequency: %w", err)
	}
	spec := events.PaymentSpec{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      kind,
		Amount:    p.Amount,
		Date:      date,
		Frequency: freq,
	}
	if err := validation.ValidatePayment(spec); err != nil {
		return events.PaymentSpec{}, err
	}
	return spec, nil
}

// FromPaymentSpec is the inverse of Payment.Spec.
func FromPaymentSpec(spec events.PaymentSpec) Payment {
	p := Payment{
		ID:     spec.ID,
		Name:   spec.Name,
		Type:   spec.Kind.String(),
		Amount: spec.Amount,
		Date:   spec.Date.Format(DateLayout),
	}
	if spec.Kind == events.Recurring {
		p.Frequency = spec.Frequency.String()
	}
	return p
}

func parseFrequency(value string) (datetime.Frequency, error) {
	if strings.TrimSpace(value) == "" {
		return datetime.Monthly, nil
	}
	f, err := datetime.ParseFrequency(value)
	if err != nil {
		return f, fmt.Errorf("%w: %v", validation.ErrUnknownFrequency, err)
	}
	return f, nil
}
