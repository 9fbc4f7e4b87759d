package config

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"github.com/iwvelando/loan-ledger/pkg/validation"
)

// ValidateConfiguration returns warnings about settings that are legal but
// probably not what the user meant. Hard errors are reported by ToLoanInput.
func (c *Configuration) ValidateConfiguration(now time.Time) []string {
	var warnings []string

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		warnings = append(warnings, err.Error())
	}

	evaluation, err := c.EvaluationTime(now)
	if err != nil {
		return append(warnings, err.Error())
	}

	start, err := datetime.ParseDate(c.Loan.StartDate)
	if err != nil {
		return warnings
	}
	if start.After(evaluation) {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' starts after the evaluation date (%s > %s) - nothing will be simulated",
			c.loanName(), c.Loan.StartDate, evaluation.Format(DateLayout)))
	}
	if c.Loan.InterestRate == 0 {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has a zero interest rate", c.loanName()))
	}

	for _, p := range c.Payments {
		date, err := datetime.ParseDate(p.Date)
		if err != nil {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.Type + " payment"
		}
		if date.Before(start) {
			if kind, _ := events.ParsePaymentKind(p.Type); kind == events.Recurring {
				warnings = append(warnings, fmt.Sprintf("Payment '%s' starts before the loan (%s < %s) - earlier occurrences are ignored",
					name, p.Date, c.Loan.StartDate))
			} else {
				warnings = append(warnings, fmt.Sprintf("Payment '%s' is dated before the loan (%s < %s) - it is ignored",
					name, p.Date, c.Loan.StartDate))
			}
		}
		if date.After(evaluation) {
			warnings = append(warnings, fmt.Sprintf("Payment '%s' is dated after the evaluation date (%s > %s) - it is not applied yet",
				name, p.Date, evaluation.Format(DateLayout)))
		}
	}

	return warnings
}

func (c *Configuration) loanName() string {
	if c.Loan.Name != "" {
		return c.Loan.Name
	}
	return "loan"
}
