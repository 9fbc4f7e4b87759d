// Package output provides utilities for formatting and displaying loan reports.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/iwvelando/loan-ledger/internal/simulation"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"github.com/iwvelando/loan-ledger/pkg/format"
	"github.com/iwvelando/loan-ledger/pkg/loans"
	"github.com/iwvelando/loan-ledger/pkg/paymentbook"
	"github.com/shopspring/decimal"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(report *simulation.Report, f *format.Formatter) {
	_ = WritePretty(os.Stdout, report, f)
}

// WritePretty writes the pretty report to w.
func WritePretty(w io.Writer, report *simulation.Report, f *format.Formatter) error {
	if f == nil {
		f = format.Default()
	}
	name := report.Name
	if name == "" {
		name = "loan"
	}
	result := report.Result

	var b strings.Builder
	fmt.Fprintf(&b, "--- Ledger for %s as of %s ---\n", name, format.Date(report.EvaluatedAt))
	fmt.Fprintf(&b, "Status:              %s\n", result.Status())
	fmt.Fprintf(&b, "Outstanding balance: %s\n", f.Currency(result.OutstandingBalance))
	fmt.Fprintf(&b, "Total paid:          %s\n", f.Currency(result.TotalPaid))
	fmt.Fprintf(&b, "Total interest:      %s\n", f.Currency(result.TotalInterest))

	if len(report.Input.Payments) > 0 {
		b.WriteString("\nPayments:\n")
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Date\tAmount\tType\tName")
		fmt.Fprintln(tw, "____\t______\t____\t____")
		payments := slices.Clone(report.Input.Payments)
		paymentbook.SortByDate(payments)
		for _, p := range payments {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Date.Format(constants.DateLayout), f.Currency(p.Amount), PaymentType(p), p.Label())
		}
		_ = tw.Flush()
	}

	b.WriteString("\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tDescription\tInterest\tPaid\tBalance")
	fmt.Fprintln(tw, "____\t___________\t________\t____\t_______")
	for _, row := range result.Ledger {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			format.Date(row.Date), row.Description, f.Debit(row.Debit), f.Credit(row.Credit), f.Currency(row.Balance))
	}
	_ = tw.Flush()

	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PaymentType renders "One-time" or "Recurring (monthly)".
func PaymentType(p events.PaymentSpec) string {
	if p.Kind == events.Recurring {
		return fmt.Sprintf("Recurring (%s)", p.Frequency)
	}
	return "One-time"
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(report *simulation.Report) {
	fmt.Print(CsvString(report.Result.Ledger))
}

// CsvString renders ledger rows as CSV with a header line. Amounts carry two
// decimal places.
func CsvString(rows []loans.LedgerRow) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"date", "description", "debit", "credit", "balance"})
	for _, row := range rows {
		_ = w.Write([]string{
			row.Date.Format(constants.DateLayout),
			row.Description,
			money(row.Debit),
			money(row.Credit),
			money(row.Balance),
		})
	}
	w.Flush()
	return buf.String()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(constants.CurrencyPlaces)
}

// JSONReport is the machine-readable shape of a report.
type JSONReport struct {
	Name               string          `json:"name,omitempty"`
	EvaluatedAt        string          `json:"evaluatedAt"`
	Status             string          `json:"status"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	TotalInterest      decimal.Decimal `json:"totalInterest"`
	TotalPaid          decimal.Decimal `json:"totalPaid"`
	Ledger             []JSONRow       `json:"ledger"`
	Warnings           []string        `json:"warnings,omitempty"`
}

// JSONRow is one ledger row with amounts rounded to cents.
type JSONRow struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewJSONReport converts a report into its JSON shape.
func NewJSONReport(report *simulation.Report) JSONReport {
	result := report.Result
	out := JSONReport{
		Name:               report.Name,
		EvaluatedAt:        report.EvaluatedAt.Format(constants.DateLayout),
		Status:             result.Status(),
		OutstandingBalance: cents(result.OutstandingBalance),
		TotalInterest:      cents(result.TotalInterest),
		TotalPaid:          cents(result.TotalPaid),
		Ledger:             make([]JSONRow, 0, len(result.Ledger)),
		Warnings:           report.Warnings,
	}
	for _, row := range result.Ledger {
		out.Ledger = append(out.Ledger, JSONRow{
			Date:        row.Date.Format(constants.DateLayout),
			Description: row.Description,
			Debit:       cents(row.Debit),
			Credit:      cents(row.Credit),
			Balance:     cents(row.Balance),
		})
	}
	return out
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(constants.CurrencyPlaces)
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(report *simulation.Report) error {
	return WriteJSON(os.Stdout, report)
}

// WriteJSON writes the report to w as indented JSON.
func WriteJSON(w io.Writer, report *simulation.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONReport(report))
}
