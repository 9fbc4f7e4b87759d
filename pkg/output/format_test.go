package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/loan-ledger/internal/simulation"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"github.com/iwvelando/loan-ledger/pkg/format"
	"github.com/iwvelando/loan-ledger/pkg/loans"
)

func testReport(t *testing.T) *simulation.Report {
	t.Helper()
	input := loans.LoanInput{
		Principal:         100000,
		AnnualRatePercent: 12,
		StartDate:         datetime.MustParseDate("2024-01-01"),
		InterestFrequency: datetime.Monthly,
		TableFrequency:    datetime.Monthly,
		Payments: []events.PaymentSpec{
			{Name: "EMI", Kind: events.Recurring, Amount: 1000, Date: datetime.MustParseDate("2024-03-20"), Frequency: datetime.Monthly},
			{Name: "Lump sum", Kind: events.OneTime, Amount: 50000, Date: datetime.MustParseDate("2024-02-15")},
		},
	}
	now := datetime.MustParseDate("2024-04-01")
	return &simulation.Report{
		Name:        "Test loan",
		Input:       input,
		Result:      loans.Simulate(input, now),
		Warnings:    []string{"something to look at"},
		EvaluatedAt: now,
	}
}

func usd(t *testing.T) *format.Formatter {
	t.Helper()
	f, err := format.NewFormatter("en-US", "USD", 2)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	return f
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	report := testReport(t)
	f := usd(t)

	output := captureStdout(t, func() { PrettyFormat(report, f) })

	expected := []string{
		"--- Ledger for Test loan as of 1 Apr 2024 ---",
		"Status:              Active",
		"1,000.00",
		"Lump sum",
		"Recurring (monthly)",
		"One-time",
		"Loan Start",
		"1 Mar 2024",
		"Period End",
		"+$1,000.00",
		"-$50,000.00",
		"warning: something to look at",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}

	// Payments are listed by date.
	if strings.Index(output, "Lump sum") > strings.Index(output, "EMI") {
		t.Errorf("expected payments sorted by date:\n%s", output)
	}
}

func TestPrettyFormatEmptyLedger(t *testing.T) {
	report := &simulation.Report{
		Result:      loans.SimulationResult{OutstandingBalance: 500, Ledger: []loans.LedgerRow{}},
		EvaluatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("PrettyFormat panicked with empty ledger: %v", r)
		}
	}()

	var buf bytes.Buffer
	if err := WritePretty(&buf, report, nil); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	if !strings.Contains(buf.String(), "--- Ledger for loan as of 1 Jan 2024 ---") {
		t.Errorf("unexpected header:\n%s", buf.String())
	}
}

func TestCsvString(t *testing.T) {
	rows := []loans.LedgerRow{
		{Date: datetime.MustParseDate("2024-01-01"), Description: "Loan Start", Balance: 100000},
		{Date: datetime.MustParseDate("2024-02-01"), Description: "Period End", Debit: 1000, Balance: 101000},
		{Date: datetime.MustParseDate("2024-03-01"), Description: "Period End", Debit: 510.004, Credit: 50000, Balance: 51510.004},
	}

	expected := "date,description,debit,credit,balance\n" +
		"2024-01-01,Loan Start,0.00,0.00,100000.00\n" +
		"2024-02-01,Period End,1000.00,0.00,101000.00\n" +
		"2024-03-01,Period End,510.00,50000.00,51510.00\n"

	if got := CsvString(rows); got != expected {
		t.Errorf("CsvString() = %q, expected %q", got, expected)
	}
}

func TestCsvStringQuotesDescriptions(t *testing.T) {
	rows := []loans.LedgerRow{
		{Date: datetime.MustParseDate("2024-01-01"), Description: "Start, with comma", Balance: 1},
	}
	if got := CsvString(rows); !strings.Contains(got, `"Start, with comma"`) {
		t.Errorf("CsvString() did not quote the description: %q", got)
	}
}

func TestCsvFormat(t *testing.T) {
	report := testReport(t)

	output := captureStdout(t, func() { CsvFormat(report) })

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != len(report.Result.Ledger)+1 {
		t.Fatalf("expected %d lines, got %d:\n%s", len(report.Result.Ledger)+1, len(lines), output)
	}
	if lines[0] != "date,description,debit,credit,balance" {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestJSONFormat(t *testing.T) {
	report := testReport(t)

	output := captureStdout(t, func() {
		if err := JSONFormat(report); err != nil {
			t.Errorf("JSONFormat() error = %v", err)
		}
	})

	var decoded struct {
		Name               string   `json:"name"`
		EvaluatedAt        string   `json:"evaluatedAt"`
		Status             string   `json:"status"`
		OutstandingBalance string   `json:"outstandingBalance"`
		Warnings           []string `json:"warnings"`
		Ledger             []struct {
			Date   string `json:"date"`
			Debit  string `json:"debit"`
			Credit string `json:"credit"`
		} `json:"ledger"`
	}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, output)
	}

	if decoded.Name != "Test loan" || decoded.EvaluatedAt != "2024-04-01" || decoded.Status != "Active" {
		t.Errorf("unexpected header fields %+v", decoded)
	}
	if len(decoded.Ledger) != len(report.Result.Ledger) {
		t.Fatalf("expected %d rows, got %d", len(report.Result.Ledger), len(decoded.Ledger))
	}
	if decoded.Ledger[1].Date != "2024-02-01" || decoded.Ledger[1].Debit != "1000" {
		t.Errorf("unexpected second row %+v", decoded.Ledger[1])
	}
	if len(decoded.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", decoded.Warnings)
	}
}

func TestPaymentType(t *testing.T) {
	tests := []struct {
		spec     events.PaymentSpec
		expected string
	}{
		{events.PaymentSpec{Kind: events.OneTime}, "One-time"},
		{events.PaymentSpec{Kind: events.Recurring, Frequency: datetime.Yearly}, "Recurring (yearly)"},
	}
	for _, tt := range tests {
		if got := PaymentType(tt.spec); got != tt.expected {
			t.Errorf("PaymentType() = %q, expected %q", got, tt.expected)
		}
	}
}
