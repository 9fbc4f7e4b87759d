package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateConfiguration(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		conf     Configuration
		contains []string
	}{
		{
			name: "clean configuration",
			conf: Configuration{
				Loan:     Loan{Name: "Home", Principal: 1000, InterestRate: 5, StartDate: "2024-01-01"},
				Payments: []Payment{{Type: "onetime", Amount: 10, Date: "2024-02-01"}},
				Output:   OutputConfig{Format: "pretty"},
			},
		},
		{
			name: "loan in the future",
			conf: Configuration{
				Loan:   Loan{Name: "Home", Principal: 1000, InterestRate: 5, StartDate: "2025-01-01"},
				Output: OutputConfig{Format: "pretty"},
			},
			contains: []string{"starts after the evaluation date"},
		},
		{
			name: "zero rate",
			conf: Configuration{
				Loan:   Loan{Principal: 1000, StartDate: "2024-01-01"},
				Output: OutputConfig{Format: "json"},
			},
			contains: []string{"zero interest rate"},
		},
		{
			name: "payments outside the window",
			conf: Configuration{
				Loan: Loan{Principal: 1000, InterestRate: 5, StartDate: "2024-01-01"},
				Payments: []Payment{
					{Name: "early", Type: "onetime", Amount: 10, Date: "2023-12-01"},
					{Name: "series", Type: "Recurring", Amount: 10, Date: "2023-11-01", Frequency: "monthly"},
					{Name: "late", Type: "onetime", Amount: 10, Date: "2024-07-01"},
				},
				Output: OutputConfig{Format: "csv"},
			},
			contains: []string{
				"Payment 'early' is dated before the loan",
				"Payment 'series' starts before the loan",
				"Payment 'late' is dated after the evaluation date",
			},
		},
		{
			name: "evaluation date override",
			conf: Configuration{
				Loan:           Loan{Principal: 1000, InterestRate: 5, StartDate: "2024-01-01"},
				Payments:       []Payment{{Name: "mid", Type: "onetime", Amount: 10, Date: "2024-03-01"}},
				EvaluationDate: "2024-02-01",
				Output:         OutputConfig{Format: "pretty"},
			},
			contains: []string{"Payment 'mid' is dated after the evaluation date (2024-03-01 > 2024-02-01)"},
		},
		{
			name: "bad output format",
			conf: Configuration{
				Loan:   Loan{Principal: 1000, InterestRate: 5, StartDate: "2024-01-01"},
				Output: OutputConfig{Format: "xml"},
			},
			contains: []string{"expected output format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration(now)
			if len(warnings) != len(tt.contains) {
				t.Fatalf("Expected %d warnings, got %d: %v", len(tt.contains), len(warnings), warnings)
			}
			for i, want := range tt.contains {
				if !strings.Contains(warnings[i], want) {
					t.Errorf("warning %d = %q, expected it to contain %q", i, warnings[i], want)
				}
			}
		})
	}
}
