// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/format"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for loan-ledger.
type Configuration struct {
	Loan                    Loan          `yaml:"loan" json:"loan"`
	Payments                []Payment     `yaml:"payments,omitempty" json:"payments,omitempty"`
	EvaluationDate          string        `yaml:"evaluationDate,omitempty" json:"evaluationDate,omitempty"`
	MaxRecurringOccurrences int           `yaml:"maxRecurringOccurrences,omitempty" json:"maxRecurringOccurrences,omitempty"`
	Logging                 LoggingConfig `yaml:"logging,omitempty" json:"-"`
	Output                  OutputConfig  `yaml:"output,omitempty" json:"-"`
	Display                 DisplayConfig `yaml:"display,omitempty" json:"-"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// DisplayConfig controls how amounts are rendered for people.
type DisplayConfig struct {
	Locale         string `yaml:"locale,omitempty"`
	Currency       string `yaml:"currency,omitempty"`
	FractionDigits *int   `yaml:"fractionDigits,omitempty"`
}

// Loan describes the borrowed amount and how it accrues interest.
type Loan struct {
	Name              string  `yaml:"name,omitempty" json:"name,omitempty"`
	Principal         float64 `yaml:"principal" json:"principal"`
	InterestRate      float64 `yaml:"interestRate" json:"interestRate"` // annual percent
	StartDate         string  `yaml:"startDate" json:"startDate"`
	InterestFrequency string  `yaml:"interestFrequency,omitempty" json:"interestFrequency,omitempty"`
	TableFrequency    string  `yaml:"tableFrequency,omitempty" json:"tableFrequency,omitempty"`
}

// Payment is a one-time or recurring repayment.
type Payment struct {
	ID        string  `yaml:"id,omitempty" json:"id,omitempty"`
	Name      string  `yaml:"name,omitempty" json:"name,omitempty"`
	Type      string  `yaml:"type" json:"type"` // onetime, recurring
	Amount    float64 `yaml:"amount" json:"amount"`
	Date      string  `yaml:"date" json:"date"`
	Frequency string  `yaml:"frequency,omitempty" json:"frequency,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills in the output and display settings left empty.
func (c *Configuration) ApplyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Display.Locale == "" {
		c.Display.Locale = constants.DefaultLocale
	}
	if c.Display.Currency == "" {
		c.Display.Currency = constants.DefaultCurrency
	}
	if c.Display.FractionDigits == nil {
		digits := constants.DefaultFractionDigits
		c.Display.FractionDigits = &digits
	}
	if c.MaxRecurringOccurrences <= 0 {
		c.MaxRecurringOccurrences = constants.DefaultMaxRecurringOccurrences
	}
}

// EvaluationTime returns the instant the loan is evaluated at: the
// configured evaluation date when set, now otherwise.
func (c *Configuration) EvaluationTime(now time.Time) (time.Time, error) {
	if c.EvaluationDate == "" {
		return now, nil
	}
	t, err := datetime.ParseDate(c.EvaluationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("evaluationDate: %w", err)
	}
	return t, nil
}

// Formatter builds the display formatter described by the configuration.
func (d DisplayConfig) Formatter() (*format.Formatter, error) {
	locale, code, digits := d.Locale, d.Currency, constants.DefaultFractionDigits
	if locale == "" {
		locale = constants.DefaultLocale
	}
	if code == "" {
		code = constants.DefaultCurrency
	}
	if d.FractionDigits != nil {
		digits = *d.FractionDigits
	}
	return format.NewFormatter(locale, code, digits)
}
