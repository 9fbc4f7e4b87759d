// Package constants provides shared constants for the loan-ledger application.
package constants

// DateLayout is the format expected in config files and API payloads for
// calendar dates.
const DateLayout = "2006-01-02"

// DisplayDateLayout is the human-readable date format used in pretty output.
const DisplayDateLayout = "2 Jan 2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places kept in CSV and JSON output
	CurrencyPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the balance at or below which a loan counts as
	// paid off (1 cent)
	CurrencyTolerance = 0.01

	// DefaultMaxRecurringOccurrences bounds how many steps a single recurring
	// payment series may take during event generation.
	DefaultMaxRecurringOccurrences = 5000
)

// Ledger row descriptions
const (
	RowLoanStart = "Loan Start"
	RowPeriodEnd = "Period End"
	RowToday     = "Today"
)

// Loan status labels
const (
	StatusPaidOff = "Paid Off"
	StatusActive  = "Active"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Display defaults, matching the single locale the ledger is shown in.
const (
	DefaultLocale         = "en-IN"
	DefaultCurrency       = "INR"
	DefaultFractionDigits = 0
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "loan.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "loan.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// CacheBackendNone disables result caching
	CacheBackendNone = "none"

	// CacheBackendMemory keeps cached results in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps cached results in Redis
	CacheBackendRedis = "redis"

	// DefaultCacheKeyPrefix namespaces cache keys
	DefaultCacheKeyPrefix = "loan-ledger:"
)
