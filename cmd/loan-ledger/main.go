package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/iwvelando/loan-ledger/internal/config"
	"github.com/iwvelando/loan-ledger/internal/logging"
	"github.com/iwvelando/loan-ledger/internal/simulation"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/output"
	"github.com/iwvelando/loan-ledger/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	asOf := flag.String("as-of", "", "evaluate the loan as of this date (YYYY-MM-DD) instead of now")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	if *outputFormatFlag != "" {
		conf.Output.Format = *outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *asOf != "" {
		if _, err := datetime.ParseDate(*asOf); err != nil {
			logger.Fatal("invalid -as-of date",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		conf.EvaluationDate = *asOf
	}

	formatter, err := conf.Display.Formatter()
	if err != nil {
		logger.Fatal("invalid display settings",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	report, err := simulation.Run(logger, *conf, time.Now())
	if err != nil {
		logger.Fatal("failed to simulate loan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range report.Warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Handle output.
	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		output.PrettyFormat(report, formatter)
	case constants.OutputFormatCSV:
		output.CsvFormat(report)
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(report); err != nil {
			logger.Fatal("failed to write JSON output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}
