package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/loan-ledger/internal/cache"
	"github.com/iwvelando/loan-ledger/internal/logging"
	"github.com/iwvelando/loan-ledger/internal/server"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/events"
	"github.com/iwvelando/loan-ledger/pkg/paymentbook"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	address := flag.String("address", "", "listen address override, e.g. :8080")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	book := paymentbook.New()
	for _, p := range cfg.Payments {
		spec, err := p.Spec()
		if err != nil {
			logger.Fatal("invalid seed payment",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		book.Add(spec)
	}
	logSeed(logger, book.List())

	responseCache, err := cache.New(logger, cfg.Cache)
	if err != nil {
		logger.Fatal("failed to initialize cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if responseCache != nil {
		defer func() {
			_ = responseCache.Close()
		}()
	}

	formatter, err := cfg.Display.Formatter()
	if err != nil {
		logger.Fatal("invalid display settings",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	handler := server.NewHandler(logger, server.Options{
		MaxUploadSize:  cfg.UploadSizeBytes(),
		Version:        version,
		Book:           book,
		Cache:          responseCache,
		CacheTTL:       cfg.CacheTTL(),
		Formatter:      formatter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "main"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

func logSeed(logger *zap.Logger, payments []events.PaymentSpec) {
	for _, p := range payments {
		logger.Debug("seeded payment",
			zap.String("op", "main"),
			zap.String("id", p.ID),
			zap.String("payment", p.Label()),
			zap.Time("date", p.Date),
		)
	}
}
