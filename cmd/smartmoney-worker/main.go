// Command smartmoney-worker consumes the ledger change feed and mirrors new
// expenses into the spreadsheet.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"smartmoney/internal/amqp"
	"smartmoney/internal/cli"
	"smartmoney/internal/config"
	"smartmoney/internal/log"
	"smartmoney/internal/sheets"
	gsheet "smartmoney/internal/sheets/google"
	mem "smartmoney/internal/sheets/memory"
	"smartmoney/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := cli.LoadConfig("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Configuration validation failed:", err)
		os.Exit(1)
	}
	logger := cli.NewLogger(cfg).WithComponent(log.ComponentWorker)

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *log.Logger) error {
	if !cfg.AMQPEnabled() {
		return errors.New("AMQP_URL is required to consume the change feed")
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	mirror, err := newMirror(ctx, cfg, logger)
	if err != nil {
		return err
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("connect change feed: %w", err)
	}
	defer client.Close()

	changes := worker.NewChangeWorker(mirror, logger)

	logger.InfoContext(ctx, "Starting smartmoney-worker",
		log.FieldOperation, log.OpStartup,
		"queue", cfg.AMQPQueue)

	done := make(chan error, 1)
	go func() {
		err := client.ConsumeChanges(ctx, changes.HandleChange)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	}

	// The consumer returns once it sees the cancelled context; bound the wait.
	select {
	case err := <-done:
		return err
	case <-time.After(shutdownTimeout):
		logger.Warn("Shutdown timeout reached")
		return nil
	}
}

// newMirror picks the Google Sheets mirror when a spreadsheet is configured
// and the in-process one otherwise.
func newMirror(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.Mirror, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided; mirroring in memory")
		return mem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		CredentialsFile: cfg.GoogleCredentialsFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("google sheets client: %w", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}
