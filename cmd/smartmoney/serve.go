package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"smartmoney/internal/amqp"
	"smartmoney/internal/cli"
	apphttp "smartmoney/internal/http"
	"smartmoney/internal/log"
	"smartmoney/internal/services"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API, the recurring processor and the outbox flusher",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := cli.OpenApp(ctx, cfg, logger, cfg.AMQPEnabled())
	if err != nil {
		return err
	}
	defer app.Close()

	srv := apphttp.NewServer(app.Ledger, apphttp.Options{
		Addr:         ":" + cfg.Port,
		RateLimitRPM: cfg.RateLimitRPM,
		CacheSize:    cfg.CacheSize,
		CacheTTL:     cfg.CacheTTL,
		Logger:       logger,
	})

	recurring := services.NewRecurringProcessor(app.Ledger, cfg.RecurringInterval, logger)
	if err := recurring.Start(ctx); err != nil {
		return err
	}

	var flusher *services.OutboxFlusher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			_ = recurring.Stop(context.Background())
			return fmt.Errorf("connect change feed: %w", err)
		}
		defer client.Close()

		flusher = services.NewOutboxFlusher(app.Ledger, client, services.OutboxConfig{
			Interval:  cfg.OutboxInterval,
			BatchSize: cfg.OutboxBatchSize,
		}, logger)
		if err := flusher.Start(ctx); err != nil {
			_ = recurring.Stop(context.Background())
			return err
		}
	} else {
		logger.InfoContext(ctx, "Change feed disabled - no AMQP_URL provided")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "Starting smartmoney server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := recurring.Stop(shutdownCtx); err != nil {
			logger.Error("Recurring processor shutdown error", log.FieldError, err)
		}
		if flusher != nil {
			if err := flusher.Stop(shutdownCtx); err != nil {
				logger.Error("Outbox flusher shutdown error", log.FieldError, err)
			}
			// Last chance for changes made since the previous tick.
			flusher.FlushOnce(shutdownCtx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
