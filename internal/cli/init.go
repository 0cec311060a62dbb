// Package cli provides the initialization shared by cmd/smartmoney and
// cmd/smartmoney-worker: env and config loading, the logger, the ledger
// over the configured snapshot slot, and signal handling.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"smartmoney/internal/backend"
	"smartmoney/internal/config"
	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/services"
	"smartmoney/internal/store"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadConfig reads the configuration, with configFile taking the place of
// SMARTMONEY_CONFIG when set, and validates it.
func LoadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		if err := os.Setenv(config.FileEnv, configFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds the process logger from cfg and installs it as the slog
// default.
func NewLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// App bundles what a command needs to work on the ledger.
type App struct {
	Config *config.Config
	Logger *log.Logger
	Ledger *services.Ledger
	slot   *backend.Result
}

// Close releases the snapshot slot.
func (a *App) Close() error {
	return a.slot.Close()
}

// OpenApp opens the configured slot, loads the store from it and wraps it in
// a ledger. tracking turns on pending-change recording for the outbox.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger, tracking bool) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	slot, err := backend.NewFactory(logger).CreateSlot(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, slot.Slot, store.WithLogger(logger))
	if err != nil {
		_ = slot.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	ledger := services.NewLedger(st,
		services.WithLedgerLogger(logger),
		services.WithChangeTracking(tracking))

	if err := applyDefaultCurrency(ctx, ledger, cfg.DefaultCurrency); err != nil {
		_ = slot.Close()
		return nil, err
	}
	return &App{Config: cfg, Logger: logger, Ledger: ledger, slot: slot}, nil
}

// applyDefaultCurrency seeds the settings currency on a fresh snapshot.
func applyDefaultCurrency(ctx context.Context, ledger *services.Ledger, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || ledger.Snapshot().Settings != nil || code == core.DefaultSettings().Currency {
		return nil
	}
	_, err := ledger.UpdateSettings(ctx, core.SettingsPatch{Currency: &code})
	return err
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
