package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"smartmoney/internal/cli"
	"smartmoney/internal/config"
	"smartmoney/internal/log"
)

var (
	flagConfig  string
	flagEnvFile string
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:          "smartmoney",
	Short:        "Personal finance ledger",
	Long:         "Track expenses, budgets, debts and savings goals, and serve them over a JSON API.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML config file (overrides "+config.FileEnv+")")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "env file loaded before the config")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print results as JSON")
}

// loadConfig is the shared setup path: env file, config, logger.
func loadConfig() (*config.Config, *log.Logger, error) {
	if err := cli.LoadEnvFile(flagEnvFile); err != nil {
		return nil, nil, err
	}
	cfg, err := cli.LoadConfig(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cli.NewLogger(cfg), nil
}

// openLedger opens the configured ledger for a one-shot command. Change
// tracking follows the broker config so CLI edits reach the sheet mirror on
// the next outbox flush.
func openLedger(ctx context.Context) (*cli.App, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cli.OpenApp(ctx, cfg, logger.WithComponent(log.ComponentCLI), cfg.AMQPEnabled())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
