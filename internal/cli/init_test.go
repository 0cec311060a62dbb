package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"smartmoney/internal/config"
	"smartmoney/internal/core"
	"smartmoney/internal/log"
)

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}

func TestLoadEnvFile_Sets(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SMARTMONEY_TEST_KEY=hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SMARTMONEY_TEST_KEY") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("SMARTMONEY_TEST_KEY"); got != "hello" {
		t.Fatalf("env = %q", got)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartmoney.toml")
	if err := os.WriteFile(path, []byte("port = \"9090\"\ndata_backend = \"memory\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.FileEnv, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9090" || cfg.DataBackend != "memory" {
		t.Fatalf("cfg = %+v", cfg)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("data_backend = \"postgres\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestOpenApp_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.DataBackend = "memory"
	cfg.DefaultCurrency = "eur"

	app, err := OpenApp(context.Background(), cfg, log.Discard(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if got := app.Ledger.Settings().Currency; got != "EUR" {
		t.Fatalf("currency = %q, want EUR", got)
	}
	if _, err := app.Ledger.AddExpense(context.Background(), core.Expense{Amount: 1, Category: core.Other, Date: core.NewDate(2024, 1, 1)}); err != nil {
		t.Fatal(err)
	}
}

func TestOpenApp_FilePersists(t *testing.T) {
	cfg := config.Default()
	cfg.DataBackend = "file"
	cfg.DataDir = t.TempDir()
	ctx := context.Background()

	app, err := OpenApp(ctx, cfg, log.Discard(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.Ledger.AddExpense(ctx, core.Expense{Amount: 5, Category: core.Other, Date: core.NewDate(2024, 1, 1)}); err != nil {
		t.Fatal(err)
	}
	app.Close()

	reopened, err := OpenApp(ctx, cfg, log.Discard(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, _ := reopened.Ledger.ListExpenses("")
	if len(got) != 1 || got[0].Amount != 5 {
		t.Fatalf("reopened expenses = %+v", got)
	}
}
