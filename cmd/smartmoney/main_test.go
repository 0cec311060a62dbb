package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"smartmoney/internal/core"
)

// resetFlags clears the package-level flag values between executions.
func resetFlags() {
	flagConfig, flagJSON = "", false
	flagAmount, flagCategory, flagNote, flagDate = "", string(core.Other), "", ""
	flagCurrency, flagBusiness, flagLocation, flagRepeat, flagMonth = "", "", "", "", ""
	flagTags = nil
	flagTotal, flagLimits = "", nil
	calcCurrency = "USD"
	calcMonthlyExpenses, calcMonths = "", ""
	calcCurrentAge, calcRetirementAge, calcSavings, calcContribution, calcExpectedReturn = "", "", "", "", ""
	calcIncome, calcDeductions = "", ""
	calcPrincipal, calcRate, calcPayment = "", "", ""
}

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SMARTMONEY_CONFIG", "")
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AMQP_URL", "")
	t.Setenv("DEFAULT_CURRENCY", "")
	flagEnvFile = filepath.Join(dir, "missing.env")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestCalcCommands(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"emergency default months", []string{"calc", "emergency", "--monthly", "1000"}, []string{"Target for 6 months: $6,000.00"}},
		{"emergency comma decimal", []string{"calc", "emergency", "--monthly", "100,5", "--months", "2"}, []string{"$201.00"}},
		{"tax", []string{"calc", "tax", "--income", "50000", "--deductions", "10000"}, []string{"$40,000.00", "12%", "$4,800.00"}},
		{"payoff zero rate", []string{"calc", "payoff", "--principal", "1000", "--rate", "0", "--payment", "100"}, []string{"Months to pay off: 10", "$0.00"}},
		{"payoff impossible", []string{"calc", "payoff", "--principal", "1000", "--rate", "12", "--payment", "5"}, []string{"never paid off"}},
		{"payoff json", []string{"--json", "calc", "payoff", "--principal", "1000", "--rate", "12", "--payment", "5"}, []string{`"impossible": true`, `"months": null`}},
		{"retirement linear", []string{"calc", "retirement", "--age", "30", "--retire-at", "31", "--savings", "1000", "--contribution", "100", "--return", "0"}, []string{"$2,200.00", "$1,760.00"}},
		{"currencies", []string{"currencies"}, []string{"€1,234.50", "US Dollar", "$2.5M"}},
		{"euro display", []string{"calc", "emergency", "--monthly", "10", "--months", "1", "--currency", "EUR"}, []string{"€10.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustExecute(t, tt.args...)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	if _, err := execute(t, "calc", "retirement", "--age", "40", "--retire-at", "30"); err == nil {
		t.Error("retirement before current age should fail")
	}
}

func TestExpenseAndBudgetCommands(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "--json", "expense", "add",
		"--amount", "12,50", "--category", "food & dining", "--note", "lunch", "--date", "2024-03-05")
	var added core.Expense
	if err := json.Unmarshal([]byte(out), &added); err != nil {
		t.Fatalf("decode added expense: %v\n%s", err, out)
	}
	if added.ID == "" || added.Amount != 12.5 || added.Category != core.FoodDining {
		t.Fatalf("unexpected expense %+v", added)
	}

	out = mustExecute(t, "expense", "list", "--month", "2024-03")
	for _, want := range []string{"lunch", "$12.50", added.ID} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}

	mustExecute(t, "budget", "set", "2024-03", "--total", "100", "--limit", "Food & Dining=10")
	out = mustExecute(t, "budget", "status", "2024-03")
	for _, want := range []string{"Remaining: $87.50", "Over budget: Food & Dining by $2.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}

	out = mustExecute(t, "--json", "overview", "--month", "2024-03")
	var ov core.MonthOverview
	if err := json.Unmarshal([]byte(out), &ov); err != nil {
		t.Fatalf("decode overview: %v\n%s", err, out)
	}
	if ov.Total != 12.5 || ov.Count != 1 {
		t.Errorf("overview = %+v", ov)
	}

	mustExecute(t, "expense", "delete", added.ID)
	out = mustExecute(t, "expense", "list", "--month", "2024-03")
	if !strings.Contains(out, "No expenses in 2024-03") {
		t.Errorf("expected empty list, got:\n%s", out)
	}
	if _, err := execute(t, "expense", "delete", added.ID); err == nil {
		t.Error("deleting a missing expense should fail")
	}
}

func TestExpenseAddRejectsBadInput(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad amount", []string{"expense", "add", "--amount", "abc"}},
		{"negative amount", []string{"expense", "add", "--amount", "-3"}},
		{"unknown category", []string{"expense", "add", "--amount", "3", "--category", "Snacks"}},
		{"bad date", []string{"expense", "add", "--amount", "3", "--date", "tomorrow"}},
		{"bad limit", []string{"budget", "set", "2024-03", "--total", "10", "--limit", "Food"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Fatalf("%v should fail", tt.args)
			}
		})
	}
}

func TestParseLimits(t *testing.T) {
	got, err := parseLimits([]string{"food & dining=12,5", "Travel=100"})
	if err != nil {
		t.Fatal(err)
	}
	if got[core.FoodDining] != 12.5 || got[core.Travel] != 100 || len(got) != 2 {
		t.Fatalf("parseLimits() = %v", got)
	}
	if got, err := parseLimits(nil); err != nil || got != nil {
		t.Fatalf("parseLimits(nil) = %v, %v", got, err)
	}
}
