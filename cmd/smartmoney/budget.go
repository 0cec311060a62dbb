package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"smartmoney/internal/cli"
	"smartmoney/internal/core"
)

var (
	flagTotal  string
	flagLimits []string
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Set monthly budgets and check spending against them",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <YYYY-MM>",
	Short: "Create or replace a month's budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status [YYYY-MM]",
	Short: "Compare a month's spending with its budget",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBudgetStatus,
}

func init() {
	budgetSetCmd.Flags().StringVar(&flagTotal, "total", "", "Total budget for the month")
	budgetSetCmd.Flags().StringArrayVar(&flagLimits, "limit", nil, `Category limit as "Category=amount", repeatable`)
	_ = budgetSetCmd.MarkFlagRequired("total")

	budgetCmd.AddCommand(budgetSetCmd, budgetStatusCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	total, err := core.ParseAmountStrict(flagTotal)
	if err != nil {
		return fmt.Errorf("total %q: %w", flagTotal, err)
	}
	limits, err := parseLimits(flagLimits)
	if err != nil {
		return err
	}

	app, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	saved, err := app.Ledger.SaveBudget(cmd.Context(), core.Budget{
		Month:       args[0],
		TotalBudget: total,
		Categories:  limits,
	})
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), saved)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n",
		saved.Month, core.FormatCurrency(saved.TotalBudget, app.Ledger.Settings().Currency))
	return nil
}

func runBudgetStatus(cmd *cobra.Command, args []string) error {
	app, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	month := app.Ledger.Today().YearMonth()
	if len(args) == 1 {
		month = args[0]
	}
	report, err := app.Ledger.BudgetStatus(month)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}

	currency := app.Ledger.Settings().Currency
	money := func(v float64) string { return core.FormatCurrency(v, currency) }

	t := cli.Table{Headers: []string{"Category", "Limit", "Spent", "Usage"}}
	for _, c := range core.Categories {
		limit, hasLimit := report.Budget.Categories[c]
		spent := report.ByCategory[c]
		if !hasLimit && spent == 0 {
			continue
		}
		row := []string{string(c), "-", money(spent), ""}
		if hasLimit {
			row[1] = money(limit)
			row[3] = cli.RenderUsageBar(spent, limit, 20)
		}
		t.Rows = append(t.Rows, row)
	}
	t.Rows = append(t.Rows, []string{"Total", money(report.Budget.TotalBudget), money(report.Spent),
		cli.RenderUsageBar(report.Spent, report.Budget.TotalBudget, 20)})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderTitle("Budget "+month))
	fmt.Fprint(out, cli.RenderTable(t))
	fmt.Fprintf(out, "Remaining: %s\n", money(report.Remaining))
	for _, c := range core.Categories {
		if over, ok := report.Overruns[c]; ok {
			fmt.Fprintf(out, "Over budget: %s by %s\n", c, money(over))
		}
	}
	return nil
}

// parseLimits turns "Category=amount" pairs into per-category limits.
func parseLimits(pairs []string) (map[core.Category]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[core.Category]float64, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("limit %q: want Category=amount", p)
		}
		c, err := parseCategory(name)
		if err != nil {
			return nil, err
		}
		amount, err := core.ParseAmountStrict(value)
		if err != nil {
			return nil, fmt.Errorf("limit %q: %w", p, err)
		}
		out[c] = amount
	}
	return out, nil
}
