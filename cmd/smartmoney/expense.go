package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"smartmoney/internal/cli"
	"smartmoney/internal/core"
)

var (
	flagAmount   string
	flagCategory string
	flagNote     string
	flagDate     string
	flagCurrency string
	flagBusiness string
	flagLocation string
	flagTags     []string
	flagRepeat   string
	flagMonth    string
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"expenses", "e"},
	Short:   "Record and list expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Args:  cobra.NoArgs,
	RunE:  runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the expenses of a month",
	Args:  cobra.NoArgs,
	RunE:  runExpenseList,
}

var expenseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseDelete,
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show a month's spending by category",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

func init() {
	f := expenseAddCmd.Flags()
	f.StringVarP(&flagAmount, "amount", "a", "", "Amount, e.g. 12.50 or 12,50")
	f.StringVarP(&flagCategory, "category", "k", string(core.Other), "Category (case-insensitive)")
	f.StringVarP(&flagNote, "note", "m", "", "Free-text note")
	f.StringVarP(&flagDate, "date", "d", "", "Date as YYYY-MM-DD (default today)")
	f.StringVar(&flagCurrency, "currency", "", "ISO currency code (default from settings)")
	f.StringVar(&flagBusiness, "business", "", "Business name")
	f.StringVar(&flagLocation, "location", "", "Location")
	f.StringSliceVar(&flagTags, "tag", nil, "Tag, repeatable")
	f.StringVar(&flagRepeat, "repeat", "", "Repeat daily, weekly, monthly or yearly")
	_ = expenseAddCmd.MarkFlagRequired("amount")

	expenseListCmd.Flags().StringVar(&flagMonth, "month", "", "Month as YYYY-MM (default current)")
	overviewCmd.Flags().StringVar(&flagMonth, "month", "", "Month as YYYY-MM (default current)")

	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseDeleteCmd)
	rootCmd.AddCommand(expenseCmd, overviewCmd)
}

func runExpenseAdd(cmd *cobra.Command, _ []string) error {
	amount, err := core.ParseAmountStrict(flagAmount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", flagAmount, err)
	}
	category, err := parseCategory(flagCategory)
	if err != nil {
		return err
	}

	app, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	date := app.Ledger.Today()
	if flagDate != "" {
		if date, err = core.ParseDate(flagDate); err != nil {
			return fmt.Errorf("date %q: %w", flagDate, err)
		}
	}

	e := core.Expense{
		Amount:       amount,
		Category:     category,
		Note:         strings.TrimSpace(flagNote),
		Date:         date,
		Currency:     strings.ToUpper(strings.TrimSpace(flagCurrency)),
		BusinessName: strings.TrimSpace(flagBusiness),
		Location:     strings.TrimSpace(flagLocation),
		Tags:         flagTags,
	}
	if flagRepeat != "" {
		e.Recurrence = &core.Recurrence{Type: core.RepetitionTypes(strings.ToLower(flagRepeat))}
	}

	saved, err := app.Ledger.AddExpense(cmd.Context(), e)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), saved)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s on %s (%s)\n",
		core.FormatCurrency(saved.Amount, currencyOf(app, saved)), saved.Category, saved.Date, saved.ID)
	return nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	app, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	month := monthOrCurrent(app)
	expenses, err := app.Ledger.ListExpenses(month)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), expenses)
	}

	t := cli.Table{
		Title:   "Expenses " + month,
		Headers: []string{"Date", "Category", "Note", "Amount", "ID"},
	}
	for _, e := range expenses {
		t.Rows = append(t.Rows, []string{
			e.Date.String(),
			string(e.Category),
			e.Note,
			core.FormatCurrency(e.Amount, currencyOf(app, e)),
			e.ID,
		})
	}
	if len(t.Rows) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No expenses in %s\n", month)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), cli.RenderTable(t))
	return nil
}

func runExpenseDelete(cmd *cobra.Command, args []string) error {
	app, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Ledger.DeleteExpense(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runOverview(cmd *cobra.Command, _ []string) error {
	app, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	ov, err := app.Ledger.Overview(monthOrCurrent(app))
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), ov)
	}

	currency := app.Ledger.Settings().Currency
	t := cli.Table{Headers: []string{"Category", "Amount"}}
	for _, ca := range ov.ByCategory {
		t.Rows = append(t.Rows, []string{string(ca.Category), core.FormatCurrency(ca.Amount, currency)})
	}
	t.Rows = append(t.Rows, []string{"Total", core.FormatCurrency(ov.Total, currency)})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("%s: %d expenses", ov.Month, ov.Count)))
	fmt.Fprint(out, cli.RenderTable(t))
	return nil
}

// parseCategory matches s against the known categories ignoring case.
func parseCategory(s string) (core.Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range core.Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidCategory, s)
}

func monthOrCurrent(app *cli.App) string {
	if flagMonth != "" {
		return flagMonth
	}
	return app.Ledger.Today().YearMonth()
}

func currencyOf(app *cli.App, e core.Expense) string {
	if e.Currency != "" {
		return e.Currency
	}
	return app.Ledger.Settings().Currency
}
