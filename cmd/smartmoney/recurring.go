package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartmoney/internal/services"
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Materialize recurring expenses due today and flag overdue debts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		proc := services.NewRecurringProcessor(app.Ledger, app.Config.RecurringInterval, app.Logger)
		created, err := proc.ProcessDue(ctx, app.Ledger.Today())
		if err != nil {
			return err
		}
		overdue := app.Ledger.MarkOverdueDebts(ctx)
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{"created": created, "overdueDebts": overdue})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d recurring expenses, flagged %d overdue debts\n", len(created), overdue)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recurringCmd)
}
