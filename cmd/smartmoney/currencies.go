package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartmoney/internal/cli"
	"smartmoney/internal/core"
)

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List the supported display currencies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), core.Currencies)
		}
		t := cli.Table{Headers: []string{"Code", "Name", "Example", "Compact"}}
		for _, c := range core.Currencies {
			t.Rows = append(t.Rows, []string{c.Code, c.Name, core.FormatCurrency(1234.5, c.Code), core.FormatCurrencyCompact(2_500_000, c.Code)})
		}
		fmt.Fprint(cmd.OutOrStdout(), cli.RenderTable(t))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(currenciesCmd)
}
