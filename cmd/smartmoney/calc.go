package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartmoney/internal/calc"
	"smartmoney/internal/core"
	"smartmoney/internal/services"
)

// Calculator inputs are text and parsed leniently: blank or malformed
// values count as zero.
var (
	calcCurrency string

	calcMonthlyExpenses string
	calcMonths          string

	calcCurrentAge     string
	calcRetirementAge  string
	calcSavings        string
	calcContribution   string
	calcExpectedReturn string

	calcIncome     string
	calcDeductions string

	calcPrincipal string
	calcRate      string
	calcPayment   string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Financial calculators that do not touch the ledger",
}

var calcEmergencyCmd = &cobra.Command{
	Use:   "emergency",
	Short: "Emergency fund target",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		months := core.ParseAmount(calcMonths)
		if months <= 0 {
			months = calc.DefaultEmergencyMonths
		}
		target := calc.EmergencyFundTarget(core.ParseAmount(calcMonthlyExpenses), months)
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]float64{"months": months, "targetAmount": target})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Target for %.0f months: %s\n", months, core.FormatCurrency(target, calcCurrency))
		return nil
	},
}

var calcRetirementCmd = &cobra.Command{
	Use:   "retirement",
	Short: "Projected savings at retirement",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := services.RetirementInput{
			CurrentAge:          core.ParseAmount(calcCurrentAge),
			RetirementAge:       core.ParseAmount(calcRetirementAge),
			CurrentSavings:      core.ParseAmount(calcSavings),
			MonthlyContribution: core.ParseAmount(calcContribution),
			ExpectedReturn:      core.ParseAmount(calcExpectedReturn),
		}
		if err := in.Validate(); err != nil {
			return err
		}
		projected := calc.RetirementProjection(in.CurrentAge, in.RetirementAge,
			in.CurrentSavings, in.MonthlyContribution, in.ExpectedReturn)
		target := projected * calc.RetirementTargetRatio
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]float64{"projectedSavings": projected, "targetAmount": target})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Projected savings: %s\n", core.FormatCurrency(projected, calcCurrency))
		fmt.Fprintf(out, "Target (%.0f%%):     %s\n", calc.RetirementTargetRatio*100, core.FormatCurrency(target, calcCurrency))
		return nil
	},
}

var calcTaxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Flat-bracket income tax estimate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res := calc.EstimateTax(core.ParseAmount(calcIncome), core.ParseAmount(calcDeductions))
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Taxable income: %s\n", core.FormatCurrency(res.TaxableIncome, calcCurrency))
		fmt.Fprintf(out, "Bracket:        %s\n", res.Bracket)
		fmt.Fprintf(out, "Estimated tax:  %s\n", core.FormatCurrency(res.EstimatedTax, calcCurrency))
		return nil
	},
}

var calcPayoffCmd = &cobra.Command{
	Use:   "payoff",
	Short: "Months and interest to clear a debt with a fixed payment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res := calc.DebtPayoff(core.ParseAmount(calcPrincipal), core.ParseAmount(calcRate), core.ParseAmount(calcPayment))
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		out := cmd.OutOrStdout()
		if res.Impossible() {
			fmt.Fprintln(out, "The payment never covers the monthly interest; the debt is never paid off.")
			return nil
		}
		fmt.Fprintf(out, "Months to pay off: %.0f\n", res.Months)
		fmt.Fprintf(out, "Total interest:    %s\n", core.FormatCurrency(res.TotalInterest, calcCurrency))
		return nil
	},
}

func init() {
	calcCmd.PersistentFlags().StringVar(&calcCurrency, "currency", "USD", "Display currency")

	calcEmergencyCmd.Flags().StringVar(&calcMonthlyExpenses, "monthly", "", "Monthly expenses")
	calcEmergencyCmd.Flags().StringVar(&calcMonths, "months", "", "Months to cover (default 6)")

	calcRetirementCmd.Flags().StringVar(&calcCurrentAge, "age", "", "Current age")
	calcRetirementCmd.Flags().StringVar(&calcRetirementAge, "retire-at", "", "Retirement age")
	calcRetirementCmd.Flags().StringVar(&calcSavings, "savings", "", "Current savings")
	calcRetirementCmd.Flags().StringVar(&calcContribution, "contribution", "", "Monthly contribution")
	calcRetirementCmd.Flags().StringVar(&calcExpectedReturn, "return", "", "Expected annual return in percent")

	calcTaxCmd.Flags().StringVar(&calcIncome, "income", "", "Annual income")
	calcTaxCmd.Flags().StringVar(&calcDeductions, "deductions", "", "Deductions")

	calcPayoffCmd.Flags().StringVar(&calcPrincipal, "principal", "", "Outstanding principal")
	calcPayoffCmd.Flags().StringVar(&calcRate, "rate", "", "Annual interest rate in percent")
	calcPayoffCmd.Flags().StringVar(&calcPayment, "payment", "", "Monthly payment")

	calcCmd.AddCommand(calcEmergencyCmd, calcRetirementCmd, calcTaxCmd, calcPayoffCmd)
	rootCmd.AddCommand(calcCmd)
}
