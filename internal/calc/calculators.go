// Package calc holds the pure financial projection functions.
//
// Every function here is deterministic over its scalar inputs and safe for
// concurrent use. Input validation is the caller's responsibility.
package calc

import (
	"encoding/json"
	"math"
)

// DefaultEmergencyMonths is the number of months of expenses an emergency
// fund should cover when the caller does not choose.
const DefaultEmergencyMonths = 6

// EmergencyFundTarget returns monthlyExpenses × months.
func EmergencyFundTarget(monthlyExpenses, months float64) float64 {
	return monthlyExpenses * months
}

// RetirementProjection returns the projected savings at retirement, rounded
// to the nearest whole currency unit. Current savings compound annually at
// expectedReturn percent and contributions compound monthly.
//
// A zero expectedReturn uses the linear form
// currentSavings + monthlyContribution × totalMonths.
func RetirementProjection(currentAge, retirementAge, currentSavings, monthlyContribution, expectedReturn float64) float64 {
	years := retirementAge - currentAge
	monthlyRate := expectedReturn / 100 / 12
	totalMonths := years * 12

	if monthlyRate == 0 {
		return math.Round(currentSavings + monthlyContribution*totalMonths)
	}

	fv := currentSavings*math.Pow(1+expectedReturn/100, years) +
		monthlyContribution*(math.Pow(1+monthlyRate, totalMonths)-1)/monthlyRate
	return math.Round(fv)
}

// RetirementTargetRatio is the share of the projection used as the
// retirement savings target.
const RetirementTargetRatio = 0.8

// Bracket is a flat tax rate band.
type Bracket struct {
	UpTo  float64 // inclusive upper bound; +Inf for the top band
	Label string
	Rate  float64
}

// Brackets is the simplified single-filer table. The matching rate applies
// to the whole taxable income, not marginally.
var Brackets = []Bracket{
	{UpTo: 11600, Label: "10%", Rate: 0.10},
	{UpTo: 47150, Label: "12%", Rate: 0.12},
	{UpTo: 100525, Label: "22%", Rate: 0.22},
	{UpTo: 191950, Label: "24%", Rate: 0.24},
	{UpTo: 243725, Label: "32%", Rate: 0.32},
	{UpTo: 609350, Label: "35%", Rate: 0.35},
	{UpTo: math.Inf(1), Label: "37%", Rate: 0.37},
}

// TaxBracket returns the band that taxableIncome falls in.
func TaxBracket(taxableIncome float64) Bracket {
	for _, b := range Brackets {
		if taxableIncome <= b.UpTo {
			return b
		}
	}
	return Brackets[len(Brackets)-1]
}

// TaxResult is the outcome of EstimateTax.
type TaxResult struct {
	TaxableIncome float64 `json:"taxableIncome"`
	Bracket       string  `json:"taxBracket"`
	Rate          float64 `json:"rate"`
	EstimatedTax  float64 `json:"estimatedTax"`
}

// EstimateTax applies the flat bracket rate to income − deductions.
func EstimateTax(income, deductions float64) TaxResult {
	taxable := income - deductions
	b := TaxBracket(taxable)
	return TaxResult{
		TaxableIncome: taxable,
		Bracket:       b.Label,
		Rate:          b.Rate,
		EstimatedTax:  taxable * b.Rate,
	}
}

// PayoffResult describes how long a fixed-payment debt takes to clear.
// Both fields are +Inf when the payment never covers the monthly interest.
type PayoffResult struct {
	Months        float64 `json:"months"`
	TotalInterest float64 `json:"totalInterest"`
}

// Impossible reports whether the debt can never be paid off.
func (r PayoffResult) Impossible() bool {
	return math.IsInf(r.Months, 1)
}

// MarshalJSON encodes the impossible result with null amounts, since JSON has
// no infinity.
func (r PayoffResult) MarshalJSON() ([]byte, error) {
	type payload struct {
		Months        *float64 `json:"months"`
		TotalInterest *float64 `json:"totalInterest"`
		Impossible    bool     `json:"impossible"`
	}
	if r.Impossible() {
		return json.Marshal(payload{Impossible: true})
	}
	return json.Marshal(payload{Months: &r.Months, TotalInterest: &r.TotalInterest})
}

// DebtPayoff computes the month count (rounded up) and total interest
// (rounded) for paying principal at an annual interestRate percent with a
// fixed monthlyPayment. Interest is computed from the exact, unrounded month
// count.
func DebtPayoff(principal, interestRate, monthlyPayment float64) PayoffResult {
	monthlyRate := interestRate / 100 / 12
	if monthlyPayment <= principal*monthlyRate {
		return PayoffResult{Months: math.Inf(1), TotalInterest: math.Inf(1)}
	}
	if monthlyRate == 0 {
		return PayoffResult{Months: math.Ceil(principal / monthlyPayment)}
	}

	months := math.Log(monthlyPayment/(monthlyPayment-principal*monthlyRate)) / math.Log(1+monthlyRate)
	return PayoffResult{
		Months:        math.Ceil(months),
		TotalInterest: math.Round(monthlyPayment*months - principal),
	}
}
