package http

import (
	"net/http"

	"smartmoney/internal/calc"
	"smartmoney/internal/services"
)

// The calculator endpoints take the raw text of the input fields. Blank or
// malformed fields count as zero, like the calculator screens.

type emergencyFundResult struct {
	Months float64 `json:"months"`
	Target float64 `json:"target"`
}

func handleCalcEmergencyFund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MonthlyExpenses amountText `json:"monthlyExpenses"`
		Months          amountText `json:"months"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	months := float64(req.Months)
	if months <= 0 {
		months = calc.DefaultEmergencyMonths
	}
	OK(emergencyFundResult{
		Months: months,
		Target: calc.EmergencyFundTarget(float64(req.MonthlyExpenses), months),
	}).Write(w)
}

type retirementResult struct {
	Projected float64 `json:"projected"`
	Target    float64 `json:"target"`
}

func handleCalcRetirement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentAge          amountText `json:"currentAge"`
		RetirementAge       amountText `json:"retirementAge"`
		CurrentSavings      amountText `json:"currentSavings"`
		MonthlyContribution amountText `json:"monthlyContribution"`
		ExpectedReturn      amountText `json:"expectedReturn"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	in := services.RetirementInput{
		CurrentAge:          float64(req.CurrentAge),
		RetirementAge:       float64(req.RetirementAge),
		CurrentSavings:      float64(req.CurrentSavings),
		MonthlyContribution: float64(req.MonthlyContribution),
		ExpectedReturn:      float64(req.ExpectedReturn),
	}
	if err := in.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	projected := calc.RetirementProjection(in.CurrentAge, in.RetirementAge,
		in.CurrentSavings, in.MonthlyContribution, in.ExpectedReturn)
	OK(retirementResult{
		Projected: projected,
		Target:    projected * calc.RetirementTargetRatio,
	}).Write(w)
}

func handleCalcTax(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Income     amountText `json:"income"`
		Deductions amountText `json:"deductions"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(calc.EstimateTax(float64(req.Income), float64(req.Deductions))).Write(w)
}

func handleCalcDebtPayoff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Principal      amountText `json:"principal"`
		InterestRate   amountText `json:"interestRate"`
		MonthlyPayment amountText `json:"monthlyPayment"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(calc.DebtPayoff(float64(req.Principal), float64(req.InterestRate), float64(req.MonthlyPayment))).Write(w)
}
