package core

import (
	"sort"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
	Color    string   `json:"color"`
}

// MonthOverview is a compact summary for a specific YYYY-MM month.
type MonthOverview struct {
	Month      string           `json:"month"`
	Total      float64          `json:"total"`
	Count      int              `json:"count"`
	ByCategory []CategoryAmount `json:"byCategory"`
}

// DebtSummary splits active debts by direction.
type DebtSummary struct {
	Owed  float64 `json:"owed"`
	Given float64 `json:"given"`
	Net   float64 `json:"net"` // Given - Owed
}

// ExpensesByMonth keeps the expenses whose calendar date falls in month
// (YYYY-MM), preserving input order.
func ExpensesByMonth(expenses []Expense, month string) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.YearMonth() == month {
			out = append(out, e)
		}
	}
	return out
}

// TotalsByCategory sums amounts per category. Categories without expenses are
// absent from the result.
func TotalsByCategory(expenses []Expense) map[Category]float64 {
	totals := make(map[Category]float64)
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}
	return totals
}

// CurrentMonth returns the clock's current month as YYYY-MM.
func CurrentMonth(clock Clock) string {
	return clock.Now().Format("2006-01")
}

// BuildMonthOverview aggregates the expenses of month. Categories are sorted
// by amount, largest first, ties broken by name.
func BuildMonthOverview(expenses []Expense, month string) MonthOverview {
	inMonth := ExpensesByMonth(expenses, month)
	ov := MonthOverview{Month: month, Count: len(inMonth), ByCategory: []CategoryAmount{}}
	for cat, amount := range TotalsByCategory(inMonth) {
		ov.Total += amount
		ov.ByCategory = append(ov.ByCategory, CategoryAmount{Category: cat, Amount: amount, Color: cat.Color()})
	}
	sort.Slice(ov.ByCategory, func(i, j int) bool {
		a, b := ov.ByCategory[i], ov.ByCategory[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})
	return ov
}

// BudgetRemaining is what is left of the month's total budget. Negative means
// overspent.
func BudgetRemaining(b Budget, spent float64) float64 {
	return b.TotalBudget - spent
}

// CategoryOverruns lists the categories whose spending exceeds the budgeted
// amount, with the excess.
func CategoryOverruns(b Budget, totals map[Category]float64) map[Category]float64 {
	out := make(map[Category]float64)
	for cat, limit := range b.Categories {
		if spent := totals[cat]; spent > limit {
			out[cat] = spent - limit
		}
	}
	return out
}

// DebtTotals sums the active debts by direction. Overdue and paid debts are
// left out.
func DebtTotals(debts []Debt) DebtSummary {
	var s DebtSummary
	for _, d := range debts {
		if d.Status != DebtActive {
			continue
		}
		switch d.Type {
		case DebtOwed:
			s.Owed += d.Amount
		case DebtGiven:
			s.Given += d.Amount
		}
	}
	s.Net = s.Given - s.Owed
	return s
}

// GoalProgress is the goal's completion in percent, capped at 100.
func GoalProgress(g SavingsGoal) float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
