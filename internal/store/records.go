package store

import (
	"smartmoney/internal/core"
)

// Update and delete on an unknown id are silent no-ops and skip the write.

func expenseID(id string) func(core.Expense) bool {
	return func(e core.Expense) bool { return e.ID == id }
}

// AddExpense appends e with a fresh id and the current owner.
func (s *Store) AddExpense(e core.Expense) {
	e = cloneExpense(e)
	e.ID = s.newID()
	e.UID = s.owner()
	s.state.Expenses = append(s.state.Expenses, e)
	s.persist("add_expense")
}

func (s *Store) UpdateExpense(id string, p core.ExpensePatch) {
	if updateWhere(s.state.Expenses, expenseID(id), p.Apply) {
		s.persist("update_expense")
	}
}

func (s *Store) DeleteExpense(id string) {
	var ok bool
	if s.state.Expenses, ok = deleteWhere(s.state.Expenses, expenseID(id)); ok {
		s.persist("delete_expense")
	}
}

func (s *Store) Expenses() []core.Expense {
	return cloneAll(s.state.Expenses, cloneExpense)
}

func (s *Store) Expense(id string) (core.Expense, bool) {
	e, ok := findWhere(s.state.Expenses, expenseID(id))
	return cloneExpense(e), ok
}

func budgetMonth(month string) func(core.Budget) bool {
	return func(b core.Budget) bool { return b.Month == month }
}

// AddBudget appends b unconditionally. Callers wanting one budget per month
// check Budget(month) first and call UpdateBudget instead.
func (s *Store) AddBudget(b core.Budget) {
	b = cloneBudget(b)
	b.UID = s.owner()
	s.state.Budgets = append(s.state.Budgets, b)
	s.persist("add_budget")
}

// UpdateBudget merges p onto every budget for month.
func (s *Store) UpdateBudget(month string, p core.BudgetPatch) {
	if updateWhere(s.state.Budgets, budgetMonth(month), p.Apply) {
		s.persist("update_budget")
	}
}

func (s *Store) Budgets() []core.Budget {
	return cloneAll(s.state.Budgets, cloneBudget)
}

// Budget returns the first budget for month.
func (s *Store) Budget(month string) (core.Budget, bool) {
	b, ok := findWhere(s.state.Budgets, budgetMonth(month))
	return cloneBudget(b), ok
}

// UpdateSettings merges p onto the settings record, creating it from
// core.DefaultSettings on first use.
func (s *Store) UpdateSettings(p core.SettingsPatch) {
	cur := core.DefaultSettings()
	if s.state.Settings != nil {
		cur = *s.state.Settings
	}
	next := cloneSettings(p.Apply(cur))
	s.state.Settings = &next
	s.persist("update_settings")
}

// Settings returns nil until settings are first updated.
func (s *Store) Settings() *core.Settings {
	if s.state.Settings == nil {
		return nil
	}
	cp := cloneSettings(*s.state.Settings)
	return &cp
}

func goalID(id string) func(core.SavingsGoal) bool {
	return func(g core.SavingsGoal) bool { return g.ID == id }
}

func (s *Store) AddSavingsGoal(g core.SavingsGoal) {
	g.ID = s.newID()
	g.UID = s.owner()
	g.CreatedAt = s.clock.Now()
	s.state.SavingsGoals = append(s.state.SavingsGoals, g)
	s.persist("add_savings_goal")
}

func (s *Store) UpdateSavingsGoal(id string, p core.SavingsGoalPatch) {
	if updateWhere(s.state.SavingsGoals, goalID(id), p.Apply) {
		s.persist("update_savings_goal")
	}
}

func (s *Store) DeleteSavingsGoal(id string) {
	var ok bool
	if s.state.SavingsGoals, ok = deleteWhere(s.state.SavingsGoals, goalID(id)); ok {
		s.persist("delete_savings_goal")
	}
}

func (s *Store) SavingsGoals() []core.SavingsGoal {
	return cloneAll(s.state.SavingsGoals, identity[core.SavingsGoal])
}

func (s *Store) SavingsGoal(id string) (core.SavingsGoal, bool) {
	return findWhere(s.state.SavingsGoals, goalID(id))
}

func debtID(id string) func(core.Debt) bool {
	return func(d core.Debt) bool { return d.ID == id }
}

func (s *Store) AddDebt(d core.Debt) {
	d = cloneDebt(d)
	d.ID = s.newID()
	d.UID = s.owner()
	d.CreatedAt = s.clock.Now()
	s.state.Debts = append(s.state.Debts, d)
	s.persist("add_debt")
}

func (s *Store) UpdateDebt(id string, p core.DebtPatch) {
	if updateWhere(s.state.Debts, debtID(id), p.Apply) {
		s.persist("update_debt")
	}
}

func (s *Store) DeleteDebt(id string) {
	var ok bool
	if s.state.Debts, ok = deleteWhere(s.state.Debts, debtID(id)); ok {
		s.persist("delete_debt")
	}
}

func (s *Store) Debts() []core.Debt {
	return cloneAll(s.state.Debts, cloneDebt)
}

func (s *Store) Debt(id string) (core.Debt, bool) {
	d, ok := findWhere(s.state.Debts, debtID(id))
	return cloneDebt(d), ok
}

func challengeID(id string) func(core.FinancialChallenge) bool {
	return func(c core.FinancialChallenge) bool { return c.ID == id }
}

func (s *Store) AddChallenge(c core.FinancialChallenge) {
	c = cloneChallenge(c)
	c.ID = s.newID()
	c.UID = s.owner()
	s.state.Challenges = append(s.state.Challenges, c)
	s.persist("add_challenge")
}

func (s *Store) UpdateChallenge(id string, p core.ChallengePatch) {
	if updateWhere(s.state.Challenges, challengeID(id), p.Apply) {
		s.persist("update_challenge")
	}
}

func (s *Store) DeleteChallenge(id string) {
	var ok bool
	if s.state.Challenges, ok = deleteWhere(s.state.Challenges, challengeID(id)); ok {
		s.persist("delete_challenge")
	}
}

func (s *Store) Challenges() []core.FinancialChallenge {
	return cloneAll(s.state.Challenges, cloneChallenge)
}

func taxID(id string) func(core.TaxEstimate) bool {
	return func(t core.TaxEstimate) bool { return t.ID == id }
}

func (s *Store) AddTaxEstimate(t core.TaxEstimate) {
	t.ID = s.newID()
	t.UID = s.owner()
	t.CreatedAt = s.clock.Now()
	s.state.TaxEstimates = append(s.state.TaxEstimates, t)
	s.persist("add_tax_estimate")
}

func (s *Store) UpdateTaxEstimate(id string, p core.TaxEstimatePatch) {
	if updateWhere(s.state.TaxEstimates, taxID(id), p.Apply) {
		s.persist("update_tax_estimate")
	}
}

func (s *Store) DeleteTaxEstimate(id string) {
	var ok bool
	if s.state.TaxEstimates, ok = deleteWhere(s.state.TaxEstimates, taxID(id)); ok {
		s.persist("delete_tax_estimate")
	}
}

func (s *Store) TaxEstimates() []core.TaxEstimate {
	return cloneAll(s.state.TaxEstimates, identity[core.TaxEstimate])
}

func travelID(id string) func(core.TravelMode) bool {
	return func(m core.TravelMode) bool { return m.ID == id }
}

func (s *Store) AddTravelMode(m core.TravelMode) {
	m = cloneTravelMode(m)
	m.ID = s.newID()
	m.UID = s.owner()
	s.state.TravelModes = append(s.state.TravelModes, m)
	s.persist("add_travel_mode")
}

func (s *Store) UpdateTravelMode(id string, p core.TravelModePatch) {
	if updateWhere(s.state.TravelModes, travelID(id), p.Apply) {
		s.persist("update_travel_mode")
	}
}

func (s *Store) DeleteTravelMode(id string) {
	var ok bool
	if s.state.TravelModes, ok = deleteWhere(s.state.TravelModes, travelID(id)); ok {
		s.persist("delete_travel_mode")
	}
}

func (s *Store) TravelModes() []core.TravelMode {
	return cloneAll(s.state.TravelModes, cloneTravelMode)
}
