package store

import (
	"maps"
	"slices"

	"smartmoney/internal/core"
)

// Records handed in or out of the store are deep-copied so callers never
// share slices, maps or pointers with the live state.

func cloneExpense(e core.Expense) core.Expense {
	e.Tags = slices.Clone(e.Tags)
	if e.Recurrence != nil {
		r := *e.Recurrence
		if r.LastGenerated != nil {
			r.LastGenerated = core.Ptr(*r.LastGenerated)
		}
		e.Recurrence = &r
	}
	return e
}

func cloneBudget(b core.Budget) core.Budget {
	b.Categories = maps.Clone(b.Categories)
	b.BusinessBudgets = maps.Clone(b.BusinessBudgets)
	return b
}

func cloneSettings(s core.Settings) core.Settings {
	s.SpendingLimit = maps.Clone(s.SpendingLimit)
	s.BusinessNames = slices.Clone(s.BusinessNames)
	return s
}

func cloneDebt(d core.Debt) core.Debt {
	if d.InterestRate != nil {
		d.InterestRate = core.Ptr(*d.InterestRate)
	}
	if d.DueDate != nil {
		d.DueDate = core.Ptr(*d.DueDate)
	}
	return d
}

func cloneChallenge(c core.FinancialChallenge) core.FinancialChallenge {
	if c.TargetAmount != nil {
		c.TargetAmount = core.Ptr(*c.TargetAmount)
	}
	return c
}

func cloneTravelMode(m core.TravelMode) core.TravelMode {
	m.Expenses = slices.Clone(m.Expenses)
	return m
}

func clonePendingChange(p core.PendingChange) core.PendingChange {
	p.Data = slices.Clone(p.Data)
	return p
}

func identity[T any](v T) T { return v }

func cloneAll[T any](items []T, clone func(T) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = clone(it)
	}
	return out
}

// updateWhere applies fn to every element matching pred and reports whether
// any matched.
func updateWhere[T any](items []T, pred func(T) bool, fn func(T) T) bool {
	matched := false
	for i := range items {
		if pred(items[i]) {
			items[i] = fn(items[i])
			matched = true
		}
	}
	return matched
}

// deleteWhere removes every element matching pred, preserving order.
func deleteWhere[T any](items []T, pred func(T) bool) ([]T, bool) {
	n := len(items)
	items = slices.DeleteFunc(items, pred)
	return items, len(items) != n
}

func findWhere[T any](items []T, pred func(T) bool) (T, bool) {
	i := slices.IndexFunc(items, pred)
	if i < 0 {
		var zero T
		return zero, false
	}
	return items[i], true
}
