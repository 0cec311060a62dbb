package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/storage"
	"smartmoney/internal/store"
)

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T, tracking bool) *Ledger {
	t.Helper()
	n := 0
	clock := core.FixedClock{T: testNow}
	s := store.New(storage.NewMemorySlot(),
		store.WithLogger(log.Discard()),
		store.WithClock(clock),
		store.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return NewLedger(s,
		WithLedgerClock(clock),
		WithLedgerLogger(log.Discard()),
		WithChangeTracking(tracking),
	)
}

func TestLedger_AddExpense(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		expense core.Expense
		wantErr error
	}{
		{
			name:    "valid",
			expense: core.Expense{Amount: 12.5, Category: core.FoodDining, Note: "lunch", Date: core.NewDate(2024, 3, 1)},
		},
		{
			name:    "negative amount",
			expense: core.Expense{Amount: -1, Category: core.FoodDining, Date: core.NewDate(2024, 3, 1)},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "unknown category",
			expense: core.Expense{Amount: 1, Category: "Snacks", Date: core.NewDate(2024, 3, 1)},
			wantErr: core.ErrInvalidCategory,
		},
		{
			name:    "bad recurrence",
			expense: core.Expense{Amount: 1, Category: core.FoodDining, Date: core.NewDate(2024, 3, 1), Recurrence: &core.Recurrence{Type: "hourly"}},
			wantErr: core.ErrInvalidRepeat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, false)
			got, err := l.AddExpense(ctx, tt.expense)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddExpense() error = %v, want %v", err, tt.wantErr)
				}
				if n := len(l.Snapshot().Expenses); n != 0 {
					t.Fatalf("rejected expense was stored (%d expenses)", n)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddExpense() unexpected error: %v", err)
			}
			if got.ID != "id-1" || got.UID != core.DefaultOwner || got.Amount != tt.expense.Amount {
				t.Fatalf("AddExpense() = %+v", got)
			}
		})
	}
}

func TestLedger_UpdateDeleteExpense(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	e, err := l.AddExpense(ctx, core.Expense{Amount: 10, Category: core.Shopping, Date: core.NewDate(2024, 3, 5)})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := l.UpdateExpense(ctx, e.ID, core.ExpensePatch{Note: core.Ptr("socks")})
	if err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	if updated.Note != "socks" || updated.Amount != 10 {
		t.Fatalf("UpdateExpense() = %+v", updated)
	}

	if _, err := l.UpdateExpense(ctx, e.ID, core.ExpensePatch{Amount: core.Ptr(-5.0)}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if got, _ := l.Expense(e.ID); got.Amount != 10 {
		t.Fatalf("rejected patch was applied: %+v", got)
	}

	if _, err := l.UpdateExpense(ctx, "missing", core.ExpensePatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := l.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if err := l.DeleteExpense(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestLedger_ListExpensesAndOverview(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	for _, e := range []core.Expense{
		{Amount: 20, Category: core.FoodDining, Date: core.NewDate(2024, 3, 1)},
		{Amount: 5, Category: core.Transportation, Date: core.NewDate(2024, 3, 2)},
		{Amount: 7, Category: core.FoodDining, Date: core.NewDate(2024, 2, 28)},
	} {
		if _, err := l.AddExpense(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := l.ListExpenses("")
	if err != nil || len(all) != 3 {
		t.Fatalf("ListExpenses(\"\") = %d, %v", len(all), err)
	}
	march, err := l.ListExpenses("2024-03")
	if err != nil || len(march) != 2 {
		t.Fatalf("ListExpenses(2024-03) = %d, %v", len(march), err)
	}
	if _, err := l.ListExpenses("March"); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}

	// empty month falls back to the clock's month
	ov, err := l.Overview("")
	if err != nil {
		t.Fatal(err)
	}
	if ov.Month != "2024-03" || ov.Total != 25 || ov.Count != 2 {
		t.Fatalf("Overview() = %+v", ov)
	}
	if len(ov.ByCategory) != 2 || ov.ByCategory[0].Category != core.FoodDining {
		t.Fatalf("Overview().ByCategory = %+v", ov.ByCategory)
	}
}

func TestLedger_SaveBudgetUpserts(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	_, err := l.SaveBudget(ctx, core.Budget{
		Month:       "2024-03",
		TotalBudget: 1000,
		Categories:  map[core.Category]float64{core.FoodDining: 300},
	})
	if err != nil {
		t.Fatalf("SaveBudget() error = %v", err)
	}
	saved, err := l.SaveBudget(ctx, core.Budget{
		Month:       "2024-03",
		TotalBudget: 1200,
		Categories:  map[core.Category]float64{core.Shopping: 100},
	})
	if err != nil {
		t.Fatalf("SaveBudget() error = %v", err)
	}

	if n := len(l.Budgets()); n != 1 {
		t.Fatalf("expected one budget for the month, got %d", n)
	}
	if saved.TotalBudget != 1200 || len(saved.Categories) != 1 || saved.Categories[core.Shopping] != 100 {
		t.Fatalf("budget not overwritten: %+v", saved)
	}

	if _, err := l.SaveBudget(ctx, core.Budget{Month: "2024-3"}); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := l.SaveBudget(ctx, core.Budget{Month: "2024-04", Categories: map[core.Category]float64{"Nope": 1}}); !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestLedger_BudgetStatus(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	if _, err := l.BudgetStatus("2024-03"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := l.SaveBudget(ctx, core.Budget{
		Month:       "2024-03",
		TotalBudget: 100,
		Categories:  map[core.Category]float64{core.FoodDining: 30, core.Shopping: 50},
	}); err != nil {
		t.Fatal(err)
	}
	for _, e := range []core.Expense{
		{Amount: 45, Category: core.FoodDining, Date: core.NewDate(2024, 3, 1)},
		{Amount: 20, Category: core.Shopping, Date: core.NewDate(2024, 3, 3)},
		{Amount: 500, Category: core.Shopping, Date: core.NewDate(2024, 4, 3)},
	} {
		if _, err := l.AddExpense(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	r, err := l.BudgetStatus("2024-03")
	if err != nil {
		t.Fatal(err)
	}
	if r.Spent != 65 || r.Remaining != 35 {
		t.Fatalf("spent/remaining = %v/%v", r.Spent, r.Remaining)
	}
	if len(r.Overruns) != 1 || r.Overruns[core.FoodDining] != 15 {
		t.Fatalf("overruns = %+v", r.Overruns)
	}
}

func TestLedger_Settings(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	if got := l.Settings(); got.Currency != "USD" || !got.Notifications.BudgetAlerts {
		t.Fatalf("defaults = %+v", got)
	}

	s, err := l.UpdateSettings(ctx, core.SettingsPatch{Currency: core.Ptr("eur"), DarkMode: core.Ptr(true)})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if s.Currency != "EUR" || !s.DarkMode || !s.Notifications.BillReminders {
		t.Fatalf("UpdateSettings() = %+v", s)
	}

	if _, err := l.UpdateSettings(ctx, core.SettingsPatch{Currency: core.Ptr("XYZ")}); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestLedger_SignInStampsOwner(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	if _, err := l.SignIn(ctx, core.User{}); err == nil {
		t.Fatal("expected error for empty uid")
	}
	u, err := l.SignIn(ctx, core.User{UID: "u-42", Email: "a@b.c"})
	if err != nil {
		t.Fatal(err)
	}
	if !u.CreatedAt.Equal(testNow) {
		t.Fatalf("createdAt = %v", u.CreatedAt)
	}

	e, _ := l.AddExpense(ctx, core.Expense{Amount: 1, Category: core.Other, Date: core.NewDate(2024, 3, 1)})
	if e.UID != "u-42" {
		t.Fatalf("expense uid = %q", e.UID)
	}

	l.SignOut(ctx)
	if l.CurrentUser() != nil {
		t.Fatal("user still signed in")
	}
}

func TestLedger_ChangeTracking(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, true)

	e, err := l.AddExpense(ctx, core.Expense{Amount: 3, Category: core.Other, Date: core.NewDate(2024, 3, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.UpdateExpense(ctx, e.ID, core.ExpensePatch{Amount: core.Ptr(4.0)}); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatal(err)
	}

	changes := l.PendingChanges(0)
	want := []core.ChangeType{core.ChangeAdd, core.ChangeUpdate, core.ChangeDelete}
	if len(changes) != len(want) {
		t.Fatalf("got %d changes, want %d", len(changes), len(want))
	}
	for i, c := range changes {
		if c.Type != want[i] || c.Entity != core.EntityExpense {
			t.Errorf("change %d = %s/%s", i, c.Type, c.Entity)
		}
		if c.Timestamp != testNow.UnixMilli() {
			t.Errorf("change %d timestamp = %d", i, c.Timestamp)
		}
	}

	if got := l.PendingChanges(2); len(got) != 2 {
		t.Fatalf("PendingChanges(2) returned %d", len(got))
	}

	l.AckChanges(ctx, changes[0].ID, changes[1].ID)
	rest := l.PendingChanges(0)
	if len(rest) != 1 || rest[0].Type != core.ChangeDelete {
		t.Fatalf("after ack: %+v", rest)
	}
}

func TestLedger_OnExpenseChange(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	calls := 0
	l.OnExpenseChange(func() { calls++ })

	tmpl, err := l.AddExpense(ctx, core.Expense{Amount: 10, Category: core.Housing, Date: core.NewDate(2024, 2, 10),
		Recurrence: &core.Recurrence{Type: core.Monthly}})
	if err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		name string
		run  func() error
	}{
		{"update", func() error {
			_, err := l.UpdateExpense(ctx, tmpl.ID, core.ExpensePatch{Note: core.Ptr("rent")})
			return err
		}},
		{"materialize", func() error {
			_, err := l.MaterializeRecurring(ctx, tmpl.ID, core.NewDate(2024, 3, 10))
			return err
		}},
		{"delete", func() error { return l.DeleteExpense(ctx, tmpl.ID) }},
	}
	want := 1
	for _, st := range steps {
		if err := st.run(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		want++
		if calls != want {
			t.Fatalf("after %s: %d calls, want %d", st.name, calls, want)
		}
	}

	if _, err := l.AddExpense(ctx, core.Expense{Amount: -1, Category: core.Other}); err == nil {
		t.Fatal("expected validation error")
	}
	if err := l.DeleteExpense(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls != want {
		t.Fatalf("failed mutations ran hooks: %d calls, want %d", calls, want)
	}
}

func TestLedger_SavingsGoals(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	if _, err := l.AddSavingsGoal(ctx, core.SavingsGoal{Name: "", TargetAmount: 100}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	g, err := l.AddSavingsGoal(ctx, core.SavingsGoal{Name: "Bike", TargetAmount: 500, CurrentAmount: 100})
	if err != nil {
		t.Fatal(err)
	}
	if !g.CreatedAt.Equal(testNow) {
		t.Fatalf("createdAt = %v", g.CreatedAt)
	}

	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"deposit", 150, 250},
		{"withdraw", -50, 200},
		{"overshoot clamps to target", 1000, 500},
		{"overdraw clamps to zero", -2000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.ContributeToGoal(ctx, g.ID, tt.amount)
			if err != nil {
				t.Fatal(err)
			}
			if got.CurrentAmount != tt.want {
				t.Fatalf("current = %v, want %v", got.CurrentAmount, tt.want)
			}
		})
	}

	if _, err := l.ContributeToGoal(ctx, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := l.DeleteSavingsGoal(ctx, g.ID); err != nil {
		t.Fatal(err)
	}
	if len(l.SavingsGoals()) != 0 {
		t.Fatal("goal not deleted")
	}
}

func TestLedger_DebtStatusTransitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		path    []core.DebtStatus
		wantErr bool
	}{
		{"active to paid", []core.DebtStatus{core.DebtPaid}, false},
		{"active to overdue to paid", []core.DebtStatus{core.DebtOverdue, core.DebtPaid}, false},
		{"paid is terminal", []core.DebtStatus{core.DebtPaid, core.DebtActive}, true},
		{"overdue cannot go back", []core.DebtStatus{core.DebtOverdue, core.DebtActive}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, false)
			d, err := l.AddDebt(ctx, core.Debt{Name: "Loan", Type: core.DebtOwed, Amount: 100})
			if err != nil {
				t.Fatal(err)
			}
			if d.Status != core.DebtActive {
				t.Fatalf("initial status = %s", d.Status)
			}

			var lastErr error
			for _, s := range tt.path {
				if _, lastErr = l.SetDebtStatus(ctx, d.ID, s); lastErr != nil {
					break
				}
			}
			if tt.wantErr != (lastErr != nil) {
				t.Fatalf("error = %v, wantErr %v", lastErr, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(lastErr, core.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", lastErr)
			}
		})
	}
}

func TestLedger_MarkOverdueDebtsAndSummary(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	past := core.NewDate(2024, 3, 1)
	today := core.NewDate(2024, 3, 10)
	future := core.NewDate(2024, 4, 1)

	for _, d := range []core.Debt{
		{Name: "late", Type: core.DebtOwed, Amount: 100, DueDate: &past},
		{Name: "due today", Type: core.DebtOwed, Amount: 50, DueDate: &today},
		{Name: "later", Type: core.DebtGiven, Amount: 80, DueDate: &future},
		{Name: "open ended", Type: core.DebtGiven, Amount: 20},
	} {
		if _, err := l.AddDebt(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	if n := l.MarkOverdueDebts(ctx); n != 1 {
		t.Fatalf("MarkOverdueDebts() = %d, want 1", n)
	}
	if n := l.MarkOverdueDebts(ctx); n != 0 {
		t.Fatalf("second MarkOverdueDebts() = %d, want 0", n)
	}

	// the overdue debt drops out of the active totals
	sum := l.DebtSummary()
	if sum.Owed != 50 || sum.Given != 100 || sum.Net != 50 {
		t.Fatalf("DebtSummary() = %+v", sum)
	}
}

func TestLedger_ChallengesAndTravel(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	c, err := l.AddChallenge(ctx, core.FinancialChallenge{Name: "No takeout", Type: core.ChallengeNoSpend})
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != core.ChallengeActive {
		t.Fatalf("status = %s", c.Status)
	}
	c, err = l.UpdateChallenge(ctx, c.ID, core.ChallengePatch{CurrentProgress: core.Ptr(40.0)})
	if err != nil || c.CurrentProgress != 40 {
		t.Fatalf("UpdateChallenge() = %+v, %v", c, err)
	}
	if err := l.DeleteChallenge(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := l.DeleteChallenge(ctx, c.ID); err != nil {
		t.Fatal(err)
	}

	m, err := l.AddTravelMode(ctx, core.TravelMode{Name: "Lisbon", Budget: 900, Currency: "EUR"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Expenses == nil {
		t.Fatal("expenses list should be initialized")
	}
	m, err = l.UpdateTravelMode(ctx, m.ID, core.TravelModePatch{IsActive: core.Ptr(true)})
	if err != nil || !m.IsActive {
		t.Fatalf("UpdateTravelMode() = %+v, %v", m, err)
	}
	if _, err := l.UpdateTravelMode(ctx, "missing", core.TravelModePatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedger_PlanEmergencyFund(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	f := l.PlanEmergencyFund(ctx, 1000, 6)
	if f.ID != core.EmergencyFundID || f.TargetAmount != 6000 || f.MonthsToTarget != 6 {
		t.Fatalf("PlanEmergencyFund() = %+v", f)
	}

	l.UpdateEmergencyFund(ctx, core.EmergencyFundPatch{CurrentAmount: core.Ptr(1500.0), MonthlyContribution: core.Ptr(200.0)})

	f = l.PlanEmergencyFund(ctx, 1000, 3)
	if f.TargetAmount != 3000 || f.CurrentAmount != 1500 || f.MonthlyContribution != 200 {
		t.Fatalf("replan lost fields: %+v", f)
	}
	if !f.CreatedAt.Equal(testNow) {
		t.Fatalf("createdAt = %v", f.CreatedAt)
	}

	if f := l.PlanEmergencyFund(ctx, 500, 0); f.MonthsToTarget != 6 || f.TargetAmount != 3000 {
		t.Fatalf("default months not applied: %+v", f)
	}
}

func TestLedger_PlanRetirement(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	plan, err := l.PlanRetirement(ctx, RetirementInput{
		CurrentAge:          30,
		RetirementAge:       65,
		CurrentSavings:      10000,
		MonthlyContribution: 500,
		ExpectedReturn:      7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if plan.ProjectedAmount != 1007293 {
		t.Fatalf("projected = %v", plan.ProjectedAmount)
	}
	if plan.TargetAmount != 1007293*0.8 {
		t.Fatalf("target = %v", plan.TargetAmount)
	}
	if got := l.RetirementPlan(); got == nil || got.ID != core.RetirementPlanID {
		t.Fatalf("stored plan = %+v", got)
	}

	if _, err := l.PlanRetirement(ctx, RetirementInput{CurrentAge: 70, RetirementAge: 65}); err == nil {
		t.Fatal("expected error when retirement age precedes current age")
	}
}

func TestLedger_EstimateTaxAppendsHistory(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, false)

	first, err := l.EstimateTax(ctx, 0, 60000, 10000)
	if err != nil {
		t.Fatal(err)
	}
	if first.Year != 2024 || first.TaxBracket != "22%" || first.EstimatedTax != 11000 {
		t.Fatalf("EstimateTax() = %+v", first)
	}
	if _, err := l.EstimateTax(ctx, 2023, 10000, 0); err != nil {
		t.Fatal(err)
	}
	if n := len(l.TaxEstimates()); n != 2 {
		t.Fatalf("history has %d estimates, want 2", n)
	}
	if _, err := l.EstimateTax(ctx, 2024, -1, 0); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
