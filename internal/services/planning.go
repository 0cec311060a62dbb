package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartmoney/internal/calc"
	"smartmoney/internal/core"
	"smartmoney/internal/log"
)

func (l *Ledger) AddSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("invalid savings goal: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.AddSavingsGoal(g)
	all := l.store.SavingsGoals()
	added := all[len(all)-1]
	l.record(ctx, core.ChangeAdd, core.EntitySavingsGoal, added)

	l.logger.InfoContext(ctx, "Savings goal created",
		log.NewFields().WithOperation(log.OpCreate).WithEntity(core.EntitySavingsGoal, added.ID).ToSlice()...)
	return added, nil
}

func (l *Ledger) UpdateSavingsGoal(ctx context.Context, id string, p core.SavingsGoalPatch) (core.SavingsGoal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.store.SavingsGoal(id)
	if !ok {
		return core.SavingsGoal{}, fmt.Errorf("%w: savings goal %s", ErrNotFound, id)
	}
	next := p.Apply(cur)
	if err := next.Validate(); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("invalid savings goal: %w", err)
	}
	l.store.UpdateSavingsGoal(id, p)
	l.record(ctx, core.ChangeUpdate, core.EntitySavingsGoal, next)
	return next, nil
}

// ContributeToGoal adds amount (negative to withdraw) to the goal, keeping
// the balance within [0, target].
func (l *Ledger) ContributeToGoal(ctx context.Context, id string, amount float64) (core.SavingsGoal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.store.SavingsGoal(id)
	if !ok {
		return core.SavingsGoal{}, fmt.Errorf("%w: savings goal %s", ErrNotFound, id)
	}
	balance := core.ClampGoalAmount(cur.CurrentAmount+amount, cur.TargetAmount)
	l.store.UpdateSavingsGoal(id, core.SavingsGoalPatch{CurrentAmount: &balance})
	cur.CurrentAmount = balance
	l.record(ctx, core.ChangeUpdate, core.EntitySavingsGoal, cur)

	l.logger.InfoContext(ctx, "Savings goal contribution",
		log.NewFields().WithOperation(log.OpUpdate).WithEntity(core.EntitySavingsGoal, id).ToSlice()...)
	return cur, nil
}

func (l *Ledger) DeleteSavingsGoal(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.store.SavingsGoal(id); !ok {
		return fmt.Errorf("%w: savings goal %s", ErrNotFound, id)
	}
	l.store.DeleteSavingsGoal(id)
	l.record(ctx, core.ChangeDelete, core.EntitySavingsGoal, deleted{ID: id})
	return nil
}

func (l *Ledger) SavingsGoals() []core.SavingsGoal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.SavingsGoals()
}

// AddDebt records a new debt. An empty status starts it as active.
func (l *Ledger) AddDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if d.Status == "" {
		d.Status = core.DebtActive
	}
	if err := d.Validate(); err != nil {
		return core.Debt{}, fmt.Errorf("invalid debt: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.AddDebt(d)
	all := l.store.Debts()
	added := all[len(all)-1]
	l.record(ctx, core.ChangeAdd, core.EntityDebt, added)

	l.logger.InfoContext(ctx, "Debt created",
		log.NewFields().WithOperation(log.OpCreate).WithEntity(core.EntityDebt, added.ID).ToSlice()...)
	return added, nil
}

// UpdateDebt merges p onto the debt. A status change must be a legal
// transition.
func (l *Ledger) UpdateDebt(ctx context.Context, id string, p core.DebtPatch) (core.Debt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.store.Debt(id)
	if !ok {
		return core.Debt{}, fmt.Errorf("%w: debt %s", ErrNotFound, id)
	}
	if p.Status != nil && *p.Status != cur.Status {
		if _, err := cur.Status.Transition(*p.Status); err != nil {
			return core.Debt{}, err
		}
	}
	next := p.Apply(cur)
	if err := next.Validate(); err != nil {
		return core.Debt{}, fmt.Errorf("invalid debt: %w", err)
	}
	l.store.UpdateDebt(id, p)
	l.record(ctx, core.ChangeUpdate, core.EntityDebt, next)
	return next, nil
}

// SetDebtStatus moves a debt through active -> overdue -> paid.
func (l *Ledger) SetDebtStatus(ctx context.Context, id string, status core.DebtStatus) (core.Debt, error) {
	return l.UpdateDebt(ctx, id, core.DebtPatch{Status: &status})
}

func (l *Ledger) DeleteDebt(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.store.Debt(id); !ok {
		return fmt.Errorf("%w: debt %s", ErrNotFound, id)
	}
	l.store.DeleteDebt(id)
	l.record(ctx, core.ChangeDelete, core.EntityDebt, deleted{ID: id})
	return nil
}

func (l *Ledger) Debts() []core.Debt {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Debts()
}

func (l *Ledger) DebtSummary() core.DebtSummary {
	return core.DebtTotals(l.Debts())
}

// MarkOverdueDebts flags active debts whose due date has passed and returns
// how many changed.
func (l *Ledger) MarkOverdueDebts(ctx context.Context) int {
	today := l.Today()

	l.mu.Lock()
	defer l.mu.Unlock()

	overdue := core.DebtOverdue
	n := 0
	for _, d := range l.store.Debts() {
		if d.Status != core.DebtActive || d.DueDate == nil || !d.DueDate.Before(today.Time) {
			continue
		}
		l.store.UpdateDebt(d.ID, core.DebtPatch{Status: &overdue})
		d.Status = overdue
		l.record(ctx, core.ChangeUpdate, core.EntityDebt, d)
		n++
	}
	if n > 0 {
		l.logger.InfoContext(ctx, "Debts marked overdue", log.FieldCount, n)
	}
	return n
}

// AddChallenge starts a challenge. An empty status starts it as active.
func (l *Ledger) AddChallenge(ctx context.Context, c core.FinancialChallenge) (core.FinancialChallenge, error) {
	if strings.TrimSpace(c.Name) == "" {
		return core.FinancialChallenge{}, fmt.Errorf("invalid challenge: %w", core.ErrEmptyName)
	}
	if c.Status == "" {
		c.Status = core.ChallengeActive
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.AddChallenge(c)
	all := l.store.Challenges()
	added := all[len(all)-1]
	l.record(ctx, core.ChangeAdd, core.EntityChallenge, added)
	return added, nil
}

func (l *Ledger) UpdateChallenge(ctx context.Context, id string, p core.ChallengePatch) (core.FinancialChallenge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range l.store.Challenges() {
		if c.ID != id {
			continue
		}
		l.store.UpdateChallenge(id, p)
		next := p.Apply(c)
		l.record(ctx, core.ChangeUpdate, core.EntityChallenge, next)
		return next, nil
	}
	return core.FinancialChallenge{}, fmt.Errorf("%w: challenge %s", ErrNotFound, id)
}

func (l *Ledger) DeleteChallenge(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.store.Challenges())
	l.store.DeleteChallenge(id)
	if len(l.store.Challenges()) == before {
		return fmt.Errorf("%w: challenge %s", ErrNotFound, id)
	}
	l.record(ctx, core.ChangeDelete, core.EntityChallenge, deleted{ID: id})
	return nil
}

func (l *Ledger) Challenges() []core.FinancialChallenge {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Challenges()
}

func (l *Ledger) AddTravelMode(ctx context.Context, m core.TravelMode) (core.TravelMode, error) {
	if strings.TrimSpace(m.Name) == "" {
		return core.TravelMode{}, fmt.Errorf("invalid travel mode: %w", core.ErrEmptyName)
	}
	if m.Expenses == nil {
		m.Expenses = []string{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.AddTravelMode(m)
	all := l.store.TravelModes()
	added := all[len(all)-1]
	l.record(ctx, core.ChangeAdd, core.EntityTravelMode, added)
	return added, nil
}

func (l *Ledger) UpdateTravelMode(ctx context.Context, id string, p core.TravelModePatch) (core.TravelMode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, m := range l.store.TravelModes() {
		if m.ID != id {
			continue
		}
		l.store.UpdateTravelMode(id, p)
		next := p.Apply(m)
		l.record(ctx, core.ChangeUpdate, core.EntityTravelMode, next)
		return next, nil
	}
	return core.TravelMode{}, fmt.Errorf("%w: travel mode %s", ErrNotFound, id)
}

func (l *Ledger) DeleteTravelMode(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.store.TravelModes())
	l.store.DeleteTravelMode(id)
	if len(l.store.TravelModes()) == before {
		return fmt.Errorf("%w: travel mode %s", ErrNotFound, id)
	}
	l.record(ctx, core.ChangeDelete, core.EntityTravelMode, deleted{ID: id})
	return nil
}

func (l *Ledger) TravelModes() []core.TravelMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.TravelModes()
}

// PlanEmergencyFund sets the fund's target to monthlyExpenses × months. An
// existing fund keeps its balance, contribution and creation time.
func (l *Ledger) PlanEmergencyFund(ctx context.Context, monthlyExpenses, months float64) core.EmergencyFund {
	if months <= 0 {
		months = calc.DefaultEmergencyMonths
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fund := core.EmergencyFund{CreatedAt: l.clock.Now()}
	if cur := l.store.EmergencyFund(); cur != nil {
		fund = *cur
	}
	fund.ID = core.EmergencyFundID
	fund.UID = l.store.Owner()
	fund.TargetAmount = calc.EmergencyFundTarget(monthlyExpenses, months)
	fund.MonthsToTarget = months

	l.store.SetEmergencyFund(&fund)
	l.record(ctx, core.ChangeUpdate, core.EntityEmergencyFund, fund)

	l.logger.InfoContext(ctx, "Emergency fund planned",
		log.FieldOperation, log.OpCalc,
		log.FieldAmount, fund.TargetAmount)
	return fund
}

// UpdateEmergencyFund merges p onto the fund, creating it when absent.
func (l *Ledger) UpdateEmergencyFund(ctx context.Context, p core.EmergencyFundPatch) core.EmergencyFund {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store.EmergencyFund() == nil {
		l.store.SetEmergencyFund(&core.EmergencyFund{
			ID:        core.EmergencyFundID,
			UID:       l.store.Owner(),
			CreatedAt: l.clock.Now(),
		})
	}
	l.store.UpdateEmergencyFund(p)
	fund := *l.store.EmergencyFund()
	l.record(ctx, core.ChangeUpdate, core.EntityEmergencyFund, fund)
	return fund
}

func (l *Ledger) EmergencyFund() *core.EmergencyFund {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.EmergencyFund()
}

// RetirementInput holds the user-entered fields of a retirement plan.
type RetirementInput struct {
	CurrentAge          float64 `json:"currentAge"`
	RetirementAge       float64 `json:"retirementAge"`
	CurrentSavings      float64 `json:"currentSavings"`
	MonthlyContribution float64 `json:"monthlyContribution"`
	ExpectedReturn      float64 `json:"expectedReturn"`
}

func (in RetirementInput) Validate() error {
	if in.CurrentAge < 0 || in.RetirementAge <= in.CurrentAge {
		return errors.New("retirement age must be greater than current age")
	}
	if in.CurrentSavings < 0 || in.MonthlyContribution < 0 {
		return core.ErrInvalidAmount
	}
	return nil
}

// PlanRetirement projects savings at retirement and stores the plan with a
// target of 80% of the projection.
func (l *Ledger) PlanRetirement(ctx context.Context, in RetirementInput) (core.RetirementPlan, error) {
	if err := in.Validate(); err != nil {
		return core.RetirementPlan{}, fmt.Errorf("invalid retirement plan: %w", err)
	}
	projected := calc.RetirementProjection(in.CurrentAge, in.RetirementAge,
		in.CurrentSavings, in.MonthlyContribution, in.ExpectedReturn)

	l.mu.Lock()
	defer l.mu.Unlock()

	createdAt := l.clock.Now()
	if cur := l.store.RetirementPlan(); cur != nil {
		createdAt = cur.CreatedAt
	}
	plan := core.RetirementPlan{
		ID:                  core.RetirementPlanID,
		UID:                 l.store.Owner(),
		CurrentAge:          in.CurrentAge,
		RetirementAge:       in.RetirementAge,
		CurrentSavings:      in.CurrentSavings,
		MonthlyContribution: in.MonthlyContribution,
		ExpectedReturn:      in.ExpectedReturn,
		TargetAmount:        projected * calc.RetirementTargetRatio,
		ProjectedAmount:     projected,
		CreatedAt:           createdAt,
	}
	l.store.SetRetirementPlan(&plan)
	l.record(ctx, core.ChangeUpdate, core.EntityRetirementPlan, plan)

	l.logger.InfoContext(ctx, "Retirement planned",
		log.FieldOperation, log.OpCalc,
		log.FieldAmount, projected)
	return plan, nil
}

func (l *Ledger) RetirementPlan() *core.RetirementPlan {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.RetirementPlan()
}

// EstimateTax computes the flat-bracket tax for year and appends it to the
// estimate history. A zero year means the current one.
func (l *Ledger) EstimateTax(ctx context.Context, year int, income, deductions float64) (core.TaxEstimate, error) {
	if income < 0 || deductions < 0 {
		return core.TaxEstimate{}, fmt.Errorf("invalid tax input: %w", core.ErrInvalidAmount)
	}
	if year == 0 {
		year = l.clock.Now().Year()
	}
	res := calc.EstimateTax(income, deductions)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.AddTaxEstimate(core.TaxEstimate{
		Year:         year,
		Income:       income,
		Deductions:   deductions,
		TaxBracket:   res.Bracket,
		EstimatedTax: res.EstimatedTax,
	})
	all := l.store.TaxEstimates()
	added := all[len(all)-1]
	l.record(ctx, core.ChangeAdd, core.EntityTaxEstimate, added)

	l.logger.InfoContext(ctx, "Tax estimated",
		log.FieldOperation, log.OpCalc,
		log.FieldAmount, added.EstimatedTax,
		"bracket", added.TaxBracket)
	return added, nil
}

func (l *Ledger) TaxEstimates() []core.TaxEstimate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.TaxEstimates()
}
