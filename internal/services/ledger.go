package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/store"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidMonth    = errors.New("invalid month, want YYYY-MM")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrNotRecurring    = errors.New("expense is not recurring")
)

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithLedgerClock overrides the time source used for "today".
func WithLedgerClock(c core.Clock) LedgerOption {
	return func(l *Ledger) { l.clock = c }
}

// WithLedgerLogger sets the ledger's logger.
func WithLedgerLogger(logger *log.Logger) LedgerOption {
	return func(l *Ledger) { l.logger = logger.WithComponent(log.ComponentLedger) }
}

// WithChangeTracking queues a pending change for every successful mutation
// so the outbox flusher can ship it.
func WithChangeTracking(enabled bool) LedgerOption {
	return func(l *Ledger) { l.track = enabled }
}

// Ledger is the single owner of a store.Store. Every method takes the same
// mutex, so HTTP handlers and background processors can share one Ledger.
type Ledger struct {
	mu     sync.Mutex
	store  *store.Store
	clock  core.Clock
	logger *log.Logger
	track  bool

	onExpense []func()
}

func NewLedger(s *store.Store, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store: s,
		clock: core.SystemClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger)
	}
	return l
}

// Today is the clock's current calendar date.
func (l *Ledger) Today() core.Date {
	return core.DateOf(l.clock.Now())
}

// OnExpenseChange registers fn to run after every expense add, update,
// delete or recurring copy. fn runs with the ledger locked and must not call
// back into it.
func (l *Ledger) OnExpenseChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onExpense = append(l.onExpense, fn)
}

// expensesChanged runs the OnExpenseChange hooks. Callers hold l.mu.
func (l *Ledger) expensesChanged() {
	for _, fn := range l.onExpense {
		fn()
	}
}

// Snapshot returns a deep copy of the whole state.
func (l *Ledger) Snapshot() store.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Snapshot()
}

// record queues a pending change. Callers hold l.mu.
func (l *Ledger) record(ctx context.Context, typ core.ChangeType, entity string, v any) {
	if !l.track {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to encode change",
			log.NewFields().WithEntity(entity, "").WithError(err).ToSlice()...)
		return
	}
	l.store.AddPendingChange(typ, entity, data)
}

// deleted is the payload recorded for a delete.
type deleted struct {
	ID string `json:"id"`
}

// AddExpense validates e and appends it with a fresh id.
func (l *Ledger) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("invalid expense: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.AddExpense(e)
	all := l.store.Expenses()
	added := all[len(all)-1]
	l.record(ctx, core.ChangeAdd, core.EntityExpense, added)
	l.expensesChanged()

	l.logger.InfoContext(ctx, "Expense created",
		log.NewFields().WithOperation(log.OpCreate).
			WithExpense(added.ID, added.Amount, string(added.Category)).ToSlice()...)
	return added, nil
}

// UpdateExpense merges p onto the expense and re-validates the result.
func (l *Ledger) UpdateExpense(ctx context.Context, id string, p core.ExpensePatch) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.store.Expense(id)
	if !ok {
		return core.Expense{}, fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}
	next := p.Apply(cur)
	if err := next.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("invalid expense: %w", err)
	}
	l.store.UpdateExpense(id, p)
	l.record(ctx, core.ChangeUpdate, core.EntityExpense, next)
	l.expensesChanged()

	l.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithOperation(log.OpUpdate).
			WithExpense(id, next.Amount, string(next.Category)).ToSlice()...)
	return next, nil
}

func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.store.Expense(id); !ok {
		return fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}
	l.store.DeleteExpense(id)
	l.record(ctx, core.ChangeDelete, core.EntityExpense, deleted{ID: id})
	l.expensesChanged()

	l.logger.InfoContext(ctx, "Expense deleted",
		log.NewFields().WithOperation(log.OpDelete).WithEntity(core.EntityExpense, id).ToSlice()...)
	return nil
}

func (l *Ledger) Expense(id string) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.store.Expense(id)
	if !ok {
		return core.Expense{}, fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}
	return e, nil
}

// ListExpenses returns the expenses of month (YYYY-MM), or all of them when
// month is empty.
func (l *Ledger) ListExpenses(month string) ([]core.Expense, error) {
	if month != "" {
		if err := validateMonth(month); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	all := l.store.Expenses()
	l.mu.Unlock()

	if month == "" {
		return all, nil
	}
	return core.ExpensesByMonth(all, month), nil
}

// Overview aggregates month (YYYY-MM); empty means the current month.
func (l *Ledger) Overview(month string) (core.MonthOverview, error) {
	if month == "" {
		month = core.CurrentMonth(l.clock)
	}
	if err := validateMonth(month); err != nil {
		return core.MonthOverview{}, err
	}

	l.mu.Lock()
	all := l.store.Expenses()
	l.mu.Unlock()

	return core.BuildMonthOverview(all, month), nil
}

func validateMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return nil
}

// BudgetReport compares a month's budget with what was spent.
type BudgetReport struct {
	Budget     core.Budget               `json:"budget"`
	Spent      float64                   `json:"spent"`
	Remaining  float64                   `json:"remaining"`
	Overruns   map[core.Category]float64 `json:"overruns"`
	ByCategory map[core.Category]float64 `json:"byCategory"`
}

// SaveBudget creates the month's budget or overwrites the existing one.
func (l *Ledger) SaveBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := validateMonth(b.Month); err != nil {
		return core.Budget{}, err
	}
	if b.TotalBudget < 0 {
		return core.Budget{}, fmt.Errorf("invalid budget: %w", core.ErrInvalidAmount)
	}
	if b.Categories == nil {
		b.Categories = map[core.Category]float64{}
	}
	for c := range b.Categories {
		if !c.IsValid() {
			return core.Budget{}, fmt.Errorf("invalid budget: %w: %s", core.ErrInvalidCategory, c)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	typ := core.ChangeAdd
	if _, ok := l.store.Budget(b.Month); ok {
		typ = core.ChangeUpdate
		l.store.UpdateBudget(b.Month, core.BudgetPatch{
			TotalBudget:     &b.TotalBudget,
			Categories:      b.Categories,
			BusinessBudgets: b.BusinessBudgets,
		})
	} else {
		l.store.AddBudget(b)
	}
	saved, _ := l.store.Budget(b.Month)
	l.record(ctx, typ, core.EntityBudget, saved)

	l.logger.InfoContext(ctx, "Budget saved",
		log.FieldOperation, string(typ),
		log.FieldMonth, b.Month,
		log.FieldAmount, saved.TotalBudget)
	return saved, nil
}

func (l *Ledger) Budget(month string) (core.Budget, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.store.Budget(month)
	if !ok {
		return core.Budget{}, fmt.Errorf("%w: budget %s", ErrNotFound, month)
	}
	return b, nil
}

func (l *Ledger) Budgets() []core.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Budgets()
}

// BudgetStatus reports spending against the budget of month.
func (l *Ledger) BudgetStatus(month string) (BudgetReport, error) {
	if err := validateMonth(month); err != nil {
		return BudgetReport{}, err
	}

	l.mu.Lock()
	b, ok := l.store.Budget(month)
	all := l.store.Expenses()
	l.mu.Unlock()

	if !ok {
		return BudgetReport{}, fmt.Errorf("%w: budget %s", ErrNotFound, month)
	}
	inMonth := core.ExpensesByMonth(all, month)
	totals := core.TotalsByCategory(inMonth)
	var spent float64
	for _, e := range inMonth {
		spent += e.Amount
	}
	return BudgetReport{
		Budget:     b,
		Spent:      spent,
		Remaining:  core.BudgetRemaining(b, spent),
		Overruns:   core.CategoryOverruns(b, totals),
		ByCategory: totals,
	}, nil
}

// Settings returns the stored settings, or the defaults before the first
// update.
func (l *Ledger) Settings() core.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s := l.store.Settings(); s != nil {
		return *s
	}
	return core.DefaultSettings()
}

func (l *Ledger) UpdateSettings(ctx context.Context, p core.SettingsPatch) (core.Settings, error) {
	if p.Currency != nil {
		code := strings.ToUpper(*p.Currency)
		if _, ok := core.LookupCurrency(code); !ok {
			return core.Settings{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, *p.Currency)
		}
		p.Currency = &code
	}
	for c := range p.SpendingLimit {
		if !c.IsValid() {
			return core.Settings{}, fmt.Errorf("%w: %s", core.ErrInvalidCategory, c)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.UpdateSettings(p)
	s := *l.store.Settings()
	l.record(ctx, core.ChangeUpdate, core.EntitySettings, s)

	l.logger.InfoContext(ctx, "Settings updated", log.FieldOperation, log.OpUpdate)
	return s, nil
}

// SignIn makes u the owner stamped on new records.
func (l *Ledger) SignIn(ctx context.Context, u core.User) (core.User, error) {
	if strings.TrimSpace(u.UID) == "" {
		return core.User{}, fmt.Errorf("sign in: %w", core.ErrEmptyName)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = l.clock.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.SetUser(&u)
	l.logger.InfoContext(ctx, "User signed in", "uid", u.UID)
	return u, nil
}

func (l *Ledger) SignOut(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.SetUser(nil)
	l.logger.InfoContext(ctx, "User signed out")
}

// CurrentUser returns nil when signed out.
func (l *Ledger) CurrentUser() *core.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.User()
}

// PendingChanges returns up to limit queued changes, oldest first. A limit of
// zero or less returns all of them.
func (l *Ledger) PendingChanges(limit int) []core.PendingChange {
	l.mu.Lock()
	defer l.mu.Unlock()

	changes := l.store.PendingChanges()
	if limit > 0 && len(changes) > limit {
		changes = changes[:limit]
	}
	return changes
}

// AckChanges drops delivered changes from the queue.
func (l *Ledger) AckChanges(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.DropPendingChanges(ids...)
	l.logger.DebugContext(ctx, "Pending changes acknowledged", log.FieldCount, len(ids))
}

// RecurringExpenses returns the expenses that carry a recurrence.
func (l *Ledger) RecurringExpenses() []core.Expense {
	l.mu.Lock()
	all := l.store.Expenses()
	l.mu.Unlock()

	out := make([]core.Expense, 0)
	for _, e := range all {
		if e.IsRecurring() {
			out = append(out, e)
		}
	}
	return out
}

// LastOccurrence is when a recurring expense last produced an expense: its
// LastGenerated date, or its own date before the first copy.
func LastOccurrence(e core.Expense) core.Date {
	if e.Recurrence != nil && e.Recurrence.LastGenerated != nil {
		return *e.Recurrence.LastGenerated
	}
	return e.Date
}

// MaterializeRecurring appends a one-off copy of the recurring expense id
// dated on, and marks the template as generated on that date.
func (l *Ledger) MaterializeRecurring(ctx context.Context, id string, on core.Date) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tmpl, ok := l.store.Expense(id)
	if !ok {
		return core.Expense{}, fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}
	if !tmpl.IsRecurring() {
		return core.Expense{}, fmt.Errorf("%w: %s", ErrNotRecurring, id)
	}

	cp := tmpl
	cp.ID = ""
	cp.Date = on
	cp.Recurrence = nil
	l.store.AddExpense(cp)
	all := l.store.Expenses()
	added := all[len(all)-1]

	rec := *tmpl.Recurrence
	rec.LastGenerated = &on
	l.store.UpdateExpense(id, core.ExpensePatch{Recurrence: &rec})

	l.record(ctx, core.ChangeAdd, core.EntityExpense, added)
	l.expensesChanged()
	l.logger.InfoContext(ctx, "Recurring expense materialized",
		log.NewFields().WithOperation(log.OpCreate).
			WithExpense(added.ID, added.Amount, string(added.Category)).ToSlice()...,
	)
	return added, nil
}
