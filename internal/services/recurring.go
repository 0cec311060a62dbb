package services

import (
	"context"
	"time"

	"smartmoney/internal/core"
	"smartmoney/internal/log"
)

// RecurringProcessor materializes due recurring expenses and flags overdue
// debts on every tick.
type RecurringProcessor struct {
	*runner
	ledger *Ledger
	logger *log.Logger
}

func NewRecurringProcessor(ledger *Ledger, interval time.Duration, logger *log.Logger) *RecurringProcessor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if interval <= 0 {
		interval = time.Hour
	}
	p := &RecurringProcessor{
		ledger: ledger,
		logger: logger.WithComponent(log.ComponentRecurring),
	}
	p.runner = &runner{
		name:     "recurring processor",
		interval: interval,
		logger:   p.logger,
		tick: func(ctx context.Context) {
			if _, err := p.ProcessDue(ctx, ledger.Today()); err != nil {
				p.logger.ErrorContext(ctx, "Recurring run failed", "error", err)
			}
			ledger.MarkOverdueDebts(ctx)
		},
	}
	return p
}

// ProcessDue creates one expense for every recurring expense that is due on
// today and returns the created expenses. A failing template is logged and
// skipped; the first such error is returned after the others ran.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, today core.Date) ([]core.Expense, error) {
	var (
		created  []core.Expense
		firstErr error
	)
	for _, tmpl := range p.ledger.RecurringExpenses() {
		if tmpl.Date.After(today.Time) {
			continue
		}
		checker, err := GetDuenessChecker(tmpl.Recurrence.Type)
		if err != nil {
			p.logger.WarnContext(ctx, "Skipping recurring expense",
				log.NewFields().WithEntity(core.EntityExpense, tmpl.ID).WithError(err).ToSlice()...)
			continue
		}
		if !checker.IsDue(LastOccurrence(tmpl), today, tmpl.Date) {
			continue
		}

		e, err := p.ledger.MaterializeRecurring(ctx, tmpl.ID, today)
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to materialize recurring expense",
				log.NewFields().WithEntity(core.EntityExpense, tmpl.ID).WithError(err).ToSlice()...)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created = append(created, e)
	}

	if len(created) > 0 {
		p.logger.InfoContext(ctx, "Recurring expenses processed", log.FieldCount, len(created))
	}
	return created, firstErr
}
