// Package worker consumes the ledger change feed.
package worker

import (
	"context"
	"fmt"

	"smartmoney/internal/amqp"
	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/sheets"
)

// ChangeWorker mirrors newly added expenses into the spreadsheet. The sheet is
// an append-only journal, so updates, deletes and other entities are
// acknowledged without effect.
type ChangeWorker struct {
	mirror sheets.Mirror
	logger *log.Logger
}

func NewChangeWorker(mirror sheets.Mirror, logger *log.Logger) *ChangeWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ChangeWorker{
		mirror: mirror,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange processes one change message. A returned error makes the
// consumer requeue the message.
func (w *ChangeWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Entity != core.EntityExpense || msg.Type != core.ChangeAdd {
		w.logger.DebugContext(ctx, "Ignoring change",
			log.FieldEntity, msg.Entity,
			log.FieldEntityID, msg.ID,
			log.FieldChangeType, string(msg.Type))
		return nil
	}

	expense, err := msg.Expense()
	if err != nil {
		// a payload that cannot decode will never succeed; drop it
		w.logger.ErrorContext(ctx, "Malformed expense payload",
			log.NewFields().WithEntity(msg.Entity, msg.ID).WithError(err).ToSlice()...)
		return nil
	}

	mirrored, err := w.alreadyMirrored(ctx, expense)
	if err != nil {
		return fmt.Errorf("check mirror: %w", err)
	}
	if mirrored {
		w.logger.InfoContext(ctx, "Expense already mirrored, skipping",
			log.FieldEntityID, expense.ID)
		return nil
	}

	ref, err := w.mirror.Append(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	w.logger.InfoContext(ctx, "Successfully mirrored expense",
		log.NewFields().
			WithOperation(log.OpAppend).
			WithExpense(expense.ID, expense.Amount, string(expense.Category)).
			ToSlice()...,
	)
	w.logger.DebugContext(ctx, "Mirror row", log.FieldSheetsRef, ref)
	return nil
}

// alreadyMirrored guards against redelivered messages.
func (w *ChangeWorker) alreadyMirrored(ctx context.Context, e core.Expense) (bool, error) {
	if e.ID == "" {
		return false, nil
	}
	existing, err := w.mirror.ListExpenses(ctx, e.Date.Year(), e.Date.Month())
	if err != nil {
		return false, err
	}
	for _, x := range existing {
		if x.ID == e.ID {
			return true, nil
		}
	}
	return false, nil
}
