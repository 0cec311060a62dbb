// Package sheets defines the outbound ports for mirroring expenses into a
// spreadsheet.
package sheets

import (
	"context"

	"smartmoney/internal/core"
)

// Ports for outbound adapters.
type (
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// ExpenseLister returns the mirrored expenses of a calendar month.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, year int, month int) ([]core.Expense, error)
	}

	// Mirror is both ends of the spreadsheet mirror.
	Mirror interface {
		ExpenseWriter
		ExpenseLister
	}
)
