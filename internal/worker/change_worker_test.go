package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"smartmoney/internal/amqp"
	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/sheets/memory"
)

func expenseMessage(t *testing.T, typ core.ChangeType, e core.Expense) *amqp.ChangeMessage {
	t.Helper()
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	return amqp.NewChangeMessage(core.PendingChange{ID: "c-" + e.ID, Type: typ, Entity: core.EntityExpense, Data: data})
}

func TestChangeWorker_HandleChange(t *testing.T) {
	lunch := core.Expense{ID: "e-1", Amount: 12, Category: core.FoodDining, Date: core.NewDate(2024, 3, 1)}

	tests := []struct {
		name     string
		msg      func(t *testing.T) *amqp.ChangeMessage
		wantRows int
	}{
		{
			name:     "added expense is mirrored",
			msg:      func(t *testing.T) *amqp.ChangeMessage { return expenseMessage(t, core.ChangeAdd, lunch) },
			wantRows: 1,
		},
		{
			name:     "update is ignored",
			msg:      func(t *testing.T) *amqp.ChangeMessage { return expenseMessage(t, core.ChangeUpdate, lunch) },
			wantRows: 0,
		},
		{
			name: "other entity is ignored",
			msg: func(t *testing.T) *amqp.ChangeMessage {
				return amqp.NewChangeMessage(core.PendingChange{ID: "c-2", Type: core.ChangeAdd, Entity: core.EntityDebt, Data: []byte(`{}`)})
			},
			wantRows: 0,
		},
		{
			name: "malformed payload is dropped",
			msg: func(t *testing.T) *amqp.ChangeMessage {
				return amqp.NewChangeMessage(core.PendingChange{ID: "c-3", Type: core.ChangeAdd, Entity: core.EntityExpense, Data: []byte(`{"amount":"lots"}`)})
			},
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mirror := memory.New()
			w := NewChangeWorker(mirror, log.Discard())
			if err := w.HandleChange(context.Background(), tt.msg(t)); err != nil {
				t.Fatalf("HandleChange() error = %v", err)
			}
			if mirror.Len() != tt.wantRows {
				t.Fatalf("rows = %d, want %d", mirror.Len(), tt.wantRows)
			}
		})
	}
}

func TestChangeWorker_RedeliveryIsIdempotent(t *testing.T) {
	mirror := memory.New()
	w := NewChangeWorker(mirror, log.Discard())
	msg := expenseMessage(t, core.ChangeAdd, core.Expense{ID: "e-9", Amount: 3, Category: core.Other, Date: core.NewDate(2024, 5, 2)})

	for i := 0; i < 3; i++ {
		if err := w.HandleChange(context.Background(), msg); err != nil {
			t.Fatal(err)
		}
	}
	if mirror.Len() != 1 {
		t.Fatalf("rows = %d, want 1", mirror.Len())
	}
}

type failingMirror struct{ *memory.Store }

func (failingMirror) Append(context.Context, core.Expense) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestChangeWorker_AppendFailureRequeues(t *testing.T) {
	w := NewChangeWorker(failingMirror{memory.New()}, log.Discard())
	msg := expenseMessage(t, core.ChangeAdd, core.Expense{ID: "e-1", Amount: 1, Category: core.Other, Date: core.NewDate(2024, 1, 1)})
	if err := w.HandleChange(context.Background(), msg); err == nil {
		t.Fatal("expected error so the message is requeued")
	}
}
