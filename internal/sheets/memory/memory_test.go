package memory

import (
	"context"
	"testing"

	"smartmoney/internal/core"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, core.Expense{ID: "e-1", Amount: 1.23, Category: core.Other, Date: core.NewDate(2024, 1, 5)})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	if _, err := s.Append(ctx, core.Expense{ID: "e-2", Amount: 4, Category: core.Other, Date: core.NewDate(2024, 2, 1)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(ctx, core.Expense{Amount: -1, Category: core.Other, Date: core.NewDate(2024, 1, 1)}); err == nil {
		t.Fatal("expected validation error")
	}

	jan, err := s.ListExpenses(ctx, 2024, 1)
	if err != nil || len(jan) != 1 || jan[0].ID != "e-1" {
		t.Fatalf("unexpected list: %+v err=%v", jan, err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d", s.Len())
	}
}
