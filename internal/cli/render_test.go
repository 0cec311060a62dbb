package cli

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "March",
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Food & Dining", "$12.50"},
			{"Other", "$1,200.00"},
		},
	})
	for _, want := range []string{"March", "Category", "Food & Dining", "$1,200.00", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// Title, 3 rules, header and two rows.
	if lines := strings.Count(out, "\n"); lines != 7 {
		t.Errorf("table has %d lines, want 7:\n%s", lines, out)
	}

	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}

func TestRenderUsageBar(t *testing.T) {
	tests := []struct {
		name       string
		spent      float64
		limit      float64
		wantPct    string
		wantEmpty  bool
		wantFilled int
	}{
		{"half", 50, 100, "50%", false, 5},
		{"over", 150, 100, "150%", false, 10},
		{"no limit", 10, 0, "", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderUsageBar(tt.spent, tt.limit, 10)
			if tt.wantEmpty {
				if got != "" {
					t.Fatalf("got %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.wantPct) {
				t.Errorf("got %q, want it to contain %q", got, tt.wantPct)
			}
			if n := strings.Count(got, "█"); n != tt.wantFilled {
				t.Errorf("filled = %d, want %d", n, tt.wantFilled)
			}
		})
	}
}
