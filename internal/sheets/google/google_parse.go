package google

import (
	"fmt"
	"strings"

	"smartmoney/internal/core"
)

// parseExpenseRows converts a values matrix (as returned by Sheets API) into
// the expenses dated in year/month. Column layout follows header.
func parseExpenseRows(values [][]interface{}, year, month int) []core.Expense {
	var out []core.Expense
	for _, row := range values {
		e, ok := parseExpenseRow(toStrings(row))
		if !ok || e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		out = append(out, e)
	}
	return out
}

func parseExpenseRow(cols []string) (core.Expense, bool) {
	if len(cols) < 4 {
		return core.Expense{}, false
	}
	date, err := core.ParseDate(cols[0])
	if err != nil {
		return core.Expense{}, false
	}
	amount, err := core.ParseAmountStrict(cols[3])
	if err != nil {
		return core.Expense{}, false
	}

	e := core.Expense{
		Date:         date,
		Category:     core.Category(safeGet(cols, 1)),
		Note:         safeGet(cols, 2),
		Amount:       amount,
		Currency:     safeGet(cols, 4),
		BusinessName: safeGet(cols, 5),
		Location:     safeGet(cols, 6),
		ID:           safeGet(cols, 8),
	}
	if tags := safeGet(cols, 7); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				e.Tags = append(e.Tags, t)
			}
		}
	}
	return e, true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
