package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
	}{
		{"1", 1},
		{"1.23", 1.23},
		{"1,23", 1.23},
		{" 2.50 ", 2.5},
		{"", 0},
		{"abc", 0},
		{"1.2.3", 0},
		{"NaN", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.out {
			t.Fatalf("%q expected %v, got %v", tc.in, tc.out, got)
		}
	}
}

func TestParseAmountStrict(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"12.34", 12.34, true},
		{"12,34", 12.34, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountStrict(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234.5, "USD", "$1,234.50"},
		{0, "EUR", "€0.00"},
		{1500, "JPY", "¥1,500"},
		{-12.3, "GBP", "-£12.30"},
		{10, "???", "$10.00"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.amount, tc.code); got != tc.want {
			t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestFormatCurrencyCompact(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{1500, "$1.5K"},
		{2_300_000, "$2.3M"},
		{999, "$999.00"},
	}
	for _, tc := range cases {
		if got := FormatCurrencyCompact(tc.amount, "usd"); got != tc.want {
			t.Errorf("FormatCurrencyCompact(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
