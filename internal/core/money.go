// Package core provides money parsing and formatting utilities.
//
// This file contains the lenient and strict amount parsers used at the
// calculator call sites, plus the currency catalog used for display.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyInfo describes a supported display currency.
type CurrencyInfo struct {
	Code     string
	Symbol   string
	Name     string
	Decimals int
}

// Currencies lists the supported display currencies. No conversion between
// them is ever performed.
var Currencies = []CurrencyInfo{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Decimals: 2},
	{Code: "EUR", Symbol: "€", Name: "Euro", Decimals: 2},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Decimals: 2},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Decimals: 2},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Decimals: 0},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Decimals: 2},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Decimals: 2},
	{Code: "CHF", Symbol: "CHF", Name: "Swiss Franc", Decimals: 2},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Decimals: 2},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real", Decimals: 2},
}

// LookupCurrency finds a currency by ISO code, case-insensitively.
func LookupCurrency(code string) (CurrencyInfo, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencyInfo{}, false
}

// ParseAmount converts user-entered numeric text to a float. Empty or
// malformed text yields 0, mirroring how form fields feed the calculators.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
func ParseAmount(s string) float64 {
	v, err := parseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

// ParseAmountStrict is ParseAmount for call sites that must reject bad input.
// Empty, malformed, negative or non-finite values return ErrInvalidAmount.
//
// Examples:
//
//	ParseAmountStrict("12.34") -> 12.34, nil
//	ParseAmountStrict("12,34") -> 12.34, nil
//	ParseAmountStrict("-1")    -> 0, ErrInvalidAmount
func ParseAmountStrict(s string) (float64, error) {
	v, err := parseAmount(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatCurrency renders amount with the currency symbol and grouped digits,
// e.g. "$1,234.50". Unknown codes fall back to USD.
func FormatCurrency(amount float64, code string) string {
	c, ok := LookupCurrency(code)
	if !ok {
		c = Currencies[0]
	}
	p := message.NewPrinter(language.English)
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + c.Symbol + p.Sprintf(fmt.Sprintf("%%.%df", c.Decimals), amount)
}

// FormatCurrencyCompact abbreviates large amounts: "$1.5K", "$2.3M".
func FormatCurrencyCompact(amount float64, code string) string {
	c, ok := LookupCurrency(code)
	if !ok {
		c = Currencies[0]
	}
	abs := math.Abs(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%s%.1fM", sign, c.Symbol, abs/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%s%.1fK", sign, c.Symbol, abs/1_000)
	}
	return FormatCurrency(amount, c.Code)
}
