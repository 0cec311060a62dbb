// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data:
// JSON bodies, month and limit query parameters, and free-text sanitizing.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"smartmoney/internal/core"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("malformed request body")

// DecodeJSON reads r's body into dst, rejecting unknown fields, trailing data
// and bodies over 1 MiB.
func DecodeJSON(r *http.Request, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if len(data) > maxBodyBytes {
		return fmt.Errorf("%w: body too large", errBadBody)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", errBadBody)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", errBadBody)
	}
	return nil
}

// ParseMonthParam returns the YYYY-MM month selected by query. It accepts
// month=2024-03 or year=2024&month=3; an absent month yields "".
func ParseMonthParam(query url.Values) string {
	month := strings.TrimSpace(query.Get("month"))
	if month == "" {
		return ""
	}
	if y := strings.TrimSpace(query.Get("year")); y != "" {
		year, yerr := strconv.Atoi(y)
		m, merr := strconv.Atoi(month)
		if yerr == nil && merr == nil {
			return fmt.Sprintf("%04d-%02d", year, m)
		}
	}
	return month
}

// ParseLimitParam reads a positive limit, falling back to def.
func ParseLimitParam(query url.Values, def int) int {
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// amountText is a numeric field that also accepts the text a form field
// would send. Empty or malformed text reads as zero.
type amountText float64

func (a *amountText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = amountText(core.ParseAmount(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("amount must be a number or numeric text")
	}
	*a = amountText(f)
	return nil
}

// sanitizeInput removes control characters except tab and newlines, and trims
// whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = sanitizeInput(*s)
	}
}
