// Package services provides business logic and orchestration services.
//
// This file holds the per-frequency strategies that decide whether a
// recurring expense has a new occurrence due.
package services

import (
	"fmt"
	"time"

	"smartmoney/internal/core"
)

// DuenessChecker decides whether a recurring expense anchored on anchor, last
// materialized on last, has another occurrence due by today. All three are
// calendar dates.
type DuenessChecker interface {
	IsDue(last, today, anchor core.Date) bool
}

// DailyChecker is due on any day after the last occurrence.
type DailyChecker struct{}

func (DailyChecker) IsDue(last, today, _ core.Date) bool {
	if last.IsZero() {
		return true
	}
	return today.After(last.Time)
}

// WeeklyChecker is due once 7 or more days have passed.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(last, today, _ core.Date) bool {
	if last.IsZero() {
		return true
	}
	return daysBetween(last, today) >= 7
}

// MonthlyChecker is due once per calendar month, on or after the anchor's day.
// Anchors past the end of a short month fall on its last day.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(last, today, anchor core.Date) bool {
	if last.IsZero() {
		return true
	}
	if last.YearMonth() >= today.YearMonth() {
		return false
	}
	return today.Day() >= clampDay(today.Year(), today.Month(), anchor.Day())
}

// YearlyChecker is due once per calendar year, on or after the anchor's month
// and day.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(last, today, anchor core.Date) bool {
	if last.IsZero() {
		return true
	}
	if last.Year() >= today.Year() {
		return false
	}
	switch {
	case today.Month() < anchor.Month():
		return false
	case today.Month() > anchor.Month():
		return true
	}
	return today.Day() >= clampDay(today.Year(), today.Month(), anchor.Day())
}

func daysBetween(a, b core.Date) int {
	return int(b.Sub(a.Time).Hours() / 24)
}

// clampDay caps day at the last day of month.
func clampDay(year, month, day int) int {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

var duenessStrategies = map[core.RepetitionTypes]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a repetition type.
func GetDuenessChecker(frequency core.RepetitionTypes) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown repetition type: %s", frequency)
	}
	return checker, nil
}
