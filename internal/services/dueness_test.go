package services

import (
	"testing"

	"smartmoney/internal/core"
)

func TestDailyChecker_IsDue(t *testing.T) {
	checker := DailyChecker{}
	today := core.NewDate(2024, 1, 15)

	tests := []struct {
		name string
		last core.Date
		want bool
	}{
		{"never generated", core.Date{}, true},
		{"generated today", core.NewDate(2024, 1, 15), false},
		{"generated yesterday", core.NewDate(2024, 1, 14), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.last, today, core.NewDate(2024, 1, 1)); got != tt.want {
				t.Errorf("DailyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker_IsDue(t *testing.T) {
	checker := WeeklyChecker{}
	today := core.NewDate(2024, 1, 15)

	tests := []struct {
		name string
		last core.Date
		want bool
	}{
		{"never generated", core.Date{}, true},
		{"3 days ago", core.NewDate(2024, 1, 12), false},
		{"exactly a week ago", core.NewDate(2024, 1, 8), true},
		{"10 days ago", core.NewDate(2024, 1, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.last, today, core.NewDate(2024, 1, 1)); got != tt.want {
				t.Errorf("WeeklyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker_IsDue(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name   string
		last   core.Date
		today  core.Date
		anchor core.Date
		want   bool
	}{
		{"generated this month", core.NewDate(2024, 1, 10), core.NewDate(2024, 1, 15), core.NewDate(2024, 1, 10), false},
		{"new month before anchor day", core.NewDate(2024, 1, 15), core.NewDate(2024, 2, 10), core.NewDate(2024, 1, 15), false},
		{"new month on anchor day", core.NewDate(2024, 1, 15), core.NewDate(2024, 2, 15), core.NewDate(2024, 1, 15), true},
		{"anchor 31 clamps to leap day", core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 29), core.NewDate(2024, 1, 31), true},
		{"anchor 31 clamps to 30", core.NewDate(2024, 3, 31), core.NewDate(2024, 4, 30), core.NewDate(2024, 1, 31), true},
		{"across year boundary", core.NewDate(2023, 12, 5), core.NewDate(2024, 1, 5), core.NewDate(2023, 12, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.last, tt.today, tt.anchor); got != tt.want {
				t.Errorf("MonthlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker_IsDue(t *testing.T) {
	checker := YearlyChecker{}

	tests := []struct {
		name   string
		last   core.Date
		today  core.Date
		anchor core.Date
		want   bool
	}{
		{"generated this year", core.NewDate(2024, 3, 15), core.NewDate(2024, 6, 15), core.NewDate(2024, 3, 15), false},
		{"new year before anchor month", core.NewDate(2024, 6, 15), core.NewDate(2025, 3, 15), core.NewDate(2024, 6, 15), false},
		{"new year past anchor month", core.NewDate(2024, 3, 15), core.NewDate(2025, 6, 15), core.NewDate(2024, 3, 15), true},
		{"anchor month before day", core.NewDate(2024, 6, 15), core.NewDate(2025, 6, 10), core.NewDate(2024, 6, 15), false},
		{"anchor month on day", core.NewDate(2024, 6, 15), core.NewDate(2025, 6, 15), core.NewDate(2024, 6, 15), true},
		{"leap day anchor in common year", core.NewDate(2024, 2, 29), core.NewDate(2025, 2, 28), core.NewDate(2024, 2, 29), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.last, tt.today, tt.anchor); got != tt.want {
				t.Errorf("YearlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	tests := []struct {
		frequency core.RepetitionTypes
		wantErr   bool
	}{
		{core.Daily, false},
		{core.Weekly, false},
		{core.Monthly, false},
		{core.Yearly, false},
		{core.RepetitionTypes("biweekly"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			checker, err := GetDuenessChecker(tt.frequency)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetDuenessChecker() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && checker == nil {
				t.Error("GetDuenessChecker() returned nil checker")
			}
		})
	}
}
