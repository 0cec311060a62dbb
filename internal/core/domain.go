package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Monthly RepetitionTypes = "monthly"
	Yearly  RepetitionTypes = "yearly"
	Weekly  RepetitionTypes = "weekly"
	Daily   RepetitionTypes = "daily"
)

// DefaultOwner is the owner id used when no user is signed in.
const DefaultOwner = "default"

const dateLayout = "2006-01-02"

type (
	RepetitionTypes string

	// Date is a calendar date without a time-of-day component.
	Date struct {
		time.Time
	}

	// Recurrence describes how often an expense repeats. LastGenerated is the
	// date of the most recent copy materialized by the recurring processor.
	Recurrence struct {
		Type          RepetitionTypes `json:"type"`
		LastGenerated *Date           `json:"lastGenerated,omitempty"`
	}

	Expense struct {
		ID           string      `json:"id"`
		UID          string      `json:"uid"`
		Amount       float64     `json:"amount"`
		Category     Category    `json:"category"`
		Note         string      `json:"note"`
		Date         Date        `json:"date"`
		BusinessName string      `json:"businessName,omitempty"`
		Tags         []string    `json:"tags,omitempty"`
		Currency     string      `json:"currency,omitempty"`
		Location     string      `json:"location,omitempty"`
		Recurrence   *Recurrence `json:"recurrence,omitempty"`
	}

	// Budget is keyed by (UID, Month). Month is formatted YYYY-MM.
	Budget struct {
		UID             string               `json:"uid"`
		Month           string               `json:"month"`
		TotalBudget     float64              `json:"totalBudget"`
		Categories      map[Category]float64 `json:"categories"`
		BusinessBudgets map[string]float64   `json:"businessBudgets,omitempty"`
	}

	Notifications struct {
		BudgetAlerts  bool `json:"budgetAlerts"`
		BillReminders bool `json:"billReminders"`
		WeeklyReports bool `json:"weeklyReports"`
	}

	Settings struct {
		UID           string               `json:"uid"`
		DarkMode      bool                 `json:"darkMode"`
		DailyReminder bool                 `json:"dailyReminder"`
		SpendingLimit map[Category]float64 `json:"spendingLimit"`
		Currency      string               `json:"currency"`
		Notifications Notifications        `json:"notifications"`
		BusinessNames []string             `json:"businessNames"`
	}

	User struct {
		UID       string    `json:"uid"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidTarget   = errors.New("invalid target amount")
	ErrInvalidDebtType = errors.New("invalid debt type")
	ErrInvalidRepeat   = errors.New("invalid repetition type")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// YearMonth returns the calendar month of the date as YYYY-MM.
func (d Date) YearMonth() string {
	return d.Time.Format("2006-01")
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp. For timestamps the
// calendar date is taken as written, without converting time zones.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "YYYY-MM-DD", an RFC 3339 timestamp or "".
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (r RepetitionTypes) IsValid() bool {
	switch r {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Validate checks the fields a caller must supply before handing an expense
// to the store. The store itself never validates.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount < 0 {
		return ErrInvalidAmount
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if len(e.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	if e.Recurrence != nil && !e.Recurrence.Type.IsValid() {
		return ErrInvalidRepeat
	}
	return nil
}

// IsRecurring reports whether the expense carries a recurrence descriptor.
func (e Expense) IsRecurring() bool {
	return e.Recurrence != nil
}

// DefaultSettings returns the record materialized the first time settings
// are updated.
func DefaultSettings() Settings {
	return Settings{
		UID:           DefaultOwner,
		DarkMode:      false,
		DailyReminder: false,
		SpendingLimit: map[Category]float64{},
		Currency:      "USD",
		Notifications: Notifications{
			BudgetAlerts:  true,
			BillReminders: true,
			WeeklyReports: false,
		},
		BusinessNames: []string{},
	}
}
