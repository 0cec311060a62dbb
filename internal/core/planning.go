package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	DebtType        string
	DebtStatus      string
	ChallengeType   string
	ChallengeStatus string
	ChangeType      string
)

const (
	// DebtOwed is money the user owes to someone else.
	DebtOwed DebtType = "owed"
	// DebtGiven is money someone else owes to the user.
	DebtGiven DebtType = "given"

	DebtActive  DebtStatus = "active"
	DebtPaid    DebtStatus = "paid"
	DebtOverdue DebtStatus = "overdue"

	ChallengeNoSpend        ChallengeType = "no-spend"
	ChallengeSaveMore       ChallengeType = "save-more"
	ChallengeReduceCategory ChallengeType = "reduce-category"
	ChallengeCustom         ChallengeType = "custom"

	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeFailed    ChallengeStatus = "failed"

	ChangeAdd    ChangeType = "add"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// Singleton ids for the per-user planning records.
const (
	EmergencyFundID  = "emergency-fund"
	RetirementPlanID = "retirement-plan"
)

// Entity names carried by pending changes and change messages.
const (
	EntityExpense        = "expense"
	EntityBudget         = "budget"
	EntitySettings       = "settings"
	EntitySavingsGoal    = "savingsGoal"
	EntityDebt           = "debt"
	EntityChallenge      = "challenge"
	EntityEmergencyFund  = "emergencyFund"
	EntityRetirementPlan = "retirementPlan"
	EntityTaxEstimate    = "taxEstimate"
	EntityTravelMode     = "travelMode"
)

var ErrInvalidTransition = errors.New("invalid debt status transition")

type (
	SavingsGoal struct {
		ID            string    `json:"id"`
		UID           string    `json:"uid"`
		Name          string    `json:"name"`
		TargetAmount  float64   `json:"targetAmount"`
		CurrentAmount float64   `json:"currentAmount"`
		Deadline      Date      `json:"deadline"`
		Category      Category  `json:"category"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	Debt struct {
		ID           string     `json:"id"`
		UID          string     `json:"uid"`
		Name         string     `json:"name"`
		Type         DebtType   `json:"type"`
		Amount       float64    `json:"amount"`
		InterestRate *float64   `json:"interestRate,omitempty"`
		DueDate      *Date      `json:"dueDate,omitempty"`
		Description  string     `json:"description"`
		Status       DebtStatus `json:"status"`
		CreatedAt    time.Time  `json:"createdAt"`
	}

	FinancialChallenge struct {
		ID              string          `json:"id"`
		UID             string          `json:"uid"`
		Name            string          `json:"name"`
		Type            ChallengeType   `json:"type"`
		TargetAmount    *float64        `json:"targetAmount,omitempty"`
		StartDate       Date            `json:"startDate"`
		EndDate         Date            `json:"endDate"`
		CurrentProgress float64         `json:"currentProgress"`
		Status          ChallengeStatus `json:"status"`
		Description     string          `json:"description"`
	}

	EmergencyFund struct {
		ID                  string    `json:"id"`
		UID                 string    `json:"uid"`
		TargetAmount        float64   `json:"targetAmount"`
		CurrentAmount       float64   `json:"currentAmount"`
		MonthlyContribution float64   `json:"monthlyContribution"`
		MonthsToTarget      float64   `json:"monthsToTarget"`
		CreatedAt           time.Time `json:"createdAt"`
	}

	RetirementPlan struct {
		ID                  string    `json:"id"`
		UID                 string    `json:"uid"`
		CurrentAge          float64   `json:"currentAge"`
		RetirementAge       float64   `json:"retirementAge"`
		CurrentSavings      float64   `json:"currentSavings"`
		MonthlyContribution float64   `json:"monthlyContribution"`
		ExpectedReturn      float64   `json:"expectedReturn"`
		TargetAmount        float64   `json:"targetAmount"`
		ProjectedAmount     float64   `json:"projectedAmount"`
		CreatedAt           time.Time `json:"createdAt"`
	}

	TaxEstimate struct {
		ID           string    `json:"id"`
		UID          string    `json:"uid"`
		Year         int       `json:"year"`
		Income       float64   `json:"income"`
		Deductions   float64   `json:"deductions"`
		TaxBracket   string    `json:"taxBracket"`
		EstimatedTax float64   `json:"estimatedTax"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	TravelMode struct {
		ID        string   `json:"id"`
		UID       string   `json:"uid"`
		Name      string   `json:"name"`
		StartDate Date     `json:"startDate"`
		EndDate   Date     `json:"endDate"`
		Budget    float64  `json:"budget"`
		Spent     float64  `json:"spent"`
		Currency  string   `json:"currency"`
		Location  string   `json:"location"`
		IsActive  bool     `json:"isActive"`
		Expenses  []string `json:"expenses"` // expense ids
	}

	// PendingChange is an offline change waiting to be shipped to the change
	// feed. Timestamp is in Unix milliseconds.
	PendingChange struct {
		ID        string          `json:"id"`
		Type      ChangeType      `json:"type"`
		Entity    string          `json:"entity"`
		Data      json.RawMessage `json:"data,omitempty"`
		Timestamp int64           `json:"timestamp"`
	}
)

func (t DebtType) IsValid() bool {
	return t == DebtOwed || t == DebtGiven
}

// CanTransitionTo reports whether a debt may move from s to next.
// active -> paid | overdue, overdue -> paid. paid is terminal.
func (s DebtStatus) CanTransitionTo(next DebtStatus) bool {
	switch s {
	case DebtActive:
		return next == DebtPaid || next == DebtOverdue
	case DebtOverdue:
		return next == DebtPaid
	}
	return false
}

// Transition returns next if the move from s is allowed.
func (s DebtStatus) Transition(next DebtStatus) (DebtStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount < 0 || g.CurrentAmount > g.TargetAmount {
		return ErrInvalidAmount
	}
	return nil
}

// ClampGoalAmount keeps a goal's current amount within [0, target].
func ClampGoalAmount(amount, target float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount > target {
		return target
	}
	return amount
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !d.Type.IsValid() {
		return ErrInvalidDebtType
	}
	if d.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
