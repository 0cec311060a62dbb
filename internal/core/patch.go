package core

// Patches carry the fields to overwrite on an existing record. A nil pointer,
// map or slice means "leave unchanged", so the zero patch is a no-op.
// Patches decode directly from partial JSON bodies.

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

type ExpensePatch struct {
	Amount       *float64    `json:"amount,omitempty"`
	Category     *Category   `json:"category,omitempty"`
	Note         *string     `json:"note,omitempty"`
	Date         *Date       `json:"date,omitempty"`
	BusinessName *string     `json:"businessName,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	Currency     *string     `json:"currency,omitempty"`
	Location     *string     `json:"location,omitempty"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
}

func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.BusinessName != nil {
		e.BusinessName = *p.BusinessName
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), p.Tags...)
	}
	if p.Currency != nil {
		e.Currency = *p.Currency
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Recurrence != nil {
		r := *p.Recurrence
		if r.LastGenerated != nil {
			r.LastGenerated = Ptr(*r.LastGenerated)
		}
		e.Recurrence = &r
	}
	return e
}

type BudgetPatch struct {
	TotalBudget     *float64             `json:"totalBudget,omitempty"`
	Categories      map[Category]float64 `json:"categories,omitempty"`
	BusinessBudgets map[string]float64   `json:"businessBudgets,omitempty"`
}

// Apply replaces maps wholesale; it does not merge individual keys.
func (p BudgetPatch) Apply(b Budget) Budget {
	if p.TotalBudget != nil {
		b.TotalBudget = *p.TotalBudget
	}
	if p.Categories != nil {
		b.Categories = copyMap(p.Categories)
	}
	if p.BusinessBudgets != nil {
		b.BusinessBudgets = copyMap(p.BusinessBudgets)
	}
	return b
}

type NotificationsPatch struct {
	BudgetAlerts  *bool `json:"budgetAlerts,omitempty"`
	BillReminders *bool `json:"billReminders,omitempty"`
	WeeklyReports *bool `json:"weeklyReports,omitempty"`
}

type SettingsPatch struct {
	DarkMode      *bool                `json:"darkMode,omitempty"`
	DailyReminder *bool                `json:"dailyReminder,omitempty"`
	SpendingLimit map[Category]float64 `json:"spendingLimit,omitempty"`
	Currency      *string              `json:"currency,omitempty"`
	Notifications *NotificationsPatch  `json:"notifications,omitempty"`
	BusinessNames []string             `json:"businessNames,omitempty"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.DailyReminder != nil {
		s.DailyReminder = *p.DailyReminder
	}
	if p.SpendingLimit != nil {
		s.SpendingLimit = copyMap(p.SpendingLimit)
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if n := p.Notifications; n != nil {
		if n.BudgetAlerts != nil {
			s.Notifications.BudgetAlerts = *n.BudgetAlerts
		}
		if n.BillReminders != nil {
			s.Notifications.BillReminders = *n.BillReminders
		}
		if n.WeeklyReports != nil {
			s.Notifications.WeeklyReports = *n.WeeklyReports
		}
	}
	if p.BusinessNames != nil {
		s.BusinessNames = append([]string{}, p.BusinessNames...)
	}
	return s
}

type SavingsGoalPatch struct {
	Name          *string   `json:"name,omitempty"`
	TargetAmount  *float64  `json:"targetAmount,omitempty"`
	CurrentAmount *float64  `json:"currentAmount,omitempty"`
	Deadline      *Date     `json:"deadline,omitempty"`
	Category      *Category `json:"category,omitempty"`
}

func (p SavingsGoalPatch) Apply(g SavingsGoal) SavingsGoal {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	return g
}

type DebtPatch struct {
	Name         *string     `json:"name,omitempty"`
	Type         *DebtType   `json:"type,omitempty"`
	Amount       *float64    `json:"amount,omitempty"`
	InterestRate *float64    `json:"interestRate,omitempty"`
	DueDate      *Date       `json:"dueDate,omitempty"`
	Description  *string     `json:"description,omitempty"`
	Status       *DebtStatus `json:"status,omitempty"`
}

func (p DebtPatch) Apply(d Debt) Debt {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.InterestRate != nil {
		d.InterestRate = Ptr(*p.InterestRate)
	}
	if p.DueDate != nil {
		d.DueDate = Ptr(*p.DueDate)
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	return d
}

type ChallengePatch struct {
	Name            *string          `json:"name,omitempty"`
	Type            *ChallengeType   `json:"type,omitempty"`
	TargetAmount    *float64         `json:"targetAmount,omitempty"`
	StartDate       *Date            `json:"startDate,omitempty"`
	EndDate         *Date            `json:"endDate,omitempty"`
	CurrentProgress *float64         `json:"currentProgress,omitempty"`
	Status          *ChallengeStatus `json:"status,omitempty"`
	Description     *string          `json:"description,omitempty"`
}

func (p ChallengePatch) Apply(c FinancialChallenge) FinancialChallenge {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.TargetAmount != nil {
		c.TargetAmount = Ptr(*p.TargetAmount)
	}
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = *p.EndDate
	}
	if p.CurrentProgress != nil {
		c.CurrentProgress = *p.CurrentProgress
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	return c
}

type EmergencyFundPatch struct {
	TargetAmount        *float64 `json:"targetAmount,omitempty"`
	CurrentAmount       *float64 `json:"currentAmount,omitempty"`
	MonthlyContribution *float64 `json:"monthlyContribution,omitempty"`
	MonthsToTarget      *float64 `json:"monthsToTarget,omitempty"`
}

func (p EmergencyFundPatch) Apply(f EmergencyFund) EmergencyFund {
	if p.TargetAmount != nil {
		f.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		f.CurrentAmount = *p.CurrentAmount
	}
	if p.MonthlyContribution != nil {
		f.MonthlyContribution = *p.MonthlyContribution
	}
	if p.MonthsToTarget != nil {
		f.MonthsToTarget = *p.MonthsToTarget
	}
	return f
}

type RetirementPlanPatch struct {
	CurrentAge          *float64 `json:"currentAge,omitempty"`
	RetirementAge       *float64 `json:"retirementAge,omitempty"`
	CurrentSavings      *float64 `json:"currentSavings,omitempty"`
	MonthlyContribution *float64 `json:"monthlyContribution,omitempty"`
	ExpectedReturn      *float64 `json:"expectedReturn,omitempty"`
	TargetAmount        *float64 `json:"targetAmount,omitempty"`
	ProjectedAmount     *float64 `json:"projectedAmount,omitempty"`
}

func (p RetirementPlanPatch) Apply(r RetirementPlan) RetirementPlan {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.CurrentAge, p.CurrentAge)
	set(&r.RetirementAge, p.RetirementAge)
	set(&r.CurrentSavings, p.CurrentSavings)
	set(&r.MonthlyContribution, p.MonthlyContribution)
	set(&r.ExpectedReturn, p.ExpectedReturn)
	set(&r.TargetAmount, p.TargetAmount)
	set(&r.ProjectedAmount, p.ProjectedAmount)
	return r
}

type TaxEstimatePatch struct {
	Year         *int     `json:"year,omitempty"`
	Income       *float64 `json:"income,omitempty"`
	Deductions   *float64 `json:"deductions,omitempty"`
	TaxBracket   *string  `json:"taxBracket,omitempty"`
	EstimatedTax *float64 `json:"estimatedTax,omitempty"`
}

func (p TaxEstimatePatch) Apply(t TaxEstimate) TaxEstimate {
	if p.Year != nil {
		t.Year = *p.Year
	}
	if p.Income != nil {
		t.Income = *p.Income
	}
	if p.Deductions != nil {
		t.Deductions = *p.Deductions
	}
	if p.TaxBracket != nil {
		t.TaxBracket = *p.TaxBracket
	}
	if p.EstimatedTax != nil {
		t.EstimatedTax = *p.EstimatedTax
	}
	return t
}

type TravelModePatch struct {
	Name      *string  `json:"name,omitempty"`
	StartDate *Date    `json:"startDate,omitempty"`
	EndDate   *Date    `json:"endDate,omitempty"`
	Budget    *float64 `json:"budget,omitempty"`
	Spent     *float64 `json:"spent,omitempty"`
	Currency  *string  `json:"currency,omitempty"`
	Location  *string  `json:"location,omitempty"`
	IsActive  *bool    `json:"isActive,omitempty"`
	Expenses  []string `json:"expenses,omitempty"`
}

func (p TravelModePatch) Apply(m TravelMode) TravelMode {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		m.EndDate = *p.EndDate
	}
	if p.Budget != nil {
		m.Budget = *p.Budget
	}
	if p.Spent != nil {
		m.Spent = *p.Spent
	}
	if p.Currency != nil {
		m.Currency = *p.Currency
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
	if p.Expenses != nil {
		m.Expenses = append([]string{}, p.Expenses...)
	}
	return m
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
