package http

import (
	"net/http"

	"smartmoney/internal/core"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets := s.ledger.Budgets()
	if budgets == nil {
		budgets = []core.Budget{}
	}
	OK(budgets).Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.ledger.Budget(r.PathValue("month"))
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(b).Write(w)
}

// handleSaveBudget creates or replaces the budget of the month in the path.
// A month in the body must agree with the path.
func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if err := DecodeJSON(r, &b); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	month := r.PathValue("month")
	if b.Month != "" && b.Month != month {
		BadRequestError("budget month does not match path").Write(w)
		return
	}
	b.Month = month

	saved, err := s.ledger.SaveBudget(r.Context(), b)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(saved).Write(w)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	report, err := s.ledger.BudgetStatus(r.PathValue("month"))
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(report).Write(w)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	OK(s.ledger.Settings()).Write(w)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p core.SettingsPatch
	if err := DecodeJSON(r, &p); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	for i, name := range p.BusinessNames {
		p.BusinessNames[i] = sanitizeInput(name)
	}

	updated, err := s.ledger.UpdateSettings(r.Context(), p)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(updated).Write(w)
}
