package http

import (
	"net/http"

	"smartmoney/internal/core"
	"smartmoney/internal/services"
)

// listOrEmpty keeps list endpoints from answering null.
func listOrEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// goalResponse adds the completion percentage to a savings goal.
type goalResponse struct {
	core.SavingsGoal
	Progress float64 `json:"progress"`
}

func withProgress(g core.SavingsGoal) goalResponse {
	return goalResponse{SavingsGoal: g, Progress: core.GoalProgress(g)}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.ledger.SavingsGoals()
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, withProgress(g))
	}
	OK(out).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SavingsGoal
	if err := DecodeJSON(r, &g); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	g.Name = sanitizeInput(g.Name)

	added, err := s.ledger.AddSavingsGoal(r.Context(), g)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	Created(withProgress(added)).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var p core.SavingsGoalPatch
	if err := DecodeJSON(r, &p); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	sanitizePtr(p.Name)

	updated, err := s.ledger.UpdateSavingsGoal(r.Context(), r.PathValue("id"), p)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(withProgress(updated)).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteSavingsGoal(r.Context(), r.PathValue("id")); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount amountText `json:"amount"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}

	g, err := s.ledger.ContributeToGoal(r.Context(), r.PathValue("id"), float64(req.Amount))
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(withProgress(g)).Write(w)
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	OK(listOrEmpty(s.ledger.Debts())).Write(w)
}

func (s *Server) handleDebtSummary(w http.ResponseWriter, r *http.Request) {
	OK(s.ledger.DebtSummary()).Write(w)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var d core.Debt
	if err := DecodeJSON(r, &d); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	d.Name = sanitizeInput(d.Name)
	d.Description = sanitizeInput(d.Description)

	added, err := s.ledger.AddDebt(r.Context(), d)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	Created(added).Write(w)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var p core.DebtPatch
	if err := DecodeJSON(r, &p); err != nil {
		ErrorFor(err).Write(w)
		return
	}

	updated, err := s.ledger.UpdateDebt(r.Context(), r.PathValue("id"), p)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(updated).Write(w)
}

func (s *Server) handleSetDebtStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status core.DebtStatus `json:"status"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}

	d, err := s.ledger.SetDebtStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(d).Write(w)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteDebt(r.Context(), r.PathValue("id")); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	OK(listOrEmpty(s.ledger.Challenges())).Write(w)
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var c core.FinancialChallenge
	if err := DecodeJSON(r, &c); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	c.Name = sanitizeInput(c.Name)
	c.Description = sanitizeInput(c.Description)

	added, err := s.ledger.AddChallenge(r.Context(), c)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	Created(added).Write(w)
}

func (s *Server) handleUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	var p core.ChallengePatch
	if err := DecodeJSON(r, &p); err != nil {
		ErrorFor(err).Write(w)
		return
	}

	updated, err := s.ledger.UpdateChallenge(r.Context(), r.PathValue("id"), p)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(updated).Write(w)
}

func (s *Server) handleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteChallenge(r.Context(), r.PathValue("id")); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleListTravel(w http.ResponseWriter, r *http.Request) {
	OK(listOrEmpty(s.ledger.TravelModes())).Write(w)
}

func (s *Server) handleCreateTravel(w http.ResponseWriter, r *http.Request) {
	var m core.TravelMode
	if err := DecodeJSON(r, &m); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	m.Name = sanitizeInput(m.Name)
	m.Location = sanitizeInput(m.Location)

	added, err := s.ledger.AddTravelMode(r.Context(), m)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	Created(added).Write(w)
}

func (s *Server) handleUpdateTravel(w http.ResponseWriter, r *http.Request) {
	var p core.TravelModePatch
	if err := DecodeJSON(r, &p); err != nil {
		ErrorFor(err).Write(w)
		return
	}

	updated, err := s.ledger.UpdateTravelMode(r.Context(), r.PathValue("id"), p)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(updated).Write(w)
}

func (s *Server) handleDeleteTravel(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTravelMode(r.Context(), r.PathValue("id")); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleGetEmergencyFund(w http.ResponseWriter, r *http.Request) {
	f := s.ledger.EmergencyFund()
	if f == nil {
		NotFoundError("no emergency fund planned").Write(w)
		return
	}
	OK(f).Write(w)
}

func (s *Server) handlePlanEmergencyFund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MonthlyExpenses amountText `json:"monthlyExpenses"`
		Months          amountText `json:"months"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	if req.MonthlyExpenses < 0 || req.Months < 0 {
		UnprocessableEntityError(core.ErrInvalidAmount.Error()).Write(w)
		return
	}
	OK(s.ledger.PlanEmergencyFund(r.Context(), float64(req.MonthlyExpenses), float64(req.Months))).Write(w)
}

func (s *Server) handleUpdateEmergencyFund(w http.ResponseWriter, r *http.Request) {
	var p core.EmergencyFundPatch
	if err := DecodeJSON(r, &p); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(s.ledger.UpdateEmergencyFund(r.Context(), p)).Write(w)
}

func (s *Server) handleGetRetirement(w http.ResponseWriter, r *http.Request) {
	p := s.ledger.RetirementPlan()
	if p == nil {
		NotFoundError("no retirement plan").Write(w)
		return
	}
	OK(p).Write(w)
}

func (s *Server) handlePlanRetirement(w http.ResponseWriter, r *http.Request) {
	var in services.RetirementInput
	if err := DecodeJSON(r, &in); err != nil {
		ErrorFor(err).Write(w)
		return
	}

	plan, err := s.ledger.PlanRetirement(r.Context(), in)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(plan).Write(w)
}

func (s *Server) handleListTaxEstimates(w http.ResponseWriter, r *http.Request) {
	OK(listOrEmpty(s.ledger.TaxEstimates())).Write(w)
}

func (s *Server) handleEstimateTax(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year       int        `json:"year"`
		Income     amountText `json:"income"`
		Deductions amountText `json:"deductions"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		ErrorFor(err).Write(w)
		return
	}

	est, err := s.ledger.EstimateTax(r.Context(), req.Year, float64(req.Income), float64(req.Deductions))
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	Created(est).Write(w)
}
