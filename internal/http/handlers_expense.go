package http

import (
	"net/http"
	"strings"

	"smartmoney/internal/core"
	"smartmoney/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.ledger.ListExpenses(ParseMonthParam(r.URL.Query()))
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	OK(expenses).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := DecodeJSON(r, &e); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	e.Note = sanitizeInput(e.Note)
	e.BusinessName = sanitizeInput(e.BusinessName)
	e.Location = sanitizeInput(e.Location)
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	if e.Date.IsZero() {
		e.Date = s.ledger.Today()
	}

	added, err := s.ledger.AddExpense(r.Context(), e)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Expense rejected",
			log.FieldOperation, log.OpCreate,
			log.FieldError, err.Error())
		ErrorFor(err).Write(w)
		return
	}
	Created(added).Header("Location", "/api/expenses/"+added.ID).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.ledger.Expense(r.PathValue("id"))
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(e).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var p core.ExpensePatch
	if err := DecodeJSON(r, &p); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	sanitizePtr(p.Note)
	sanitizePtr(p.BusinessName)
	sanitizePtr(p.Location)

	updated, err := s.ledger.UpdateExpense(r.Context(), r.PathValue("id"), p)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	OK(updated).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	NoContent().Write(w)
}

// handleMaterializeExpense creates the copy of a recurring expense for the
// given date (today when the body is empty).
func (s *Server) handleMaterializeExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date *core.Date `json:"date"`
	}
	if r.ContentLength != 0 {
		if err := DecodeJSON(r, &req); err != nil {
			ErrorFor(err).Write(w)
			return
		}
	}
	on := s.ledger.Today()
	if req.Date != nil {
		on = *req.Date
	}

	copied, err := s.ledger.MaterializeRecurring(r.Context(), r.PathValue("id"), on)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	Created(copied).Write(w)
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	recurring := s.ledger.RecurringExpenses()
	if recurring == nil {
		recurring = []core.Expense{}
	}
	OK(recurring).Write(w)
}

type overviewResponse struct {
	core.MonthOverview
	Formatted string `json:"formattedTotal"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.getOverview(r.Context(), ParseMonthParam(r.URL.Query()))
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	if ov.ByCategory == nil {
		ov.ByCategory = []core.CategoryAmount{}
	}
	OK(overviewResponse{
		MonthOverview: ov,
		Formatted:     core.FormatCurrency(ov.Total, s.ledger.Settings().Currency),
	}).Write(w)
}
