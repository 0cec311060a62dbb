package http

import (
	"net/http"
	"time"

	"smartmoney/internal/cache"
	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/middleware/trace"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(map[string]string{"status": "ok"}).Write(w)
}

// handleReady reports ready once the ledger answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		ErrorResponse(http.StatusServiceUnavailable, "ledger not initialized").Write(w)
		return
	}
	_ = s.ledger.Settings()
	OK(map[string]string{"status": "ready"}).Write(w)
}

type statsResponse struct {
	Uptime            string      `json:"uptime"`
	HTTP              trace.Stats `json:"http"`
	RateLimited       int64       `json:"rateLimited"`
	ActiveClients     int         `json:"activeClients"`
	SuspiciousBlocked int64       `json:"suspiciousBlocked"`
	OverviewCache     cache.Stats `json:"overviewCache"`
	PendingChanges    int         `json:"pendingChanges"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	OK(statsResponse{
		Uptime:            time.Since(s.started).Round(time.Second).String(),
		HTTP:              s.tracer.Stats(),
		RateLimited:       s.rateLimiter.Rejected(),
		ActiveClients:     s.rateLimiter.ActiveClients(),
		SuspiciousBlocked: s.detector.Suspicious(),
		OverviewCache:     s.overviewCache.Stats(),
		PendingChanges:    len(s.ledger.PendingChanges(0)),
	}).Write(w)
}

type currencyResponse struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	Example  string `json:"example"`
}

func handleCurrencies(w http.ResponseWriter, r *http.Request) {
	out := make([]currencyResponse, 0, len(core.Currencies))
	for _, c := range core.Currencies {
		out = append(out, currencyResponse{
			Code:     c.Code,
			Symbol:   c.Symbol,
			Name:     c.Name,
			Decimals: c.Decimals,
			Example:  core.FormatCurrency(1234.5, c.Code),
		})
	}
	OK(out).Write(w)
}

type categoryResponse struct {
	Name  core.Category `json:"name"`
	Color string        `json:"color"`
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	out := make([]categoryResponse, 0, len(core.Categories))
	for _, c := range core.Categories {
		out = append(out, categoryResponse{Name: c, Color: c.Color()})
	}
	OK(out).Write(w)
}

func (s *Server) handlePendingChanges(w http.ResponseWriter, r *http.Request) {
	OK(s.ledger.PendingChanges(ParseLimitParam(r.URL.Query(), 100))).Write(w)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u := s.ledger.CurrentUser()
	if u == nil {
		NotFoundError("no user signed in").Write(w)
		return
	}
	OK(u).Write(w)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := DecodeJSON(r, &u); err != nil {
		ErrorFor(err).Write(w)
		return
	}
	u.Email = sanitizeInput(u.Email)
	u.Name = sanitizeInput(u.Name)

	signed, err := s.ledger.SignIn(r.Context(), u)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "User signed in", "uid", signed.UID)
	OK(signed).Write(w)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.ledger.SignOut(r.Context())
	NoContent().Write(w)
}
