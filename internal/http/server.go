package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"smartmoney/internal/cache"
	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/middleware/ratelimit"
	"smartmoney/internal/middleware/security"
	"smartmoney/internal/middleware/trace"
	"smartmoney/internal/services"
)

// Options tunes the server; zero values take defaults.
type Options struct {
	Addr          string
	RateLimitRPM  int
	CacheSize     int
	CacheTTL      time.Duration
	CleanInterval time.Duration
	Logger        *log.Logger
}

type Server struct {
	http.Server
	ledger  *services.Ledger
	logger  *log.Logger
	started time.Time

	// Month overviews keyed by YYYY-MM. Purged on every expense mutation.
	overviewCache *cache.LRUCache[core.MonthOverview]
	cacheManager  *cache.Manager

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server backed by ledger.
func NewServer(ledger *services.Ledger, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CleanInterval <= 0 {
		opts.CleanInterval = 10 * time.Minute
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		ledger:        ledger,
		logger:        logger,
		started:       time.Now(),
		overviewCache: cache.NewLRUCache[core.MonthOverview](opts.CacheSize, opts.CacheTTL),
		cacheManager:  cache.NewManager(opts.Logger),
		rateLimiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM}, opts.Logger),
		detector:      security.NewDetector(opts.Logger),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	s.cacheManager.Register(s.overviewCache)
	ledger.OnExpenseChange(s.invalidateOverviews)
	s.cacheManager.StartCleanup(opts.CleanInterval)

	mux := http.NewServeMux()
	s.routes(mux)

	api := s.rateLimiter.Middleware(s.detector.ExtractClientIP)(mux)
	api = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(api)
	api = s.detector.Middleware(api)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", handleHealth)
	root.HandleFunc("GET /readyz", s.handleReady)
	root.Handle("/", api)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.tracer.Middleware(root),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/currencies", handleCurrencies)
	mux.HandleFunc("GET /api/categories", handleCategories)
	mux.HandleFunc("GET /api/changes", s.handlePendingChanges)

	mux.HandleFunc("GET /api/user", s.handleCurrentUser)
	mux.HandleFunc("POST /api/user", s.handleSignIn)
	mux.HandleFunc("DELETE /api/user", s.handleSignOut)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PATCH /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("POST /api/expenses/{id}/materialize", s.handleMaterializeExpense)
	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("GET /api/overview", s.handleOverview)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("GET /api/budgets/{month}", s.handleGetBudget)
	mux.HandleFunc("PUT /api/budgets/{month}", s.handleSaveBudget)
	mux.HandleFunc("GET /api/budgets/{month}/status", s.handleBudgetStatus)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PATCH /api/settings", s.handleUpdateSettings)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("PATCH /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/contributions", s.handleContributeGoal)

	mux.HandleFunc("GET /api/debts", s.handleListDebts)
	mux.HandleFunc("POST /api/debts", s.handleCreateDebt)
	mux.HandleFunc("GET /api/debts/summary", s.handleDebtSummary)
	mux.HandleFunc("PATCH /api/debts/{id}", s.handleUpdateDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", s.handleDeleteDebt)
	mux.HandleFunc("PUT /api/debts/{id}/status", s.handleSetDebtStatus)

	mux.HandleFunc("GET /api/challenges", s.handleListChallenges)
	mux.HandleFunc("POST /api/challenges", s.handleCreateChallenge)
	mux.HandleFunc("PATCH /api/challenges/{id}", s.handleUpdateChallenge)
	mux.HandleFunc("DELETE /api/challenges/{id}", s.handleDeleteChallenge)

	mux.HandleFunc("GET /api/travel", s.handleListTravel)
	mux.HandleFunc("POST /api/travel", s.handleCreateTravel)
	mux.HandleFunc("PATCH /api/travel/{id}", s.handleUpdateTravel)
	mux.HandleFunc("DELETE /api/travel/{id}", s.handleDeleteTravel)

	mux.HandleFunc("GET /api/emergency-fund", s.handleGetEmergencyFund)
	mux.HandleFunc("PUT /api/emergency-fund", s.handlePlanEmergencyFund)
	mux.HandleFunc("PATCH /api/emergency-fund", s.handleUpdateEmergencyFund)
	mux.HandleFunc("GET /api/retirement", s.handleGetRetirement)
	mux.HandleFunc("PUT /api/retirement", s.handlePlanRetirement)
	mux.HandleFunc("GET /api/tax-estimates", s.handleListTaxEstimates)
	mux.HandleFunc("POST /api/tax-estimates", s.handleEstimateTax)

	mux.HandleFunc("POST /api/calc/emergency-fund", handleCalcEmergencyFund)
	mux.HandleFunc("POST /api/calc/retirement", handleCalcRetirement)
	mux.HandleFunc("POST /api/calc/tax", handleCalcTax)
	mux.HandleFunc("POST /api/calc/debt-payoff", handleCalcDebtPayoff)
}

// Shutdown stops background routines and then the HTTP server. Safe to call
// more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateOverviews drops every cached month whenever the ledger's expenses
// change. An update may move an expense between months, so per-key
// invalidation is not enough.
func (s *Server) invalidateOverviews() {
	s.overviewCache.Purge()
}

func (s *Server) getOverview(ctx context.Context, month string) (core.MonthOverview, error) {
	if month == "" {
		month = s.ledger.Today().YearMonth()
	}
	if ov, ok := s.overviewCache.Get(month); ok {
		log.FromContext(ctx).DebugContext(ctx, "Overview cache hit", log.FieldMonth, month)
		return ov, nil
	}
	ov, err := s.ledger.Overview(month)
	if err != nil {
		return core.MonthOverview{}, err
	}
	s.overviewCache.Set(month, ov)
	return ov, nil
}
