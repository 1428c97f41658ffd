package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/views"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	})
}

// handleReady checks the storage backend and reports cache and limiter state
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if err := s.ready(ctx); err != nil {
		checks["storage"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	checks["store"] = map[string]any{
		"revision": s.store.Revision(),
		"status":   "ok",
	}
	checks["cache"] = map[string]any{
		"dashboard_entries": s.dashboards.Size(),
		"status":            "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()
	cacheStats := s.dashboards.Stats()
	state, revision := s.store.Snapshot()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_errors_total Total number of HTTP 5xx responses\n")
	fmt.Fprintf(w, "# TYPE http_errors_total counter\n")
	fmt.Fprintf(w, "http_errors_total %d\n\n", traceMetrics.ErrorRequests)

	fmt.Fprintf(w, "# HELP http_response_time_microseconds Average response time\n")
	fmt.Fprintf(w, "# TYPE http_response_time_microseconds gauge\n")
	fmt.Fprintf(w, "http_response_time_microseconds %d\n\n", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP commands_total Commands applied to the store\n")
	fmt.Fprintf(w, "# TYPE commands_total counter\n")
	fmt.Fprintf(w, "commands_total %d\n\n", s.appMetrics.commands.Load())

	fmt.Fprintf(w, "# HELP commands_rejected_total Commands refused by validation\n")
	fmt.Fprintf(w, "# TYPE commands_rejected_total counter\n")
	fmt.Fprintf(w, "commands_rejected_total %d\n\n", s.appMetrics.rejected.Load())

	fmt.Fprintf(w, "# HELP persist_failures_total Commands applied but not saved\n")
	fmt.Fprintf(w, "# TYPE persist_failures_total counter\n")
	fmt.Fprintf(w, "persist_failures_total %d\n\n", s.appMetrics.persistFailures.Load())

	fmt.Fprintf(w, "# HELP store_revision Current store revision\n")
	fmt.Fprintf(w, "# TYPE store_revision gauge\n")
	fmt.Fprintf(w, "store_revision %d\n\n", revision)

	fmt.Fprintf(w, "# HELP store_entities Current number of stored entities\n")
	fmt.Fprintf(w, "# TYPE store_entities gauge\n")
	fmt.Fprintf(w, "store_entities{type=\"account\"} %d\n", len(state.Accounts))
	fmt.Fprintf(w, "store_entities{type=\"transaction\"} %d\n\n", len(state.Transactions))

	fmt.Fprintf(w, "# HELP cache_hits_total Total dashboard cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total %d\n\n", cacheStats.Hits)

	fmt.Fprintf(w, "# HELP cache_misses_total Total dashboard cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total %d\n\n", cacheStats.Misses)

	fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries{type=\"dashboard\"} %d\n\n", cacheStats.Size)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", time.Since(s.appMetrics.uptime).Seconds())
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

type stateResponse struct {
	Accounts     []core.Account     `json:"accounts"`
	Transactions []core.Transaction `json:"transactions"`
	Revision     int64              `json:"revision"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, revision := s.store.Snapshot()
	resp := stateResponse{
		Accounts:     state.Accounts,
		Transactions: state.Transactions,
		Revision:     revision,
	}
	if resp.Accounts == nil {
		resp.Accounts = []core.Account{}
	}
	if resp.Transactions == nil {
		resp.Transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type metaResponse struct {
	IncomeCategories  []string        `json:"incomeCategories"`
	ExpenseCategories []string        `json:"expenseCategories"`
	Currencies        []core.Currency `json:"currencies"`
	DefaultCurrency   string          `json:"defaultCurrency"`
}

// handleMeta lists the choices a client form offers.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metaResponse{
		IncomeCategories:  core.CategoriesFor(core.Income),
		ExpenseCategories: core.CategoriesFor(core.Expense),
		Currencies:        core.Currencies(),
		DefaultCurrency:   core.DefaultCurrency,
	})
}

type dashboardResponse struct {
	views.Dashboard
	Revision int64 `json:"revision"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, revision := s.dashboard()
	writeJSON(w, http.StatusOK, dashboardResponse{Dashboard: d, Revision: revision})
}

// submitResult is the outcome of an accepted command.
type submitResult struct {
	state     core.AppState
	revision  int64
	persisted bool
}

// submit validates and applies cmd. It returns false after writing an error
// response. A failed save still counts as applied: the response carries
// PersistWarningHeader and persisted is false.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, cmd store.Command) (submitResult, bool) {
	ctx := r.Context()
	state, revision, err := s.store.Submit(ctx, cmd)
	res := submitResult{state: state, revision: revision}
	switch {
	case err == nil:
		s.appMetrics.commands.Add(1)
		res.persisted = true
		return res, true
	case errors.Is(err, store.ErrPersist):
		s.appMetrics.commands.Add(1)
		s.appMetrics.persistFailures.Add(1)
		w.Header().Set(PersistWarningHeader, "state applied but not saved")
		applog.FromContext(ctx).WarnContext(ctx, "Command applied without saving",
			applog.FieldOperation, cmd.Name(),
			applog.FieldEntityID, cmd.EntityID(),
			applog.FieldError, err)
		return res, true
	default:
		s.appMetrics.rejected.Add(1)
		respondError(w, r, cmd.Name(), err)
		return res, false
	}
}
