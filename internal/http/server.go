package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/ids"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/store"
	"fintrack/internal/views"
)

const (
	dashboardCacheSize = 16
	dashboardCacheTTL  = 5 * time.Minute
	cacheCleanupEvery  = time.Minute
	readyTimeout       = 5 * time.Second
	maxBodyBytes       = 1 << 20
)

// Options configures NewServer. Store is required; the other fields have
// defaults.
type Options struct {
	Addr  string
	Store *store.Store
	IDs   ids.Generator

	// Ready checks the storage backend for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error

	Logger             *applog.Logger
	RateLimitPerMinute int

	// Now supplies the default transaction date.
	Now func() time.Time
}

// Server is the JSON API over a store.Store.
type Server struct {
	http.Server
	store  *store.Store
	ids    ids.Generator
	ready  func(ctx context.Context) error
	logger *applog.Logger
	now    func() time.Time

	// Dashboards are keyed by store revision, so a new command never sees
	// a stale entry.
	dashboards *cache.LRUCache[int64, views.Dashboard]
	caches     *cache.Manager

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	securityHeaders  *security.HeadersMiddleware
	traceMiddleware  *trace.Middleware

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime          time.Time
	commands        atomic.Int64
	rejected        atomic.Int64
	persistFailures atomic.Int64
}

// NewServer wires routes and middleware. Call Shutdown to stop the
// background cleanup goroutines along with the listener.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	generator := opts.IDs
	if generator == nil {
		generator = ids.UUID{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ready := opts.Ready
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		store:      opts.Store,
		ids:        generator,
		ready:      ready,
		logger:     logger,
		now:        now,
		dashboards: cache.NewLRUCache[int64, views.Dashboard](dashboardCacheSize, dashboardCacheTTL),
		caches:     cache.NewManager(logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		securityDetector: security.NewDetector(),
		securityHeaders:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)
	s.caches.Register(s.dashboards)
	s.caches.StartCleanup(cacheCleanupEvery)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/meta", s.handleMeta)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("PUT /api/accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, ratelimit.ReadOnly, s.handleRateLimited)(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = s.securityDetector.Middleware(logger)(handler)
	handler = s.securityHeaders.Middleware(handler)
	s.Handler = handler

	return s
}

// Shutdown stops background goroutines and gracefully shuts down the
// listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.caches.Stop()
	})
	return s.Server.Shutdown(ctx)
}

// dashboard returns the dashboard of the current state, computing it once
// per revision.
func (s *Server) dashboard() (views.Dashboard, int64) {
	state, revision := s.store.Snapshot()
	d := s.dashboards.GetOrCompute(revision, func() views.Dashboard {
		return views.BuildDashboard(state)
	})
	return d, revision
}
