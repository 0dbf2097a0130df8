// Package http serves the JSON API for the dashboard: record, debt and
// member CRUD plus the computed overview, projection and reminder views.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/finance"
	"bilancio/internal/metrics"
	"bilancio/internal/services"
)

// Store is the persistence surface the handlers need.
type Store interface {
	CreateRecord(ctx context.Context, rec core.MoneyRecord) (core.MoneyRecord, error)
	ListRecords(ctx context.Context) ([]core.MoneyRecord, error)
	GetRecord(ctx context.Context, id string) (core.MoneyRecord, error)
	UpdateRecord(ctx context.Context, rec core.MoneyRecord) error
	SoftDeleteRecord(ctx context.Context, id string) error

	CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error)
	ListDebts(ctx context.Context) ([]core.Debt, error)
	UpdateDebt(ctx context.Context, d core.Debt) error
	DeleteDebt(ctx context.Context, id string) error

	CreateMember(ctx context.Context, m core.HouseholdMember) (core.HouseholdMember, error)
	ListMembers(ctx context.Context) ([]core.HouseholdMember, error)
	DeleteMember(ctx context.Context, id string) error
}

// Options tune the server; zero values fall back to sensible defaults.
type Options struct {
	Addr          string
	HorizonMonths int
	CacheMaxSize  int
	CacheTTL      time.Duration
	Now           func() time.Time
}

type Server struct {
	http.Server

	store     Store
	dashboard *services.DashboardService
	reminders *services.ReminderService
	metrics   *metrics.Metrics

	horizonMonths int
	now           func() time.Time
	startedAt     time.Time

	rateLimiter     *rateLimiter
	overviewCache   *cache.LRU[services.Overview]
	projectionCache *cache.LRU[[]finance.CashFlowEntry]

	shutdownOnce sync.Once
}

func NewServer(store Store, dashboard *services.DashboardService, reminders *services.ReminderService, m *metrics.Metrics, opts Options) *Server {
	if opts.HorizonMonths <= 0 {
		opts.HorizonMonths = finance.DefaultHorizonMonths
	}
	if opts.CacheMaxSize <= 0 {
		opts.CacheMaxSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		store:           store,
		dashboard:       dashboard,
		reminders:       reminders,
		metrics:         m,
		horizonMonths:   opts.HorizonMonths,
		now:             opts.Now,
		startedAt:       time.Now(),
		rateLimiter:     newRateLimiter(),
		overviewCache:   cache.New[services.Overview](opts.CacheMaxSize, opts.CacheTTL),
		projectionCache: cache.New[[]finance.CashFlowEntry](opts.CacheMaxSize, opts.CacheTTL),
	}
	s.overviewCache.StartJanitor(10 * time.Minute)
	s.projectionCache.StartJanitor(10 * time.Minute)

	s.Server.Addr = opts.Addr
	s.Server.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("GET /api/records/{id}", s.handleGetRecord)
	mux.HandleFunc("PUT /api/records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)

	mux.HandleFunc("POST /api/debts", s.handleCreateDebt)
	mux.HandleFunc("GET /api/debts", s.handleListDebts)
	mux.HandleFunc("PUT /api/debts/{id}", s.handleUpdateDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", s.handleDeleteDebt)
	mux.HandleFunc("GET /api/debts/summary", s.handleDebtSummary)

	mux.HandleFunc("POST /api/members", s.handleCreateMember)
	mux.HandleFunc("GET /api/members", s.handleListMembers)
	mux.HandleFunc("DELETE /api/members/{id}", s.handleDeleteMember)

	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/projection", s.handleProjection)
	mux.HandleFunc("GET /api/reminders/preview", s.handleReminderPreview)

	var handler http.Handler = s.metricsMiddleware(mux)
	handler = s.rateLimitMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	return handler
}

// invalidateCaches drops memoized views after any write.
func (s *Server) invalidateCaches() {
	s.overviewCache.Clear()
	s.projectionCache.Clear()
}

// Shutdown stops the HTTP listener and the cache janitors.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.overviewCache.StopJanitor()
		s.projectionCache.StopJanitor()
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
