package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"gastos/internal/core"
	"gastos/internal/format"
	"gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
)

// Ledger is what the API needs from the ledger service.
type Ledger interface {
	Categories() []core.CategoryDef
	Snapshot() core.Snapshot
	EntryCount() int
	Subscribe(fn func(core.Snapshot)) (cancel func())
	Entry(id string) (core.Entry, error)
	SelectMonth(ctx context.Context, id string) (core.Snapshot, error)
	SelectNextMonth(ctx context.Context) core.Snapshot
	SelectPreviousMonth(ctx context.Context) core.Snapshot
	AddEntry(ctx context.Context, in core.EntryInput) (core.Entry, error)
	UpdateEntry(ctx context.Context, id string, in core.EntryInput) (core.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// Options configures a Server. Zero values pick the defaults.
type Options struct {
	Logger            *log.Logger
	Locale            string
	Currency          string
	RateLimit         int
	HeartbeatInterval time.Duration
}

// Server is the JSON API. It embeds http.Server so callers use
// ListenAndServe directly; Shutdown also ends open event streams.
type Server struct {
	http.Server

	ledger    Ledger
	logger    *log.Logger
	formatter format.Formatter
	started   time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	heartbeat time.Duration

	// baseCtx is the parent of every request context; cancelling it closes
	// long-lived streams before http.Server.Shutdown waits for them.
	baseCtx    context.Context
	cancelBase context.CancelFunc

	shutdownOnce sync.Once
}

const defaultHeartbeat = 25 * time.Second

// NewServer wires routes and middleware around ledger.
func NewServer(addr string, ledger Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = defaultHeartbeat
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	detector := security.NewDetector()

	s := &Server{
		ledger:     ledger,
		logger:     logger,
		formatter:  format.New(opts.Locale, opts.Currency),
		started:    time.Now(),
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
		detector:   detector,
		tracer:     trace.NewMiddleware(logger.WithComponent(log.ComponentTrace), detector.ExtractClientIP),
		heartbeat:  opts.HeartbeatInterval,
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/month", s.handleGetMonth)
	mux.HandleFunc("PUT /api/month", s.handleSelectMonth)
	mux.HandleFunc("POST /api/month/next", s.handleNextMonth)
	mux.HandleFunc("POST /api/month/previous", s.handlePreviousMonth)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/entries", s.handleCreateEntry)
	mux.HandleFunc("GET /api/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("PUT /api/entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("GET /api/events", s.handleEvents)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}
	return s
}

// middleware applies the chain outermost first: logger, request id, access
// log, security headers, attack detection, then rate limiting of writes.
func (s *Server) middleware(h http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		log.Middleware(s.logger),
		s.tracer.Handler,
		log.AccessLog,
		security.Headers(security.DefaultHeadersConfig()),
		s.detector.Middleware,
		s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			TooManyRequestsError().Write(w)
		}, http.MethodPost, http.MethodPut, http.MethodDelete),
	}
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cancelBase()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
