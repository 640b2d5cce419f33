package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"controlpanel/internal/cache"
	applog "controlpanel/internal/log"
	"controlpanel/internal/middleware/ratelimit"
	"controlpanel/internal/middleware/security"
	"controlpanel/internal/middleware/trace"
	"controlpanel/internal/repository"
	"controlpanel/internal/services"
	appweb "controlpanel/web"
)

const summaryCacheKey = "summary"

// pages lists the page templates; each is parsed together with the layout
// and the shared partials.
var pages = []string{
	"home",
	"dashboard",
	"customers",
	"customer_detail",
	"customer_not_found",
	"customer_edit",
	"transactions",
	"login",
	"settings",
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Customers    *services.CustomerService
	Transactions *services.TransactionService
	Dashboard    *services.DashboardService
	// Probe is called by /readyz to check the data source.
	Probe repository.CustomerLister

	Logger      *applog.Logger
	BackendName string
	Version     string

	CacheTTL           time.Duration
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	pages map[string]*template.Template

	customers    *services.CustomerService
	transactions *services.TransactionService
	dashboard    *services.DashboardService
	probe        repository.CustomerLister

	logger      *applog.Logger
	structured  *applog.StructuredLogger
	backendName string
	version     string

	summaryCache     *cache.LRUCache[services.DashboardSummary]
	cacheManager     *cache.Manager
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	customerUpdates int64
	loginAttempts   int64
	cacheHits       int64
	cacheMisses     int64
	uptime          time.Time
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig(slog.LevelInfo))
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	rlConfig := ratelimit.DefaultConfig()
	if deps.RateLimitPerMinute > 0 {
		rlConfig.RequestsPerMinute = deps.RateLimitPerMinute
	}

	s := &Server{
		customers:        deps.Customers,
		transactions:     deps.Transactions,
		dashboard:        deps.Dashboard,
		probe:            deps.Probe,
		logger:           logger.WithComponent(applog.ComponentHTTP),
		structured:       applog.NewStructuredLogger(logger.WithComponent(applog.ComponentHTTP)),
		backendName:      deps.BackendName,
		version:          deps.Version,
		summaryCache:     cache.NewLRUCache[services.DashboardSummary](8, ttl),
		cacheManager:     cache.NewManager(logger.Logger.With(applog.FieldComponent, applog.ComponentCache)),
		rateLimiter:      ratelimit.NewLimiter(rlConfig),
		securityDetector: security.NewDetector(),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, logger)

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	p, err := loadPages()
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
	}
	s.pages = p

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /customers", s.handleCustomers)
	mux.HandleFunc("GET /customers/{id}", s.handleCustomerDetail)
	mux.HandleFunc("GET /customers/{id}/edit", s.handleCustomerEdit)
	mux.HandleFunc("POST /customers/{id}", s.handleCustomerUpdate)
	mux.HandleFunc("GET /transactions", s.handleTransactions)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /settings", s.handleSettings)

	mux.HandleFunc("GET /api/customers", s.handleAPICustomers)
	mux.HandleFunc("GET /api/customers/{id}", s.handleAPICustomer)
	mux.HandleFunc("GET /api/transactions", s.handleAPITransactions)
	mux.HandleFunc("GET /api/dashboard", s.handleAPIDashboard)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Wrapped inside out, so trace runs first and the logger last.
	var h http.Handler = mux
	h = applog.RequestIDMiddleware(trace.FromRequest)(h)
	h = applog.Middleware(s.logger)(h)
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit)(h)
	h = s.securityDetector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.traceMiddleware.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func loadPages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
		"join":  strings.Join,
	}
	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(appweb.TemplatesFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").Write(w)
}

// summary returns the dashboard summary, cached until the TTL expires or a
// customer is updated.
func (s *Server) summary(ctx context.Context) (services.DashboardSummary, error) {
	if sum, ok := s.summaryCache.Get(summaryCacheKey); ok {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		return sum, nil
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	sum, err := s.dashboard.Summary(ctx)
	if err != nil {
		return services.DashboardSummary{}, err
	}
	s.summaryCache.Set(summaryCacheKey, sum)
	return sum, nil
}

// Shutdown stops background cleanup and shuts the HTTP server down. Safe
// to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
