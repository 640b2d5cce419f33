package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	applog "controlpanel/internal/log"
)

// pageData is what every page template receives. Nav marks the active
// navigation link.
type pageData struct {
	Title   string
	Nav     string
	Version string
	Data    any
}

// render executes the named page inside the layout. When fragment is set
// and the request comes from htmx, only that template is rendered.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, fragment string, pd pageData) {
	t, ok := s.pages[page]
	if !ok {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			"template", page,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	pd.Version = s.version

	name, data := "layout", any(pd)
	if fragment != "" && isHTMX(r) {
		name, data = fragment, pd.Data
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		s.structured.LogError(r.Context(), "Template execution failed", err,
			applog.ComponentTemplate, applog.OpRender, applog.LogFields{"template": page})
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.structured.LogError(r.Context(), msg, err, applog.ComponentHTTP, applog.OpRead,
		applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
	if isHTMX(r) {
		InternalServerError("Something went wrong. Please try again.").Write(w)
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", "", pageData{Title: "Home", Nav: "home"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := s.summary(r.Context())
	if err != nil {
		s.serverError(w, r, "Dashboard summary failed", err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", "dashboard_summary",
		pageData{Title: "Dashboard", Nav: "dashboard", Data: sum})
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := s.summary(r.Context())
	if err != nil {
		s.structured.LogError(r.Context(), "Dashboard summary failed", err, applog.ComponentHTTP, applog.OpRead, nil)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type settingsView struct {
	Backend string
	Version string
	Uptime  string
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "settings", "", pageData{
		Title: "Settings",
		Nav:   "settings",
		Data: settingsView{
			Backend: s.backendName,
			Version: s.version,
			Uptime:  time.Since(s.appMetrics.uptime).Round(time.Second).String(),
		},
	})
}

type loginView struct {
	Email   string
	Message string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	view := loginView{}
	if r.URL.Query().Get("submitted") == "1" {
		view.Message = "Sign-in is not enabled on this panel yet."
	}
	s.render(w, r, http.StatusOK, "login", "", pageData{Title: "Login", Nav: "login", Data: view})
}

// handleLogin records the attempt and sends the user back to the form.
// The password is never read.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	email := sanitizeInput(r.PostForm.Get("email"))
	atomic.AddInt64(&s.appMetrics.loginAttempts, 1)
	s.structured.LogLoginAttempt(r.Context(), email, s.securityDetector.ExtractClientIP(r))

	target := "/login?" + url.Values{"submitted": {"1"}}.Encode()
	if isHTMX(r) {
		NewHTMXResponse().Redirect(target).Write(w)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	})
}

// handleReady checks the templates and the data source.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.pages == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	switch {
	case s.probe == nil:
		checks["repository"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	default:
		if _, err := s.probe.ListCustomers(ctx); err != nil {
			checks["repository"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["repository"] = "ok"
		}
	}

	checks["cache"] = map[string]any{"entries": s.summaryCache.Size(), "status": "ok"}
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients(), "status": "ok"}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"backend":   s.backendName,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}

	w.WriteHeader(http.StatusOK)
	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "counter", "HTTP responses with a 5xx status", traceMetrics.ServerErrors)
	metric("http_request_duration_avg_ms", "gauge", "Mean request duration in milliseconds", traceMetrics.AverageLatency().Milliseconds())
	metric("customer_updates_total", "counter", "Customer edits stored", atomic.LoadInt64(&s.appMetrics.customerUpdates))
	metric("login_attempts_total", "counter", "Login form submissions", atomic.LoadInt64(&s.appMetrics.loginAttempts))
	metric("cache_hits_total", "counter", "Dashboard summary cache hits", atomic.LoadInt64(&s.appMetrics.cacheHits))
	metric("cache_misses_total", "counter", "Dashboard summary cache misses", atomic.LoadInt64(&s.appMetrics.cacheMisses))
	metric("cache_entries", "gauge", "Current cache entries", s.summaryCache.Size())
	metric("rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Suspicious requests detected", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.appMetrics.uptime).Seconds()))
}
