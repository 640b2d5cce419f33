package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"controlpanel/internal/core"
	applog "controlpanel/internal/log"
	"controlpanel/internal/repository"
	"controlpanel/internal/repository/memory"
	"controlpanel/internal/services"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []core.CustomerChange
}

func (p *recordingPublisher) PublishCustomerUpdated(_ context.Context, change core.CustomerChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, change)
	return nil
}

type brokenProbe struct{}

func (brokenProbe) ListCustomers(context.Context) ([]core.Customer, error) {
	return nil, errors.New("sheet unavailable")
}

type testServer struct {
	*Server
	store *memory.Store
	pub   *recordingPublisher
}

func newTestServer(t *testing.T, mutate func(*Deps)) testServer {
	t.Helper()
	store := memory.NewSample()
	pub := &recordingPublisher{}
	clock := func() time.Time { return time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC) }

	deps := Deps{
		Customers:    services.NewCustomerService(store, store, pub).WithClock(clock),
		Transactions: services.NewTransactionService(store, store),
		Dashboard:    services.NewDashboardService(store, store),
		Probe:        store,
		Logger: applog.New(applog.Config{
			Component: applog.ComponentApp,
			Handler:   slog.NewTextHandler(io.Discard, nil),
		}),
		BackendName: "memory",
		Version:     "test-1.0",
	}
	if mutate != nil {
		mutate(&deps)
	}
	srv := NewServer(":0", deps)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return testServer{Server: srv, store: store, pub: pub}
}

func (ts testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rr, req)
	return rr
}

func (ts testServer) get(path string) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (ts testServer) post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return ts.do(req)
}

func TestPagesRender(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"Hosting control panel", `href="/dashboard"`, `href="/customers"`, `href="/transactions"`, `href="/settings"`, `href="/login"`}},
		{"/dashboard", []string{"Outstanding", "110 000 DA", "Account status"}},
		{"/customers", []string{"Alice Wonderland", "Ethan Hunt", `<option value="All" selected>`}},
		{"/transactions", []string{"INV-001", "PAY-005", "Alice Wonderland"}},
		{"/login", []string{`name="email"`, `name="password"`}},
		{"/settings", []string{"memory", "test-1.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := ts.get(tt.path)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
			for _, want := range tt.want {
				assert.Contains(t, rr.Body.String(), want)
			}
		})
	}
}

func TestCustomerListFilters(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/customers?q=alice")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Alice Wonderland")
	assert.NotContains(t, rr.Body.String(), "Bob The Builder")

	rr = ts.get("/customers?status=Blocked&type=All")
	assert.Contains(t, rr.Body.String(), "Diana Prince")
	assert.NotContains(t, rr.Body.String(), "Alice Wonderland")
	assert.Contains(t, rr.Body.String(), `<option value="Blocked" selected>`)
}

func TestCustomerListHTMXFragment(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/customers?q=zzz", nil)
	req.Header.Set("HX-Request", "true")
	rr := ts.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := strings.TrimSpace(rr.Body.String())
	assert.True(t, strings.HasPrefix(body, `<table id="customer-table"`), body)
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "No customers match")
}

func TestCustomerDetail(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/customers/1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, want := range []string{"Alice Wonderland", "WI-REG-111", "WND123456789", "Web Hosting, Domain Registration", "PAY-005", "badge--positive"} {
		assert.Contains(t, body, want)
	}

	rr = ts.get("/customers/3")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `id="identity"`)
	assert.NotContains(t, rr.Body.String(), `id="company"`)
}

func TestCustomerNotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/customers/999", "/customers/abc", "/customers/0", "/customers/999/edit"} {
		t.Run(path, func(t *testing.T) {
			rr := ts.get(path)
			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Contains(t, rr.Body.String(), "Customer not found")
			assert.Contains(t, rr.Body.String(), `href="/customers"`)
		})
	}
}

func TestCustomerEditForm(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/customers/2/edit")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="bob@buildit.dev"`)
	assert.Contains(t, rr.Body.String(), `<option value="Developer Account" selected>`)
	assert.NotContains(t, rr.Body.String(), `<option value="All"`)
}

func TestCustomerUpdate(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.post("/customers/3", url.Values{
		"phone":         {"+1-555-0101"},
		"accountStatus": {"Subscribed"},
	}, false)

	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
	assert.Equal(t, "/customers/3", rr.Header().Get("Location"))

	stored, err := ts.store.FindCustomer(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "+1-555-0101", stored.Phone)
	assert.Equal(t, core.Subscribed, stored.AccountStatus)

	require.Len(t, ts.pub.events, 1)
	assert.Equal(t, []string{"phone", "accountStatus"}, ts.pub.events[0].Changed)
	assert.Equal(t, "Subscribed", ts.pub.events[0].Values["accountStatus"])
}

func TestCustomerUpdateHTMX(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.post("/customers/5", url.Values{"activityStatus": {"Inactive"}}, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/customers/5", rr.Header().Get("HX-Redirect"))
	trigger := rr.Header().Get("HX-Trigger")
	assert.Contains(t, trigger, `"customer:updated"`)
	assert.Contains(t, trigger, `"changed":["activityStatus"]`)
	assert.Contains(t, trigger, `"dashboard:refresh"`)
}

func TestCustomerUpdateValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.post("/customers/2", url.Values{"email": {"not-an-email"}}, false)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid email")
	assert.Contains(t, rr.Body.String(), `value="not-an-email"`)

	stored, err := ts.store.FindCustomer(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bob@buildit.dev", stored.Email)
	assert.Empty(t, ts.pub.events)

	rr = ts.post("/customers/2", url.Values{"accountStatus": {"Frozen"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "#customer-form", rr.Header().Get("HX-Retarget"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rr.Body.String()), `<form id="customer-form"`))
}

func TestCustomerUpdateUnknown(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.post("/customers/999", url.Values{"name": {"Nobody"}}, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, ts.pub.events)
}

func TestUpdateInvalidatesDashboardCache(t *testing.T) {
	ts := newTestServer(t, nil)

	blocked := func() int {
		rr := ts.get("/api/dashboard")
		require.Equal(t, http.StatusOK, rr.Code)
		var sum services.DashboardSummary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
		for _, sc := range sum.ByAccountStatus {
			if sc.Status == string(core.Blocked) {
				return sc.Count
			}
		}
		t.Fatal("Blocked bucket missing")
		return 0
	}

	assert.Equal(t, 1, blocked())
	assert.Equal(t, 1, blocked(), "second read is served from cache")

	rr := ts.post("/customers/3", url.Values{"accountStatus": {"Blocked"}}, false)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 2, blocked())

	metrics := ts.get("/metrics").Body.String()
	assert.Contains(t, metrics, "cache_hits_total 1\n")
	assert.Contains(t, metrics, "cache_misses_total 2\n")
	assert.Contains(t, metrics, "customer_updates_total 1\n")
}

func TestAPICustomers(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/api/customers?status=Blocked")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var items []services.CustomerListItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Diana Prince", items[0].Name)

	rr = ts.get("/api/customers/1")
	require.Equal(t, http.StatusOK, rr.Code)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "Alice Wonderland", detail["name"])
	assert.Equal(t, "15 000 DA", detail["totalTransactions"])

	for _, path := range []string{"/api/customers/999", "/api/customers/nope"} {
		rr = ts.get(path)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.JSONEq(t, `{"error":"customer not found"}`, rr.Body.String())
	}
}

func TestAPITransactions(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/api/transactions?customer=1&status=Paid")
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []services.TransactionRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
		assert.Equal(t, "Alice Wonderland", row.CustomerName)
	}
	assert.ElementsMatch(t, []string{"INV-001", "PAY-001"}, ids)
}

func TestLogin(t *testing.T) {
	var logs bytes.Buffer
	ts := newTestServer(t, func(d *Deps) {
		d.Logger = applog.New(applog.Config{Handler: slog.NewTextHandler(&logs, nil)})
	})

	rr := ts.post("/login", url.Values{"email": {"ops@example.com"}, "password": {"hunter2"}}, false)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?submitted=1", rr.Header().Get("Location"))
	assert.Contains(t, logs.String(), "email=ops@example.com")
	assert.NotContains(t, logs.String(), "hunter2")

	rr = ts.get("/login?submitted=1")
	assert.Contains(t, rr.Body.String(), "not enabled")
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	rr = ts.get("/readyz")
	require.Equal(t, http.StatusOK, rr.Code)
	var ready struct {
		Status string         `json:"status"`
		Checks map[string]any `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "ok", ready.Checks["repository"])

	broken := newTestServer(t, func(d *Deps) { d.Probe = brokenProbe{} })
	rr = broken.get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "sheet unavailable")

	var none repository.CustomerLister
	unconfigured := newTestServer(t, func(d *Deps) { d.Probe = none })
	assert.Equal(t, http.StatusServiceUnavailable, unconfigured.get("/readyz").Code)
}

func TestMiddlewareChain(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/customers")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))

	rr = ts.get("/static/style.css")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Cache-Control"), "max-age=3600")
	assert.Contains(t, rr.Body.String(), ".badge--positive")

	rr = ts.do(httptest.NewRequest("TRACE", "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRateLimitOnPost(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) { d.RateLimitPerMinute = 2 })

	for i := 0; i < 2; i++ {
		rr := ts.post("/login", url.Values{"email": {"a@b.c"}}, false)
		require.Equal(t, http.StatusSeeOther, rr.Code, "attempt %d", i)
	}
	rr := ts.post("/login", url.Values{"email": {"a@b.c"}}, false)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, ts.get("/customers").Code, "GET is not limited")
	assert.Contains(t, ts.get("/metrics").Body.String(), "rate_limit_hits_total 1\n")
}
