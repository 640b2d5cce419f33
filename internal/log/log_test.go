package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLogger_ComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, ComponentApp).WithComponent(ComponentCustomer)

	l.Info("hello", FieldCustomerID, 4)

	out := buf.String()
	if strings.Count(out, "component=") != 1 {
		t.Errorf("component should appear once: %s", out)
	}
	if !strings.Contains(out, "component=customer") || !strings.Contains(out, "customer_id=4") {
		t.Errorf("unexpected output: %s", out)
	}
	if l.Component() != ComponentCustomer {
		t.Errorf("Component() = %q", l.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithCustomer(2, "Bob The Builder").
		WithChanged([]string{"email"}).
		WithFilter("bob", "", "Developer Account", "").
		WithError(nil)

	if f[FieldCustomerID] != int64(2) || f[FieldCustomerName] != "Bob The Builder" {
		t.Errorf("customer fields missing: %v", f)
	}
	if _, ok := f[FieldFilterStatus]; ok {
		t.Error("empty filter values should be omitted")
	}
	if f[FieldFilterType] != "Developer Account" {
		t.Errorf("filter type = %v", f[FieldFilterType])
	}
	if _, ok := f[FieldError]; ok {
		t.Error("nil error should not be recorded")
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Errorf("ToSlice() length = %d, want %d", got, 2*len(f))
	}
}

func TestMiddleware_FromContext(t *testing.T) {
	var buf bytes.Buffer
	base := newBufferLogger(&buf, ComponentHTTP)

	var got *Logger
	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
			got.Info("inside")
		})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/customers", nil))

	if got == nil {
		t.Fatal("logger not found in context")
	}
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("request id missing: %s", buf.String())
	}

	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("missing logger should fall back to the default")
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentHTTP))
	ctx := context.Background()
	r := httptest.NewRequest(http.MethodPost, "/customers/4", nil)

	sl.LogHTTPEnd(ctx, r, http.StatusUnprocessableEntity, 12, "10.0.0.1")
	sl.LogCustomerUpdated(ctx, 4, "Diana Prince", []string{"accountStatus"})
	sl.LogLoginAttempt(ctx, "ops@example.com", "10.0.0.1")
	sl.LogError(ctx, "update failed", errors.New("boom"), ComponentCustomer, OpUpdate, nil)

	out := buf.String()
	for _, want := range []string{
		"level=WARN", "status_code=422",
		`msg="Customer updated"`, "customer_id=4",
		"email=ops@example.com",
		"level=ERROR", "error=boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "password") {
		t.Error("login attempt must not record a password")
	}
}
