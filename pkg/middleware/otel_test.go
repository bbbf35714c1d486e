package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestOpenTelemetryMiddleware_PassesThrough(t *testing.T) {
	mw := OpenTelemetry()
	var sawSpanContext bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The span context is injected even with the no-op global provider.
		_ = trace.SpanFromContext(r.Context())
		sawSpanContext = true
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/users", nil))

	if !sawSpanContext {
		t.Fatal("handler was not invoked")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestOpenTelemetryMiddleware_Filter(t *testing.T) {
	mw := OpenTelemetry(WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	}))

	var calls int
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/page", nil))

	if calls != 2 {
		t.Errorf("handler called %d times, filter must not drop requests", calls)
	}
}

func TestOpenTelemetryMiddleware_AttributeExtractor(t *testing.T) {
	var extractorCalls int
	mw := OpenTelemetry(
		WithTracerName("test"),
		WithAttributeExtractor(func(r *http.Request) []attribute.KeyValue {
			extractorCalls++
			return []attribute.KeyValue{attribute.String("tenant", "acme")}
		}),
	)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if extractorCalls != 1 {
		t.Errorf("extractor called %d times, want 1", extractorCalls)
	}
}
