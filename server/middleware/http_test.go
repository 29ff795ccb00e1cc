package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/ntfywatch/errors"
	"github.com/kbukum/ntfywatch/logger"
	"github.com/kbukum/ntfywatch/server/middleware"
)

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_NoPanic(t *testing.T) {
	log := logger.NewDefault("test")
	handler := middleware.Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_Panic(t *testing.T) {
	log := logger.NewDefault("test")
	handler := middleware.Recovery(log)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("test panic")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/test", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var body errors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != errors.ErrCodeInternal {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesID(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(middleware.RequestIDHeader) == "" {
			t.Error("expected X-Request-Id in request headers")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected X-Request-Id in response headers")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "custom-id-123")
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(middleware.RequestIDHeader); got != "custom-id-123" {
		t.Fatalf("expected custom-id-123, got %s", got)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func TestCORS(t *testing.T) {
	cfg := middleware.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}}
	cfg.ApplyDefaults()

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"allowed origin", http.MethodGet, "http://localhost:5173", "http://localhost:5173", http.StatusOK},
		{"disallowed origin", http.MethodGet, "https://evil.example", "", http.StatusOK},
		{"no origin", http.MethodGet, "", "", http.StatusOK},
		{"preflight", http.MethodOptions, "http://localhost:5173", "http://localhost:5173", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/api/v1/subscriptions", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	handler := middleware.CORS(middleware.CORSConfig{AllowedOrigins: []string{"*"}})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected echoed origin, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// RequestLogger
// ---------------------------------------------------------------------------

func TestRequestLogger_LogsRequest(t *testing.T) {
	var buf strings.Builder
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/subscriptions", http.NoBody))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	out := buf.String()
	if !strings.Contains(out, `"status":400`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected a warn entry with status 400, got %s", out)
	}
}

func TestRequestLogger_SkipsHealth(t *testing.T) {
	var buf strings.Builder
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	called := false
	handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))

	if !called {
		t.Error("handler should still be called for health endpoints")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got %s", buf.String())
	}
}

// ---------------------------------------------------------------------------
// BodySizeLimit
// ---------------------------------------------------------------------------

func TestBodySizeLimit(t *testing.T) {
	handler := middleware.BodySizeLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		body string
		want int
	}{
		{"short", http.StatusOK},
		{"much too long for the limit", http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", strings.NewReader(tt.body)))
		if rr.Code != tt.want {
			t.Errorf("body %q: status = %d, want %d", tt.body, rr.Code, tt.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 42},
		{"garbage", 42},
		{"1KiB", 1024},
		{"64KiB", 64 * 1024},
		{"1MB", 1000 * 1000},
	}
	for _, tt := range tests {
		if got := middleware.ParseSize(tt.in, 42); got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Chain
// ---------------------------------------------------------------------------

func TestChain_Order(t *testing.T) {
	var order []string

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-before")
			next.ServeHTTP(w, r)
			order = append(order, "m1-after")
		})
	}
	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-before")
			next.ServeHTTP(w, r)
			order = append(order, "m2-after")
		})
	}

	handler := middleware.Chain(m1, m2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	expected := []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Fatalf("position %d: expected %s, got %s (full: %v)", i, v, order[i], order)
		}
	}
}

// ---------------------------------------------------------------------------
// statusWriter: Flush support
// ---------------------------------------------------------------------------

type flushRecorder struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestStatusWriter_Flush(t *testing.T) {
	fr := &flushRecorder{ResponseWriter: httptest.NewRecorder()}

	log := logger.NewDefault("test")
	handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(fr, httptest.NewRequest("GET", "/api/v1/events", http.NoBody))

	if !fr.flushed {
		t.Error("expected Flush to be delegated to underlying writer")
	}
}
