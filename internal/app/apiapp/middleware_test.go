package apiapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/config"
)

func TestRequestLoggerRecordsStatusAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.New(core))
	r.Get("/teapot", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTeapot)
	}

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Fatalf("unexpected status field: %v", fields["status"])
	}
	if fields["request_id"] != "req-42" {
		t.Fatalf("unexpected request_id field: %v", fields["request_id"])
	}
	if fields["path"] != "/teapot" {
		t.Fatalf("unexpected path field: %v", fields["path"])
	}
}

func TestMiddlewaresRecoverPanics(t *testing.T) {
	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.NewNop())
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestRoutesWithoutBackends(t *testing.T) {
	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.NewNop())
	RegisterRoutes(r, Dependencies{Logger: zap.NewNop(), Config: config.Default()})

	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{name: "checkout get", method: http.MethodGet, path: "/api/checkout", wantStatus: http.StatusMethodNotAllowed, wantBody: `{"error":"method not allowed"}`},
		{name: "checkout unavailable", method: http.MethodPost, path: "/api/checkout", body: `{"seriesId":"s","userId":"u"}`, wantStatus: http.StatusInternalServerError, wantBody: `{"error":"internal error"}`},
		{name: "webhook get", method: http.MethodGet, path: "/api/webhook", wantStatus: http.StatusMethodNotAllowed, wantBody: "Method not allowed"},
		{name: "webhook unavailable", method: http.MethodPost, path: "/api/webhook", body: `{"type":"payment"}`, wantStatus: http.StatusOK, wantBody: "Error"},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != tc.wantStatus {
			t.Fatalf("%s: unexpected status: got %d want %d", tc.name, rr.Code, tc.wantStatus)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != tc.wantBody {
			t.Fatalf("%s: unexpected body: got %q want %q", tc.name, got, tc.wantBody)
		}
	}
}
