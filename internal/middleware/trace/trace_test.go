package trace

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartmoney/internal/log"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	var logged *log.Logger
	h := NewMiddleware(nil, nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		logged = log.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("request id = %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("header id %q != context id %q", rec.Header().Get(HeaderRequestID), seen)
	}
	if logged == nil || logged.Component() == "unknown" {
		t.Fatal("expected request logger in context")
	}
}

func TestMiddleware_KeepsIncomingID(t *testing.T) {
	h := NewMiddleware(nil, log.Discard()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"short id kept", "abc-123", true},
		{"oversized id replaced", strings.Repeat("x", 65), false},
		{"empty generated", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			got := rec.Header().Get(HeaderRequestID)
			if (got == tt.incoming) != tt.keep {
				t.Fatalf("got id %q, keep=%v", got, tt.keep)
			}
		})
	}
}

func TestMiddleware_Stats(t *testing.T) {
	m := NewMiddleware(func(*http.Request) string { return "10.0.0.1" }, log.Discard())
	status := http.StatusOK
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	for _, s := range []int{200, 404, 500, 503} {
		status = s
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	st := m.Stats()
	if st.TotalRequests != 4 || st.ErrorResponses != 2 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestGenerateRequestID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
