package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codr1/Arena/internal/api/authz"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithOwnerAuth(t *testing.T) {
	owner := &authz.AuthUser{ID: authz.OwnerID, Role: authz.RoleOwner}
	visitor := &authz.AuthUser{ID: 42, Role: "player"}

	tests := []struct {
		name         string
		method       string
		htmx         bool
		user         *authz.AuthUser
		wantStatus   int
		wantLocation string
		wantHXRedir  string
	}{
		{name: "page load redirects", method: http.MethodGet, wantStatus: http.StatusSeeOther, wantLocation: "/owner/login"},
		{name: "htmx gets redirect header", method: http.MethodGet, htmx: true, wantStatus: http.StatusUnauthorized, wantHXRedir: "/owner/login"},
		{name: "api write unauthorized", method: http.MethodPost, wantStatus: http.StatusUnauthorized},
		{name: "non owner forbidden", method: http.MethodPost, user: visitor, wantStatus: http.StatusForbidden},
		{name: "owner allowed", method: http.MethodDelete, user: owner, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/owner/matches", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			if tt.user != nil {
				req = req.WithContext(authz.ContextWithUser(req.Context(), tt.user))
			}

			rec := httptest.NewRecorder()
			WithOwnerAuth(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Fatalf("expected Location %q, got %q", tt.wantLocation, got)
			}
			if got := rec.Header().Get("HX-Redirect"); got != tt.wantHXRedir {
				t.Fatalf("expected HX-Redirect %q, got %q", tt.wantHXRedir, got)
			}
		})
	}
}

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected request ID in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("expected header %q to match context %q", got, seen)
	}
}

func TestWithRecovery(t *testing.T) {
	handler := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestChainMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := ChainMiddleware(okHandler(), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestResponseWriterStatus(t *testing.T) {
	rw := wrapResponseWriter(httptest.NewRecorder())
	if rw.statusCode() != http.StatusOK {
		t.Fatalf("expected default 200, got %d", rw.statusCode())
	}
	rw.WriteHeader(http.StatusTeapot)
	if rw.statusCode() != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rw.statusCode())
	}

	if _, _, err := rw.Hijack(); err == nil {
		t.Fatal("expected hijack to fail on a recorder")
	}
}

func TestWithRequestIDKeepsInboundID(t *testing.T) {
	const inbound = "6f1c9a52-3d0e-4b7a-9c1e-2f8d7a6b5c4d"

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "uuid kept", header: inbound, keep: true},
		{name: "garbage replaced", header: "not-an-id"},
		{name: "missing generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if tt.keep && seen != tt.header {
				t.Fatalf("expected inbound ID %q, got %q", tt.header, seen)
			}
			if !tt.keep && (seen == "" || seen == tt.header) {
				t.Fatalf("expected a fresh ID, got %q", seen)
			}
		})
	}
}

func TestResponseWriterCountsBytes(t *testing.T) {
	rw := wrapResponseWriter(httptest.NewRecorder())
	rw.Write([]byte("hello "))
	rw.Write([]byte("arena"))
	if rw.written != 11 {
		t.Fatalf("expected 11 bytes, got %d", rw.written)
	}
}
