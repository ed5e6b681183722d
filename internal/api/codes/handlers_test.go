package codes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	appdb "github.com/codr1/Arena/internal/db"
	"github.com/codr1/Arena/internal/testutil"
)

func setupCodesTest(t *testing.T) *appdb.DB {
	t.Helper()

	db := testutil.NewTestDB(t)
	prev := queries
	InitHandlers(db)
	t.Cleanup(func() { queries = prev })
	return db
}

func postCode(code string, htmxRequest bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/codes", strings.NewReader(url.Values{"code": {code}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmxRequest {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	HandleCodeCreate(rec, req)
	return rec
}

func TestHandleCodeCreate(t *testing.T) {
	db := setupCodesTest(t)

	rec := postCode("  SUMMER24 ", true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("HX-Trigger") != "refreshCodesList" {
		t.Fatal("expected list refresh trigger")
	}
	if _, err := db.Queries.GetTournamentCode(context.Background(), "SUMMER24"); err != nil {
		t.Fatalf("expected trimmed code to be stored: %v", err)
	}
}

func TestHandleCodeCreateErrors(t *testing.T) {
	db := setupCodesTest(t)
	testutil.CreateCode(t, db, "SUMMER24")

	tests := []struct {
		name   string
		code   string
		status int
		body   string
	}{
		{name: "blank", code: "   ", status: http.StatusBadRequest, body: "Code is required"},
		{name: "too long", code: strings.Repeat("X", maxCodeLen+1), status: http.StatusBadRequest, body: "Code is too long"},
		{name: "duplicate", code: "SUMMER24", status: http.StatusConflict, body: "Code already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCode(tt.code, true)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("expected %q, got %s", tt.body, rec.Body.String())
			}
		})
	}
}

func TestHandleCodeDelete(t *testing.T) {
	db := setupCodesTest(t)
	testutil.CreateCode(t, db, "WINTER 25")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/codes/WINTER%2025", nil)
	req.SetPathValue("code", "WINTER 25")
	rec := httptest.NewRecorder()
	HandleCodeDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HandleCodeDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleCodesPage(t *testing.T) {
	db := setupCodesTest(t)
	testutil.CreateCode(t, db, "A&B")

	rec := httptest.NewRecorder()
	HandleCodesPage(rec, httptest.NewRequest(http.MethodGet, "/owner/codes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "A&amp;B") || !strings.Contains(body, `hx-delete="/api/v1/codes/A&amp;B"`) {
		t.Fatalf("expected escaped code in page")
	}
}
