package sports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	appdb "github.com/codr1/Arena/internal/db"
	"github.com/codr1/Arena/internal/testutil"
)

func setupSportsTest(t *testing.T) *appdb.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	prevQueries := queries
	prevNow := timeNow
	InitHandlers(database)
	timeNow = func() time.Time { return time.Date(2026, 5, 10, 15, 0, 0, 0, time.Local) }
	t.Cleanup(func() {
		queries = prevQueries
		timeNow = prevNow
	})
	return database
}

func postSportForm(values url.Values, htmxRequest bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sports", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmxRequest {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	HandleSportCreate(rec, req)
	return rec
}

func TestHandleSportCreate(t *testing.T) {
	database := setupSportsTest(t)

	rec := postSportForm(url.Values{"name": {"  Cricket "}, "date": {"2026-05-10"}}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("HX-Trigger") != "refreshSportsList" {
		t.Fatalf("expected refresh trigger, got %q", rec.Header().Get("HX-Trigger"))
	}

	sport, err := database.Queries.GetSportByName(context.Background(), "Cricket")
	if err != nil {
		t.Fatalf("expected trimmed sport to exist: %v", err)
	}
	if got := sport.EventDate.Format("2006-01-02"); got != "2026-05-10" {
		t.Fatalf("unexpected event date %s", got)
	}
}

func TestHandleSportCreateValidation(t *testing.T) {
	setupSportsTest(t)

	tests := []struct {
		name   string
		values url.Values
		status int
		body   string
	}{
		{name: "missing name", values: url.Values{"name": {" "}, "date": {"2026-06-01"}}, status: http.StatusBadRequest, body: "Sport name is required"},
		{name: "missing date", values: url.Values{"name": {"Chess"}}, status: http.StatusBadRequest, body: "Event date is required"},
		{name: "bad date", values: url.Values{"name": {"Chess"}, "date": {"06/01/2026"}}, status: http.StatusBadRequest, body: "YYYY-MM-DD"},
		{name: "past date", values: url.Values{"name": {"Chess"}, "date": {"2026-05-09"}}, status: http.StatusBadRequest, body: "cannot be in the past"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSportForm(tt.values, false)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("expected body to contain %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestHandleSportCreateDuplicate(t *testing.T) {
	database := setupSportsTest(t)
	testutil.CreateSport(t, database, "Football")

	rec := postSportForm(url.Values{"name": {"football"}, "date": {"2026-07-01"}}, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sport already exists") {
		t.Fatalf("expected duplicate message in form, got %s", rec.Body.String())
	}
}

func TestHandleSportCreateJSON(t *testing.T) {
	setupSportsTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sports", strings.NewReader(`{"name":"Kabaddi","date":"2026-08-15"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	HandleSportCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["name"] != "Kabaddi" {
		t.Fatalf("unexpected response %v", body)
	}
}

func TestHandleSportDeleteCascades(t *testing.T) {
	database := setupSportsTest(t)
	ctx := context.Background()
	sport := testutil.CreateSport(t, database, "Football")
	a := testutil.CreateTeam(t, database, sport.ID, "Alpha")
	b := testutil.CreateTeam(t, database, sport.ID, "Bravo")
	testutil.CreateMatch(t, database, sport.ID, a.ID, b.ID, "upcoming", 0, 0)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sports/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	HandleSportDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	teams, err := database.Queries.ListTeamsBySport(ctx, sport.ID)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 0 {
		t.Fatalf("expected teams to be deleted with the sport, got %d", len(teams))
	}
	matches, err := database.Queries.ListMatchesBySport(ctx, sport.ID)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected matches to be deleted with the sport, got %d", len(matches))
	}

	rec = httptest.NewRecorder()
	HandleSportDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestHandleHomePage(t *testing.T) {
	database := setupSportsTest(t)
	testutil.CreateSport(t, database, "Football")
	testutil.CreateUser(t, database, "Asha", "9876543210")

	rec := httptest.NewRecorder()
	HandleHomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Football", `id="player-count" class="text-2xl font-bold">1<`, `id="sport-count" class="text-2xl font-bold">1<`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected home page to contain %q", want)
		}
	}
}

func TestHandleSportsListJSON(t *testing.T) {
	database := setupSportsTest(t)
	testutil.CreateSport(t, database, "Football")

	rec := httptest.NewRecorder()
	HandleSportsList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sports", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Sports []struct {
			Name string `json:"name"`
		} `json:"sports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Sports) != 1 || body.Sports[0].Name != "Football" {
		t.Fatalf("unexpected sports %+v", body.Sports)
	}
}
