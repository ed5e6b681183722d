package teams

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	appdb "github.com/codr1/Arena/internal/db"
	"github.com/codr1/Arena/internal/testutil"
)

func setupTeamsTest(t *testing.T) *appdb.DB {
	t.Helper()

	db := testutil.NewTestDB(t)
	prevDB, prevQueries, prevHub := database, queries, hub
	InitHandlers(db, nil)
	t.Cleanup(func() {
		database, queries, hub = prevDB, prevQueries, prevHub
	})
	return db
}

func postTeam(sportID int64, values url.Values, htmxRequest bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/sports/%d/teams", sportID), strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", fmt.Sprint(sportID))
	if htmxRequest {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	HandleTeamCreate(rec, req)
	return rec
}

func TestHandleTeamCreateWithRoster(t *testing.T) {
	db := setupTeamsTest(t)
	sport := testutil.CreateSport(t, db, "Football")
	asha := testutil.CreateUser(t, db, "Asha", "9876543210")
	ravi := testutil.CreateUser(t, db, "Ravi", "9123456789")

	values := url.Values{"name": {" Tigers "}, "user_id": {fmt.Sprint(asha.ID), fmt.Sprint(ravi.ID), fmt.Sprint(asha.ID)}}
	rec := postTeam(sport.ID, values, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Team struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
		Players []struct {
			Name string `json:"name"`
		} `json:"players"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Team.Name != "Tigers" {
		t.Fatalf("expected trimmed team name, got %q", body.Team.Name)
	}
	if len(body.Players) != 2 {
		t.Fatalf("expected 2 deduplicated players, got %d", len(body.Players))
	}
}

func TestHandleTeamCreateValidation(t *testing.T) {
	db := setupTeamsTest(t)
	sport := testutil.CreateSport(t, db, "Football")
	asha := testutil.CreateUser(t, db, "Asha", "9876543210")

	tests := []struct {
		name   string
		sport  int64
		values url.Values
		status int
	}{
		{name: "missing name", sport: sport.ID, values: url.Values{"user_id": {fmt.Sprint(asha.ID)}}, status: http.StatusBadRequest},
		{name: "no players", sport: sport.ID, values: url.Values{"name": {"Tigers"}}, status: http.StatusBadRequest},
		{name: "bad player id", sport: sport.ID, values: url.Values{"name": {"Tigers"}, "user_id": {"abc"}}, status: http.StatusBadRequest},
		{name: "unknown player", sport: sport.ID, values: url.Values{"name": {"Tigers"}, "user_id": {"999"}}, status: http.StatusBadRequest},
		{name: "unknown sport", sport: 999, values: url.Values{"name": {"Tigers"}, "user_id": {fmt.Sprint(asha.ID)}}, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := postTeam(tt.sport, tt.values, false); rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	teams, err := db.Queries.ListTeamsBySport(context.Background(), sport.ID)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 0 {
		t.Fatalf("expected failed creates to leave no teams, got %d", len(teams))
	}
}

func TestHandleTeamCreateDuplicateName(t *testing.T) {
	db := setupTeamsTest(t)
	sport := testutil.CreateSport(t, db, "Football")
	asha := testutil.CreateUser(t, db, "Asha", "9876543210")
	testutil.CreateTeam(t, db, sport.ID, "Tigers")

	rec := postTeam(sport.ID, url.Values{"name": {"TIGERS"}, "user_id": {fmt.Sprint(asha.ID)}}, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Team already exists in this sport") {
		t.Fatalf("expected form error, got %s", rec.Body.String())
	}

	other := testutil.CreateSport(t, db, "Cricket")
	if rec := postTeam(other.ID, url.Values{"name": {"Tigers"}, "user_id": {fmt.Sprint(asha.ID)}}, false); rec.Code != http.StatusCreated {
		t.Fatalf("expected the same name to be allowed in another sport, got %d", rec.Code)
	}
}

func TestHandleTeamDeleteCascades(t *testing.T) {
	db := setupTeamsTest(t)
	ctx := context.Background()
	sport := testutil.CreateSport(t, db, "Football")
	asha := testutil.CreateUser(t, db, "Asha", "9876543210")
	a := testutil.CreateTeam(t, db, sport.ID, "Alpha", asha.ID)
	b := testutil.CreateTeam(t, db, sport.ID, "Bravo")
	testutil.CreateMatch(t, db, sport.ID, a.ID, b.ID, "live", 1, 0)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/teams/x", nil)
	req.SetPathValue("id", fmt.Sprint(a.ID))
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	HandleTeamDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Trigger") != "refreshTeamsList" {
		t.Fatal("expected refresh trigger")
	}

	matches, err := db.Queries.ListMatchesBySport(ctx, sport.ID)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected matches to cascade, got %d", len(matches))
	}
	players, err := db.Queries.ListTeamPlayers(ctx, a.ID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected roster to cascade, got %d", len(players))
	}
	if _, err := db.Queries.GetUser(ctx, asha.ID); err != nil {
		t.Fatalf("player must survive team deletion: %v", err)
	}
}

func TestHandleTeamPlayersPage(t *testing.T) {
	db := setupTeamsTest(t)
	sport := testutil.CreateSport(t, db, "Football")
	asha := testutil.CreateUser(t, db, "Asha", "9876543210")
	team := testutil.CreateTeam(t, db, sport.ID, "Alpha", asha.ID)

	req := httptest.NewRequest(http.MethodGet, "/teams/x/players", nil)
	req.SetPathValue("id", fmt.Sprint(team.ID))
	rec := httptest.NewRecorder()
	HandleTeamPlayersPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Asha") || strings.Contains(body, "9876543210") {
		t.Fatal("expected player name without phone number")
	}
}

func TestHandleTeamsPageUnknownSport(t *testing.T) {
	setupTeamsTest(t)

	req := httptest.NewRequest(http.MethodGet, "/sports/42/teams", nil)
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()
	HandleTeamsPage(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
