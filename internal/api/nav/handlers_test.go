package nav

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/codr1/Arena/internal/testutil"
)

func TestHandleSearch(t *testing.T) {
	database := testutil.NewTestDB(t)
	prev := queries
	InitHandlers(database)
	t.Cleanup(func() { queries = prev })

	sport := testutil.CreateSport(t, database, "Football")
	testutil.CreateTeam(t, database, sport.ID, "Tigers")
	testutil.CreateTeam(t, database, sport.ID, "Lions")
	testutil.CreateUser(t, database, "Tiger Woods", "9876543210")
	testutil.CreateUser(t, database, "Asha", "9123456789")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=tig", nil)
	rec := httptest.NewRecorder()
	HandleSearch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body struct {
		Teams []struct {
			Name      string `json:"name"`
			SportName string `json:"sportName"`
		} `json:"teams"`
		Players []struct {
			Name        string `json:"name"`
			PhoneNumber string `json:"phoneNumber"`
		} `json:"players"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Teams) != 1 || body.Teams[0].Name != "Tigers" || body.Teams[0].SportName != "Football" {
		t.Fatalf("unexpected teams %+v", body.Teams)
	}
	if len(body.Players) != 1 || body.Players[0].Name != "Tiger Woods" || body.Players[0].PhoneNumber != "" {
		t.Fatalf("unexpected players %+v", body.Players)
	}
}

func TestHandleSearchHTMX(t *testing.T) {
	database := testutil.NewTestDB(t)
	prev := queries
	InitHandlers(database)
	t.Cleanup(func() { queries = prev })

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "empty", query: "", want: ""},
		{name: "no results", query: "zzz", want: `No results for "zzz"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q="+tt.query, nil)
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()
			HandleSearch(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("unexpected status: %d", rec.Code)
			}
			if tt.want == "" && rec.Body.Len() != 0 {
				t.Fatalf("expected empty body, got %q", rec.Body.String())
			}
			if tt.want != "" && !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleSearchTreatsWildcardsLiterally(t *testing.T) {
	database := testutil.NewTestDB(t)
	prev := queries
	InitHandlers(database)
	t.Cleanup(func() { queries = prev })

	sport := testutil.CreateSport(t, database, "Football")
	testutil.CreateTeam(t, database, sport.ID, "Tigers")
	testutil.CreateTeam(t, database, sport.ID, "Lions")
	testutil.CreateUser(t, database, "Asha", "9123456789")
	testutil.CreateUser(t, database, "100% Raj", "9123456780")

	tests := []struct {
		name        string
		query       string
		wantTeams   int
		wantPlayers int
	}{
		{name: "percent", query: "%25", wantPlayers: 1},
		{name: "underscore", query: "_"},
		{name: "backslash", query: `%5C`},
		{name: "mixed case", query: "LIONS", wantTeams: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleSearch(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q="+tt.query, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("unexpected status: %d", rec.Code)
			}

			var body struct {
				Teams   []json.RawMessage `json:"teams"`
				Players []json.RawMessage `json:"players"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Teams) != tt.wantTeams || len(body.Players) != tt.wantPlayers {
				t.Fatalf("q=%s: expected %d teams %d players, got %d/%d", tt.query, tt.wantTeams, tt.wantPlayers, len(body.Teams), len(body.Players))
			}
		})
	}
}

func TestClampTermKeepsWholeRunes(t *testing.T) {
	long := strings.Repeat("é", maxSearchInput+5)

	got := clampTerm("  " + long + "  ")
	if !utf8.ValidString(got) {
		t.Fatalf("clamped term is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != maxSearchInput {
		t.Fatalf("expected %d runes, got %d", maxSearchInput, n)
	}
	if got := clampTerm(" tig "); got != "tig" {
		t.Fatalf("expected trimmed term, got %q", got)
	}
}
