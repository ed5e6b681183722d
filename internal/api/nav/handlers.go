// internal/api/nav/handlers.go
package nav

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Arena/internal/api/apiutil"
	"github.com/codr1/Arena/internal/api/htmx"
	appdb "github.com/codr1/Arena/internal/db"
	dbgen "github.com/codr1/Arena/internal/db/generated"
	"github.com/codr1/Arena/internal/templates/components/nav"
)

const (
	searchTimeout  = 3 * time.Second
	searchLimit    = 8
	maxSearchInput = 64
)

var queries *dbgen.Queries

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

// GET /api/v1/search
func HandleSearch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	term := clampTerm(r.URL.Query().Get("q"))
	if term == "" {
		if htmx.IsRequest(r) {
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teams": []any{}, "players": []any{}}); err != nil {
			logger.Error().Err(err).Msg("Failed to write search response")
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), searchTimeout)
	defer cancel()

	results := nav.SearchResults{Query: term}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := q.SearchTeams(gctx, dbgen.SearchTeamsParams{SearchTerm: term, Limit: searchLimit})
		results.Teams = teams
		return err
	})
	g.Go(func() error {
		players, err := q.SearchUsers(gctx, dbgen.SearchUsersParams{SearchTerm: term, Limit: searchLimit})
		results.Players = players
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Search failed")
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, nav.Results(results), nil, "Failed to render search results", "Failed to render results")
		return
	}

	if results.Teams == nil {
		results.Teams = []dbgen.SearchTeamsRow{}
	}
	if results.Players == nil {
		results.Players = []dbgen.SearchUsersRow{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teams": results.Teams, "players": results.Players}); err != nil {
		logger.Error().Err(err).Msg("Failed to write search response")
	}
}

func loadQueries() *dbgen.Queries {
	return queries
}

// clampTerm trims q and keeps at most maxSearchInput runes.
func clampTerm(q string) string {
	term := strings.TrimSpace(q)
	if utf8.RuneCountInString(term) <= maxSearchInput {
		return term
	}
	return string([]rune(term)[:maxSearchInput])
}
