// internal/api/players/handlers.go
package players

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Arena/internal/api/apiutil"
	"github.com/codr1/Arena/internal/api/authz"
	"github.com/codr1/Arena/internal/api/htmx"
	appdb "github.com/codr1/Arena/internal/db"
	dbgen "github.com/codr1/Arena/internal/db/generated"
	playerstempl "github.com/codr1/Arena/internal/templates/components/players"
	"github.com/codr1/Arena/internal/templates/layouts"
)

const (
	playerQueryTimeout = 5 * time.Second
	idPathKey          = "id"
)

var queries *dbgen.Queries

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

// GET /players
func HandlePlayersPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	users, err := q.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}

	isOwner := authz.IsOwner(authz.UserFromContext(r.Context()))
	page := layouts.Base(playerstempl.PlayersPage(playerstempl.NewPublicPlayers(users)), layouts.PageOptions{Title: "Players", Active: "players", IsOwner: isOwner})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render players page", "Failed to render page")
}

// GET /owner/players
func HandleOwnerPlayersPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	users, err := q.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}

	page := layouts.Base(playerstempl.OwnerPlayersPage(playerstempl.NewOwnerPlayers(users)), layouts.PageOptions{Title: "Players", Active: "owner-players", IsOwner: true, OwnerArea: true})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render owner players page", "Failed to render page")
}

// GET /api/v1/players
func HandlePlayersList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	users, err := q.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "Failed to list players", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		component := playerstempl.OwnerPlayersTable(playerstempl.NewOwnerPlayers(users))
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render players list", "Failed to render list")
		return
	}

	if users == nil {
		users = []dbgen.User{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"players": users}); err != nil {
		logger.Error().Err(err).Msg("Failed to write players response")
	}
}

// DELETE /api/v1/players/{id}
func HandlePlayerDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	userID, err := apiutil.PathID(r, idPathKey, "player")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	deleted, err := q.DeleteUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to delete player")
		http.Error(w, "Failed to delete player", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "Player not found", http.StatusNotFound)
		return
	}

	logger.Info().Int64("user_id", userID).Msg("Player deleted")

	if htmx.IsRequest(r) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadQueries() *dbgen.Queries {
	return queries
}
