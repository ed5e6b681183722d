// internal/api/teams/handlers.go
package teams

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Arena/internal/api/apiutil"
	"github.com/codr1/Arena/internal/api/authz"
	"github.com/codr1/Arena/internal/api/htmx"
	appdb "github.com/codr1/Arena/internal/db"
	dbgen "github.com/codr1/Arena/internal/db/generated"
	"github.com/codr1/Arena/internal/live"
	teamstempl "github.com/codr1/Arena/internal/templates/components/teams"
	"github.com/codr1/Arena/internal/templates/layouts"
)

const (
	teamQueryTimeout = 5 * time.Second
	idPathKey        = "id"
	maxTeamNameLen   = 100
)

var (
	database *appdb.DB
	queries  *dbgen.Queries
	hub      *live.Hub
)

var (
	errTeamExists    = errors.New("team already exists in this sport")
	errPlayerMissing = errors.New("player not found")
)

type teamRequest struct {
	Name    string  `json:"name"`
	UserIDs []int64 `json:"userIds"`
}

type teamResponse struct {
	Team    dbgen.Team                 `json:"team"`
	Players []dbgen.ListTeamPlayersRow `json:"players"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(db *appdb.DB, h *live.Hub) {
	if db == nil {
		return
	}
	database = db
	queries = db.Queries
	hub = h
}

// GET /sports/{id}/teams
func HandleTeamsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sportID, err := apiutil.PathID(r, idPathKey, "sport")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	sport, ok := loadSport(ctx, w, q, sportID)
	if !ok {
		return
	}
	teams, err := q.ListTeamsBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
		http.Error(w, "Failed to load teams", http.StatusInternalServerError)
		return
	}

	isOwner := authz.IsOwner(authz.UserFromContext(r.Context()))
	page := layouts.Base(teamstempl.TeamsPage(teamstempl.TeamsPageData{Sport: sport, Teams: teams}), layouts.PageOptions{Title: sport.Name + " Teams", Active: "sports", IsOwner: isOwner})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render teams page", "Failed to render page")
}

// GET /teams/{id}/players
func HandleTeamPlayersPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	teamID, err := apiutil.PathID(r, idPathKey, "team")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	team, err := q.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to fetch team")
		http.Error(w, "Failed to fetch team", http.StatusInternalServerError)
		return
	}
	sport, ok := loadSport(ctx, w, q, team.SportID)
	if !ok {
		return
	}
	players, err := q.ListTeamPlayers(ctx, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to list team players")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}

	if !htmx.IsRequest(r) && wantsJSON(r) {
		if err := apiutil.WriteJSON(w, http.StatusOK, teamResponse{Team: team, Players: players}); err != nil {
			logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to write team players response")
		}
		return
	}

	isOwner := authz.IsOwner(authz.UserFromContext(r.Context()))
	data := teamstempl.TeamPlayersData{Team: team, Sport: sport, Players: teamstempl.NewPlayerList(players)}
	page := layouts.Base(teamstempl.TeamPlayersPage(data), layouts.PageOptions{Title: team.Name, Active: "sports", IsOwner: isOwner})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render team players page", "Failed to render page")
}

// GET /owner/sports/{id}/teams
func HandleOwnerTeamsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sportID, err := apiutil.PathID(r, idPathKey, "sport")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	data, ok := loadOwnerTeamsData(ctx, w, q, sportID)
	if !ok {
		return
	}

	page := layouts.Base(teamstempl.OwnerTeamsPage(data), layouts.PageOptions{Title: "Manage Teams", Active: "owner-sports", IsOwner: true, OwnerArea: true})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render owner teams page", "Failed to render page")
}

// GET /api/v1/sports/{id}/teams
func HandleTeamsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sportID, err := apiutil.PathID(r, idPathKey, "sport")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	sport, ok := loadSport(ctx, w, q, sportID)
	if !ok {
		return
	}
	teams, err := q.ListTeamsBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
		http.Error(w, "Failed to list teams", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		component := teamstempl.OwnerTeamsTable(teamstempl.OwnerTeamsData{Sport: sport, Teams: teams})
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render teams list", "Failed to render list")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teams": teams}); err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to write teams response")
	}
}

// POST /api/v1/sports/{id}/teams
func HandleTeamCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil || database == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sportID, err := apiutil.PathID(r, idPathKey, "sport")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, err := decodeTeamRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	name := strings.TrimSpace(req.Name)
	userIDs := uniqueIDs(req.UserIDs)

	writeFormError := func(status int, message string) {
		if !htmx.IsRequest(r) {
			http.Error(w, message, status)
			return
		}
		data, ok := loadOwnerTeamsData(ctx, w, q, sportID)
		if !ok {
			return
		}
		data.FormError = message
		data.FormName = name
		data.Selected = make(map[int64]bool, len(userIDs))
		for _, id := range userIDs {
			data.Selected[id] = true
		}
		apiutil.RenderHTMLComponentStatus(r.Context(), w, status, teamstempl.TeamForm(data), nil, "Failed to render team form", "Failed to render response")
	}

	if name == "" {
		writeFormError(http.StatusBadRequest, "Team name is required")
		return
	}
	if len([]rune(name)) > maxTeamNameLen {
		writeFormError(http.StatusBadRequest, "Team name is too long")
		return
	}
	if len(userIDs) == 0 {
		writeFormError(http.StatusBadRequest, "Select at least one player")
		return
	}

	if _, ok := loadSport(ctx, w, q, sportID); !ok {
		return
	}

	var created dbgen.Team
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		team, err := tx.Queries.CreateTeam(ctx, dbgen.CreateTeamParams{SportID: sportID, Name: name})
		if err != nil {
			if apiutil.IsSQLiteUniqueViolation(err) {
				return errTeamExists
			}
			return fmt.Errorf("create team: %w", err)
		}
		for _, userID := range userIDs {
			if _, err := tx.Queries.GetUser(ctx, userID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: %d", errPlayerMissing, userID)
				}
				return fmt.Errorf("load player %d: %w", userID, err)
			}
			if _, err := tx.Queries.AddTeamPlayer(ctx, dbgen.AddTeamPlayerParams{TeamID: team.ID, UserID: userID}); err != nil {
				return fmt.Errorf("add player %d: %w", userID, err)
			}
		}
		created = team
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errTeamExists):
			writeFormError(http.StatusConflict, "Team already exists in this sport")
		case errors.Is(err, errPlayerMissing):
			writeFormError(http.StatusBadRequest, "One of the selected players no longer exists")
		default:
			logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to create team")
			http.Error(w, "Failed to create team", http.StatusInternalServerError)
		}
		return
	}

	logger.Info().Int64("sport_id", sportID).Int64("team_id", created.ID).Int("players", len(userIDs)).Msg("Team created")

	if htmx.IsRequest(r) {
		data, ok := loadOwnerTeamsData(ctx, w, q, sportID)
		if !ok {
			return
		}
		headers := map[string]string{
			"HX-Trigger": "refreshTeamsList",
		}
		apiutil.RenderHTMLComponentStatus(r.Context(), w, http.StatusCreated, teamstempl.TeamForm(data), headers, "Failed to render team form", "Failed to render response")
		return
	}

	players, err := q.ListTeamPlayers(ctx, created.ID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", created.ID).Msg("Failed to list team players")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, teamResponse{Team: created, Players: players}); err != nil {
		logger.Error().Err(err).Int64("team_id", created.ID).Msg("Failed to write team response")
	}
}

// DELETE /api/v1/teams/{id}
func HandleTeamDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	teamID, err := apiutil.PathID(r, idPathKey, "team")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	team, err := q.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to fetch team")
		http.Error(w, "Failed to delete team", http.StatusInternalServerError)
		return
	}

	deleted, err := q.DeleteTeam(ctx, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to delete team")
		http.Error(w, "Failed to delete team", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}

	logger.Info().Int64("team_id", teamID).Int64("sport_id", team.SportID).Msg("Team deleted")
	// Matches involving the team are gone too.
	hub.Publish(team.SportID, live.Event{Type: live.EventDeleted})

	if htmx.IsRequest(r) {
		htmx.Trigger(w, "refreshTeamsList")
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadSport(ctx context.Context, w http.ResponseWriter, q *dbgen.Queries, sportID int64) (dbgen.Sport, bool) {
	sport, err := q.GetSport(ctx, sportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Sport not found", http.StatusNotFound)
			return dbgen.Sport{}, false
		}
		log.Ctx(ctx).Error().Err(err).Int64("sport_id", sportID).Msg("Failed to fetch sport")
		http.Error(w, "Failed to fetch sport", http.StatusInternalServerError)
		return dbgen.Sport{}, false
	}
	return sport, true
}

func loadOwnerTeamsData(ctx context.Context, w http.ResponseWriter, q *dbgen.Queries, sportID int64) (teamstempl.OwnerTeamsData, bool) {
	logger := log.Ctx(ctx)

	sport, ok := loadSport(ctx, w, q, sportID)
	if !ok {
		return teamstempl.OwnerTeamsData{}, false
	}
	teams, err := q.ListTeamsBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
		http.Error(w, "Failed to load teams", http.StatusInternalServerError)
		return teamstempl.OwnerTeamsData{}, false
	}
	users, err := q.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return teamstempl.OwnerTeamsData{}, false
	}
	return teamstempl.OwnerTeamsData{Sport: sport, Teams: teams, Users: users}, true
}

func decodeTeamRequest(r *http.Request) (teamRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req teamRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return teamRequest{}, err
	}

	req := teamRequest{Name: r.FormValue("name")}
	for _, raw := range append(r.Form["user_id"], r.Form["userId"]...) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return teamRequest{}, fmt.Errorf("invalid player ID %q", raw)
		}
		req.UserIDs = append(req.UserIDs, id)
	}
	return req, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func loadQueries() *dbgen.Queries {
	return queries
}
