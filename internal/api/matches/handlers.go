// internal/api/matches/handlers.go
package matches

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
	"github.com/codr1/Arena/internal/leagues"
	"github.com/codr1/Arena/internal/live"
	matchestempl "github.com/codr1/Arena/internal/templates/components/matches"
	"github.com/codr1/Arena/internal/templates/layouts"
)

const (
	matchQueryTimeout       = 5 * time.Second
	idPathKey               = "id"
	defaultFixtureInterval  = 60 * time.Minute
	refreshListsTrigger     = "refreshMatchesList, refreshStandings"
	refreshStandingsTrigger = "refreshStandings"
)

var (
	database *appdb.DB
	queries  *dbgen.Queries
	hub      *live.Hub
)

// matchInput is the normalized create/update payload. Points stay as strings
// so form values can be echoed back unchanged.
type matchInput struct {
	Team1ID     int64
	Team2ID     int64
	Team1Points string
	Team2Points string
	Status      string
	ScheduledAt string
}

type matchJSONRequest struct {
	Team1ID     int64  `json:"team1Id"`
	Team2ID     int64  `json:"team2Id"`
	Team1Points *int64 `json:"team1Points"`
	Team2Points *int64 `json:"team2Points"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduledAt"`
}

type scoreJSONRequest struct {
	Team  int   `json:"team"`
	Delta int64 `json:"delta"`
}

type fixturesJSONRequest struct {
	Start           string `json:"start"`
	IntervalMinutes int64  `json:"intervalMinutes"`
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

// GET /sports/{id}/matches
func HandlePublicMatchesPage(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	sport, ok := loadSport(ctx, w, q, sportID)
	if !ok {
		return
	}
	rows, err := q.ListMatchesBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list matches")
		http.Error(w, "Failed to load matches", http.StatusInternalServerError)
		return
	}

	isOwner := authz.IsOwner(authz.UserFromContext(r.Context()))
	data := matchestempl.PublicMatchesData{Sport: sport, Matches: matchestempl.NewMatchList(rows)}
	page := layouts.Base(matchestempl.PublicMatchesPage(data), layouts.PageOptions{Title: sport.Name + " Matches", Active: "sports", IsOwner: isOwner})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render matches page", "Failed to render page")
}

// GET /owner/sports/{id}/points-table
func HandlePointsTablePage(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	data, ok := loadPointsTable(ctx, w, q, sportID)
	if !ok {
		return
	}

	page := layouts.Base(matchestempl.PointsTablePage(data), layouts.PageOptions{Title: "Points Table", Active: "owner-sports", IsOwner: true, OwnerArea: true})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render points table", "Failed to render page")
}

// GET /api/v1/sports/{id}/matches
func HandleMatchesList(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, ok := loadSport(ctx, w, q, sportID); !ok {
		return
	}
	rows, err := q.ListMatchesBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list matches")
		http.Error(w, "Failed to list matches", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		matchList := matchestempl.NewMatchList(rows)
		if r.URL.Query().Get("view") == "owner" && authz.IsOwner(authz.UserFromContext(r.Context())) {
			teams, err := q.ListTeamsBySport(ctx, sportID)
			if err != nil {
				logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
				http.Error(w, "Failed to list matches", http.StatusInternalServerError)
				return
			}
			component := matchestempl.OwnerMatchesList(sportID, matchList, teams)
			apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render owner matches list", "Failed to render list")
			return
		}
		component := matchestempl.PublicMatchesList(sportID, matchList)
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render matches list", "Failed to render list")
		return
	}

	if rows == nil {
		rows = []dbgen.ListMatchesBySportRow{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"matches": rows}); err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to write matches response")
	}
}

// GET /api/v1/sports/{id}/standings
func HandleStandings(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, ok := loadSport(ctx, w, q, sportID); !ok {
		return
	}
	standings, err := leagues.CalculateStandings(ctx, q, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to calculate standings")
		http.Error(w, "Failed to calculate standings", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		component := matchestempl.Standings(sportID, standings)
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render standings", "Failed to render standings")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"standings": standings}); err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to write standings response")
	}
}

// POST /api/v1/sports/{id}/matches
func HandleMatchCreate(w http.ResponseWriter, r *http.Request) {
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

	input, err := decodeMatchInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, ok := loadSport(ctx, w, q, sportID); !ok {
		return
	}

	writeFormError := func(status int, message string) {
		if !htmx.IsRequest(r) {
			http.Error(w, message, status)
			return
		}
		teams, err := q.ListTeamsBySport(ctx, sportID)
		if err != nil {
			logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
			http.Error(w, message, status)
			return
		}
		form := formFromInput(sportID, teams, input)
		form.Error = message
		apiutil.RenderHTMLComponentStatus(r.Context(), w, status, matchestempl.MatchForm(form), nil, "Failed to render match form", "Failed to render response")
	}

	fields, err := validateMatchInput(ctx, q, sportID, input, 0, 0)
	if err != nil {
		var fieldErr apiutil.FieldError
		if errors.As(err, &fieldErr) {
			writeFormError(http.StatusBadRequest, fieldErr.Reason)
			return
		}
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to validate match")
		http.Error(w, "Failed to create match", http.StatusInternalServerError)
		return
	}

	created, err := q.CreateMatch(ctx, dbgen.CreateMatchParams{
		SportID:     sportID,
		Team1ID:     fields.Team1ID,
		Team2ID:     fields.Team2ID,
		Team1Points: fields.Team1Points,
		Team2Points: fields.Team2Points,
		Status:      fields.Status,
		ScheduledAt: fields.ScheduledAt,
	})
	if err != nil {
		if apiutil.IsSQLiteCheckViolation(err) {
			writeFormError(http.StatusBadRequest, "Invalid match details")
			return
		}
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to create match")
		http.Error(w, "Failed to create match", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("sport_id", sportID).Int64("match_id", created.ID).Str("status", created.Status).Msg("Match created")
	detail := publishMatch(ctx, q, live.EventCreated, created)

	if htmx.IsRequest(r) {
		teams, err := q.ListTeamsBySport(ctx, sportID)
		if err != nil {
			logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
			http.Error(w, "Failed to render response", http.StatusInternalServerError)
			return
		}
		headers := map[string]string{
			"HX-Trigger": refreshListsTrigger,
		}
		form := matchestempl.MatchFormData{SportID: sportID, Teams: teams}
		apiutil.RenderHTMLComponentStatus(r.Context(), w, http.StatusCreated, matchestempl.MatchForm(form), headers, "Failed to render match form", "Failed to render response")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, detailOrMatch(detail, created)); err != nil {
		logger.Error().Err(err).Int64("match_id", created.ID).Msg("Failed to write match response")
	}
}

// PUT /api/v1/matches/{id}
func HandleMatchUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	matchID, err := apiutil.PathID(r, idPathKey, "match")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := decodeMatchInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	existing, ok := loadMatch(ctx, w, q, matchID)
	if !ok {
		return
	}

	fields, err := validateMatchInput(ctx, q, existing.SportID, input, existing.Team1Points, existing.Team2Points)
	if err != nil {
		var fieldErr apiutil.FieldError
		if errors.As(err, &fieldErr) {
			writeRowError(ctx, w, r, q, existing.ID, http.StatusBadRequest, fieldErr.Reason)
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to validate match")
		http.Error(w, "Failed to update match", http.StatusInternalServerError)
		return
	}
	if !input.hasScheduledAt() {
		fields.ScheduledAt = existing.ScheduledAt
	}

	updated, err := q.UpdateMatch(ctx, dbgen.UpdateMatchParams{
		Team1ID:     fields.Team1ID,
		Team2ID:     fields.Team2ID,
		Team1Points: fields.Team1Points,
		Team2Points: fields.Team2Points,
		Status:      fields.Status,
		ScheduledAt: fields.ScheduledAt,
		ID:          matchID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to update match")
		http.Error(w, "Failed to update match", http.StatusInternalServerError)
		return
	}

	eventType := live.EventUpdated
	if updated.Status != existing.Status {
		eventType = live.EventStatus
	}
	logger.Info().Int64("match_id", matchID).Str("status", updated.Status).Str("previous_status", existing.Status).Msg("Match updated")
	detail := publishMatch(ctx, q, eventType, updated)

	if htmx.IsRequest(r) {
		writeRow(ctx, w, r, q, updated.SportID, detail, refreshStandingsTrigger)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, detailOrMatch(detail, updated)); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to write match response")
	}
}

// DELETE /api/v1/matches/{id}
func HandleMatchDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	matchID, err := apiutil.PathID(r, idPathKey, "match")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	existing, ok := loadMatch(ctx, w, q, matchID)
	if !ok {
		return
	}

	deleted, err := q.DeleteMatch(ctx, matchID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to delete match")
		http.Error(w, "Failed to delete match", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "Match not found", http.StatusNotFound)
		return
	}

	logger.Info().Int64("match_id", matchID).Int64("sport_id", existing.SportID).Msg("Match deleted")
	hub.Publish(existing.SportID, live.Event{Type: live.EventDeleted, MatchID: matchID})

	if htmx.IsRequest(r) {
		htmx.Trigger(w, refreshStandingsTrigger)
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/matches/{id}/score
func HandleScoreChange(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	matchID, err := apiutil.PathID(r, idPathKey, "match")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	change, err := decodeScoreChange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	change.MatchID = matchID

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	updated, err := leagues.AdjustScore(ctx, q, change)
	if err != nil {
		switch {
		case errors.Is(err, leagues.ErrMatchNotFound):
			http.Error(w, "Match not found", http.StatusNotFound)
		case errors.Is(err, leagues.ErrMatchNotLive):
			writeRowError(ctx, w, r, q, matchID, http.StatusConflict, "Scores can only change while the match is live")
		case errors.Is(err, leagues.ErrInvalidTeam), errors.Is(err, leagues.ErrInvalidDelta):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to adjust score")
			http.Error(w, "Failed to update score", http.StatusInternalServerError)
		}
		return
	}

	logger.Info().
		Int64("match_id", matchID).
		Int("team", change.Team).
		Int64("delta", change.Delta).
		Int64("team1_points", updated.Team1Points).
		Int64("team2_points", updated.Team2Points).
		Msg("Score updated")
	detail := publishMatch(ctx, q, live.EventScore, updated)

	if htmx.IsRequest(r) {
		writeRow(ctx, w, r, q, updated.SportID, detail, "")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, detailOrMatch(detail, updated)); err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to write score response")
	}
}

// POST /api/v1/sports/{id}/fixtures
func HandleFixturesGenerate(w http.ResponseWriter, r *http.Request) {
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

	start, interval, err := decodeFixturesRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	if _, ok := loadSport(ctx, w, q, sportID); !ok {
		return
	}
	teams, err := q.ListTeamsBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
		http.Error(w, "Failed to generate fixtures", http.StatusInternalServerError)
		return
	}

	fixtures, err := leagues.GenerateRoundRobin(teams, start, interval)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created := make([]dbgen.Match, 0, len(fixtures))
	err = database.RunInTx(ctx, func(tx *appdb.DB) error {
		for _, fixture := range fixtures {
			params := dbgen.CreateMatchParams{
				SportID: sportID,
				Team1ID: fixture.Team1.ID,
				Team2ID: fixture.Team2.ID,
				Status:  leagues.StatusUpcoming,
			}
			if !fixture.ScheduledAt.IsZero() {
				params.ScheduledAt = sql.NullTime{Time: fixture.ScheduledAt, Valid: true}
			}
			match, err := tx.Queries.CreateMatch(ctx, params)
			if err != nil {
				return fmt.Errorf("create fixture round %d: %w", fixture.Round, err)
			}
			created = append(created, match)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to create fixtures")
		http.Error(w, "Failed to generate fixtures", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("sport_id", sportID).Int("fixtures", len(created)).Msg("Round robin fixtures created")
	hub.Publish(sportID, live.Event{Type: live.EventCreated})

	if htmx.IsRequest(r) {
		headers := map[string]string{
			"HX-Trigger": "refreshMatchesList",
		}
		apiutil.RenderHTMLComponentStatus(r.Context(), w, http.StatusCreated, matchestempl.FixturesResult(len(created)), headers, "Failed to render fixtures result", "Failed to render response")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, map[string]any{"created": len(created), "matches": created}); err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to write fixtures response")
	}
}

// GET /ws/sports/{id}
func HandleLiveSocket(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil || hub == nil {
		logger.Error().Msg("Live updates not initialized")
		http.Error(w, "Live updates unavailable", http.StatusServiceUnavailable)
		return
	}

	sportID, err := apiutil.PathID(r, idPathKey, "sport")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	_, ok := loadSport(ctx, w, q, sportID)
	cancel()
	if !ok {
		return
	}

	hub.Serve(w, r, sportID)
}

// validatedMatch holds the columns shared by create and update.
type validatedMatch struct {
	Team1ID     int64
	Team2ID     int64
	Team1Points int64
	Team2Points int64
	Status      string
	ScheduledAt sql.NullTime
}

// validateMatchInput returns an apiutil.FieldError for anything the Owner can
// fix; other errors are storage failures.
func validateMatchInput(ctx context.Context, q *dbgen.Queries, sportID int64, input matchInput, team1Fallback, team2Fallback int64) (validatedMatch, error) {
	if input.Team1ID <= 0 || input.Team2ID <= 0 {
		return validatedMatch{}, apiutil.FieldError{Field: "team", Reason: "Select both teams"}
	}
	if input.Team1ID == input.Team2ID {
		return validatedMatch{}, apiutil.FieldError{Field: "team", Reason: "A team cannot play against itself"}
	}
	for _, teamID := range []int64{input.Team1ID, input.Team2ID} {
		team, err := q.GetTeam(ctx, teamID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return validatedMatch{}, apiutil.FieldError{Field: "team", Reason: "Team not found in this sport"}
			}
			return validatedMatch{}, fmt.Errorf("load team %d: %w", teamID, err)
		}
		if team.SportID != sportID {
			return validatedMatch{}, apiutil.FieldError{Field: "team", Reason: "Team not found in this sport"}
		}
	}

	team1Points, err := apiutil.ParseOptionalNonNegativeInt64Field(input.Team1Points, "Team 1 points", team1Fallback)
	if err != nil {
		return validatedMatch{}, apiutil.FieldError{Field: "team1_points", Reason: err.Error()}
	}
	team2Points, err := apiutil.ParseOptionalNonNegativeInt64Field(input.Team2Points, "Team 2 points", team2Fallback)
	if err != nil {
		return validatedMatch{}, apiutil.FieldError{Field: "team2_points", Reason: err.Error()}
	}

	status, err := leagues.ParseStatus(input.Status)
	if err != nil {
		return validatedMatch{}, apiutil.FieldError{Field: "status", Reason: "Status must be upcoming, live or completed"}
	}

	var scheduledAt sql.NullTime
	at, ok, err := apiutil.ParseOptionalDateTime(input.ScheduledAt, "Kickoff time")
	if err != nil {
		return validatedMatch{}, apiutil.FieldError{Field: "scheduled_at", Reason: err.Error()}
	}
	if ok {
		scheduledAt = sql.NullTime{Time: at, Valid: true}
	}

	return validatedMatch{
		Team1ID:     input.Team1ID,
		Team2ID:     input.Team2ID,
		Team1Points: team1Points,
		Team2Points: team2Points,
		Status:      status,
		ScheduledAt: scheduledAt,
	}, nil
}

func (in matchInput) hasScheduledAt() bool {
	return strings.TrimSpace(in.ScheduledAt) != ""
}

func decodeMatchInput(r *http.Request) (matchInput, error) {
	if apiutil.IsJSONRequest(r) {
		var req matchJSONRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return matchInput{}, err
		}
		input := matchInput{
			Team1ID:     req.Team1ID,
			Team2ID:     req.Team2ID,
			Status:      req.Status,
			ScheduledAt: req.ScheduledAt,
		}
		if req.Team1Points != nil {
			input.Team1Points = strconv.FormatInt(*req.Team1Points, 10)
		}
		if req.Team2Points != nil {
			input.Team2Points = strconv.FormatInt(*req.Team2Points, 10)
		}
		return input, nil
	}

	if err := r.ParseForm(); err != nil {
		return matchInput{}, err
	}

	team1ID, err := parseOptionalID(apiutil.FirstNonEmpty(r.FormValue("team1_id"), r.FormValue("team1Id")), "Team 1")
	if err != nil {
		return matchInput{}, err
	}
	team2ID, err := parseOptionalID(apiutil.FirstNonEmpty(r.FormValue("team2_id"), r.FormValue("team2Id")), "Team 2")
	if err != nil {
		return matchInput{}, err
	}
	return matchInput{
		Team1ID:     team1ID,
		Team2ID:     team2ID,
		Team1Points: apiutil.FirstNonEmpty(r.FormValue("team1_points"), r.FormValue("team1Points")),
		Team2Points: apiutil.FirstNonEmpty(r.FormValue("team2_points"), r.FormValue("team2Points")),
		Status:      r.FormValue("status"),
		ScheduledAt: apiutil.FirstNonEmpty(r.FormValue("scheduled_at"), r.FormValue("scheduledAt")),
	}, nil
}

func decodeScoreChange(r *http.Request) (leagues.ScoreChange, error) {
	if apiutil.IsJSONRequest(r) {
		var req scoreJSONRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return leagues.ScoreChange{}, err
		}
		return leagues.ScoreChange{Team: req.Team, Delta: req.Delta}, nil
	}

	if err := r.ParseForm(); err != nil {
		return leagues.ScoreChange{}, err
	}
	team, err := strconv.Atoi(strings.TrimSpace(r.FormValue("team")))
	if err != nil {
		return leagues.ScoreChange{}, leagues.ErrInvalidTeam
	}
	delta, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("delta")), 10, 64)
	if err != nil {
		return leagues.ScoreChange{}, leagues.ErrInvalidDelta
	}
	return leagues.ScoreChange{Team: team, Delta: delta}, nil
}

func decodeFixturesRequest(r *http.Request) (time.Time, time.Duration, error) {
	var (
		rawStart    string
		rawInterval string
	)
	if apiutil.IsJSONRequest(r) {
		var req fixturesJSONRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return time.Time{}, 0, err
		}
		rawStart = req.Start
		if req.IntervalMinutes != 0 {
			rawInterval = strconv.FormatInt(req.IntervalMinutes, 10)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return time.Time{}, 0, err
		}
		rawStart = r.FormValue("start")
		rawInterval = apiutil.FirstNonEmpty(r.FormValue("interval_minutes"), r.FormValue("intervalMinutes"))
	}

	start, _, err := apiutil.ParseOptionalDateTime(rawStart, "Start")
	if err != nil {
		return time.Time{}, 0, err
	}
	interval := defaultFixtureInterval
	if strings.TrimSpace(rawInterval) != "" {
		minutes, err := apiutil.ParsePositiveInt64Field(rawInterval, "Interval")
		if err != nil {
			return time.Time{}, 0, err
		}
		interval = time.Duration(minutes) * time.Minute
	}
	return start, interval, nil
}

func parseOptionalID(raw string, label string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID", label)
	}
	return id, nil
}

// publishMatch loads the joined row and broadcasts it. A failed lookup still
// broadcasts so subscribers refetch.
func publishMatch(ctx context.Context, q *dbgen.Queries, eventType string, match dbgen.Match) *dbgen.GetMatchWithTeamsRow {
	detail, err := q.GetMatchWithTeams(ctx, match.ID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("match_id", match.ID).Msg("Failed to load match for broadcast")
		hub.Publish(match.SportID, live.Event{Type: eventType, MatchID: match.ID})
		return nil
	}
	hub.Publish(match.SportID, live.Event{Type: eventType, MatchID: match.ID, Match: detail})
	return &detail
}

func detailOrMatch(detail *dbgen.GetMatchWithTeamsRow, match dbgen.Match) any {
	if detail != nil {
		return detail
	}
	return match
}

func writeRow(ctx context.Context, w http.ResponseWriter, r *http.Request, q *dbgen.Queries, sportID int64, detail *dbgen.GetMatchWithTeamsRow, trigger string) {
	logger := log.Ctx(ctx)
	if detail == nil {
		http.Error(w, "Failed to render response", http.StatusInternalServerError)
		return
	}
	teams, err := q.ListTeamsBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
		http.Error(w, "Failed to render response", http.StatusInternalServerError)
		return
	}
	var headers map[string]string
	if trigger != "" {
		headers = map[string]string{"HX-Trigger": trigger}
	}
	row := matchestempl.RowData{Match: matchestempl.NewMatchFromDetail(*detail), Teams: teams}
	apiutil.RenderHTMLComponent(r.Context(), w, matchestempl.MatchRow(row), headers, "Failed to render match row", "Failed to render response")
}

func writeRowError(ctx context.Context, w http.ResponseWriter, r *http.Request, q *dbgen.Queries, matchID int64, status int, message string) {
	if !htmx.IsRequest(r) {
		http.Error(w, message, status)
		return
	}
	detail, err := q.GetMatchWithTeams(ctx, matchID)
	if err != nil {
		http.Error(w, message, status)
		return
	}
	teams, err := q.ListTeamsBySport(ctx, detail.SportID)
	if err != nil {
		http.Error(w, message, status)
		return
	}
	row := matchestempl.RowData{Match: matchestempl.NewMatchFromDetail(detail), Teams: teams, Error: message}
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, matchestempl.MatchRow(row), nil, "Failed to render match row", "Failed to render response")
}

func formFromInput(sportID int64, teams []dbgen.Team, input matchInput) matchestempl.MatchFormData {
	return matchestempl.MatchFormData{
		SportID:     sportID,
		Teams:       teams,
		Team1ID:     input.Team1ID,
		Team2ID:     input.Team2ID,
		Team1Points: input.Team1Points,
		Team2Points: input.Team2Points,
		Status:      input.Status,
		ScheduledAt: input.ScheduledAt,
	}
}

func loadPointsTable(ctx context.Context, w http.ResponseWriter, q *dbgen.Queries, sportID int64) (matchestempl.PointsTableData, bool) {
	logger := log.Ctx(ctx)

	sport, ok := loadSport(ctx, w, q, sportID)
	if !ok {
		return matchestempl.PointsTableData{}, false
	}
	teams, err := q.ListTeamsBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list teams")
		http.Error(w, "Failed to load teams", http.StatusInternalServerError)
		return matchestempl.PointsTableData{}, false
	}
	rows, err := q.ListMatchesBySport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to list matches")
		http.Error(w, "Failed to load matches", http.StatusInternalServerError)
		return matchestempl.PointsTableData{}, false
	}

	return matchestempl.PointsTableData{
		Sport:     sport,
		Teams:     teams,
		Matches:   matchestempl.NewMatchList(rows),
		Standings: leagues.ComputeStandings(teams, rows),
		Form:      matchestempl.MatchFormData{SportID: sportID, Teams: teams},
	}, true
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

func loadMatch(ctx context.Context, w http.ResponseWriter, q *dbgen.Queries, matchID int64) (dbgen.Match, bool) {
	match, err := q.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return dbgen.Match{}, false
		}
		log.Ctx(ctx).Error().Err(err).Int64("match_id", matchID).Msg("Failed to fetch match")
		http.Error(w, "Failed to fetch match", http.StatusInternalServerError)
		return dbgen.Match{}, false
	}
	return match, true
}

func loadQueries() *dbgen.Queries {
	return queries
}
