// internal/api/sports/handlers.go
package sports

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Arena/internal/api/apiutil"
	"github.com/codr1/Arena/internal/api/authz"
	"github.com/codr1/Arena/internal/api/htmx"
	appdb "github.com/codr1/Arena/internal/db"
	dbgen "github.com/codr1/Arena/internal/db/generated"
	sportstempl "github.com/codr1/Arena/internal/templates/components/sports"
	"github.com/codr1/Arena/internal/templates/layouts"
)

const (
	sportQueryTimeout = 5 * time.Second
	sportIDPathKey    = "id"
	maxSportNameLen   = 100
)

var (
	queries *dbgen.Queries
	timeNow = time.Now
)

type sportRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

// GET /
func HandleHomePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sports, err := q.ListSports(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list sports")
		http.Error(w, "Failed to load sports", http.StatusInternalServerError)
		return
	}
	playerCount, err := q.CountUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count players")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}

	isOwner := authz.IsOwner(authz.UserFromContext(r.Context()))
	data := sportstempl.HomeData{
		Sports:      sportstempl.NewSportList(sports),
		PlayerCount: playerCount,
		SportCount:  int64(len(sports)),
		IsOwner:     isOwner,
	}
	page := layouts.Base(sportstempl.HomePage(data), layouts.PageOptions{Title: "Home", Active: "home", IsOwner: isOwner})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render home page", "Failed to render page")
}

// GET /sports
func HandleSportsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sports, err := q.ListSports(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list sports")
		http.Error(w, "Failed to load sports", http.StatusInternalServerError)
		return
	}

	isOwner := authz.IsOwner(authz.UserFromContext(r.Context()))
	page := layouts.Base(sportstempl.SportsPage(sportstempl.NewSportList(sports)), layouts.PageOptions{Title: "Sports", Active: "sports", IsOwner: isOwner})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render sports page", "Failed to render page")
}

// GET /owner/sports
func HandleOwnerSportsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sports, err := q.ListSports(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list sports")
		http.Error(w, "Failed to load sports", http.StatusInternalServerError)
		return
	}

	data := sportstempl.OwnerSportsData{Sports: sportstempl.NewSportList(sports)}
	page := layouts.Base(sportstempl.OwnerSportsPage(data), layouts.PageOptions{Title: "Manage Sports", Active: "owner-sports", IsOwner: true, OwnerArea: true})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render owner sports page", "Failed to render page")
}

// GET /api/v1/sports
func HandleSportsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sports, err := q.ListSports(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list sports")
		http.Error(w, "Failed to list sports", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		component := sportstempl.OwnerSportsList(sportstempl.NewSportList(sports))
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render sports list", "Failed to render list")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"sports": sports}); err != nil {
		logger.Error().Err(err).Msg("Failed to write sports response")
	}
}

// GET /api/v1/sports/{id}
func HandleSportDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sportID, err := apiutil.PathID(r, sportIDPathKey, "sport")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sport, err := q.GetSport(ctx, sportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Sport not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to fetch sport")
		http.Error(w, "Failed to fetch sport", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, sport); err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to write sport response")
	}
}

// POST /api/v1/sports
func HandleSportCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	req, err := decodeSportRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	formData := sportstempl.OwnerSportsData{FormName: name, FormDate: strings.TrimSpace(req.Date)}
	if name == "" {
		writeSportFormError(w, r, http.StatusBadRequest, "Sport name is required", formData)
		return
	}
	if len([]rune(name)) > maxSportNameLen {
		writeSportFormError(w, r, http.StatusBadRequest, "Sport name is too long", formData)
		return
	}

	eventDate, err := apiutil.ParseEventDate(req.Date, timeNow())
	if err != nil {
		writeSportFormError(w, r, http.StatusBadRequest, "Event "+err.Error(), formData)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sport, err := q.CreateSport(ctx, dbgen.CreateSportParams{Name: name, EventDate: eventDate})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			writeSportFormError(w, r, http.StatusConflict, "Sport already exists", formData)
			return
		}
		logger.Error().Err(err).Str("name", name).Msg("Failed to create sport")
		http.Error(w, "Failed to create sport", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("sport_id", sport.ID).Str("name", sport.Name).Msg("Sport created")

	if htmx.IsRequest(r) {
		headers := map[string]string{
			"HX-Trigger": "refreshSportsList",
		}
		component := sportstempl.SportForm(sportstempl.OwnerSportsData{})
		apiutil.RenderHTMLComponentStatus(r.Context(), w, http.StatusCreated, component, headers, "Failed to render sport form", "Failed to render response")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, sport); err != nil {
		logger.Error().Err(err).Int64("sport_id", sport.ID).Msg("Failed to write sport response")
	}
}

// DELETE /api/v1/sports/{id}
func HandleSportDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sportID, err := apiutil.PathID(r, sportIDPathKey, "sport")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	deleted, err := q.DeleteSport(ctx, sportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to delete sport")
		http.Error(w, "Failed to delete sport", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "Sport not found", http.StatusNotFound)
		return
	}

	logger.Info().Int64("sport_id", sportID).Msg("Sport deleted")

	if htmx.IsRequest(r) {
		htmx.Trigger(w, "refreshSportsList")
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeSportFormError(w http.ResponseWriter, r *http.Request, status int, message string, data sportstempl.OwnerSportsData) {
	if htmx.IsRequest(r) {
		data.FormError = message
		apiutil.RenderHTMLComponentStatus(r.Context(), w, status, sportstempl.SportForm(data), nil, "Failed to render sport form", "Failed to render response")
		return
	}
	http.Error(w, message, status)
}

func decodeSportRequest(r *http.Request) (sportRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req sportRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return sportRequest{}, err
	}

	return sportRequest{
		Name: r.FormValue("name"),
		Date: apiutil.FirstNonEmpty(r.FormValue("date"), r.FormValue("event_date"), r.FormValue("eventDate")),
	}, nil
}

func loadQueries() *dbgen.Queries {
	return queries
}
