// internal/api/codes/handlers.go
package codes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Arena/internal/api/apiutil"
	"github.com/codr1/Arena/internal/api/htmx"
	appdb "github.com/codr1/Arena/internal/db"
	dbgen "github.com/codr1/Arena/internal/db/generated"
	codestempl "github.com/codr1/Arena/internal/templates/components/codes"
	"github.com/codr1/Arena/internal/templates/layouts"
)

const (
	codeQueryTimeout = 5 * time.Second
	codePathKey      = "code"
	maxCodeLen       = 64
)

var queries *dbgen.Queries

type codeRequest struct {
	Code string `json:"code"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

// GET /owner/codes
func HandleCodesPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), codeQueryTimeout)
	defer cancel()

	codes, err := q.ListTournamentCodes(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list tournament codes")
		http.Error(w, "Failed to load codes", http.StatusInternalServerError)
		return
	}

	page := layouts.Base(codestempl.CodesPage(codestempl.CodesPageData{Codes: codes}), layouts.PageOptions{Title: "Tournament Codes", Active: "owner-codes", IsOwner: true, OwnerArea: true})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render codes page", "Failed to render page")
}

// GET /api/v1/codes
func HandleCodesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), codeQueryTimeout)
	defer cancel()

	codes, err := q.ListTournamentCodes(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list tournament codes")
		http.Error(w, "Failed to list codes", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, codestempl.CodesList(codes), nil, "Failed to render codes list", "Failed to render list")
		return
	}

	if codes == nil {
		codes = []dbgen.TournamentCode{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"codes": codes}); err != nil {
		logger.Error().Err(err).Msg("Failed to write codes response")
	}
}

// POST /api/v1/codes
func HandleCodeCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	req, err := decodeCodeRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		writeCodeFormError(w, r, http.StatusBadRequest, "Code is required", code)
		return
	}
	if len(code) > maxCodeLen {
		writeCodeFormError(w, r, http.StatusBadRequest, "Code is too long", code)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), codeQueryTimeout)
	defer cancel()

	created, err := q.CreateTournamentCode(ctx, code)
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			writeCodeFormError(w, r, http.StatusConflict, "Code already exists", code)
			return
		}
		logger.Error().Err(err).Msg("Failed to create tournament code")
		http.Error(w, "Failed to create code", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("code_id", created.ID).Msg("Tournament code created")

	if htmx.IsRequest(r) {
		headers := map[string]string{
			"HX-Trigger": "refreshCodesList",
		}
		apiutil.RenderHTMLComponentStatus(r.Context(), w, http.StatusCreated, codestempl.CodeForm(codestempl.CodesPageData{}), headers, "Failed to render code form", "Failed to render response")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
		logger.Error().Err(err).Msg("Failed to write code response")
	}
}

// DELETE /api/v1/codes/{code}
func HandleCodeDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	code := strings.TrimSpace(r.PathValue(codePathKey))
	if code == "" {
		http.Error(w, "Code is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), codeQueryTimeout)
	defer cancel()

	deleted, err := q.DeleteTournamentCode(ctx, code)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to delete tournament code")
		http.Error(w, "Failed to delete code", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "Code not found", http.StatusNotFound)
		return
	}

	logger.Info().Msg("Tournament code deleted")

	if htmx.IsRequest(r) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCodeFormError(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	if htmx.IsRequest(r) {
		data := codestempl.CodesPageData{FormCode: code, FormError: message}
		apiutil.RenderHTMLComponentStatus(r.Context(), w, status, codestempl.CodeForm(data), nil, "Failed to render code form", "Failed to render response")
		return
	}
	http.Error(w, message, status)
}

func decodeCodeRequest(r *http.Request) (codeRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req codeRequest
		return req, apiutil.DecodeJSON(r, &req)
	}
	if err := r.ParseForm(); err != nil {
		return codeRequest{}, err
	}
	return codeRequest{Code: r.FormValue("code")}, nil
}

func loadQueries() *dbgen.Queries {
	return queries
}
