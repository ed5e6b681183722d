// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Arena/internal/api"
	"github.com/codr1/Arena/internal/api/auth"
	"github.com/codr1/Arena/internal/api/codes"
	"github.com/codr1/Arena/internal/api/matches"
	"github.com/codr1/Arena/internal/api/nav"
	"github.com/codr1/Arena/internal/api/players"
	"github.com/codr1/Arena/internal/api/registration"
	"github.com/codr1/Arena/internal/api/sports"
	"github.com/codr1/Arena/internal/api/teams"
	"github.com/codr1/Arena/internal/config"
	appdb "github.com/codr1/Arena/internal/db"
	"github.com/codr1/Arena/internal/email"
	"github.com/codr1/Arena/internal/live"
	"github.com/codr1/Arena/internal/ratelimit"
	"github.com/codr1/Arena/internal/storage"
)

type serverDeps struct {
	DB      *appdb.DB
	Store   storage.ObjectStore
	Sender  email.EmailSender
	Limiter *ratelimit.Limiter
	Hub     *live.Hub
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	router := http.NewServeMux()

	initHandlers(cfg, deps)
	registerRoutes(router, cfg, deps)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func initHandlers(cfg *config.Config, deps serverDeps) {
	auth.InitHandlers(cfg, deps.Limiter)
	sports.InitHandlers(deps.DB)
	teams.InitHandlers(deps.DB, deps.Hub)
	matches.InitHandlers(deps.DB, deps.Hub)
	players.InitHandlers(deps.DB)
	codes.InitHandlers(deps.DB)
	nav.InitHandlers(deps.DB)
	registration.InitHandlers(deps.DB, registration.Deps{
		Config:  cfg,
		Store:   deps.Store,
		Sender:  deps.Sender,
		Limiter: deps.Limiter,
	})
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, deps serverDeps) {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Current-URL"},
		AllowCredentials: false,
	})
	apiLimit := ratelimit.APIMiddleware(cfg.RateLimit.APIRequestsPerMinute, cfg.RateLimit.TrustProxy)

	public := func(h http.HandlerFunc) http.Handler {
		return corsHandler.Handler(apiLimit(h))
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return apiLimit(h)
	}
	owner := func(h http.HandlerFunc) http.Handler {
		return api.WithOwnerAuth(h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public pages
	mux.HandleFunc("GET /{$}", sports.HandleHomePage)
	mux.HandleFunc("GET /sports", sports.HandleSportsPage)
	mux.HandleFunc("GET /sports/{id}/teams", teams.HandleTeamsPage)
	mux.HandleFunc("GET /sports/{id}/matches", matches.HandlePublicMatchesPage)
	mux.HandleFunc("GET /teams/{id}/players", teams.HandleTeamPlayersPage)
	mux.HandleFunc("GET /players", players.HandlePlayersPage)
	mux.HandleFunc("GET /register", registration.HandleRegisterPage)
	mux.HandleFunc("GET /ws/sports/{id}", matches.HandleLiveSocket)

	// Public read API
	mux.Handle("OPTIONS /api/v1/", corsHandler.Handler(http.NotFoundHandler()))
	mux.Handle("GET /api/v1/search", public(nav.HandleSearch))
	mux.Handle("GET /api/v1/sports", public(sports.HandleSportsList))
	mux.Handle("GET /api/v1/sports/{id}", public(sports.HandleSportDetail))
	mux.Handle("GET /api/v1/sports/{id}/teams", public(teams.HandleTeamsList))
	mux.Handle("GET /api/v1/sports/{id}/matches", public(matches.HandleMatchesList))
	mux.Handle("GET /api/v1/sports/{id}/standings", public(matches.HandleStandings))
	mux.Handle("GET /api/v1/players", public(players.HandlePlayersList))

	// Registration
	mux.Handle("POST /api/v1/registration", limited(registration.HandleRegister))
	mux.Handle("POST /api/v1/registration/validate", limited(registration.HandleValidateField))

	// Owner session
	mux.HandleFunc("GET /owner/login", auth.HandleLoginPage)
	mux.HandleFunc("POST /owner/login", auth.HandleLogin)
	mux.HandleFunc("POST /owner/logout", auth.HandleLogout)
	mux.HandleFunc("GET /owner", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/owner/sports", http.StatusSeeOther)
	})

	// Owner pages
	mux.Handle("GET /owner/sports", owner(sports.HandleOwnerSportsPage))
	mux.Handle("GET /owner/sports/{id}/teams", owner(teams.HandleOwnerTeamsPage))
	mux.Handle("GET /owner/sports/{id}/points-table", owner(matches.HandlePointsTablePage))
	mux.Handle("GET /owner/players", owner(players.HandleOwnerPlayersPage))
	mux.Handle("GET /owner/codes", owner(codes.HandleCodesPage))
	mux.Handle("GET /owner/registration", owner(registration.HandleOwnerRegistrationPage))

	// Owner API
	mux.Handle("POST /api/v1/sports", owner(sports.HandleSportCreate))
	mux.Handle("DELETE /api/v1/sports/{id}", owner(sports.HandleSportDelete))
	mux.Handle("POST /api/v1/sports/{id}/teams", owner(teams.HandleTeamCreate))
	mux.Handle("DELETE /api/v1/teams/{id}", owner(teams.HandleTeamDelete))
	mux.Handle("POST /api/v1/sports/{id}/matches", owner(matches.HandleMatchCreate))
	mux.Handle("POST /api/v1/sports/{id}/fixtures", owner(matches.HandleFixturesGenerate))
	mux.Handle("PUT /api/v1/matches/{id}", owner(matches.HandleMatchUpdate))
	mux.Handle("DELETE /api/v1/matches/{id}", owner(matches.HandleMatchDelete))
	mux.Handle("POST /api/v1/matches/{id}/score", owner(matches.HandleScoreChange))
	mux.Handle("DELETE /api/v1/players/{id}", owner(players.HandlePlayerDelete))
	mux.Handle("GET /api/v1/codes", owner(codes.HandleCodesList))
	mux.Handle("POST /api/v1/codes", owner(codes.HandleCodeCreate))
	mux.Handle("DELETE /api/v1/codes/{code}", owner(codes.HandleCodeDelete))
	mux.Handle("POST /api/v1/registration/toggle", owner(registration.HandleRegistrationToggle))

	// Uploaded photos when stored on local disk
	if local, ok := deps.Store.(*storage.LocalStore); ok {
		fs := http.FileServer(http.Dir(local.Dir()))
		mux.Handle("GET "+local.PublicPath(), http.StripPrefix(local.PublicPath(), fs))
		log.Info().
			Str("path", local.PublicPath()).
			Str("dir", local.Dir()).
			Msg("Serving uploaded photos")
	}
}
