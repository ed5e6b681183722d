package auth

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Arena/internal/api/apiutil"
	"github.com/codr1/Arena/internal/api/authz"
	"github.com/codr1/Arena/internal/api/htmx"
	"github.com/codr1/Arena/internal/config"
	"github.com/codr1/Arena/internal/ratelimit"
	authtempl "github.com/codr1/Arena/internal/templates/components/auth"
	"github.com/codr1/Arena/internal/templates/layouts"
)

const ownerHome = "/owner/sports"

var (
	appConfig *config.Config
	limiter   *ratelimit.Limiter
)

// InitHandlers wires the config and login limiter used by the auth handlers.
func InitHandlers(cfg *config.Config, l *ratelimit.Limiter) {
	appConfig = cfg
	limiter = l
}

func trustProxy() bool {
	return appConfig != nil && appConfig.RateLimit.TrustProxy
}

// GET /owner/login
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	user, err := UserFromRequest(w, r)
	if err == nil && authz.IsOwner(user) {
		http.Redirect(w, r, ownerHome, http.StatusSeeOther)
		return
	}

	page := layouts.Base(authtempl.LoginPage(authtempl.LoginFormData{}), layouts.PageOptions{Title: "Owner Login"})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render login page", "Failed to render page")
}

// POST /owner/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	ip := ratelimit.GetClientIP(r, trustProxy())

	if limiter != nil {
		if result := limiter.CheckLogin(ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded("login", ip, result.Reason)
			w.Header().Set("Retry-After", retryAfterSeconds(result.RetryAfter))
			renderLoginError(w, r, http.StatusTooManyRequests, "Too many failed attempts. Try again later.", true)
			return
		}
	}

	if appConfig == nil || appConfig.App.OwnerPasswordHash == "" {
		logger.Error().Msg("Owner login attempted without OWNER_PASSWORD_HASH configured")
		http.Error(w, "Owner login is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	password := r.FormValue("password")
	if strings.TrimSpace(password) == "" {
		renderLoginError(w, r, http.StatusBadRequest, "Password is required", false)
		return
	}

	if !VerifyPassword(appConfig.App.OwnerPasswordHash, password) {
		lockedOut := false
		if limiter != nil {
			lockedOut = limiter.RecordLoginFailure(ip)
		}
		logger.Warn().Str("ip", ip).Bool("locked_out", lockedOut).Msg("Owner login failed")
		renderLoginError(w, r, http.StatusUnauthorized, "Incorrect password", lockedOut)
		return
	}

	if limiter != nil {
		limiter.ResetLogin(ip)
	}

	owner := ownerUser()
	if err := CreateSession(w, owner); err != nil {
		logger.Error().Err(err).Msg("Failed to create owner session")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	if err := SetAuthCookie(w, r, owner); err != nil {
		// The in-memory session is enough to continue.
		logger.Warn().Err(err).Msg("Signed auth cookie not issued")
	}

	logger.Info().Str("ip", ip).Msg("Owner signed in")
	redirect(w, r, ownerHome)
}

// POST /owner/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, r)
	log.Ctx(r.Context()).Info().Msg("Owner signed out")
	redirect(w, r, "/")
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if htmx.IsRequest(r) {
		htmx.Redirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func renderLoginError(w http.ResponseWriter, r *http.Request, status int, message string, locked bool) {
	data := authtempl.LoginFormData{Error: message, Locked: locked}
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponentStatus(r.Context(), w, status, authtempl.LoginForm(data), nil, "Failed to render login form", "Failed to render form")
		return
	}
	page := layouts.Base(authtempl.LoginPage(data), layouts.PageOptions{Title: "Owner Login"})
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, nil, "Failed to render login page", "Failed to render page")
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
