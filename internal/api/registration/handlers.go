// internal/api/registration/handlers.go
package registration

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Arena/internal/api/apiutil"
	"github.com/codr1/Arena/internal/api/authz"
	"github.com/codr1/Arena/internal/api/htmx"
	"github.com/codr1/Arena/internal/config"
	appdb "github.com/codr1/Arena/internal/db"
	dbgen "github.com/codr1/Arena/internal/db/generated"
	"github.com/codr1/Arena/internal/email"
	"github.com/codr1/Arena/internal/ratelimit"
	"github.com/codr1/Arena/internal/registration"
	"github.com/codr1/Arena/internal/storage"
	regtempl "github.com/codr1/Arena/internal/templates/components/registration"
	"github.com/codr1/Arena/internal/templates/layouts"
)

const (
	registrationQueryTimeout = 5 * time.Second
	uploadTimeout            = 30 * time.Second
	multipartOverhead        = 1 << 20
	photoField               = "photo"
)

var (
	queries   *dbgen.Queries
	validator *registration.Validator
	store     storage.ObjectStore
	sender    email.EmailSender
	limiter   *ratelimit.Limiter
	appConfig *config.Config
	timeNow   = time.Now
)

var (
	errPhotoTooLarge    = errors.New("photo too large")
	errUnsupportedPhoto = errors.New("unsupported photo type")
)

type registrationResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Deps are the collaborators the registration handlers need besides the DB.
type Deps struct {
	Config  *config.Config
	Store   storage.ObjectStore
	Sender  email.EmailSender
	Limiter *ratelimit.Limiter
}

// InitHandlers must be called during server startup before handling requests.
// A nil Sender disables Owner notifications.
func InitHandlers(database *appdb.DB, deps Deps) {
	if database == nil {
		return
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	queries = database.Queries
	validator = registration.NewValidator(database.Queries, cfg.Registration.PhoneRegion)
	store = deps.Store
	sender = deps.Sender
	limiter = deps.Limiter
	appConfig = cfg
}

// GET /register
func HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if validator == nil {
		logger.Error().Msg("Registration not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), registrationQueryTimeout)
	defer cancel()

	open, err := acceptingRegistrations(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load registration status")
		http.Error(w, "Failed to load registration", http.StatusInternalServerError)
		return
	}

	isOwner := authz.IsOwner(authz.UserFromContext(r.Context()))
	opts := layouts.PageOptions{Title: "Register", Active: "register", IsOwner: isOwner}
	if !open {
		apiutil.RenderHTMLComponent(r.Context(), w, layouts.Base(regtempl.ClosedPage(), opts), nil, "Failed to render registration closed page", "Failed to render page")
		return
	}

	page := layouts.Base(regtempl.RegisterPage(regtempl.FormData{MaxUploadMB: maxUploadMB()}), opts)
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render registration page", "Failed to render page")
}

// POST /api/v1/registration/validate
func HandleValidateField(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if validator == nil {
		logger.Error().Msg("Registration not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var rawField, value string
	if apiutil.IsJSONRequest(r) {
		var req struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rawField, value = req.Field, req.Value
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		rawField = r.FormValue("field")
		// htmx posts the input under its own name.
		value = apiutil.FirstNonEmpty(r.FormValue("value"), r.FormValue(rawField))
	}

	field, err := registration.ParseField(rawField)
	if err != nil {
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), registrationQueryTimeout)
	defer cancel()

	result, err := validator.CheckField(ctx, field, value)
	if err != nil {
		logger.Error().Err(err).Str("field", string(field)).Msg("Failed to validate registration field")
		http.Error(w, "Failed to validate field", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, regtempl.FieldFeedback(result.Valid, result.Message), nil, "Failed to render field feedback", "Failed to render response")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, result); err != nil {
		logger.Error().Err(err).Msg("Failed to write validation response")
	}
}

// POST /api/v1/registration
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil || validator == nil {
		logger.Error().Msg("Registration not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ip := ratelimit.GetClientIP(r, appConfig.RateLimit.TrustProxy)
	if limiter != nil {
		if result := limiter.CheckRegistration(ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded("registration", ip, result.Reason)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			http.Error(w, "Too many registrations from this network. Try again later.", http.StatusTooManyRequests)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), registrationQueryTimeout)
	defer cancel()

	open, err := acceptingRegistrations(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load registration status")
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}
	if !open {
		http.Error(w, "Registration is closed", http.StatusForbidden)
		return
	}

	maxUpload := maxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(maxUpload + multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Upload is too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	submission := registration.Submission{
		Name:           r.FormValue("name"),
		Mobile:         apiutil.FirstNonEmpty(r.FormValue("mobile"), r.FormValue("phone_number")),
		TournamentCode: apiutil.FirstNonEmpty(r.FormValue("tournament_code"), r.FormValue("code")),
	}
	form := regtempl.FormData{
		Name:           strings.TrimSpace(submission.Name),
		Mobile:         strings.TrimSpace(submission.Mobile),
		TournamentCode: strings.TrimSpace(submission.TournamentCode),
		MaxUploadMB:    maxUploadMB(),
	}

	normalized, problems, err := validator.ValidateSubmission(ctx, submission)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to validate registration")
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}
	if len(problems) > 0 {
		form.Errors = make(map[string]string, len(problems))
		for field, msg := range problems {
			form.Errors[string(field)] = msg
		}
		writeFormError(w, r, http.StatusBadRequest, form, firstProblem(problems))
		return
	}

	photo, err := savePhoto(r, maxUpload)
	if err != nil {
		switch {
		case errors.Is(err, errPhotoTooLarge):
			form.Errors = map[string]string{photoField: fmt.Sprintf("Photo must be %d MB or smaller", maxUploadMB())}
			writeFormError(w, r, http.StatusBadRequest, form, form.Errors[photoField])
		case errors.Is(err, storage.ErrInvalidKey), errors.Is(err, errUnsupportedPhoto):
			form.Errors = map[string]string{photoField: "Photo must be a JPEG, PNG, GIF or WebP image"}
			writeFormError(w, r, http.StatusBadRequest, form, form.Errors[photoField])
		default:
			logger.Error().Err(err).Msg("Failed to store player photo")
			http.Error(w, "Failed to save photo", http.StatusInternalServerError)
		}
		return
	}

	insertCtx, cancelInsert := context.WithTimeout(r.Context(), registrationQueryTimeout)
	defer cancelInsert()

	user, err := q.CreateUser(insertCtx, dbgen.CreateUserParams{
		Name:           normalized.Name,
		PhoneNumber:    normalized.Mobile,
		TournamentCode: normalized.TournamentCode,
		ImageUrl:       apiutil.ToNullString(photo.URL),
	})
	if err != nil {
		discardPhoto(r.Context(), photo)
		if apiutil.IsSQLiteUniqueViolation(err) {
			form.FormError = "That name or mobile number was just registered. Please check your details."
			writeFormError(w, r, http.StatusConflict, form, form.FormError)
			return
		}
		logger.Error().Err(err).Msg("Failed to create player")
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	imageURL := photo.URL
	if limiter != nil {
		limiter.RecordRegistration(ip)
	}
	logger.Info().Int64("user_id", user.ID).Bool("photo", imageURL != "").Msg("Player registered")

	notifyOwner(r.Context(), user, imageURL)

	if htmx.IsRequest(r) {
		component := regtempl.Success(regtempl.SuccessData{Name: user.Name, ImageURL: imageURL})
		apiutil.RenderHTMLComponentStatus(r.Context(), w, http.StatusCreated, component, nil, "Failed to render registration success", "Failed to render response")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, registrationResponse{ID: user.ID, Name: user.Name, ImageURL: imageURL}); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to write registration response")
	}
}

// GET /owner/registration
func HandleOwnerRegistrationPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil || validator == nil {
		logger.Error().Msg("Registration not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), registrationQueryTimeout)
	defer cancel()

	open, err := validator.IsOpen(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load registration status")
		http.Error(w, "Failed to load registration", http.StatusInternalServerError)
		return
	}
	count, err := q.CountUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count players")
		http.Error(w, "Failed to load registration", http.StatusInternalServerError)
		return
	}

	data := regtempl.OwnerData{Open: open, PlayerCount: count}
	if deadline, ok, err := appConfig.RegistrationDeadline(); err == nil && ok {
		data.Deadline = deadline.Local().Format("Jan 2, 2006 3:04 PM")
	}

	page := layouts.Base(regtempl.OwnerPage(data), layouts.PageOptions{Title: "Registration", Active: "owner-registration", IsOwner: true, OwnerArea: true})
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render owner registration page", "Failed to render page")
}

// POST /api/v1/registration/toggle
func HandleRegistrationToggle(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), registrationQueryTimeout)
	defer cancel()

	row, err := q.ToggleRegistrationStatus(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		// A missing row reads as closed, so toggling opens it.
		row, err = q.SetRegistrationStatus(ctx, registration.StatusOpen)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to toggle registration")
		http.Error(w, "Failed to toggle registration", http.StatusInternalServerError)
		return
	}

	logger.Info().Str("status", row.Status).Msg("Registration status changed")

	if htmx.IsRequest(r) {
		component := regtempl.Toggle(regtempl.OwnerData{Open: row.Status == registration.StatusOpen})
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render registration toggle", "Failed to render response")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": row.Status}); err != nil {
		logger.Error().Err(err).Msg("Failed to write registration status")
	}
}

// storedPhoto is an uploaded photo; the zero value means none was sent.
type storedPhoto struct {
	Key string
	URL string
}

// savePhoto stores the optional upload. The type is sniffed from the
// content, not trusted from the client.
func savePhoto(r *http.Request, maxUpload int64) (storedPhoto, error) {
	if r.MultipartForm == nil {
		return storedPhoto{}, nil
	}
	file, header, err := r.FormFile(photoField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return storedPhoto{}, nil
		}
		return storedPhoto{}, err
	}
	defer file.Close()

	if header.Size == 0 {
		return storedPhoto{}, nil
	}
	if header.Size > maxUpload {
		return storedPhoto{}, errPhotoTooLarge
	}

	contentType, body, err := sniffImage(file)
	if err != nil {
		return storedPhoto{}, err
	}
	if store == nil {
		return storedPhoto{}, errors.New("photo storage not configured")
	}

	ctx, cancel := context.WithTimeout(r.Context(), uploadTimeout)
	defer cancel()
	key := storage.PlayerPhotoKey(contentType)
	url, err := store.Put(ctx, key, contentType, body, header.Size)
	if err != nil {
		return storedPhoto{}, err
	}
	return storedPhoto{Key: key, URL: url}, nil
}

// discardPhoto removes a photo whose player row was never written.
func discardPhoto(ctx context.Context, photo storedPhoto) {
	if photo.Key == "" || store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uploadTimeout)
	defer cancel()
	if err := store.Delete(ctx, photo.Key); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", photo.Key).Msg("Failed to remove orphaned player photo")
	}
}

// acceptingRegistrations is false when the Owner closed registration or the
// configured deadline has passed, whichever comes first.
func acceptingRegistrations(ctx context.Context) (bool, error) {
	if appConfig != nil {
		deadline, ok, err := appConfig.RegistrationDeadline()
		if err != nil {
			return false, err
		}
		if ok && !timeNow().Before(deadline) {
			return false, nil
		}
	}
	return validator.IsOpen(ctx)
}



func sniffImage(file multipart.File) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read photo: %w", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !storage.IsAllowedImage(contentType) {
		return "", nil, errUnsupportedPhoto
	}
	return contentType, io.MultiReader(bytes.NewReader(head), file), nil
}

func notifyOwner(ctx context.Context, user dbgen.User, imageURL string) {
	if sender == nil || appConfig == nil || appConfig.Notifications.OwnerEmail == "" {
		return
	}
	playersURL := ""
	if base := strings.TrimRight(appConfig.App.BaseURL, "/"); base != "" {
		playersURL = base + "/owner/players"
	}
	msg := email.BuildRegistrationNotice(email.RegistrationDetails{
		SiteName:       appConfig.App.Name,
		PlayerName:     user.Name,
		PhoneNumber:    user.PhoneNumber,
		TournamentCode: user.TournamentCode,
		PhotoURL:       imageURL,
		RegisteredAt:   timeNow(),
		PlayersURL:     playersURL,
	})
	email.SendAsync(ctx, sender, appConfig.Notifications.OwnerEmail, msg, log.Ctx(ctx))
}

func writeFormError(w http.ResponseWriter, r *http.Request, status int, form regtempl.FormData, message string) {
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponentStatus(r.Context(), w, status, regtempl.RegisterForm(form), nil, "Failed to render registration form", "Failed to render response")
		return
	}
	if message == "" {
		message = http.StatusText(status)
	}
	http.Error(w, message, status)
}

// firstProblem picks a stable message for plain HTTP clients.
func firstProblem(problems map[registration.Field]string) string {
	for _, field := range []registration.Field{registration.FieldName, registration.FieldMobile, registration.FieldTournamentCode} {
		if msg, ok := problems[field]; ok {
			return msg
		}
	}
	return "Invalid registration"
}

func maxUploadBytes() int64 {
	if appConfig != nil && appConfig.Storage.MaxUploadBytes > 0 {
		return appConfig.Storage.MaxUploadBytes
	}
	return config.DefaultMaxUploadBytes
}

func maxUploadMB() int64 {
	return maxUploadBytes() >> 20
}

func loadQueries() *dbgen.Queries {
	return queries
}
