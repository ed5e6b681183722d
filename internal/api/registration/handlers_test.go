package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codr1/Arena/internal/config"
	appdb "github.com/codr1/Arena/internal/db"
	"github.com/codr1/Arena/internal/ratelimit"
	"github.com/codr1/Arena/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type fakeStore struct {
	mu          sync.Mutex
	keys        []string
	deleted     []string
	contentType string
	body        []byte
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	s.contentType = contentType
	s.body = data
	return "/uploads/" + key, nil
}

type fakeSender struct {
	sent chan string
}

func (s *fakeSender) Send(ctx context.Context, recipient, subject, body string) error {
	s.sent <- recipient + "|" + subject
	return nil
}

func (s *fakeSender) SendFrom(ctx context.Context, recipient, subject, body, from string) error {
	return s.Send(ctx, recipient, subject, body)
}

type registrationEnv struct {
	db     *appdb.DB
	store  *fakeStore
	sender *fakeSender
}

func setupRegistrationTest(t *testing.T, perHour int) registrationEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	cfg := &config.Config{}
	cfg.App.Name = "Arena"
	cfg.App.BaseURL = "https://arena.example"
	cfg.Registration.PhoneRegion = "IN"
	cfg.Storage.MaxUploadBytes = 1 << 20
	cfg.Notifications.OwnerEmail = "owner@example.com"

	env := registrationEnv{
		db:     db,
		store:  &fakeStore{},
		sender: &fakeSender{sent: make(chan string, 4)},
	}
	l := ratelimit.New(&ratelimit.Config{RegistrationMaxIPPerHour: perHour, LoginMaxAttempts: 5, LoginWindow: time.Minute, LoginLockout: time.Minute})
	t.Cleanup(l.Close)

	prevQueries, prevValidator, prevStore, prevSender, prevLimiter, prevConfig := queries, validator, store, sender, limiter, appConfig
	InitHandlers(db, Deps{Config: cfg, Store: env.store, Sender: env.sender, Limiter: l})
	t.Cleanup(func() {
		queries, validator, store, sender, limiter, appConfig = prevQueries, prevValidator, prevStore, prevSender, prevLimiter, prevConfig
	})

	testutil.CreateCode(t, db, "ARENA24")
	testutil.SetRegistrationStatus(t, db, "open")
	return env
}

func multipartRequest(t *testing.T, fields map[string]string, photo []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if photo != nil {
		part, err := mw.CreateFormFile("photo", "me.png")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(photo); err != nil {
			t.Fatalf("write photo: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registration", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.RemoteAddr = "203.0.113.7:5555"
	return req
}

func validFields() map[string]string {
	return map[string]string{"name": "Asha", "mobile": "98765 43210", "tournament_code": "ARENA24"}
}

func TestHandleRegisterWithPhoto(t *testing.T) {
	env := setupRegistrationTest(t, 10)

	rec := httptest.NewRecorder()
	HandleRegister(rec, multipartRequest(t, validFields(), pngHeader))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body registrationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(body.ImageURL, "/uploads/players/") || !strings.HasSuffix(body.ImageURL, ".png") {
		t.Fatalf("unexpected image URL %q", body.ImageURL)
	}
	if env.store.contentType != "image/png" || !bytes.Equal(env.store.body, pngHeader) {
		t.Fatalf("expected the full sniffed PNG to be stored, got %q (%d bytes)", env.store.contentType, len(env.store.body))
	}

	user, err := env.db.Queries.GetUserByName(context.Background(), "Asha")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.PhoneNumber != "9876543210" {
		t.Fatalf("expected normalized phone, got %q", user.PhoneNumber)
	}

	select {
	case got := <-env.sender.sent:
		if got != "owner@example.com|[Arena] New player: Asha" {
			t.Fatalf("unexpected notification %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the Owner to be notified")
	}
}

func TestHandleRegisterRejectsBadInput(t *testing.T) {
	env := setupRegistrationTest(t, 10)
	testutil.CreateUser(t, env.db, "Ravi", "9123456789")

	tests := []struct {
		name   string
		fields map[string]string
		photo  []byte
		body   string
	}{
		{name: "taken name", fields: map[string]string{"name": "ravi", "mobile": "9876543210", "tournament_code": "ARENA24"}, body: "Name already exists"},
		{name: "taken mobile", fields: map[string]string{"name": "Asha", "mobile": "9123456789", "tournament_code": "ARENA24"}, body: "Mobile number already registered"},
		{name: "short mobile", fields: map[string]string{"name": "Asha", "mobile": "98765", "tournament_code": "ARENA24"}, body: "Invalid mobile number format"},
		{name: "bad code", fields: map[string]string{"name": "Asha", "mobile": "9876543210", "tournament_code": "NOPE"}, body: "Invalid tournament code"},
		{name: "not an image", fields: validFields(), photo: []byte("just some text"), body: "Photo must be a JPEG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, tt.fields, tt.photo)
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()
			HandleRegister(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("expected %q in form, got %s", tt.body, rec.Body.String())
			}
		})
	}

	count, err := env.db.Queries.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected no new players, got %d", count)
	}
	if len(env.store.keys) != 0 {
		t.Fatal("expected no photo to be stored")
	}
}

func TestHandleRegisterClosed(t *testing.T) {
	env := setupRegistrationTest(t, 10)
	testutil.SetRegistrationStatus(t, env.db, "closed")

	rec := httptest.NewRecorder()
	HandleRegister(rec, multipartRequest(t, validFields(), nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HandleRegisterPage(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	if !strings.Contains(rec.Body.String(), "Registration Closed") {
		t.Fatal("expected closed page")
	}
}

func TestHandleRegisterAfterDeadline(t *testing.T) {
	env := setupRegistrationTest(t, 10)
	appConfig.Registration.Deadline = "2026-03-01T18:00:00Z"

	prevNow := timeNow
	t.Cleanup(func() { timeNow = prevNow })

	tests := []struct {
		name       string
		now        time.Time
		wantStatus int
	}{
		{name: "before deadline", now: time.Date(2026, 3, 1, 17, 59, 0, 0, time.UTC), wantStatus: http.StatusCreated},
		{name: "at deadline", now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), wantStatus: http.StatusForbidden},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeNow = func() time.Time { return tt.now }

			fields := validFields()
			fields["name"] = fmt.Sprintf("Player %d", i)
			fields["mobile"] = fmt.Sprintf("987654321%d", i)
			rec := httptest.NewRecorder()
			HandleRegister(rec, multipartRequest(t, fields, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}

	// The stored status is still open; only the deadline closes the form.
	rec := httptest.NewRecorder()
	HandleRegisterPage(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	if !strings.Contains(rec.Body.String(), "Registration Closed") {
		t.Fatal("expected closed page after the deadline")
	}
	if status, _ := env.db.Queries.GetRegistrationStatus(context.Background()); status != "open" {
		t.Fatalf("expected stored status untouched, got %q", status)
	}
}

func TestHandleRegisterRemovesPhotoWhenInsertFails(t *testing.T) {
	env := setupRegistrationTest(t, 10)

	if _, err := env.db.Exec(`CREATE TRIGGER reject_players BEFORE INSERT ON users
		BEGIN SELECT RAISE(ABORT, 'players frozen'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	rec := httptest.NewRecorder()
	HandleRegister(rec, multipartRequest(t, validFields(), pngHeader))
	if rec.Code < http.StatusBadRequest {
		t.Fatalf("expected failure, got %d", rec.Code)
	}

	env.store.mu.Lock()
	defer env.store.mu.Unlock()
	if len(env.store.keys) != 1 {
		t.Fatalf("expected the photo to be uploaded once, got %v", env.store.keys)
	}
	if len(env.store.deleted) != 1 || env.store.deleted[0] != env.store.keys[0] {
		t.Fatalf("expected uploaded photo %v to be removed, got %v", env.store.keys, env.store.deleted)
	}
}

func TestHandleRegisterRateLimited(t *testing.T) {
	setupRegistrationTest(t, 1)

	rec := httptest.NewRecorder()
	HandleRegister(rec, multipartRequest(t, validFields(), nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	fields := map[string]string{"name": "Ravi", "mobile": "9123456789", "tournament_code": "ARENA24"}
	rec = httptest.NewRecorder()
	HandleRegister(rec, multipartRequest(t, fields, nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestHandleValidateField(t *testing.T) {
	env := setupRegistrationTest(t, 10)
	testutil.CreateUser(t, env.db, "Ravi", "9123456789")

	tests := []struct {
		field string
		value string
		want  string
	}{
		{field: "name", value: "Ravi", want: "Name already exists"},
		{field: "name", value: "Asha", want: "Name is available"},
		{field: "mobile", value: "12345", want: "Invalid mobile number format"},
		{field: "tournament_code", value: "ARENA24", want: "Valid tournament code"},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.value, func(t *testing.T) {
			values := url.Values{"field": {tt.field}, tt.field: {tt.value}}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/registration/validate", strings.NewReader(values.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()
			HandleValidateField(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("expected %q, got %s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleRegistrationToggle(t *testing.T) {
	env := setupRegistrationTest(t, 10)
	ctx := context.Background()

	toggle := func() string {
		rec := httptest.NewRecorder()
		HandleRegistrationToggle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/registration/toggle", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body["status"]
	}

	if got := toggle(); got != "closed" {
		t.Fatalf("expected closed, got %s", got)
	}
	if got := toggle(); got != "open" {
		t.Fatalf("expected open, got %s", got)
	}

	if _, err := env.db.DB.ExecContext(ctx, "DELETE FROM registration_status"); err != nil {
		t.Fatalf("delete status row: %v", err)
	}
	if got := toggle(); got != "open" {
		t.Fatalf("expected a missing row to toggle to open, got %s", got)
	}
}
