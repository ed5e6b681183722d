package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/codr1/Arena/internal/api/authz"
)

const (
	signedCookieName  = "arena_auth"
	sessionCookieName = "arena_session"
	sessionTTL        = 8 * time.Hour
	sessionTokenBytes = 32
	sweepInterval     = 15 * time.Minute
)

var (
	errSecretMissing   = errors.New("APP_SECRET_KEY is not configured")
	errNotOwner        = errors.New("only the Owner can hold a session")
	errMalformedCookie = errors.New("malformed auth cookie")
	errBadSignature    = errors.New("auth cookie signature mismatch")
	errCookieExpired   = errors.New("auth cookie expired")
	errNoSession       = errors.New("no owner session has been issued")
)

// claims is the payload of the signed Owner cookie. Nonce ties the cookie
// to the login that issued it.
type claims struct {
	Role    string `json:"role"`
	Nonce   string `json:"nonce"`
	Expires int64  `json:"exp"`
}

// sessionStore holds live Owner session tokens in memory. There is one
// Owner, so signing in again revokes every earlier token and signed cookie.
// nonce is empty until the first login and after a logout.
type sessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	nonce  string
	sweep  sync.Once
}

var ownerSessions = &sessionStore{tokens: make(map[string]time.Time)}

func (s *sessionStore) issue(now time.Time) (string, time.Time, error) {
	s.startSweeper()

	token, err := randomToken()
	if err != nil {
		return "", time.Time{}, err
	}
	nonce, err := randomToken()
	if err != nil {
		return "", time.Time{}, err
	}
	expires := now.Add(sessionTTL)

	s.mu.Lock()
	clear(s.tokens)
	s.tokens[token] = expires
	s.nonce = nonce
	s.mu.Unlock()
	return token, expires, nil
}

func randomToken() (string, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func (s *sessionStore) currentNonce() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}

func (s *sessionStore) nonceMatches(nonce string) bool {
	current := s.currentNonce()
	return current != "" && hmac.Equal([]byte(nonce), []byte(current))
}

// revokeAll drops every token and invalidates outstanding signed cookies.
func (s *sessionStore) revokeAll() {
	s.mu.Lock()
	clear(s.tokens)
	s.nonce = ""
	s.mu.Unlock()
}

func (s *sessionStore) valid(token string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.tokens[token]
	if ok && !now.Before(expires) {
		delete(s.tokens, token)
		return false
	}
	return ok
}

func (s *sessionStore) prune(now time.Time) {
	s.mu.Lock()
	for token, expires := range s.tokens {
		if !now.Before(expires) {
			delete(s.tokens, token)
		}
	}
	s.mu.Unlock()
}

func (s *sessionStore) startSweeper() {
	s.sweep.Do(func() {
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for now := range ticker.C {
				s.prune(now)
			}
		}()
	})
}

func ownerUser() *authz.AuthUser {
	return &authz.AuthUser{ID: authz.OwnerID, Role: authz.RoleOwner}
}

func writeCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	if w == nil {
		return
	}
	maxAge := int(time.Until(expires).Seconds())
	if value == "" {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   appConfig == nil || !appConfig.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		MaxAge:   maxAge,
	})
}

// CreateSession issues a fresh in-memory session for the Owner.
func CreateSession(w http.ResponseWriter, user *authz.AuthUser) error {
	if w == nil {
		return errors.New("session requires a response writer")
	}
	if !authz.IsOwner(user) {
		return errNotOwner
	}

	token, expires, err := ownerSessions.issue(time.Now())
	if err != nil {
		return err
	}
	writeCookie(w, sessionCookieName, token, expires)
	return nil
}

// SetAuthCookie writes the signed cookie bound to the current login. It
// keeps the Owner signed in when the session cookie is missing, until the
// next login or logout. A restart signs the Owner out.
func SetAuthCookie(w http.ResponseWriter, r *http.Request, user *authz.AuthUser) error {
	if !authz.IsOwner(user) {
		return errNotOwner
	}
	nonce := ownerSessions.currentNonce()
	if nonce == "" {
		return errNoSession
	}

	expires := time.Now().Add(sessionTTL)
	value, err := encodeSigned(claims{Role: user.Role, Nonce: nonce, Expires: expires.Unix()})
	if err != nil {
		return err
	}
	writeCookie(w, signedCookieName, value, expires)
	return nil
}

// ClearSession signs the Owner out everywhere and expires both cookies.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	ownerSessions.revokeAll()
	writeCookie(w, sessionCookieName, "", time.Unix(0, 0))
	writeCookie(w, signedCookieName, "", time.Unix(0, 0))
}

// UserFromRequest resolves the Owner from the session cookie, then the
// signed cookie. Anonymous requests yield nil, nil.
func UserFromRequest(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, error) {
	if r == nil {
		return nil, nil
	}
	now := time.Now()

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if ownerSessions.valid(cookie.Value, now) {
			return ownerUser(), nil
		}
		writeCookie(w, sessionCookieName, "", time.Unix(0, 0))
	}

	cookie, err := r.Cookie(signedCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c, err := decodeSigned(cookie.Value, now)
	if err != nil {
		return nil, err
	}
	if c.Role != authz.RoleOwner || !ownerSessions.nonceMatches(c.Nonce) {
		writeCookie(w, signedCookieName, "", time.Unix(0, 0))
		return nil, nil
	}
	return ownerUser(), nil
}

func encodeSigned(c claims) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	sig, err := sign(body)
	if err != nil {
		return "", err
	}
	return body + "." + sig, nil
}

func decodeSigned(value string, now time.Time) (claims, error) {
	body, sig, ok := strings.Cut(value, ".")
	if !ok || body == "" || sig == "" {
		return claims{}, errMalformedCookie
	}

	expected, err := sign(body)
	if err != nil {
		return claims{}, err
	}
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return claims{}, errBadSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return claims{}, errMalformedCookie
	}
	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return claims{}, errMalformedCookie
	}
	if c.Expires <= now.Unix() {
		return claims{}, errCookieExpired
	}
	return c, nil
}

func sign(body string) (string, error) {
	if appConfig == nil || appConfig.App.SecretKey == "" {
		return "", errSecretMissing
	}
	mac := hmac.New(sha256.New, []byte(appConfig.App.SecretKey))
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
