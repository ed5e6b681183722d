// Package ratelimit throttles Owner login attempts, player registrations and
// public API traffic per client IP.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	registrationWindow = time.Hour
	cleanupInterval    = 5 * time.Minute
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	// Owner login limits
	LoginMaxAttempts int           // Failed attempts before lockout (default: 5)
	LoginWindow      time.Duration // Window in which failures are counted (default: 15m)
	LoginLockout     time.Duration // Lockout duration after max attempts (default: 15m)

	// Registration limits
	RegistrationMaxIPPerHour int // Max registrations per IP per hour (default: 10)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		LoginMaxAttempts:         5,
		LoginWindow:              15 * time.Minute,
		LoginLockout:             15 * time.Minute,
		RegistrationMaxIPPerHour: 10,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

type entry struct {
	count    int
	firstAt  time.Time
	lastAt   time.Time
	lockedAt time.Time
}

// window counts events per key over a fixed span. With a lockout the key is
// blocked for that long once the limit is hit; without one the full window
// blocks until it rolls over.
type window struct {
	limit   int
	span    time.Duration
	lockout time.Duration
	reason  string
	entries map[string]*entry
}

func newWindow(limit int, span, lockout time.Duration, reason string) *window {
	return &window{limit: limit, span: span, lockout: lockout, reason: reason, entries: make(map[string]*entry)}
}

func (w *window) locked(e *entry, now time.Time) (time.Duration, bool) {
	if w.lockout <= 0 || e.lockedAt.IsZero() {
		return 0, false
	}
	if elapsed := now.Sub(e.lockedAt); elapsed < w.lockout {
		return w.lockout - elapsed, true
	}
	return 0, false
}

func (w *window) check(key string, now time.Time) LimitResult {
	e := w.entries[key]
	if e == nil {
		return LimitResult{Allowed: true}
	}
	if remaining, ok := w.locked(e, now); ok {
		return LimitResult{RetryAfter: remaining, Reason: "lockout"}
	}
	if !e.lockedAt.IsZero() {
		// Lockout served; the next event starts over.
		return LimitResult{Allowed: true}
	}
	elapsed := now.Sub(e.firstAt)
	if elapsed < w.span && e.count >= w.limit {
		retry := w.span - elapsed
		if w.lockout > 0 {
			retry = w.lockout
		}
		return LimitResult{RetryAfter: retry, Reason: w.reason}
	}
	return LimitResult{Allowed: true}
}

// record counts one event and reports whether it started a lockout.
func (w *window) record(key string, now time.Time) bool {
	e := w.entries[key]
	fresh := e == nil
	if !fresh {
		if e.lockedAt.IsZero() {
			fresh = now.Sub(e.firstAt) >= w.span
		} else {
			_, stillLocked := w.locked(e, now)
			fresh = !stillLocked
		}
	}
	if fresh {
		e = &entry{firstAt: now}
		w.entries[key] = e
	}
	e.count++
	e.lastAt = now

	if w.lockout > 0 && e.lockedAt.IsZero() && e.count >= w.limit {
		e.lockedAt = now
		return true
	}
	return false
}

func (w *window) prune(now time.Time) {
	maxAge := w.span + w.lockout
	for key, e := range w.entries {
		if now.Sub(e.lastAt) > maxAge {
			delete(w.entries, key)
		}
	}
}

// Limiter tracks login failures and registrations per client IP. IPs are
// stored hashed.
type Limiter struct {
	config *Config
	clock  Clock

	mu       sync.Mutex
	login    *window
	register *window

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config. Zero fields take
// their DefaultConfig values.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	defaults := DefaultConfig()
	if cfg.LoginMaxAttempts <= 0 {
		cfg.LoginMaxAttempts = defaults.LoginMaxAttempts
	}
	if cfg.LoginWindow <= 0 {
		cfg.LoginWindow = defaults.LoginWindow
	}
	if cfg.LoginLockout <= 0 {
		cfg.LoginLockout = defaults.LoginLockout
	}
	if cfg.RegistrationMaxIPPerHour <= 0 {
		cfg.RegistrationMaxIPPerHour = defaults.RegistrationMaxIPPerHour
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		login:         newWindow(cfg.LoginMaxAttempts, cfg.LoginWindow, cfg.LoginLockout, "max_attempts"),
		register:      newWindow(cfg.RegistrationMaxIPPerHour, registrationWindow, 0, "ip_hourly_limit"),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// CheckLogin reports whether a login attempt from ip may proceed. It does
// not count the attempt; call RecordLoginFailure when the password is wrong.
func (l *Limiter) CheckLogin(ip string) LimitResult {
	l.startCleanup()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.login.check(hashIP(ip), l.clock.Now())
}

// RecordLoginFailure counts a failed login and reports whether it triggered
// a lockout.
func (l *Limiter) RecordLoginFailure(ip string) (lockedOut bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.login.record(hashIP(ip), l.clock.Now())
}

// ResetLogin clears the failure counter after a successful login.
func (l *Limiter) ResetLogin(ip string) {
	l.mu.Lock()
	delete(l.login.entries, hashIP(ip))
	l.mu.Unlock()
}

// CheckRegistration reports whether ip may submit another registration.
func (l *Limiter) CheckRegistration(ip string) LimitResult {
	l.startCleanup()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.register.check(hashIP(ip), l.clock.Now())
}

// RecordRegistration counts a successful registration from ip.
func (l *Limiter) RecordRegistration(ip string) {
	l.mu.Lock()
	l.register.record(hashIP(ip), l.clock.Now())
	l.mu.Unlock()
}

func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.prune()
				}
			}
		}()
	})
}

func (l *Limiter) prune() {
	now := l.clock.Now()
	l.mu.Lock()
	l.login.prune(now)
	l.register.prune(now)
	l.mu.Unlock()
}

// LogRateLimitExceeded logs a rate limit event.
func LogRateLimitExceeded(limitType, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("type", limitType).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Rate limit exceeded")
}
