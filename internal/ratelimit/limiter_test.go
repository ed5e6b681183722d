package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckLogin_LockoutAfterMaxAttempts(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		LoginMaxAttempts: 3,
		LoginWindow:      15 * time.Minute,
		LoginLockout:     5 * time.Minute,
		Clock:            clock,
	})
	defer limiter.Close()

	ip := "203.0.113.10"

	for i := 0; i < 2; i++ {
		if result := limiter.CheckLogin(ip); !result.Allowed {
			t.Fatalf("attempt %d should be allowed, got %s", i+1, result.Reason)
		}
		if limiter.RecordLoginFailure(ip) {
			t.Fatalf("attempt %d should not trigger lockout", i+1)
		}
	}

	if !limiter.RecordLoginFailure(ip) {
		t.Fatal("third failure should trigger lockout")
	}

	result := limiter.CheckLogin(ip)
	if result.Allowed {
		t.Fatal("login should be blocked during lockout")
	}
	if result.Reason != "lockout" {
		t.Errorf("Expected reason 'lockout', got '%s'", result.Reason)
	}
	if result.RetryAfter != 5*time.Minute {
		t.Errorf("Expected retry after 5m, got %s", result.RetryAfter)
	}

	clock.Advance(5 * time.Minute)
	if result := limiter.CheckLogin(ip); !result.Allowed {
		t.Fatalf("login should be allowed after lockout, got %s", result.Reason)
	}
	if limiter.RecordLoginFailure(ip) {
		t.Fatal("first failure after lockout should start a fresh window")
	}
}

func TestCheckLogin_ResetOnSuccess(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{LoginMaxAttempts: 2, Clock: clock})
	defer limiter.Close()

	ip := "203.0.113.11"
	limiter.RecordLoginFailure(ip)
	limiter.ResetLogin(ip)
	limiter.RecordLoginFailure(ip)

	if result := limiter.CheckLogin(ip); !result.Allowed {
		t.Fatalf("reset should clear prior failures, got %s", result.Reason)
	}
}

func TestCheckLogin_WindowExpires(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		LoginMaxAttempts: 3,
		LoginWindow:      10 * time.Minute,
		Clock:            clock,
	})
	defer limiter.Close()

	ip := "203.0.113.12"
	limiter.RecordLoginFailure(ip)
	limiter.RecordLoginFailure(ip)
	clock.Advance(11 * time.Minute)

	if limiter.RecordLoginFailure(ip) {
		t.Fatal("failures outside the window should not accumulate")
	}
}

func TestCheckLogin_SeparateIPs(t *testing.T) {
	limiter := New(&Config{LoginMaxAttempts: 1, Clock: newMockClock()})
	defer limiter.Close()

	limiter.RecordLoginFailure("203.0.113.1")
	if result := limiter.CheckLogin("203.0.113.2"); !result.Allowed {
		t.Fatal("other IPs must not be affected by a lockout")
	}
}

func TestCheckRegistration_HourlyLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{RegistrationMaxIPPerHour: 2, Clock: clock})
	defer limiter.Close()

	ip := "198.51.100.7"
	for i := 0; i < 2; i++ {
		if result := limiter.CheckRegistration(ip); !result.Allowed {
			t.Fatalf("registration %d should be allowed", i+1)
		}
		limiter.RecordRegistration(ip)
	}

	result := limiter.CheckRegistration(ip)
	if result.Allowed {
		t.Fatal("third registration within the hour should be blocked")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Errorf("Expected reason 'ip_hourly_limit', got '%s'", result.Reason)
	}

	clock.Advance(time.Hour)
	if result := limiter.CheckRegistration(ip); !result.Allowed {
		t.Fatal("registration should be allowed after the hour passes")
	}
}

func TestCheckRegistration_CheckDoesNotConsume(t *testing.T) {
	limiter := New(&Config{RegistrationMaxIPPerHour: 1, Clock: newMockClock()})
	defer limiter.Close()

	for i := 0; i < 10; i++ {
		if result := limiter.CheckRegistration("198.51.100.8"); !result.Allowed {
			t.Fatalf("check %d should be allowed without prior Record", i+1)
		}
	}
}

func TestWindowWithoutLockoutReportsRemainingSpan(t *testing.T) {
	w := newWindow(2, time.Hour, 0, "ip_hourly_limit")
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if w.record("k", start) || w.record("k", start.Add(10*time.Minute)) {
		t.Fatal("a window without lockout never trips")
	}

	result := w.check("k", start.Add(20*time.Minute))
	if result.Allowed {
		t.Fatal("expected limit to block")
	}
	if result.RetryAfter != 40*time.Minute {
		t.Fatalf("expected 40m until the window rolls over, got %s", result.RetryAfter)
	}
}

func TestLimiterPrunesIdleEntries(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{LoginWindow: time.Minute, LoginLockout: time.Minute, Clock: clock})
	defer limiter.Close()

	limiter.RecordLoginFailure("203.0.113.20")
	limiter.RecordRegistration("203.0.113.20")

	clock.Advance(30 * time.Minute)
	limiter.prune()
	if n := len(limiter.login.entries); n != 0 {
		t.Fatalf("expected idle login entry pruned, got %d", n)
	}
	if n := len(limiter.register.entries); n != 1 {
		t.Fatalf("expected registration entry kept inside its hour, got %d", n)
	}

	clock.Advance(time.Hour)
	limiter.prune()
	if n := len(limiter.register.entries); n != 0 {
		t.Fatalf("expected registration entry pruned, got %d", n)
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()

	if limiter.config.LoginMaxAttempts != 5 {
		t.Errorf("Expected default LoginMaxAttempts 5, got %d", limiter.config.LoginMaxAttempts)
	}
	if limiter.config.RegistrationMaxIPPerHour != 10 {
		t.Errorf("Expected default RegistrationMaxIPPerHour 10, got %d", limiter.config.RegistrationMaxIPPerHour)
	}
}

func TestLimiter_Close(t *testing.T) {
	limiter := New(nil)
	limiter.CheckLogin("203.0.113.1")

	done := make(chan struct{})
	go func() {
		limiter.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(&Config{LoginMaxAttempts: 1000, RegistrationMaxIPPerHour: 1000})
	defer limiter.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ip := "10.0.0.1"
			if i%2 == 0 {
				ip = "10.0.0.2"
			}
			limiter.CheckLogin(ip)
			limiter.RecordLoginFailure(ip)
			limiter.CheckRegistration(ip)
			limiter.RecordRegistration(ip)
		}(i)
	}

	wg.Wait()
}
