package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type ipBuckets struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPBuckets(requestsPerWindow int, window time.Duration) *ipBuckets {
	rps := float64(requestsPerWindow) / window.Seconds()
	burst := requestsPerWindow / 2
	if burst < 1 {
		burst = 1
	}
	return &ipBuckets{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (b *ipBuckets) get(ip string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limiter, ok := b.limiters[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(b.rate, b.burst)
	b.limiters[ip] = limiter
	return limiter
}

// APIMiddleware rate-limits the public JSON API with a token bucket per client IP.
func APIMiddleware(requestsPerMinute int, trustProxy bool) func(http.Handler) http.Handler {
	buckets := newIPBuckets(requestsPerMinute, time.Minute)
	retryAfter := strconv.Itoa(int((time.Minute / time.Duration(max(requestsPerMinute, 1))).Seconds()) + 1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetClientIP(r, trustProxy)
			if !buckets.get(ip).Allow() {
				log.Ctx(r.Context()).Warn().
					Str("event", "rate_limit_exceeded").
					Str("type", "api").
					Str("ip", ip).
					Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
