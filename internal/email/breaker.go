package email

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// BreakerSettings controls when the breaker opens and how long it stays open.
type BreakerSettings struct {
	MaxConsecutiveFailures uint32
	OpenTimeout            time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxConsecutiveFailures: 3,
		OpenTimeout:            60 * time.Second,
	}
}

// BreakerSender stops calling the wrapped sender after repeated failures.
// While open, sends fail fast with gobreaker.ErrOpenState.
type BreakerSender struct {
	next EmailSender
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerSender(next EmailSender, settings BreakerSettings) *BreakerSender {
	if settings.MaxConsecutiveFailures == 0 {
		settings.MaxConsecutiveFailures = DefaultBreakerSettings().MaxConsecutiveFailures
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = DefaultBreakerSettings().OpenTimeout
	}

	maxFailures := settings.MaxConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "email",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Email circuit breaker state changed")
		},
	})

	return &BreakerSender{next: next, cb: cb}
}

func (b *BreakerSender) Send(ctx context.Context, recipient, subject, body string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, recipient, subject, body)
	})
	return err
}

func (b *BreakerSender) SendFrom(ctx context.Context, recipient, subject, body, sender string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SendFrom(ctx, recipient, subject, body, sender)
	})
	return err
}

func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}
