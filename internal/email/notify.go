package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const notificationTimeout = 5 * time.Second

// EmailSender delivers plain-text mail. SESClient and BreakerSender
// implement it; tests substitute fakes.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
	SendFrom(ctx context.Context, recipient, subject, body, sender string) error
}

type Message struct {
	Subject string
	Body    string
}

type RegistrationDetails struct {
	SiteName       string
	PlayerName     string
	PhoneNumber    string
	TournamentCode string
	PhotoURL       string
	RegisteredAt   time.Time
	PlayersURL     string
}

// BuildRegistrationNotice formats the message sent to the Owner for each new
// player registration.
func BuildRegistrationNotice(details RegistrationDetails) Message {
	site := strings.TrimSpace(details.SiteName)
	if site == "" {
		site = "Arena"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "A new player registered on %s.\n\n", site)
	fmt.Fprintf(&body, "Name: %s\n", details.PlayerName)
	fmt.Fprintf(&body, "Mobile: %s\n", details.PhoneNumber)
	fmt.Fprintf(&body, "Tournament code: %s\n", details.TournamentCode)
	if details.PhotoURL != "" {
		fmt.Fprintf(&body, "Photo: %s\n", details.PhotoURL)
	}
	if !details.RegisteredAt.IsZero() {
		fmt.Fprintf(&body, "Registered at: %s\n", details.RegisteredAt.Format("Monday, Jan 2, 2006 3:04 PM MST"))
	}
	if details.PlayersURL != "" {
		fmt.Fprintf(&body, "\nManage players: %s\n", details.PlayersURL)
	}

	return Message{
		Subject: fmt.Sprintf("[%s] New player: %s", site, details.PlayerName),
		Body:    body.String(),
	}
}

// SendAsync delivers msg in the background. The send outlives the caller's
// request but not notificationTimeout.
func SendAsync(ctx context.Context, sender EmailSender, recipient string, msg Message, logger *zerolog.Logger) <-chan error {
	done := make(chan error, 1)
	recipient = strings.TrimSpace(recipient)
	if sender == nil || recipient == "" || msg.Subject == "" {
		close(done)
		return done
	}

	if ctx == nil {
		ctx = context.Background()
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
	go func() {
		defer cancel()
		defer close(done)
		err := sender.Send(sendCtx, recipient, msg.Subject, msg.Body)
		if err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send notification email")
		}
		done <- err
	}()
	return done
}
