package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/Arena/internal/db/generated"
)

const (
	DeadlineJobName = "registration_deadline"
	deadlineTimeout = 10 * time.Second
)

type DeadlineQuerier interface {
	GetRegistrationStatus(ctx context.Context) (string, error)
	SetRegistrationStatus(ctx context.Context, status string) (dbgen.RegistrationStatus, error)
}

// CloseRegistrationAfterDeadline closes registration once now is at or past
// deadline. It reports whether it changed the status.
func CloseRegistrationAfterDeadline(ctx context.Context, q DeadlineQuerier, deadline, now time.Time) (bool, error) {
	if now.Before(deadline) {
		return false, nil
	}

	status, err := q.GetRegistrationStatus(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("load registration status: %w", err)
	}
	if err == nil && status == "closed" {
		return false, nil
	}

	if _, err := q.SetRegistrationStatus(ctx, "closed"); err != nil {
		return false, fmt.Errorf("close registration: %w", err)
	}
	log.Ctx(ctx).Info().Time("deadline", deadline).Msg("Registration closed at deadline")
	return true, nil
}

// RegisterDeadlineJob adds the registration deadline job to svc.
func RegisterDeadlineJob(svc *Service, q DeadlineQuerier, deadline time.Time, cronExpr string) error {
	if q == nil {
		return fmt.Errorf("deadline job requires queries")
	}
	_, err := svc.AddJob(DeadlineJobName, cronExpr, deadlineTimeout, func(ctx context.Context) error {
		_, err := CloseRegistrationAfterDeadline(ctx, q, deadline, time.Now())
		return err
	})
	if err != nil {
		return fmt.Errorf("add registration deadline job: %w", err)
	}
	return nil
}
