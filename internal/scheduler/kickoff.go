package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/Arena/internal/db/generated"
	"github.com/codr1/Arena/internal/live"
)

const (
	KickoffJobName = "match_kickoff"
	kickoffTimeout = 30 * time.Second
)

type KickoffQuerier interface {
	ListDueMatches(ctx context.Context, scheduledAt sql.NullTime) ([]dbgen.Match, error)
	MarkMatchLive(ctx context.Context, id int64) (int64, error)
	GetMatchWithTeams(ctx context.Context, id int64) (dbgen.GetMatchWithTeamsRow, error)
}

// Publisher receives match events for live subscribers.
type Publisher interface {
	Publish(sportID int64, event live.Event)
}

// PromoteDueMatches moves every upcoming match whose scheduled time has
// passed to live and publishes a status event for each. It returns how many
// matches were promoted.
func PromoteDueMatches(ctx context.Context, q KickoffQuerier, pub Publisher, now time.Time) (int, error) {
	due, err := q.ListDueMatches(ctx, sql.NullTime{Time: now.UTC(), Valid: true})
	if err != nil {
		return 0, fmt.Errorf("list due matches: %w", err)
	}

	promoted := 0
	for _, match := range due {
		matchLogger := log.Ctx(ctx).With().Int64("match_id", match.ID).Int64("sport_id", match.SportID).Logger()

		rows, err := q.MarkMatchLive(ctx, match.ID)
		if err != nil {
			matchLogger.Error().Err(err).Msg("Failed to mark match live")
			continue
		}
		// Another writer changed the status first.
		if rows == 0 {
			continue
		}
		promoted++
		matchLogger.Info().Msg("Match kicked off")

		if pub == nil {
			continue
		}
		row, err := q.GetMatchWithTeams(ctx, match.ID)
		if err != nil {
			matchLogger.Error().Err(err).Msg("Failed to load match for live event")
			continue
		}
		pub.Publish(match.SportID, live.Event{Type: live.EventStatus, MatchID: match.ID, Match: row})
	}
	return promoted, nil
}

// RegisterKickoffJob adds the match kickoff job to svc.
func RegisterKickoffJob(svc *Service, q KickoffQuerier, pub Publisher, cronExpr string) error {
	if q == nil {
		return fmt.Errorf("kickoff job requires queries")
	}
	_, err := svc.AddJob(KickoffJobName, cronExpr, kickoffTimeout, func(ctx context.Context) error {
		count, err := PromoteDueMatches(ctx, q, pub, time.Now())
		if err != nil {
			return err
		}
		if count > 0 {
			log.Ctx(ctx).Info().Int("promoted", count).Msg("Promoted scheduled matches to live")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("add match kickoff job: %w", err)
	}
	return nil
}
