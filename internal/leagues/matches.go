package leagues

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	dbgen "github.com/codr1/Arena/internal/db/generated"
)

const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchNotLive  = errors.New("match is not live")
	ErrInvalidTeam   = errors.New("team must be 1 or 2")
	ErrInvalidDelta  = errors.New("delta must be 1 or -1")
)

// ParseStatus validates Owner input. Blank defaults to upcoming.
func ParseStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	switch status {
	case "":
		return StatusUpcoming, nil
	case StatusUpcoming, StatusLive, StatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("status must be one of %s, %s, %s", StatusUpcoming, StatusLive, StatusCompleted)
	}
}

// DisplayStatus maps a stored status to its badge; unknown values show as upcoming.
func DisplayStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusLive:
		return "LIVE"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UPCOMING"
	}
}

// ScoreChange is a single +1/-1 applied to one side of a match.
type ScoreChange struct {
	MatchID int64
	Team    int
	Delta   int64
}

func (c ScoreChange) Validate() error {
	if c.MatchID <= 0 {
		return ErrMatchNotFound
	}
	if c.Team != 1 && c.Team != 2 {
		return ErrInvalidTeam
	}
	if c.Delta != 1 && c.Delta != -1 {
		return ErrInvalidDelta
	}
	return nil
}

// AdjustScore applies change in one UPDATE that clamps at zero and only
// matches live rows.
func AdjustScore(ctx context.Context, q *dbgen.Queries, change ScoreChange) (dbgen.Match, error) {
	if q == nil {
		return dbgen.Match{}, errors.New("queries are required")
	}
	if err := change.Validate(); err != nil {
		return dbgen.Match{}, err
	}

	var (
		match dbgen.Match
		err   error
	)
	switch change.Team {
	case 1:
		match, err = q.AdjustTeam1Points(ctx, dbgen.AdjustTeam1PointsParams{Delta: change.Delta, ID: change.MatchID})
	default:
		match, err = q.AdjustTeam2Points(ctx, dbgen.AdjustTeam2PointsParams{Delta: change.Delta, ID: change.MatchID})
	}
	if err == nil {
		return match, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return dbgen.Match{}, fmt.Errorf("adjust score: %w", err)
	}

	if _, lookupErr := q.GetMatch(ctx, change.MatchID); lookupErr != nil {
		if errors.Is(lookupErr, sql.ErrNoRows) {
			return dbgen.Match{}, ErrMatchNotFound
		}
		return dbgen.Match{}, fmt.Errorf("load match: %w", lookupErr)
	}
	return dbgen.Match{}, ErrMatchNotLive
}
