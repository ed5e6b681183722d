package leagues

import (
	"context"
	"errors"
	"sort"

	dbgen "github.com/codr1/Arena/internal/db/generated"
)

const (
	PointsForWin  = 2
	PointsForDraw = 1
	PointsForLoss = 0
)

type TeamStanding struct {
	TeamID        int64  `json:"teamId"`
	TeamName      string `json:"teamName"`
	MatchesPlayed int    `json:"matchesPlayed"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	ScoreFor      int64  `json:"scoreFor"`
	ScoreAgainst  int64  `json:"scoreAgainst"`
	ScoreDiff     int64  `json:"scoreDiff"`
	Points        int    `json:"points"`
}

func CalculateStandings(ctx context.Context, q *dbgen.Queries, sportID int64) ([]TeamStanding, error) {
	if q == nil {
		return nil, errors.New("queries are required")
	}
	if sportID <= 0 {
		return nil, errors.New("sport ID is required")
	}

	teams, err := q.ListTeamsBySport(ctx, sportID)
	if err != nil {
		return nil, err
	}
	matches, err := q.ListMatchesBySport(ctx, sportID)
	if err != nil {
		return nil, err
	}
	return ComputeStandings(teams, matches), nil
}

// ComputeStandings counts completed matches only. Every team appears, even
// without results.
func ComputeStandings(teams []dbgen.Team, matches []dbgen.ListMatchesBySportRow) []TeamStanding {
	byID := make(map[int64]*TeamStanding, len(teams))
	ordered := make([]*TeamStanding, 0, len(teams))
	for _, team := range teams {
		entry := &TeamStanding{TeamID: team.ID, TeamName: team.Name}
		byID[team.ID] = entry
		ordered = append(ordered, entry)
	}

	for _, match := range matches {
		if match.Status != StatusCompleted {
			continue
		}
		home, okHome := byID[match.Team1ID]
		away, okAway := byID[match.Team2ID]
		if !okHome || !okAway {
			continue
		}
		record(home, match.Team1Points, match.Team2Points)
		record(away, match.Team2Points, match.Team1Points)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.ScoreDiff != b.ScoreDiff {
			return a.ScoreDiff > b.ScoreDiff
		}
		return a.TeamName < b.TeamName
	})

	standings := make([]TeamStanding, 0, len(ordered))
	for _, entry := range ordered {
		standings = append(standings, *entry)
	}
	return standings
}

func record(entry *TeamStanding, scored, conceded int64) {
	entry.MatchesPlayed++
	entry.ScoreFor += scored
	entry.ScoreAgainst += conceded
	entry.ScoreDiff = entry.ScoreFor - entry.ScoreAgainst
	switch {
	case scored > conceded:
		entry.Wins++
		entry.Points += PointsForWin
	case scored < conceded:
		entry.Losses++
		entry.Points += PointsForLoss
	default:
		entry.Draws++
		entry.Points += PointsForDraw
	}
}
