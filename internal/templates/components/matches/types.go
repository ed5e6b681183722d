package matches

import (
	"strings"
	"time"

	dbgen "github.com/codr1/Arena/internal/db/generated"
	"github.com/codr1/Arena/internal/leagues"
)

type Match struct {
	dbgen.ListMatchesBySportRow
}

type PublicMatchesData struct {
	Sport   dbgen.Sport
	Matches []Match
}

type PointsTableData struct {
	Sport     dbgen.Sport
	Teams     []dbgen.Team
	Matches   []Match
	Standings []leagues.TeamStanding
	Form      MatchFormData
}

// MatchFormData backs the create form. Values are echoed back on errors.
type MatchFormData struct {
	SportID     int64
	Teams       []dbgen.Team
	Team1ID     int64
	Team2ID     int64
	Team1Points string
	Team2Points string
	Status      string
	ScheduledAt string
	Error       string
}

type RowData struct {
	Match Match
	Teams []dbgen.Team
	Error string
}

func NewMatch(row dbgen.ListMatchesBySportRow) Match {
	return Match{ListMatchesBySportRow: row}
}

func NewMatchFromDetail(row dbgen.GetMatchWithTeamsRow) Match {
	return Match{ListMatchesBySportRow: dbgen.ListMatchesBySportRow(row)}
}

func NewMatchList(rows []dbgen.ListMatchesBySportRow) []Match {
	matches := make([]Match, len(rows))
	for i, row := range rows {
		matches[i] = NewMatch(row)
	}
	return matches
}

func (m Match) Badge() string {
	return leagues.DisplayStatus(m.Status)
}

func (m Match) BadgeClass() string {
	switch m.Badge() {
	case "LIVE":
		return "bg-red-600 text-white animate-pulse"
	case "COMPLETED":
		return "bg-gray-700 text-white"
	default:
		return "bg-amber-100 text-amber-800"
	}
}

func (m Match) IsLive() bool {
	return strings.EqualFold(m.Status, leagues.StatusLive)
}

func (m Match) ScheduledLabel() string {
	if !m.ScheduledAt.Valid {
		return ""
	}
	return m.ScheduledAt.Time.In(time.Local).Format("Mon, Jan 2 3:04 PM")
}

func (m Match) ScheduledValue() string {
	if !m.ScheduledAt.Valid {
		return ""
	}
	return m.ScheduledAt.Time.In(time.Local).Format("2006-01-02T15:04")
}
