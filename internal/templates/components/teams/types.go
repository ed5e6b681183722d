package teams

import (
	dbgen "github.com/codr1/Arena/internal/db/generated"
)

type TeamsPageData struct {
	Sport dbgen.Sport
	Teams []dbgen.Team
}

type TeamPlayersData struct {
	Team    dbgen.Team
	Sport   dbgen.Sport
	Players []Player
}

type Player struct {
	dbgen.ListTeamPlayersRow
}

type OwnerTeamsData struct {
	Sport     dbgen.Sport
	Teams     []dbgen.Team
	Users     []dbgen.User
	FormError string
	FormName  string
	Selected  map[int64]bool
}

func NewPlayerList(rows []dbgen.ListTeamPlayersRow) []Player {
	players := make([]Player, len(rows))
	for i, row := range rows {
		players[i] = Player{ListTeamPlayersRow: row}
	}
	return players
}

func (p Player) ImageURL() string {
	if p.ImageUrl.Valid {
		return p.ImageUrl.String
	}
	return ""
}
