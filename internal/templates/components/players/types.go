package players

import (
	"database/sql"

	dbgen "github.com/codr1/Arena/internal/db/generated"
)

// Player is the public view of a registered user. It never carries the phone
// number.
type Player struct {
	ID       int64
	Name     string
	ImageURL string
}

type OwnerPlayer struct {
	dbgen.User
}

func NewPublicPlayers(users []dbgen.User) []Player {
	players := make([]Player, len(users))
	for i, user := range users {
		players[i] = Player{ID: user.ID, Name: user.Name, ImageURL: nullString(user.ImageUrl)}
	}
	return players
}

func NewOwnerPlayers(users []dbgen.User) []OwnerPlayer {
	players := make([]OwnerPlayer, len(users))
	for i, user := range users {
		players[i] = OwnerPlayer{User: user}
	}
	return players
}

func (p OwnerPlayer) ImageURL() string {
	return nullString(p.ImageUrl)
}

func (p OwnerPlayer) RegisteredLabel() string {
	return p.CreatedAt.Local().Format("Jan 2, 2006 3:04 PM")
}

func nullString(value sql.NullString) string {
	if value.Valid {
		return value.String
	}
	return ""
}
