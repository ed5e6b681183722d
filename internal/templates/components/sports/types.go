package sports

import (
	dbgen "github.com/codr1/Arena/internal/db/generated"
)

type Sport struct {
	dbgen.Sport
}

type HomeData struct {
	Sports      []Sport
	PlayerCount int64
	SportCount  int64
	IsOwner     bool
}

type OwnerSportsData struct {
	Sports    []Sport
	FormError string
	FormName  string
	FormDate  string
}

func NewSportList(rows []dbgen.Sport) []Sport {
	sports := make([]Sport, len(rows))
	for i, row := range rows {
		sports[i] = Sport{Sport: row}
	}
	return sports
}

func (s Sport) DateLabel() string {
	return s.EventDate.UTC().Format("Mon, Jan 2, 2006")
}
