package codes

import (
	dbgen "github.com/codr1/Arena/internal/db/generated"
)

type CodesPageData struct {
	Codes     []dbgen.TournamentCode
	FormCode  string
	FormError string
}
