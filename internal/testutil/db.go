package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/Arena/internal/db"
	dbgen "github.com/codr1/Arena/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// EventDate returns midnight UTC daysFromNow days from today.
func EventDate(daysFromNow int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+daysFromNow, 0, 0, 0, 0, time.UTC)
}

func CreateSport(t *testing.T, database *db.DB, name string) dbgen.Sport {
	t.Helper()

	sport, err := database.Queries.CreateSport(context.Background(), dbgen.CreateSportParams{
		Name:      name,
		EventDate: EventDate(7),
	})
	if err != nil {
		t.Fatalf("create sport %q: %v", name, err)
	}
	return sport
}

func CreateUser(t *testing.T, database *db.DB, name, phone string) dbgen.User {
	t.Helper()

	user, err := database.Queries.CreateUser(context.Background(), dbgen.CreateUserParams{
		Name:           name,
		PhoneNumber:    phone,
		TournamentCode: "TEST",
	})
	if err != nil {
		t.Fatalf("create user %q: %v", name, err)
	}
	return user
}

// CreateTeam inserts a team and adds the given users to its roster.
func CreateTeam(t *testing.T, database *db.DB, sportID int64, name string, userIDs ...int64) dbgen.Team {
	t.Helper()

	ctx := context.Background()
	team, err := database.Queries.CreateTeam(ctx, dbgen.CreateTeamParams{SportID: sportID, Name: name})
	if err != nil {
		t.Fatalf("create team %q: %v", name, err)
	}
	for _, userID := range userIDs {
		if _, err := database.Queries.AddTeamPlayer(ctx, dbgen.AddTeamPlayerParams{TeamID: team.ID, UserID: userID}); err != nil {
			t.Fatalf("add player %d to team %q: %v", userID, name, err)
		}
	}
	return team
}

func CreateMatch(t *testing.T, database *db.DB, sportID, team1ID, team2ID int64, status string, team1Points, team2Points int64) dbgen.Match {
	t.Helper()

	match, err := database.Queries.CreateMatch(context.Background(), dbgen.CreateMatchParams{
		SportID:     sportID,
		Team1ID:     team1ID,
		Team2ID:     team2ID,
		Team1Points: team1Points,
		Team2Points: team2Points,
		Status:      status,
		ScheduledAt: sql.NullTime{},
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return match
}

func CreateCode(t *testing.T, database *db.DB, code string) dbgen.TournamentCode {
	t.Helper()

	created, err := database.Queries.CreateTournamentCode(context.Background(), code)
	if err != nil {
		t.Fatalf("create code %q: %v", code, err)
	}
	return created
}

func SetRegistrationStatus(t *testing.T, database *db.DB, status string) {
	t.Helper()

	if _, err := database.Queries.SetRegistrationStatus(context.Background(), status); err != nil {
		t.Fatalf("set registration status %q: %v", status, err)
	}
}
