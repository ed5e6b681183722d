package leagues

import (
	"errors"
	"time"

	dbgen "github.com/codr1/Arena/internal/db/generated"
)

// Fixture is one generated pairing.
type Fixture struct {
	Round       int
	Team1       dbgen.Team
	Team2       dbgen.Team
	ScheduledAt time.Time
}

// GenerateRoundRobin pairs every team with every other team once using the
// circle method. Round n kicks off at start + (n-1)*interval; a zero start
// leaves fixtures unscheduled.
func GenerateRoundRobin(teams []dbgen.Team, start time.Time, interval time.Duration) ([]Fixture, error) {
	if len(teams) < 2 {
		return nil, errors.New("at least two teams are required")
	}
	if !start.IsZero() && interval <= 0 {
		return nil, errors.New("interval must be positive")
	}

	pairs := buildRoundRobinPairs(teams)
	fixtures := make([]Fixture, 0, len(pairs))
	for _, pairing := range pairs {
		fixture := Fixture{
			Round: pairing.Round,
			Team1: pairing.Team1,
			Team2: pairing.Team2,
		}
		if !start.IsZero() {
			fixture.ScheduledAt = start.Add(time.Duration(pairing.Round-1) * interval)
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}

type roundPair struct {
	Round int
	Team1 dbgen.Team
	Team2 dbgen.Team
}

func buildRoundRobinPairs(teams []dbgen.Team) []roundPair {
	working := make([]*dbgen.Team, 0, len(teams)+1)
	for i := range teams {
		working = append(working, &teams[i])
	}
	// nil is the bye slot for odd team counts
	if len(working)%2 == 1 {
		working = append(working, nil)
	}

	rounds := len(working) - 1
	pairs := make([]roundPair, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left == nil || right == nil {
				continue
			}
			team1 := *left
			team2 := *right
			if i == 0 && round%2 == 1 {
				team1, team2 = team2, team1
			}
			pairs = append(pairs, roundPair{
				Round: round + 1,
				Team1: team1,
				Team2: team2,
			})
		}
		rotateTeams(working)
	}

	return pairs
}

func rotateTeams(teams []*dbgen.Team) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}
