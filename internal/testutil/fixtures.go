package testutil

import (
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
)

// SampleGame returns a valid completed game between two known teams.
func SampleGame(id, day, home, away string, homeScore, awayScore int) games.GameRecord {
	return games.GameRecord{
		ID:       id,
		Date:     day,
		HomeTeam: teamScore(home, homeScore),
		AwayTeam: teamScore(away, awayScore),
		Provider: "test",
	}
}

// CloseGame is a two-point game on day with some lead changes and stars.
func CloseGame(id, day string) games.GameRecord {
	g := SampleGame(id, day, "BOS", "LAL", 112, 110)
	g.LeadChanges = 12
	g.StarPlayersCount = 3
	return g
}

// Blowout is a thirty-point game on day.
func Blowout(id, day string) games.GameRecord {
	return SampleGame(id, day, "SAC", "POR", 130, 100)
}

func teamScore(abbr string, score int) games.TeamScore {
	t, _ := teams.Lookup(abbr)
	return games.TeamScore{Name: t.Name, Abbreviation: teams.Normalize(abbr), Score: score}
}
