package balldontlie

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/timeutil"
)

func mapGame(g gameResponse) games.GameRecord {
	return games.GameRecord{
		ID:       fmt.Sprintf("%s-%d", providerName, g.ID),
		Date:     gameDay(g.Date),
		HomeTeam: mapTeam(g.HomeTeam, g.HomeTeamScore),
		AwayTeam: mapTeam(g.VisitorTeam, g.VisitorTeamScore),
		// No play-by-play or box scores on this API.
		LeadChanges:      estimateLeadChanges(g.HomeTeamScore, g.VisitorTeamScore),
		StarPlayersCount: 0,
		Provider:         providerName,
	}
}

func mapTeam(t teamResponse, score int) games.TeamScore {
	abbr := teams.Normalize(t.Abbreviation)
	if !teams.IsKnown(abbr) {
		if byName, ok := abbreviationFor(t); ok {
			abbr = byName
		}
	}
	name := strings.TrimSpace(t.FullName)
	if name == "" {
		name = strings.TrimSpace(t.Name)
	}
	return games.TeamScore{Name: name, Abbreviation: abbr, Score: score}
}

func abbreviationFor(t teamResponse) (string, bool) {
	if abbr, ok := teams.AbbreviationForName(t.FullName); ok {
		return abbr, true
	}
	return teams.AbbreviationForName(t.Name)
}

func isFinal(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), statusFinal)
}

// gameDay keeps the calendar day as published. Dates arrive either bare or as
// midnight UTC timestamps, so the UTC date is the game day.
func gameDay(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		if len(raw) >= len(timeutil.DateLayout) {
			return raw[:len(timeutil.DateLayout)]
		}
		return raw
	}
	return parsed.UTC().Format(timeutil.DateLayout)
}

// estimateLeadChanges guesses lead changes from the final margin.
func estimateLeadChanges(home, away int) int {
	margin := home - away
	if margin < 0 {
		margin = -margin
	}
	switch {
	case margin <= 3:
		return 15
	case margin <= 5:
		return 10
	case margin <= 10:
		return 5
	case margin <= 15:
		return 2
	default:
		return 0
	}
}
