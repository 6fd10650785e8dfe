package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TeamScore is one side of a completed game.
type TeamScore struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbr"`
	Score        int    `json:"score"`
}

// GameRecord is the normalized shape of one completed game.
// Totals and margins are always derived from the team scores.
type GameRecord struct {
	ID               string    `json:"game_id"`
	Date             string    `json:"game_date"`
	HomeTeam         TeamScore `json:"home_team"`
	AwayTeam         TeamScore `json:"away_team"`
	LeadChanges      int       `json:"lead_changes"`
	StarPlayersCount int       `json:"star_players_count"`
	Provider         string    `json:"provider,omitempty"`
}

var (
	ErrMissingID           = errors.New("game id is required")
	ErrMissingAbbreviation = errors.New("team abbreviation is required")
	ErrSameTeam            = errors.New("home and away abbreviations must differ")
	ErrNegativeValue       = errors.New("scores and counts must be non-negative")
)

// TotalPoints is the combined final score.
func (g GameRecord) TotalPoints() int {
	return g.HomeTeam.Score + g.AwayTeam.Score
}

// FinalMargin is the absolute final point differential.
func (g GameRecord) FinalMargin() int {
	d := g.HomeTeam.Score - g.AwayTeam.Score
	if d < 0 {
		return -d
	}
	return d
}

// HasTeam reports whether abbr played in the game.
func (g GameRecord) HasTeam(abbr string) bool {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if abbr == "" {
		return false
	}
	return strings.EqualFold(g.HomeTeam.Abbreviation, abbr) || strings.EqualFold(g.AwayTeam.Abbreviation, abbr)
}

// Validate checks the record invariants.
func (g GameRecord) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return ErrMissingID
	}
	home := strings.TrimSpace(g.HomeTeam.Abbreviation)
	away := strings.TrimSpace(g.AwayTeam.Abbreviation)
	if home == "" || away == "" {
		return fmt.Errorf("game %s: %w", g.ID, ErrMissingAbbreviation)
	}
	if strings.EqualFold(home, away) {
		return fmt.Errorf("game %s: %w", g.ID, ErrSameTeam)
	}
	if g.HomeTeam.Score < 0 || g.AwayTeam.Score < 0 || g.LeadChanges < 0 || g.StarPlayersCount < 0 {
		return fmt.Errorf("game %s: %w", g.ID, ErrNegativeValue)
	}
	return nil
}

type recordAlias GameRecord

// MarshalJSON adds the derived totals at encode time.
func (g GameRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		recordAlias
		TotalPoints int `json:"total_points"`
		FinalMargin int `json:"final_margin"`
	}{
		recordAlias: recordAlias(g),
		TotalPoints: g.TotalPoints(),
		FinalMargin: g.FinalMargin(),
	})
}
