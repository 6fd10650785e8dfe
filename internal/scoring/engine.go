// Package scoring turns a completed game into an itemized engagement score.
package scoring

import (
	"math"

	"github.com/preston-bernstein/nba-game-recommender/internal/buzz"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
)

// Inputs carries the optional signals that accompany a game.
type Inputs struct {
	Buzz         *buzz.Result
	FavoriteTeam string
	IsTop5       func(abbr string) bool
}

type Top5Item struct {
	Count  int     `json:"count"`
	Points float64 `json:"points"`
}

type CloseGameItem struct {
	Margin int     `json:"margin"`
	Points float64 `json:"points"`
}

type TotalPointsItem struct {
	Total        int     `json:"total"`
	Threshold    int     `json:"threshold"`
	ThresholdMet bool    `json:"threshold_met"`
	Points       float64 `json:"points"`
}

type StarPowerItem struct {
	Count  int     `json:"count"`
	Points float64 `json:"points"`
}

type FavoriteTeamItem struct {
	Team        string  `json:"team,omitempty"`
	HasFavorite bool    `json:"has_favorite"`
	Points      float64 `json:"points"`
}

type LeadChangesItem struct {
	Count  int     `json:"count"`
	Points float64 `json:"points"`
}

type BuzzItem struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning,omitempty"`
	Points    float64 `json:"points"`
}

// Breakdown itemizes every factor of a game's score.
type Breakdown struct {
	Top5Teams    Top5Item         `json:"top5_teams"`
	CloseGame    CloseGameItem    `json:"close_game"`
	TotalPoints  TotalPointsItem  `json:"total_points"`
	StarPower    StarPowerItem    `json:"star_power"`
	FavoriteTeam FavoriteTeamItem `json:"favorite_team"`
	LeadChanges  LeadChangesItem  `json:"lead_changes"`
	Buzz         BuzzItem         `json:"buzz"`
	Total        float64          `json:"total"`
}

// Engine scores games. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine builds an Engine. Invalid weights fall back to DefaultWeights.
func NewEngine(w Weights) *Engine {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	return &Engine{weights: w}
}

// Weights returns the active weighting.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score computes the breakdown for one game.
func (e *Engine) Score(game games.GameRecord, in Inputs) Breakdown {
	w := e.weights
	b := Breakdown{
		Top5Teams:    e.top5(game, in.IsTop5),
		CloseGame:    e.closeGame(game.FinalMargin()),
		TotalPoints:  e.totalPoints(game.TotalPoints()),
		StarPower:    StarPowerItem{Count: game.StarPlayersCount, Points: capped(float64(game.StarPlayersCount)*w.PointsPerStar, w.StarPowerMax)},
		FavoriteTeam: e.favorite(game, in.FavoriteTeam),
		LeadChanges:  LeadChangesItem{Count: game.LeadChanges, Points: capped(float64(game.LeadChanges)*w.PointsPerLeadChange, w.LeadChangesMax)},
		Buzz:         e.buzz(in.Buzz),
	}
	b.Total = b.Top5Teams.Points + b.CloseGame.Points + b.TotalPoints.Points +
		b.StarPower.Points + b.FavoriteTeam.Points + b.LeadChanges.Points + b.Buzz.Points
	return b
}

func (e *Engine) top5(game games.GameRecord, isTop5 func(string) bool) Top5Item {
	item := Top5Item{}
	if isTop5 == nil {
		return item
	}
	if isTop5(game.HomeTeam.Abbreviation) {
		item.Count++
	}
	if isTop5(game.AwayTeam.Abbreviation) {
		item.Count++
	}
	switch item.Count {
	case 1:
		item.Points = e.weights.Top5OneTeam
	case 2:
		item.Points = e.weights.Top5BothTeams
	}
	return item
}

// closeGame interpolates linearly from the max at margin 0 down to 0 at the blowout margin.
func (e *Engine) closeGame(margin int) CloseGameItem {
	item := CloseGameItem{Margin: margin}
	blowout := e.weights.BlowoutMargin
	if margin >= blowout {
		return item
	}
	item.Points = e.weights.CloseGameMax * float64(blowout-margin) / float64(blowout)
	return item
}

func (e *Engine) totalPoints(total int) TotalPointsItem {
	item := TotalPointsItem{Total: total, Threshold: e.weights.HighScoringThreshold}
	if total >= e.weights.HighScoringThreshold {
		item.ThresholdMet = true
		item.Points = e.weights.TotalPointsBonus
	}
	return item
}

func (e *Engine) favorite(game games.GameRecord, team string) FavoriteTeamItem {
	team = teams.Normalize(team)
	item := FavoriteTeamItem{Team: team}
	if team != "" && game.HasTeam(team) {
		item.HasFavorite = true
		item.Points = e.weights.FavoriteTeamBonus
	}
	return item
}

func (e *Engine) buzz(r *buzz.Result) BuzzItem {
	if r == nil {
		return BuzzItem{}
	}
	score := buzz.Clamp(r.Score)
	return BuzzItem{
		Score:     score,
		Reasoning: r.Reasoning,
		Points:    capped(score, e.weights.BuzzMax),
	}
}

func capped(v, limit float64) float64 {
	return math.Max(0, math.Min(v, limit))
}
