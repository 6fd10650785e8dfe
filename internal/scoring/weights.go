package scoring

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights are the tunable caps and bonuses of each factor.
type Weights struct {
	CloseGameMax         float64 `yaml:"close_game_max" json:"close_game_max"`
	BlowoutMargin        int     `yaml:"blowout_margin" json:"blowout_margin"`
	HighScoringThreshold int     `yaml:"high_scoring_threshold" json:"high_scoring_threshold"`
	TotalPointsBonus     float64 `yaml:"total_points_bonus" json:"total_points_bonus"`
	PointsPerStar        float64 `yaml:"points_per_star" json:"points_per_star"`
	StarPowerMax         float64 `yaml:"star_power_max" json:"star_power_max"`
	Top5OneTeam          float64 `yaml:"top5_one_team" json:"top5_one_team"`
	Top5BothTeams        float64 `yaml:"top5_both_teams" json:"top5_both_teams"`
	FavoriteTeamBonus    float64 `yaml:"favorite_team_bonus" json:"favorite_team_bonus"`
	PointsPerLeadChange  float64 `yaml:"points_per_lead_change" json:"points_per_lead_change"`
	LeadChangesMax       float64 `yaml:"lead_changes_max" json:"lead_changes_max"`
	BuzzMax              float64 `yaml:"buzz_max" json:"buzz_max"`
}

// DefaultWeights returns the shipped weighting.
func DefaultWeights() Weights {
	return Weights{
		CloseGameMax:         20,
		BlowoutMargin:        20,
		HighScoringThreshold: 220,
		TotalPointsBonus:     10,
		PointsPerStar:        5,
		StarPowerMax:         20,
		Top5OneTeam:          10,
		Top5BothTeams:        25,
		FavoriteTeamBonus:    20,
		PointsPerLeadChange:  1,
		LeadChangesMax:       15,
		BuzzMax:              40,
	}
}

var errInvalidWeights = errors.New("invalid scoring weights")

// Validate rejects weightings that break the factor shapes.
func (w Weights) Validate() error {
	if w.BlowoutMargin <= 0 {
		return fmt.Errorf("%w: blowout_margin must be positive", errInvalidWeights)
	}
	for name, v := range map[string]float64{
		"close_game_max":         w.CloseGameMax,
		"total_points_bonus":     w.TotalPointsBonus,
		"points_per_star":        w.PointsPerStar,
		"star_power_max":         w.StarPowerMax,
		"top5_one_team":          w.Top5OneTeam,
		"favorite_team_bonus":    w.FavoriteTeamBonus,
		"points_per_lead_change": w.PointsPerLeadChange,
		"lead_changes_max":       w.LeadChangesMax,
		"buzz_max":               w.BuzzMax,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must be non-negative", errInvalidWeights, name)
		}
	}
	if w.Top5BothTeams <= 2*w.Top5OneTeam && w.Top5OneTeam > 0 {
		return fmt.Errorf("%w: top5_both_teams must exceed twice top5_one_team", errInvalidWeights)
	}
	return nil
}

// LoadWeights reads a YAML override file on top of DefaultWeights.
// Keys absent from the file keep their default value.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("parse scoring config: %w", err)
	}
	if err := w.Validate(); err != nil {
		return DefaultWeights(), err
	}
	return w, nil
}
