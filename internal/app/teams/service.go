package teams

import (
	"context"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
)

// Ranking reports whether a team currently sits in the league's top five.
type Ranking interface {
	IsTop5Team(ctx context.Context, abbr string) bool
}

// TeamView is a vocabulary entry annotated with live reference data.
type TeamView struct {
	teams.Team
	Top5 bool `json:"top5"`
}

// Service lists the team vocabulary for favorite-team pickers.
type Service struct {
	ranking Ranking
}

// NewService constructs a Service. A nil ranking marks no team as top five.
func NewService(ranking Ranking) *Service {
	return &Service{ranking: ranking}
}

// Teams returns every team sorted by abbreviation.
func (s *Service) Teams(ctx context.Context) []TeamView {
	all := teams.All()
	out := make([]TeamView, 0, len(all))
	for _, t := range all {
		view := TeamView{Team: t}
		if s.ranking != nil {
			view.Top5 = s.ranking.IsTop5Team(ctx, t.Abbreviation)
		}
		out = append(out, view)
	}
	return out
}

// TeamByAbbreviation looks up one team, ignoring case.
func (s *Service) TeamByAbbreviation(ctx context.Context, abbr string) (TeamView, bool) {
	t, ok := teams.Lookup(abbr)
	if !ok {
		return TeamView{}, false
	}
	view := TeamView{Team: t}
	if s.ranking != nil {
		view.Top5 = s.ranking.IsTop5Team(ctx, t.Abbreviation)
	}
	return view, true
}
