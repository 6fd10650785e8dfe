package stored

import (
	"context"
	"errors"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/store"
	"github.com/preston-bernstein/nba-game-recommender/internal/timeutil"
)

const providerName = "stored"

// TopTeams answers top-5 questions for games read from the store.
type TopTeams interface {
	IsTop5Team(ctx context.Context, abbr string) bool
	RefreshReferenceData()
}

// Provider serves games persisted by the sync job. Reference data is
// delegated to the live provider that fed the store.
type Provider struct {
	store store.GameStore
	ref   TopTeams
	loc   *time.Location
}

// New builds a stored provider. ref may be nil, in which case no team is top-5.
func New(s store.GameStore, ref TopTeams, timezone string) *Provider {
	return &Provider{
		store: s,
		ref:   ref,
		loc:   providers.LeagueLocation(timezone),
	}
}

func (p *Provider) Name() string { return providerName }

// FetchCompletedGames reads the window's games from the store.
func (p *Provider) FetchCompletedGames(ctx context.Context, start, end time.Time) ([]games.GameRecord, error) {
	if p.store == nil {
		return nil, providers.ErrProviderUnavailable
	}
	startDay := timeutil.FormatDate(start.In(p.loc))
	endDay := timeutil.FormatDate(end.In(p.loc))
	if startDay > endDay {
		return []games.GameRecord{}, nil
	}
	out, err := p.store.GamesBetween(ctx, startDay, endDay)
	if err != nil {
		return nil, errors.Join(providers.ErrProviderUnavailable, err)
	}
	return out, nil
}

func (p *Provider) IsTop5Team(ctx context.Context, abbr string) bool {
	if p.ref == nil {
		return false
	}
	return p.ref.IsTop5Team(ctx, abbr)
}

func (p *Provider) RefreshReferenceData() {
	if p.ref != nil {
		p.ref.RefreshReferenceData()
	}
}
