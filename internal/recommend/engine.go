// Package recommend ranks recently completed games by how worth watching they are.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/buzz"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/scoring"
	"github.com/preston-bernstein/nba-game-recommender/internal/timeutil"
)

const (
	MinDays     = 1
	MaxDays     = 30
	DefaultDays = 7
)

// Query selects the window and the optional favorite team.
type Query struct {
	Days         int
	FavoriteTeam string
}

// Config wires an Engine.
type Config struct {
	Provider     providers.GameProvider
	Buzz         buzz.Provider
	Scorer       *scoring.Engine
	Location     *time.Location
	// FetchTimeout and FetchPerDay size the fetch deadline as
	// FetchTimeout + days*FetchPerDay; see providers.FetchBudget.
	FetchTimeout time.Duration
	FetchPerDay  time.Duration
	Logger       *slog.Logger
}

// Engine fetches, enriches, scores and ranks games. It keeps no per-call state.
type Engine struct {
	provider     providers.GameProvider
	buzz         buzz.Provider
	scorer       *scoring.Engine
	loc          *time.Location
	fetchTimeout time.Duration
	fetchPerDay  time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		provider:     cfg.Provider,
		buzz:         cfg.Buzz,
		scorer:       cfg.Scorer,
		loc:          cfg.Location,
		fetchTimeout: cfg.FetchTimeout,
		fetchPerDay:  cfg.FetchPerDay,
		logger:       cfg.Logger,
		now:          time.Now,
	}
	if e.scorer == nil {
		e.scorer = scoring.NewEngine(scoring.DefaultWeights())
	}
	if e.loc == nil {
		e.loc = providers.LeagueLocation("")
	}
	return e
}

// Weights exposes the active scoring weights.
func (e *Engine) Weights() scoring.Weights {
	return e.scorer.Weights()
}

// GetBestGame returns the top-ranked game in an envelope.
func (e *Engine) GetBestGame(ctx context.Context, days int, favoriteTeam string) BestGameResult {
	best, err := e.BestGame(ctx, Query{Days: days, FavoriteTeam: favoriteTeam})
	if err != nil {
		return BestGameResult{Result: failure(err)}
	}
	return BestGameResult{Result: Result{Success: true}, Data: &best}
}

// GetAllGamesRanked returns every game in rank order in an envelope.
func (e *Engine) GetAllGamesRanked(ctx context.Context, days int, favoriteTeam string) RankedResult {
	ranked, err := e.RankGames(ctx, Query{Days: days, FavoriteTeam: favoriteTeam})
	if err != nil {
		return RankedResult{Result: failure(err), Data: []RankedGame{}}
	}
	return RankedResult{Result: Result{Success: true}, Count: len(ranked), Data: ranked}
}

// BestGame returns the head of RankGames.
func (e *Engine) BestGame(ctx context.Context, q Query) (RankedGame, error) {
	ranked, err := e.RankGames(ctx, q)
	if err != nil {
		return RankedGame{}, err
	}
	return ranked[0], nil
}

// RankGames scores every completed game in the last q.Days days and sorts
// them by total descending, then date descending, then id ascending.
// An empty window is a CodeNoGames error.
func (e *Engine) RankGames(ctx context.Context, q Query) (ranked []RankedGame, err error) {
	q, err = normalize(q)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx, e.logger)
	if logger != nil {
		logger = logger.With(slog.Int(logging.FieldDays, q.Days), slog.String(logging.FieldTeam, q.FavoriteTeam))
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Error(logger, "ranking panicked", fmt.Errorf("%v", r))
			ranked = nil
			err = &Error{Code: CodeInternal, Message: "unexpected error while ranking games", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if e.provider == nil {
		return nil, &Error{Code: CodeInternal, Message: "no game provider configured", Err: providers.ErrProviderUnavailable}
	}

	records, err := e.fetch(ctx, q)
	if err != nil {
		logging.Error(logger, "game fetch failed", err)
		return nil, &Error{Code: CodeUpstreamTimeout, Message: "game data is temporarily unavailable", Err: err}
	}

	valid := make([]games.GameRecord, 0, len(records))
	for _, g := range records {
		if verr := g.Validate(); verr != nil {
			logging.Warn(logger, "dropping invalid game record", slog.String(logging.FieldGameID, g.ID), slog.Any("error", verr))
			continue
		}
		valid = append(valid, g)
	}
	if len(valid) == 0 {
		return nil, &Error{Code: CodeNoGames, Message: fmt.Sprintf("no completed games in the last %d days", q.Days)}
	}

	var scores map[string]buzz.Result
	if e.buzz != nil && e.buzz.Available() {
		scores = e.buzz.ScoreBatch(ctx, valid)
	}

	isTop5 := func(abbr string) bool { return e.provider.IsTop5Team(ctx, abbr) }
	ranked = make([]RankedGame, 0, len(valid))
	for _, g := range valid {
		in := scoring.Inputs{FavoriteTeam: q.FavoriteTeam, IsTop5: isTop5}
		if r, ok := scores[g.ID]; ok {
			in.Buzz = &r
		}
		b := e.scorer.Score(g, in)
		ranked = append(ranked, RankedGame{Game: g, Score: b.Total, Breakdown: b})
	}
	sortRanked(ranked)

	logging.Info(logger, "games ranked", slog.Int(logging.FieldCount, len(ranked)))
	return ranked, nil
}

func (e *Engine) fetch(ctx context.Context, q Query) ([]games.GameRecord, error) {
	start, end := timeutil.Window(e.now(), q.Days, e.loc)
	fetchCtx, cancel := context.WithTimeout(ctx, providers.FetchBudget(e.fetchTimeout, e.fetchPerDay, q.Days))
	defer cancel()

	records, err := e.provider.FetchCompletedGames(fetchCtx, start, end)
	if err == nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
		err = fetchCtx.Err()
	}
	return records, err
}

func normalize(q Query) (Query, error) {
	if q.Days < MinDays || q.Days > MaxDays {
		return q, validationError("days must be between %d and %d", MinDays, MaxDays)
	}
	q.FavoriteTeam = teams.Normalize(q.FavoriteTeam)
	if q.FavoriteTeam != "" && !teams.IsKnown(q.FavoriteTeam) {
		return q, validationError("unknown team %q", q.FavoriteTeam)
	}
	return q, nil
}

func sortRanked(ranked []RankedGame) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Game.Date != b.Game.Date {
			return a.Game.Date > b.Game.Date
		}
		return a.Game.ID < b.Game.ID
	})
}
