// Package recommendations serves engine results through a response cache.
package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/cache"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
	"github.com/preston-bernstein/nba-game-recommender/internal/scoring"
)

const DefaultTTL = 5 * time.Minute

// Ranker is the engine surface the service needs.
type Ranker interface {
	GetAllGamesRanked(ctx context.Context, days int, favoriteTeam string) recommend.RankedResult
	Weights() scoring.Weights
}

// Config wires a Service. A nil Cache disables caching.
type Config struct {
	Engine  Ranker
	Cache   cache.Cache
	TTL     time.Duration
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// Service answers recommendation queries, reusing recent answers for the same query.
type Service struct {
	engine  Ranker
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func NewService(cfg Config) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		engine:  cfg.Engine,
		cache:   cfg.Cache,
		ttl:     ttl,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// BestGame returns the top game for the query. It is derived from the ranked
// answer for the same query so both stay consistent and share one upstream fetch.
func (s *Service) BestGame(ctx context.Context, days int, favoriteTeam string) recommend.BestGameResult {
	key := cacheKey("best", days, favoriteTeam)
	return lookup(ctx, s, key, func() recommend.BestGameResult {
		return bestOf(s.RankedGames(ctx, days, favoriteTeam))
	}, func(r recommend.BestGameResult) bool { return cacheable(r.Result) })
}

// RankedGames returns every game in the window in rank order.
func (s *Service) RankedGames(ctx context.Context, days int, favoriteTeam string) recommend.RankedResult {
	key := cacheKey("ranked", days, favoriteTeam)
	return lookup(ctx, s, key, func() recommend.RankedResult {
		return s.engine.GetAllGamesRanked(ctx, days, favoriteTeam)
	}, func(r recommend.RankedResult) bool { return cacheable(r.Result) })
}

// Weights reports the scoring weights behind every answer.
func (s *Service) Weights() scoring.Weights {
	return s.engine.Weights()
}

// Invalidate drops every cached answer.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear response cache: %w", err)
	}
	return nil
}

func bestOf(ranked recommend.RankedResult) recommend.BestGameResult {
	if !ranked.Success || len(ranked.Data) == 0 {
		res := ranked.Result
		if res.Success {
			res = recommend.Result{ErrorCode: recommend.CodeNoGames, Error: "no completed games in range"}
		}
		return recommend.BestGameResult{Result: res}
	}
	best := ranked.Data[0]
	return recommend.BestGameResult{Result: ranked.Result, Data: &best}
}

// Validation and upstream failures are never cached so a retry can succeed.
func cacheable(r recommend.Result) bool {
	return r.Success || r.ErrorCode == recommend.CodeNoGames
}

func cacheKey(kind string, days int, favoriteTeam string) string {
	return fmt.Sprintf("%s:%d:%s", kind, days, teams.Normalize(favoriteTeam))
}

func lookup[T any](ctx context.Context, s *Service, key string, compute func() T, store func(T) bool) T {
	logger := logging.FromContext(ctx, s.logger)
	if s.cache == nil {
		return compute()
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(logger, "response cache read failed", slog.String(logging.FieldCacheKey, key), slog.Any("error", err))
	}
	if ok {
		var hit T
		if err := json.Unmarshal(raw, &hit); err == nil {
			s.metrics.RecordCacheLookup(true)
			logging.Debug(logger, "response cache hit", slog.String(logging.FieldCacheKey, key))
			return hit
		}
		logging.Warn(logger, "discarding undecodable cache entry", slog.String(logging.FieldCacheKey, key))
	}
	s.metrics.RecordCacheLookup(false)

	result := compute()
	if !store(result) {
		return result
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		logging.Error(logger, "encode cache entry", err, slog.String(logging.FieldCacheKey, key))
		return result
	}
	if err := s.cache.Set(ctx, key, encoded, s.ttl); err != nil {
		logging.Warn(logger, "response cache write failed", slog.String(logging.FieldCacheKey, key), slog.Any("error", err))
	}
	return result
}
